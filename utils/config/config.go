package config

import (
	"fmt"
	"math"
)

const ratioSumTolerance = 1e-6 // 比例之和允许的浮点误差

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，所有默认值在此补齐
// 说明：配置校验通过后才会构造RuntimeConfig，
// 模拟核心只读取该对象，不回读原始YAML结构
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补齐缺省值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 缺省分段间距取500米
// 2. 缺省几何缩放系数取1.0
// 3. 缺省输出采样周期取30秒/10秒，轨迹点数上限取100000
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	if config.Road.SegmentSpacing <= 0 {
		config.Road.SegmentSpacing = 500
	}
	if config.Road.Scale <= 0 {
		config.Road.Scale = 1.0
	}
	if config.Output.SegmentInterval <= 0 {
		config.Output.SegmentInterval = 30
	}
	if config.Output.TrajectoryInterval <= 0 {
		config.Output.TrajectoryInterval = 10
	}
	if config.Output.MaxTrajectoryPoints <= 0 {
		config.Output.MaxTrajectoryPoints = 100_000
	}

	rc.All = config
	rc.C = config.Control

	return rc
}

// checkRatio 检查单个比例值是否在[0,1]范围内
func checkRatio(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("config: %s must be in [0,1], got %v", name, v)
	}
	return nil
}

// Validate 校验配置合法性
// 功能：在模拟启动前拒绝非法配置，绝不静默修正
// 返回：第一个发现的配置错误，合法则返回nil
// 算法说明：
// 1. 时间步长与时间上限必须为正
// 2. 道路长度、车道数、车辆总数必须为正
// 3. 各混合比例必须落在[0,1]且各组之和为1
// 4. 异常持续时间、感知半径、衰减系数必须为正
// 5. 门架里程必须严格递增且落在(0, 道路长度)内
func (c Config) Validate() error {
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("config: control.step.interval must be positive, got %v", c.Control.Step.Interval)
	}
	if c.Control.Step.MaxTime <= 0 {
		return fmt.Errorf("config: control.step.max_time must be positive, got %v", c.Control.Step.MaxTime)
	}
	if c.Road.Length <= 0 {
		return fmt.Errorf("config: road.length must be positive, got %v", c.Road.Length)
	}
	if c.Road.Lanes <= 0 {
		return fmt.Errorf("config: road.lanes must be positive, got %v", c.Road.Lanes)
	}
	if c.Vehicle.Total <= 0 {
		return fmt.Errorf("config: vehicle.total must be positive, got %v", c.Vehicle.Total)
	}

	typeSum := c.Vehicle.TypeRatios.Car + c.Vehicle.TypeRatios.Truck + c.Vehicle.TypeRatios.Bus
	for name, v := range map[string]float64{
		"vehicle.type_ratios.car":   c.Vehicle.TypeRatios.Car,
		"vehicle.type_ratios.truck": c.Vehicle.TypeRatios.Truck,
		"vehicle.type_ratios.bus":   c.Vehicle.TypeRatios.Bus,
	} {
		if err := checkRatio(name, v); err != nil {
			return err
		}
	}
	if math.Abs(typeSum-1) > ratioSumTolerance {
		return fmt.Errorf("config: vehicle.type_ratios must sum to 1, got %v", typeSum)
	}

	styleSum := c.Vehicle.StyleRatios.Aggressive + c.Vehicle.StyleRatios.Normal + c.Vehicle.StyleRatios.Conservative
	for name, v := range map[string]float64{
		"vehicle.style_ratios.aggressive":   c.Vehicle.StyleRatios.Aggressive,
		"vehicle.style_ratios.normal":       c.Vehicle.StyleRatios.Normal,
		"vehicle.style_ratios.conservative": c.Vehicle.StyleRatios.Conservative,
	} {
		if err := checkRatio(name, v); err != nil {
			return err
		}
	}
	if math.Abs(styleSum-1) > ratioSumTolerance {
		return fmt.Errorf("config: vehicle.style_ratios must sum to 1, got %v", styleSum)
	}

	if err := checkRatio("anomaly.ratio", c.Anomaly.Ratio); err != nil {
		return err
	}
	if c.Anomaly.Ratio > 0 {
		if len(c.Anomaly.TypeWeights) != 3 {
			return fmt.Errorf("config: anomaly.type_weights must have 3 entries, got %d", len(c.Anomaly.TypeWeights))
		}
		weightSum := 0.0
		for i, w := range c.Anomaly.TypeWeights {
			if w < 0 {
				return fmt.Errorf("config: anomaly.type_weights[%d] must be non-negative, got %v", i, w)
			}
			weightSum += w
		}
		if weightSum <= 0 {
			return fmt.Errorf("config: anomaly.type_weights must have a positive sum")
		}
		for name, v := range map[string]float64{
			"anomaly.stall_duration":     c.Anomaly.StallDuration,
			"anomaly.short_duration":     c.Anomaly.ShortDuration,
			"anomaly.long_duration":      c.Anomaly.LongDuration,
			"anomaly.discovery_distance": c.Anomaly.DiscoveryDistance,
		} {
			if v <= 0 {
				return fmt.Errorf("config: %s must be positive, got %v", name, v)
			}
		}
		if c.Anomaly.SlowdownRatio <= 0 || c.Anomaly.SlowdownRatio > 1 {
			return fmt.Errorf("config: anomaly.slowdown_ratio must be in (0,1], got %v", c.Anomaly.SlowdownRatio)
		}
		if err := checkRatio("anomaly.impact_threshold", c.Anomaly.ImpactThreshold); err != nil {
			return err
		}
	}

	last := 0.0
	for i, g := range c.Road.Gantries {
		if g <= last || g >= c.Road.Length {
			return fmt.Errorf("config: road.gantries[%d]=%v must be strictly increasing within (0, %v)", i, g, c.Road.Length)
		}
		last = g
	}
	return nil
}
