package task

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/roadsim-oss/clock"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/lane"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/input"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

// Context 仿真任务上下文
// 功能：持有仿真系统的所有组件，驱动模拟主循环
// 说明：物理核心为单线程模型，所有实体更新都在Run所在的goroutine中执行；
// 暂停/恢复/停止指令只在批次边界被处理
type Context struct {
	// 时钟
	clock *clock.Clock
	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// Lane管理器
	laneManager *lane.LaneManager
	// Vehicle管理器
	vehicleManager *vehicle.VehicleManager

	// 道路曲率剖面
	profile *road.Profile
	// 道路几何是否获取失败（使用直线退化剖面）
	geometryUnavailable bool
	// 统计分段边界
	boundaries []float64
	// 运行级随机数引擎
	engine *randengine.Engine

	// 异常事件日志
	events *stats.EventLog
	// 分段聚合器
	aggregator *stats.Aggregator
	// 轨迹采样器
	sampler *stats.Sampler
	// 外部观察者
	observer stats.Observer

	// 运行状态
	state atomic.Int32
	// 外部控制指令
	commands chan command
	// 结束统计是否已推送
	finalized bool
}

// NewContext 创建新的仿真任务上下文
// 功能：校验配置并初始化仿真系统的所有组件
// 参数：
//   - c: 配置对象
//   - in: 输入数据（道路几何等），nil等价于无几何输入
//   - observer: 外部观察者，nil时使用空实现
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 配置校验，非法配置直接拒绝
// 2. 构建道路曲率剖面：几何缺失或非法时退化为全直线道路并置标志
// 3. 构建统计分段边界、聚合器与轨迹采样器
// 4. 新建各类模拟对象（车道管理器、车辆管理器）
func NewContext(c config.Config, in *input.Input, observer stats.Observer) (*Context, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = stats.NopObserver{}
	}

	ctx := &Context{
		runtimeConfig: config.NewRuntimeConfig(c),
		events:        &stats.EventLog{},
		observer:      observer,
		commands:      make(chan command, 8),
	}
	rc := ctx.runtimeConfig.All
	ctx.clock = clock.New(c.Control.Step)
	ctx.engine = randengine.New(c.Seed)

	// 道路曲率剖面
	ctx.profile = road.Straight(rc.Road.Length)
	if in != nil && in.Geometry != nil {
		profile, err := road.Build(in.Geometry)
		if err != nil {
			log.Warnf("invalid geometry, fall back to straight road: %v", err)
			ctx.geometryUnavailable = true
		} else {
			ctx.profile = profile
			if math.Abs(profile.Length()-rc.Road.Length) > rc.Road.Length*0.01 {
				log.Warnf("geometry length %.1fm differs from configured road length %.1fm",
					profile.Length(), rc.Road.Length)
			}
		}
	} else if rc.Road.GeometryFile != "" {
		// 配置了几何文件却没有加载到几何
		ctx.geometryUnavailable = true
	}

	// 统计组件
	ctx.boundaries = stats.NewBoundaries(rc.Road.Length, rc.Road.SegmentSpacing, rc.Road.Gantries)
	aggregator, err := stats.NewAggregator(
		rc.Road.Length, rc.Road.SegmentSpacing, rc.Road.Gantries,
		rc.Road.Lanes, rc.Output.SegmentInterval)
	if err != nil {
		return nil, fmt.Errorf("task: bad segment boundaries: %w", err)
	}
	ctx.aggregator = aggregator
	ctx.sampler = stats.NewSampler(rc.Output.TrajectoryInterval, rc.Output.MaxTrajectoryPoints)

	// 新建各类模拟对象
	ctx.laneManager = lane.NewManager(ctx)
	ctx.vehicleManager = vehicle.NewManager(ctx)

	ctx.state.Store(int32(StateIdle))
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) LaneManager() entity.ILaneManager {
	return ctx.laneManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) Profile() *road.Profile {
	return ctx.profile
}

func (ctx *Context) Events() *stats.EventLog {
	return ctx.events
}

func (ctx *Context) SegmentBoundaries() []float64 {
	return ctx.boundaries
}

func (ctx *Context) Engine() *randengine.Engine {
	return ctx.engine
}

// GeometryUnavailable 判断道路几何是否获取失败
func (ctx *Context) GeometryUnavailable() bool {
	return ctx.geometryUnavailable
}
