package config

// ControlStep 指定模拟器模拟时间步长和时间上限的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Interval float64 `yaml:"interval"` // 每个物理步的时间间隔（秒）
	MaxTime  float64 `yaml:"max_time"` // 最大模拟时长（秒），2倍该值为强制结束时刻
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
}

// Road 道路配置
// 功能：定义被模拟路段的几何与分段参数
// 说明：几何文件可选，缺失或非法时采用全直线道路
type Road struct {
	Length         float64   `yaml:"length"`                    // 路段长度（米）
	Lanes          int       `yaml:"lanes"`                     // 车道数
	SegmentSpacing float64   `yaml:"segment_spacing"`           // 统计分段间距（米）
	Gantries       []float64 `yaml:"gantries,omitempty"`        // 自定义门架里程（作为分段边界，可选）
	GeometryFile   string    `yaml:"geometry_file,omitempty"`   // 道路几何文件路径（可选）
	Scale          float64   `yaml:"scale,omitempty"`           // 几何坐标到米的缩放系数
}

// TypeRatios 车辆类型混合比例
type TypeRatios struct {
	Car   float64 `yaml:"car"`   // 小汽车比例
	Truck float64 `yaml:"truck"` // 货车比例
	Bus   float64 `yaml:"bus"`   // 大巴比例
}

// StyleRatios 驾驶风格混合比例
type StyleRatios struct {
	Aggressive   float64 `yaml:"aggressive"`   // 激进型比例
	Normal       float64 `yaml:"normal"`       // 普通型比例
	Conservative float64 `yaml:"conservative"` // 保守型比例
}

// Vehicle 车辆投放配置
type Vehicle struct {
	Total       int         `yaml:"total"`        // 投放车辆总数
	TypeRatios  TypeRatios  `yaml:"type_ratios"`  // 车辆类型比例
	StyleRatios StyleRatios `yaml:"style_ratios"` // 驾驶风格比例
}

// Anomaly 异常注入配置
// 功能：定义异常车辆的触发概率、持续时间与影响传播参数
type Anomaly struct {
	Ratio             float64   `yaml:"ratio"`              // 具备异常资格车辆的比例
	StartTime         float64   `yaml:"start_time"`         // 全局异常起始时刻（秒）
	SafeRunTime       float64   `yaml:"safe_run_time"`      // 车辆投放后的安全行驶时间（秒）
	TypeWeights       []float64 `yaml:"type_weights"`       // 三种异常类型的相对概率
	StallDuration     float64   `yaml:"stall_duration"`     // 类型1（抛锚停车）持续时间（秒）
	ShortDuration     float64   `yaml:"short_duration"`     // 类型2（短时减速）持续时间（秒）
	LongDuration      float64   `yaml:"long_duration"`      // 类型3（长时减速）持续时间（秒）
	DiscoveryDistance float64   `yaml:"discovery_distance"` // 周边异常感知半径（米）
	SlowdownRatio     float64   `yaml:"slowdown_ratio"`     // 前方每个异常对加速度的衰减系数
	ImpactThreshold   float64   `yaml:"impact_threshold"`   // 受影响判定的衰减系数阈值
}

// Output 输出采样配置
type Output struct {
	SegmentInterval      float64 `yaml:"segment_interval"`       // 分段统计采样周期（秒）
	TrajectoryInterval   float64 `yaml:"trajectory_interval"`    // 轨迹采样周期（秒）
	MaxTrajectoryPoints  int     `yaml:"max_trajectory_points"`  // 下采样后轨迹点数上限
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control"` // 模拟过程控制
	Road    Road    `yaml:"road"`    // 道路
	Vehicle Vehicle `yaml:"vehicle"` // 车辆投放
	Anomaly Anomaly `yaml:"anomaly"` // 异常注入
	Output  Output  `yaml:"output"`  // 输出采样
	Seed    uint64  `yaml:"seed"`    // 随机数种子
}
