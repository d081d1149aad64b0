package stats

// TrajectoryPoint 轨迹点
// 功能：某一采样时刻单辆车的完整状态记录
type TrajectoryPoint struct {
	T float64 // 采样时刻（秒）
	VehicleState
}

// Sampler 轨迹采样器
// 功能：周期性记录所有在途车辆的状态点，
// 对外输出时按固定步长下采样到点数上限以内
type Sampler struct {
	interval  float64 // 采样周期（秒）
	maxPoints int     // 下采样后点数上限

	nextT  float64           // 下一次采样时刻（秒）
	points []TrajectoryPoint // 原始轨迹点流（时间有序）
}

// NewSampler 创建轨迹采样器
// 参数：interval-采样周期（秒），maxPoints-下采样后点数上限
func NewSampler(interval float64, maxPoints int) *Sampler {
	return &Sampler{
		interval:  interval,
		maxPoints: maxPoints,
		nextT:     interval,
	}
}

// Due 判断指定时刻是否需要采样
func (s *Sampler) Due(t float64) bool {
	return t >= s.nextT
}

// Sample 执行一次轨迹采样
// 参数：t-采样时刻（秒），states-在途车辆状态
func (s *Sampler) Sample(t float64, states []VehicleState) {
	for _, st := range states {
		s.points = append(s.points, TrajectoryPoint{T: t, VehicleState: st})
	}
	s.nextT += s.interval
}

// Count 获取原始轨迹点数
func (s *Sampler) Count() int {
	return len(s.points)
}

// Points 获取原始轨迹点流
func (s *Sampler) Points() []TrajectoryPoint {
	return s.points
}

// Subsampled 获取下采样后的轨迹点流
// 功能：将原始轨迹点流均匀抽稀到点数上限以内
// 返回：下采样结果，保持时间顺序
// 算法说明：
// 1. 点数不超过上限时原样返回
// 2. 否则步长 = ceil(总数/上限)，每隔步长取一点
// 说明：步长确定后结果完全确定，与采样时刻无关
func (s *Sampler) Subsampled() []TrajectoryPoint {
	if len(s.points) <= s.maxPoints {
		return s.points
	}
	stride := (len(s.points) + s.maxPoints - 1) / s.maxPoints
	out := make([]TrajectoryPoint, 0, len(s.points)/stride+1)
	for i := 0; i < len(s.points); i += stride {
		out = append(out, s.points[i])
	}
	return out
}
