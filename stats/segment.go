package stats

import (
	"fmt"
	"math"
)

// SegmentRecord 分段统计记录
// 功能：某一采样时刻单个分段的速度/密度/流量快照
// 说明：不可变记录，生成后只追加不修改
type SegmentRecord struct {
	T       float64 // 采样时刻（秒）
	Index   int     // 分段序号
	Count   int     // 分段内车辆数
	AvgV    float64 // 平均速度（米/秒）
	Density float64 // 密度（辆/米/车道）
	Flow    float64 // 流量 = 密度×平均速度
}

// NewBoundaries 构建分段边界
// 功能：生成恰好划分[0, length]的分段边界序列
// 参数：length-道路长度（米），spacing-固定分段间距（米），gantries-自定义门架里程（可选）
// 返回：升序边界序列，首元素为0，末元素为length
// 算法说明：
// 1. 提供门架时边界为{0, 门架..., length}
// 2. 否则按固定间距切分，末段吸收余数
// 说明：门架里程的合法性（严格递增且在道路范围内）由配置校验保证
func NewBoundaries(length, spacing float64, gantries []float64) []float64 {
	if len(gantries) > 0 {
		boundaries := make([]float64, 0, len(gantries)+2)
		boundaries = append(boundaries, 0)
		boundaries = append(boundaries, gantries...)
		return append(boundaries, length)
	}
	n := int(math.Ceil(length / spacing))
	if n < 1 {
		n = 1
	}
	boundaries := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		boundaries = append(boundaries, float64(i)*spacing)
	}
	return append(boundaries, length)
}

// SegmentIndexOf 查询里程所属的分段序号
// 参数：boundaries-分段边界，s-里程（米）
// 返回：分段序号；s落在[boundaries[i], boundaries[i+1])时返回i，
// s等于道路末端时归入最后一段，超出范围时返回-1
func SegmentIndexOf(boundaries []float64, s float64) int {
	last := len(boundaries) - 1
	if s < boundaries[0] || s > boundaries[last] {
		return -1
	}
	for i := 1; i <= last; i++ {
		if s < boundaries[i] {
			return i - 1
		}
	}
	return last - 1
}

// Aggregator 分段聚合器
// 功能：周期性消费在途车辆状态，生成每个分段的统计快照
type Aggregator struct {
	boundaries []float64 // 分段边界
	laneCount  int       // 车道数
	interval   float64   // 采样周期（秒）

	nextT   float64         // 下一次采样时刻（秒）
	records []SegmentRecord // 累计的统计记录
	cursor  int             // 已对外推送的记录游标
}

// NewAggregator 创建分段聚合器
// 参数：length-道路长度，spacing-分段间距，gantries-门架里程，laneCount-车道数，interval-采样周期
func NewAggregator(length, spacing float64, gantries []float64, laneCount int, interval float64) (*Aggregator, error) {
	boundaries := NewBoundaries(length, spacing, gantries)
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return nil, fmt.Errorf("stats: segment boundaries not strictly increasing: %v", boundaries)
		}
	}
	return &Aggregator{
		boundaries: boundaries,
		laneCount:  laneCount,
		interval:   interval,
		nextT:      interval,
	}, nil
}

// Boundaries 获取分段边界
func (a *Aggregator) Boundaries() []float64 {
	return a.boundaries
}

// Due 判断指定时刻是否需要采样
func (a *Aggregator) Due(t float64) bool {
	return t >= a.nextT
}

// Sample 执行一次分段采样
// 功能：对每个分段统计车辆数、平均速度、密度与流量
// 参数：t-采样时刻（秒），states-在途车辆状态
// 算法说明：
// 1. 将车辆按里程归入分段
// 2. 密度 = 车辆数 / (分段长度×车道数)，流量 = 密度×平均速度
// 3. 每个分段追加一条不可变记录（包括空分段）
func (a *Aggregator) Sample(t float64, states []VehicleState) {
	nSeg := len(a.boundaries) - 1
	counts := make([]int, nSeg)
	speedSums := make([]float64, nSeg)
	for _, st := range states {
		idx := SegmentIndexOf(a.boundaries, st.S)
		if idx < 0 {
			log.Errorf("aggregator: vehicle %d out of road range: s=%v", st.ID, st.S)
			continue
		}
		counts[idx]++
		speedSums[idx] += st.V
	}
	for i := 0; i < nSeg; i++ {
		segLen := a.boundaries[i+1] - a.boundaries[i]
		avgV := 0.0
		if counts[i] > 0 {
			avgV = speedSums[i] / float64(counts[i])
		}
		density := float64(counts[i]) / (segLen * float64(a.laneCount))
		a.records = append(a.records, SegmentRecord{
			T:       t,
			Index:   i,
			Count:   counts[i],
			AvgV:    avgV,
			Density: density,
			Flow:    density * avgV,
		})
	}
	a.nextT += a.interval
}

// Records 获取全部统计记录
func (a *Aggregator) Records() []SegmentRecord {
	return a.records
}

// PopNewRecords 取出自上次调用以来新增的统计记录
// 说明：供快照推送使用，游标单调前进
func (a *Aggregator) PopNewRecords() []SegmentRecord {
	if a.cursor >= len(a.records) {
		return nil
	}
	news := a.records[a.cursor:]
	a.cursor = len(a.records)
	return news
}
