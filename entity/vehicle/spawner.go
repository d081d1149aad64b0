package vehicle

import (
	"sort"

	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/container"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

// 发车调度参数
const (
	spawnCycleLen  = 10.0 // 发车周期长度（秒）
	spawnBatchMin  = 2    // 每周期最小发车数
	spawnBatchMax  = 6    // 每周期最大发车数
	spawnClearance = 50.0 // 投放要求的起点净空距离（米）
	spawnVRatio    = 0.6  // 初速度与期望速度之比
)

// Spawner 发车调度器
// 功能：按预生成的到达时刻表向道路投放车辆
// 说明：时刻表在构造时一次性生成，以到达时刻为优先级入队；
// 投放失败（各车道起点净空不足）时丢弃该到达，保证调度前进
type Spawner struct {
	ctx entity.ITaskContext
	mgr *VehicleManager

	engine  *randengine.Engine                // 运行级随机数引擎
	queue   *container.PriorityQueue[float64] // 待投放到达时刻
	dropped int                               // 因起点净空不足被丢弃的到达数
}

// PlanSpawns 生成升序到达时刻表
// 参数：engine-随机数引擎，n-车辆总数
// 返回：恰好n个升序到达时刻
// 算法说明：
// 1. 逐个周期抽取批次大小（2~6，受剩余数量约束）
// 2. 批内每个到达时刻在周期内均匀抖动
// 3. 排序后截断到恰好n个
func PlanSpawns(engine *randengine.Engine, n int) []float64 {
	times := make([]float64, 0, n)
	for cycle := 0; len(times) < n; cycle++ {
		batch := spawnBatchMin + engine.Intn(spawnBatchMax-spawnBatchMin+1)
		if rest := n - len(times); batch > rest {
			batch = rest
		}
		base := float64(cycle) * spawnCycleLen
		for i := 0; i < batch; i++ {
			times = append(times, base+engine.Float64()*spawnCycleLen)
		}
	}
	sort.Float64s(times)
	return times[:n]
}

// newSpawner 创建发车调度器
func newSpawner(ctx entity.ITaskContext, mgr *VehicleManager) *Spawner {
	sp := &Spawner{
		ctx:    ctx,
		mgr:    mgr,
		engine: ctx.Engine(),
		queue:  container.NewPriorityQueue[float64](),
	}
	for _, ts := range PlanSpawns(sp.engine, ctx.RuntimeConfig().All.Vehicle.Total) {
		sp.queue.Push(ts, ts)
	}
	sp.queue.Heapify()
	return sp
}

// Exhausted 判断时刻表是否已耗尽
func (sp *Spawner) Exhausted() bool {
	return sp.queue.Len() == 0
}

// Pending 获取待投放的到达数
func (sp *Spawner) Pending() int {
	return sp.queue.Len()
}

// Dropped 获取被丢弃的到达数
func (sp *Spawner) Dropped() int {
	return sp.dropped
}

// SpawnVehicles 投放所有到期车辆
// 参数：t-当前模拟时间
// 说明：受投放总数上限约束；无论投放成败，调度游标都前进
func (sp *Spawner) SpawnVehicles(t float64) {
	total := sp.ctx.RuntimeConfig().All.Vehicle.Total
	for sp.queue.Len() > 0 && sp.mgr.spawnedCount < total {
		if _, due := sp.queue.First(); due > t {
			break
		}
		sp.queue.HeapPop()
		sp.placeVehicle(t)
	}
}

// placeVehicle 尝试投放一辆车
// 算法说明：按随机车道序尝试，投放到第一条起点净空足够的车道；
// 全部车道不满足时丢弃该到达
func (sp *Spawner) placeVehicle(t float64) {
	lm := sp.ctx.LaneManager()
	for _, li := range sp.engine.Perm(lm.Count()) {
		if !lm.Get(li).ClearNearOrigin(spawnClearance) {
			continue
		}
		veh := sp.mgr.add(t, li)
		log.Debugf("spawn vehicle %d (%v/%v) at lane %d, t=%.1f",
			veh.id, veh.class, veh.style, li, t)
		return
	}
	sp.dropped++
	log.Debugf("spawn dropped at t=%.1f: no clear lane", t)
}
