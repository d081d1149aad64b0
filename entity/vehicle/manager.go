package vehicle

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/container"
)

// GlobalRuntime 全局累计统计
type GlobalRuntime struct {
	NumCompletedTrips int32   // 已完成行程数
	TravelTime        float64 // 已完成行程的总行程时间（秒）
	TotalLaneChanges  int32   // 累计变道次数
	TotalAnomalies    int32   // 累计异常事件数
}

// VehicleManager 车辆管理器
// 功能：独占持有在途车辆集合，负责投放、逐车更新与行程结束处理
// 说明：在途集合的增删通过增量数组延迟到物理步边界执行，
// 保证一步内遍历顺序稳定
type VehicleManager struct {
	ctx entity.ITaskContext

	active     *container.IncrementalArray[*Vehicle] // 在途车辆
	activeView []entity.IVehicle                     // 在途车辆的接口视图（每步重建）
	finished   []*Vehicle                            // 已完成车辆
	spawner    *Spawner                              // 发车调度器

	nextVehicleID int32         // 下一个车辆ID
	spawnedCount  int           // 已投放车辆数
	runtime       GlobalRuntime // 全局累计统计
}

// NewManager 创建车辆管理器
// 说明：构造时依据配置生成完整发车时刻表
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	m := &VehicleManager{
		ctx:    ctx,
		active: container.NewIncrementalArray[*Vehicle](),
	}
	m.spawner = newSpawner(ctx, m)
	return m
}

// Active 获取在途车辆的接口视图
// 说明：视图在每个物理步开始时重建，顺序即更新顺序
func (m *VehicleManager) Active() []entity.IVehicle {
	return m.activeView
}

// ActiveCount 获取在途车辆数
func (m *VehicleManager) ActiveCount() int {
	return m.active.Len()
}

// CompletedCount 获取已完成车辆数
func (m *VehicleManager) CompletedCount() int32 {
	return m.runtime.NumCompletedTrips
}

// Finished 获取已完成车辆集合
func (m *VehicleManager) Finished() []*Vehicle {
	return m.finished
}

// Runtime 获取全局累计统计
func (m *VehicleManager) Runtime() GlobalRuntime {
	return m.runtime
}

// ScheduleExhausted 判断发车时刻表是否已耗尽
func (m *VehicleManager) ScheduleExhausted() bool {
	return m.spawner.Exhausted()
}

// DroppedCount 获取因起点净空不足被丢弃的到达数
func (m *VehicleManager) DroppedCount() int {
	return m.spawner.Dropped()
}

// AvgSpeed 获取在途车辆的平均速度
func (m *VehicleManager) AvgSpeed() float64 {
	if m.active.Len() == 0 {
		return 0
	}
	sum := 0.0
	for _, veh := range m.active.Data() {
		sum += veh.v
	}
	return sum / float64(m.active.Len())
}

// AvgTravelTime 获取已完成车辆的平均行程时间
func (m *VehicleManager) AvgTravelTime() float64 {
	if m.runtime.NumCompletedTrips == 0 {
		return 0
	}
	return m.runtime.TravelTime / float64(m.runtime.NumCompletedTrips)
}

// States 生成全部在途车辆的状态快照
func (m *VehicleManager) States() []stats.VehicleState {
	states := make([]stats.VehicleState, 0, m.active.Len())
	for _, veh := range m.active.Data() {
		states = append(states, veh.State())
	}
	return states
}

// Update 车辆管理器更新主函数
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 投放到期车辆，应用增量使新车参与本步更新
// 2. 顺序就地更新每辆车，后更新者可见先更新者的最新状态
// 3. 驶出路段的车辆移出车道链表与在途集合，累计行程时间
// 4. 步末应用增量，使集合长度与下一步可见状态一致
func (m *VehicleManager) Update(dt float64) {
	t := m.ctx.Clock().T

	m.spawner.SpawnVehicles(t)
	m.active.Prepare()
	m.rebuildView()

	for _, veh := range m.active.Data() {
		veh.Update(dt)
		if veh.Finished() {
			m.onFinish(veh)
		}
	}

	m.active.Prepare()
}

// rebuildView 重建在途车辆的接口视图
func (m *VehicleManager) rebuildView() {
	m.activeView = m.activeView[:0]
	for _, veh := range m.active.Data() {
		m.activeView = append(m.activeView, veh)
	}
}

// add 创建并投放一辆新车
// 参数：t-投放时刻，laneIndex-投放车道序号
func (m *VehicleManager) add(t float64, laneIndex int) *Vehicle {
	c := m.ctx.RuntimeConfig().All
	e := m.ctx.Engine()

	class := Class(e.DiscreteDistribution([]float64{
		c.Vehicle.TypeRatios.Car,
		c.Vehicle.TypeRatios.Truck,
		c.Vehicle.TypeRatios.Bus,
	}))
	style := Style(e.DiscreteDistribution([]float64{
		c.Vehicle.StyleRatios.Aggressive,
		c.Vehicle.StyleRatios.Normal,
		c.Vehicle.StyleRatios.Conservative,
	}))
	eligible := c.Anomaly.Ratio > 0 && e.PTrue(c.Anomaly.Ratio)

	id := m.nextVehicleID
	m.nextVehicleID++
	veh := newVehicle(m.ctx, m, id, class, style, t, laneIndex, eligible)
	m.ctx.LaneManager().Get(laneIndex).AddVehicle(veh.node)
	m.active.Add(veh)
	m.spawnedCount++
	return veh
}

// onFinish 行程结束处理
func (m *VehicleManager) onFinish(veh *Vehicle) {
	m.ctx.LaneManager().Get(veh.laneIndex).RemoveVehicle(veh.node)
	m.active.Remove(veh)
	m.finished = append(m.finished, veh)
	m.runtime.NumCompletedTrips++
	m.runtime.TravelTime += veh.finishTime - veh.spawnTime
}

// onLaneChangeStarted 变道发起计数
func (m *VehicleManager) onLaneChangeStarted() {
	m.runtime.TotalLaneChanges++
}

// onAnomalyTriggered 异常触发计数
func (m *VehicleManager) onAnomalyTriggered() {
	m.runtime.TotalAnomalies++
}
