package vehicle

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/container"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

// speedCapRatio 速度上限与期望速度之比
const speedCapRatio = 1.1

// SegmentVisit 车辆经过统计分段的进出记录
type SegmentVisit struct {
	Index  int     // 分段序号
	EnterT float64 // 进入时刻（秒）
	ExitT  float64 // 离开时刻（秒），-1表示仍在段内
}

// lcRuntime 车辆的变道子状态
type lcRuntime struct {
	InProgress bool    // 是否正在变道
	Step       int     // 已完成的插值步数
	FromLane   int     // 起始车道序号
	ToLane     int     // 目标车道序号
	StartS     float64 // 变道开始时的里程（米）
	Offset     float64 // 横向完成度（0~1，余弦缓动）
	Cooldown   float64 // 变道冷却剩余时间（秒）
}

// Vehicle 车辆实体
// 功能：微观交通流中的单个车辆，包含静态属性与运行时状态
// 说明：由车辆管理器独占持有，在投放时创建，驶出路段后移入完成集合
type Vehicle struct {
	container.IncrementalItemBase

	ctx entity.ITaskContext
	mgr *VehicleManager

	// 静态属性

	id              int32              // 车辆ID
	class           Class              // 车辆类型
	style           Style              // 驾驶风格
	attr            Attr               // 车辆类型静态属性
	aggressiveness  float64            // 激进系数
	politeness      float64            // 礼让系数
	v0              float64            // 有效期望速度（米/秒）
	maxA            float64            // 有效最大加速度（米/秒²）
	spawnTime       float64            // 投放时刻（秒）
	anomalyEligible bool               // 是否具备异常资格
	generator       *randengine.Engine // 车辆私有随机数引擎

	node       *entity.VehicleNode // 车道链表中的节点
	controller *controller         // 控制器

	// 运行时状态

	laneIndex    int            // 当前车道序号
	s            float64        // 里程（米）
	v            float64        // 速度（米/秒）
	a            float64        // 加速度（米/秒²）
	lc           lcRuntime      // 变道子状态
	anomaly      anomalyRuntime // 异常子状态
	impactFactor float64        // 本步的异常衰减系数
	everAffected bool           // 受影响标志（粘性）
	risk         float64        // 弯道风险系数
	segIndex     int            // 当前所在分段序号
	segLog       []SegmentVisit // 分段进出日志
	finished     bool           // 是否已驶出路段
	finishTime   float64        // 驶出时刻（秒）
}

// newVehicle 创建车辆实例
// 功能：按车辆类型与驾驶风格采样个体参数，初始化运行时状态
// 说明：初速度为期望速度的一定比例，车头位于里程等于车长处（车尾对齐路段起点）
func newVehicle(
	ctx entity.ITaskContext, mgr *VehicleManager,
	id int32, class Class, style Style,
	spawnTime float64, laneIndex int, anomalyEligible bool,
) *Vehicle {
	veh := &Vehicle{
		ctx:             ctx,
		mgr:             mgr,
		id:              id,
		class:           class,
		style:           style,
		attr:            class.Attr(),
		spawnTime:       spawnTime,
		anomalyEligible: anomalyEligible,
		generator:       randengine.New(ctx.RuntimeConfig().All.Seed + uint64(id)),
		laneIndex:       laneIndex,
		impactFactor:    1,
	}
	veh.aggressiveness, veh.politeness = style.sample(veh.generator)
	veh.v0 = veh.attr.MaxV * veh.aggressiveness
	veh.maxA = veh.attr.MaxA * veh.aggressiveness
	veh.s = veh.attr.Length
	veh.v = spawnVRatio * veh.v0
	veh.node = &entity.VehicleNode{S: veh.s, Value: veh}
	veh.controller = newController(veh)
	veh.segIndex = stats.SegmentIndexOf(ctx.SegmentBoundaries(), veh.s)
	veh.segLog = append(veh.segLog, SegmentVisit{Index: veh.segIndex, EnterT: spawnTime, ExitT: -1})
	return veh
}

// String 获取车辆的字符串表示
func (veh *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id=%d, class=%v, lane=%d, s=%.1f, v=%.1f}",
		veh.id, veh.class, veh.laneIndex, veh.s, veh.v)
}

// ID 获取车辆ID
func (veh *Vehicle) ID() int32 {
	return veh.id
}

// Length 获取车长（米）
func (veh *Vehicle) Length() float64 {
	return veh.attr.Length
}

// ClassCode 获取车辆类型编码
func (veh *Vehicle) ClassCode() int32 {
	return int32(veh.class)
}

// S 获取里程（米）
func (veh *Vehicle) S() float64 {
	return veh.s
}

// V 获取速度（米/秒）
func (veh *Vehicle) V() float64 {
	return veh.v
}

// A 获取加速度（米/秒²）
func (veh *Vehicle) A() float64 {
	return veh.a
}

// LaneIndex 获取当前车道序号
func (veh *Vehicle) LaneIndex() int {
	return veh.laneIndex
}

// LaneOffset 获取变道横向完成度（0~1）
func (veh *Vehicle) LaneOffset() float64 {
	return veh.lc.Offset
}

// IsLC 判断是否正在变道
func (veh *Vehicle) IsLC() bool {
	return veh.lc.InProgress
}

// IsStalled 判断是否处于抛锚停车异常
func (veh *Vehicle) IsStalled() bool {
	return veh.anomaly.State == AnomalyActive && veh.anomaly.Type == AnomalyStall
}

// HasActiveAnomaly 判断是否有活跃异常
func (veh *Vehicle) HasActiveAnomaly() bool {
	return veh.anomaly.State == AnomalyActive
}

// AnomalyTypeCode 获取当前异常类型编码（0表示无）
func (veh *Vehicle) AnomalyTypeCode() int32 {
	return int32(veh.anomaly.Type)
}

// Affected 判断是否受异常影响（粘性标志）
func (veh *Vehicle) Affected() bool {
	return veh.everAffected
}

// Risk 获取弯道风险系数
func (veh *Vehicle) Risk() float64 {
	return veh.risk
}

// Finished 判断是否已驶出路段
func (veh *Vehicle) Finished() bool {
	return veh.finished
}

// SegmentLog 获取分段进出日志
func (veh *Vehicle) SegmentLog() []SegmentVisit {
	return veh.segLog
}

// Update 车辆更新主函数
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 变道冷却计时递减
// 2. 变道进行中：推进横向插值后返回，不做其他决策
// 3. 推进异常状态机
// 4. 控制器决策：可能发起变道，并给出本步加速度
// 5. 积分：速度钳制到[0, 1.1·v0]，位置单调前进
// 6. 位置后处理：分段日志、弯道风险、受影响标志
func (veh *Vehicle) Update(dt float64) {
	if veh.finished {
		return
	}
	t := veh.ctx.Clock().T

	if veh.lc.Cooldown > 0 {
		veh.lc.Cooldown = math.Max(0, veh.lc.Cooldown-dt)
	}
	if veh.lc.InProgress {
		veh.advanceLaneChange(dt)
		veh.afterMove(t)
		return
	}

	veh.updateAnomaly(dt, t)

	ac := veh.controller.update()
	if ac.LCTarget >= 0 {
		veh.startLaneChange(ac.LCTarget, ac.Forced)
	}
	veh.a = ac.A

	veh.v = lo.Clamp(veh.v+veh.a*dt, 0, speedCapRatio*veh.v0)
	veh.s += veh.v * dt
	veh.afterMove(t)
}

// afterMove 位置更新后的公共处理
// 说明：同步链表键值；驶出路段后结束行程，否则更新分段日志、
// 弯道风险与受影响标志
func (veh *Vehicle) afterMove(t float64) {
	veh.node.S = veh.s
	if veh.s >= veh.ctx.RuntimeConfig().All.Road.Length {
		veh.finish(t)
		return
	}
	veh.updateSegmentLog(t)
	veh.updateRisk()
	veh.refreshAffected()
}

// startLaneChange 发起变道
func (veh *Vehicle) startLaneChange(target int, forced bool) {
	veh.lc = lcRuntime{
		InProgress: true,
		FromLane:   veh.laneIndex,
		ToLane:     target,
		StartS:     veh.s,
	}
	veh.mgr.onLaneChangeStarted()
	log.Debugf("vehicle %d: lane change %d -> %d (forced=%v)",
		veh.id, veh.laneIndex, target, forced)
}

// advanceLaneChange 推进变道横向插值
// 算法说明：
// 1. 横向完成度按余弦缓动：offset = (1-cos(π·step/5))/2
// 2. 位置以当前速度继续前进
// 3. 插值完成后将节点迁移到目标车道链表，进入冷却期
func (veh *Vehicle) advanceLaneChange(dt float64) {
	veh.lc.Step++
	veh.lc.Offset = 0.5 * (1 - math.Cos(math.Pi*float64(veh.lc.Step)/lcTotalSteps))
	veh.s += veh.v * dt
	if veh.lc.Step < lcTotalSteps {
		return
	}
	lm := veh.ctx.LaneManager()
	lm.Get(veh.lc.FromLane).RemoveVehicle(veh.node)
	veh.laneIndex = veh.lc.ToLane
	veh.node.S = veh.s
	lm.Get(veh.laneIndex).AddVehicle(veh.node)
	veh.lc = lcRuntime{Cooldown: lcCooldown}
}

// updateSegmentLog 跨越分段边界时更新进出日志
func (veh *Vehicle) updateSegmentLog(t float64) {
	idx := stats.SegmentIndexOf(veh.ctx.SegmentBoundaries(), veh.s)
	if idx == veh.segIndex || idx < 0 {
		return
	}
	if n := len(veh.segLog); n > 0 {
		veh.segLog[n-1].ExitT = t
	}
	veh.segLog = append(veh.segLog, SegmentVisit{Index: idx, EnterT: t, ExitT: -1})
	veh.segIndex = idx
}

// finish 结束行程
func (veh *Vehicle) finish(t float64) {
	veh.finished = true
	veh.finishTime = t
	if n := len(veh.segLog); n > 0 && veh.segLog[n-1].ExitT < 0 {
		veh.segLog[n-1].ExitT = t
	}
}

// State 生成车辆状态快照
func (veh *Vehicle) State() stats.VehicleState {
	return stats.VehicleState{
		ID:            veh.id,
		Lane:          veh.laneIndex,
		LaneOffset:    veh.lc.Offset,
		S:             veh.s,
		V:             veh.v,
		A:             veh.a,
		AnomalyType:   int32(veh.anomaly.Type),
		AnomalyActive: veh.anomaly.State == AnomalyActive,
		Affected:      veh.everAffected,
		Risk:          veh.risk,
	}
}
