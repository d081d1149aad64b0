package vehicle

import (
	"math"

	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
)

// AnomalyState 异常生命周期状态
type AnomalyState int32

const (
	AnomalyNormal  AnomalyState = iota // 正常
	AnomalyActive                      // 活跃
	AnomalyCooling                     // 冷却
)

// String 获取异常状态的字符串表示
func (s AnomalyState) String() string {
	switch s {
	case AnomalyNormal:
		return "normal"
	case AnomalyActive:
		return "active"
	case AnomalyCooling:
		return "cooling"
	default:
		return "unknown"
	}
}

// AnomalyType 异常类型
type AnomalyType int32

const (
	AnomalyNone         AnomalyType = iota // 无异常
	AnomalyStall                           // 类型1：抛锚停车
	AnomalyShortSlowV                      // 类型2：短时减速
	AnomalyLongSlowV                       // 类型3：长时减速
)

// String 获取异常类型的字符串表示
func (t AnomalyType) String() string {
	switch t {
	case AnomalyNone:
		return "none"
	case AnomalyStall:
		return "stall"
	case AnomalyShortSlowV:
		return "short-slowdown"
	case AnomalyLongSlowV:
		return "long-slowdown"
	default:
		return "unknown"
	}
}

// 异常状态机参数
const (
	anomalyTriggerP    = 0.005 // 每步触发概率
	anomalyRetriggerP  = 0.3   // 类型2/3到期后的续触发概率
	anomalyCoolingTime = 30.0  // 冷却窗口时长（秒）

	shortSlowdownVRatio = 0.3 // 类型2目标速度与期望速度之比
	longSlowdownVRatio  = 0.5 // 类型3目标速度与期望速度之比

	impactBehindRatio = 0.92 // 后方每个异常对加速度的衰减系数

	affectedSpeedRatio = 0.4  // 受影响判定的速度比阈值
	affectedCloseGap   = 10.0 // 受影响判定的近距跟车间隙（米）
	affectedSlowV      = 2.0  // 受影响判定的前车低速阈值（米/秒）
)

// 异常状态机合法迁移表
var validAnomalyTransitions = map[AnomalyState]AnomalyState{
	AnomalyNormal:  AnomalyActive,
	AnomalyActive:  AnomalyCooling,
	AnomalyCooling: AnomalyNormal,
}

// anomalyRuntime 车辆的异常子状态
type anomalyRuntime struct {
	State   AnomalyState // 生命周期状态
	Type    AnomalyType  // 当前异常类型（仅活跃期间有效）
	Timer   float64      // 当前状态剩余时间（秒）
	TargetV float64      // 活跃期间的目标速度（米/秒）
}

// transition 执行状态迁移并校验其合法性
func (r *anomalyRuntime) transition(to AnomalyState) {
	if validAnomalyTransitions[r.State] != to {
		log.Panicf("invalid anomaly transition: %v -> %v", r.State, to)
	}
	r.State = to
}

// anomalyDuration 获取指定异常类型的配置持续时间
func (veh *Vehicle) anomalyDuration(typ AnomalyType) float64 {
	c := veh.ctx.RuntimeConfig().All.Anomaly
	switch typ {
	case AnomalyStall:
		return c.StallDuration
	case AnomalyShortSlowV:
		return c.ShortDuration
	case AnomalyLongSlowV:
		return c.LongDuration
	default:
		log.Panicf("vehicle %d: no duration for anomaly type %v", veh.id, typ)
		return 0
	}
}

// updateAnomaly 推进异常状态机
// 参数：dt-时间步长，t-当前模拟时间
// 算法说明：
// 1. 活跃：计时器到期后，类型2/3以续触发概率重置计时器（不记录新事件），
// 否则进入冷却；类型1到期后直接进入冷却
// 2. 冷却：计时器到期后回到正常，允许再次触发
// 3. 正常：满足资格、全局起始时刻与安全行驶时间后，按概率触发，
// 类型由配置权重决定，并追加一条异常事件
func (veh *Vehicle) updateAnomaly(dt, t float64) {
	r := &veh.anomaly
	c := veh.ctx.RuntimeConfig().All.Anomaly
	switch r.State {
	case AnomalyActive:
		r.Timer -= dt
		if r.Timer > 0 {
			return
		}
		if r.Type != AnomalyStall && veh.generator.PTrue(anomalyRetriggerP) {
			// 续触发：保持活跃并重置持续时间
			r.Timer = veh.anomalyDuration(r.Type)
			return
		}
		r.transition(AnomalyCooling)
		log.Debugf("vehicle %d: anomaly %v ends at t=%.1f", veh.id, r.Type, t)
		r.Type = AnomalyNone
		r.TargetV = 0
		r.Timer = anomalyCoolingTime
	case AnomalyCooling:
		r.Timer -= dt
		if r.Timer <= 0 {
			r.transition(AnomalyNormal)
			r.Timer = 0
		}
	case AnomalyNormal:
		if !veh.anomalyEligible || t < c.StartTime || t-veh.spawnTime < c.SafeRunTime {
			return
		}
		if !veh.generator.PTrue(anomalyTriggerP) {
			return
		}
		typ := AnomalyType(veh.generator.DiscreteDistribution(c.TypeWeights) + 1)
		r.transition(AnomalyActive)
		r.Type = typ
		r.Timer = veh.anomalyDuration(typ)
		switch typ {
		case AnomalyStall:
			r.TargetV = 0
		case AnomalyShortSlowV:
			r.TargetV = shortSlowdownVRatio * veh.v0
		case AnomalyLongSlowV:
			r.TargetV = longSlowdownVRatio * veh.v0
		}
		veh.ctx.Events().Append(stats.AnomalyEvent{
			VehicleID: veh.id,
			Type:      int32(typ),
			T:         t,
			S:         veh.s,
		})
		veh.mgr.onAnomalyTriggered()
	}
}

// impactScan 扫描周边异常，计算加速度衰减系数
// 功能：统计感知半径内前后方的活跃异常车辆数，
// 衰减系数 = slowdownRatio^前方数 × 0.92^后方数
// 说明：自身异常活跃时不受他车异常叠加影响，系数为1
func (veh *Vehicle) impactScan() float64 {
	if veh.anomaly.State == AnomalyActive {
		return 1
	}
	c := veh.ctx.RuntimeConfig().All.Anomaly
	ahead, behind := 0, 0
	for _, other := range veh.ctx.VehicleManager().Active() {
		if other.ID() == veh.id || other.Finished() || !other.HasActiveAnomaly() {
			continue
		}
		d := other.S() - veh.s
		if math.Abs(d) > c.DiscoveryDistance {
			continue
		}
		if d >= 0 {
			ahead++
		} else {
			behind++
		}
	}
	return math.Pow(c.SlowdownRatio, float64(ahead)) *
		math.Pow(impactBehindRatio, float64(behind))
}

// refreshAffected 重算受影响标志
// 功能：满足下列任一条件即判定为受影响（粘性，一旦置位不再清除）：
// 1. 加速度衰减系数低于配置阈值
// 2. 速度与期望速度之比低于固定阈值
// 3. 近距离跟随低速前车
func (veh *Vehicle) refreshAffected() {
	c := veh.ctx.RuntimeConfig().All.Anomaly
	affected := veh.impactFactor < c.ImpactThreshold ||
		veh.v < affectedSpeedRatio*veh.v0
	if !affected {
		if leader := veh.node.Next(); leader != nil {
			gap := leader.S - leader.L() - veh.s
			if gap < affectedCloseGap && leader.V() < affectedSlowV {
				affected = true
			}
		}
	}
	if affected {
		veh.everAffected = true
	}
}
