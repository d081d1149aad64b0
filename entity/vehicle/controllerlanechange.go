package vehicle

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
)

// 变道模型参数
const (
	lcTotalSteps       = 5    // 变道横向插值总步数
	lcCooldown         = 5.0  // 变道完成后的冷却时间（秒）
	lcGainThreshold    = 0.1  // MOBIL增益阈值（米/秒²）
	forcedLCDistance   = 50.0 // 前车抛锚触发强制变道的距离（米）
	lcRearGapMin       = 20.0 // 间隙接受的后方最小净间隙（米）
	lcForwardGapFactor = 1.5  // 间隙接受的前方间隙与速度之比（秒）
)

// planLaneChange 变道决策
// 参数：leader-当前车道前车节点
// 返回：target-目标车道序号，forced-是否强制变道，ok-是否执行变道
// 算法说明：
// 1. 前车抛锚且距离过近时强制变道：按随机方向序尝试相邻车道，
// 只要求通过间隙接受检查，不比较增益
// 2. 主动变道（MOBIL）：对每条相邻车道计算假想跟车加速度与
// 当前加速度之差作为增益，并以礼让系数加权目标车道后车的损失；
// 增益超过阈值的最优车道为变道目标
// 3. 冷却期内不做主动变道；被抛锚车辆堵住的车道直接跳过
func (l *controller) planLaneChange(leader *entity.VehicleNode) (target int, forced, ok bool) {
	veh := l.self
	lm := veh.ctx.LaneManager()

	// 强制变道
	if leader != nil && leader.Value.IsStalled() &&
		leader.S-leader.L()-veh.s < forcedLCDistance {
		for _, side := range l.sideOrder() {
			cand := veh.laneIndex + side
			if cand < 0 || cand >= lm.Count() {
				continue
			}
			candLane := lm.Get(cand)
			if l.laneBlockedAhead(candLane) || !l.gapAccepted(candLane) {
				continue
			}
			return cand, true, true
		}
		return 0, false, false
	}

	if veh.lc.Cooldown > 0 {
		return 0, false, false
	}

	// 主动变道（MOBIL）
	aCur := l.carFollow(leader)
	best, bestGain := -1, lcGainThreshold
	for _, side := range [2]int{-1, 1} {
		cand := veh.laneIndex + side
		if cand < 0 || cand >= lm.Count() {
			continue
		}
		candLane := lm.Get(cand)
		if l.laneBlockedAhead(candLane) || !l.gapAccepted(candLane) {
			continue
		}
		gain := l.hypotheticalFollow(candLane) - aCur
		// 礼让项：目标车道后车因本车切入而损失的加速度
		if back := candLane.VehicleBehind(veh.s); back != nil {
			backAhead := candLane.VehicleAhead(veh.s)
			aBackOld := l.followOther(back, backAhead)
			aBackNew := l.followImpl(back.V(), l.v0, veh.v, veh.s-veh.attr.Length-back.S)
			gain += veh.politeness * (aBackNew - aBackOld)
		}
		if gain > bestGain {
			best, bestGain = cand, gain
		}
	}
	if best >= 0 {
		return best, false, true
	}
	return 0, false, false
}

// sideOrder 随机决定强制变道的尝试方向序
func (l *controller) sideOrder() [2]int {
	if l.self.generator.PTrue(0.5) {
		return [2]int{-1, 1}
	}
	return [2]int{1, -1}
}

// laneBlockedAhead 判断目标车道前方近处是否被抛锚车辆堵住
func (l *controller) laneBlockedAhead(cand entity.ILane) bool {
	veh := l.self
	ahead := cand.VehicleAhead(veh.s)
	return ahead != nil && ahead.Value.IsStalled() &&
		ahead.S-ahead.L()-veh.s < forcedLCDistance
}

// gapAccepted 间隙接受检查
// 功能：检查目标车道的前后间隙是否满足变道安全要求
// 说明：前方净间隙不小于speed×1.5+s0，后方净间隙不小于20米
func (l *controller) gapAccepted(cand entity.ILane) bool {
	veh := l.self
	if ahead := cand.VehicleAhead(veh.s); ahead != nil {
		if ahead.S-ahead.L()-veh.s < veh.v*lcForwardGapFactor+l.minGap {
			return false
		}
	}
	if back := cand.VehicleBehind(veh.s); back != nil {
		if veh.s-veh.attr.Length-back.S < lcRearGapMin {
			return false
		}
	}
	return true
}

// hypotheticalFollow 计算本车处于目标车道时的假想跟车加速度
func (l *controller) hypotheticalFollow(cand entity.ILane) float64 {
	veh := l.self
	ahead := cand.VehicleAhead(veh.s)
	if ahead != nil && ahead.Value.IsStalled() {
		return -emergencyBrakeRatio * l.maxA
	}
	if ahead == nil {
		return l.followImpl(veh.v, l.desiredV(), veh.v, mathutil.INF)
	}
	return l.followImpl(veh.v, l.desiredV(), ahead.V(), ahead.S-ahead.L()-veh.s)
}

// followOther 以本车参数推断他车的跟车加速度
// 说明：对于其他车的模型参数，采用本车的值去近似
func (l *controller) followOther(self, leader *entity.VehicleNode) float64 {
	if leader == nil {
		return l.followImpl(self.V(), l.v0, self.V(), mathutil.INF)
	}
	return l.followImpl(self.V(), l.v0, leader.V(), leader.S-leader.L()-self.S)
}
