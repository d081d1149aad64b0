package vehicle

import (
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
)

// 纵向模型参数
const (
	idmTheta            = 4.0  // IDM自由流指数
	minIDMGap           = 0.5  // 跟车间隙下限（米）
	maxBrakingA         = -5.0 // 加速度下限（米/秒²）
	accLimitRatio       = 1.5  // 加速度上限与最大加速度之比
	emergencyBrakeRatio = 2.0  // 前车抛锚时的紧急减速度与最大加速度之比
	trackTau            = 1.0  // 目标速度跟踪的时间常数（秒）
)

// desiredV 获取当前位置的有效期望速度
// 说明：取驾驶员期望速度与当前弯道安全速度的较小者，
// 直线段安全速度为无穷大，不构成约束
func (l *controller) desiredV() float64 {
	radius := l.self.ctx.Profile().RadiusAt(l.self.s)
	return math.Min(l.v0, road.SafeSpeed(radius))
}

// followImpl IDM跟车模型核心
// 功能：计算本车在给定前车状态下的加速度
// 参数：selfV-本车速度，targetV-期望速度，aheadV-前车速度，gap-与前车的净间隙
// 返回：加速度（米/秒²）
// 算法说明：
// 1. 期望间距 s* = s0 + v·T + v·Δv/(2·√(aMax·b))
// 2. a = aMax·(1 - (v/v0)^4 - (s*/s)²)，间隙s下限0.5米
// 3. 结果钳制到[-5.0, 1.5·aMax]
func (l *controller) followImpl(selfV, targetV, aheadV, gap float64) float64 {
	s := math.Max(gap, minIDMGap)
	sStar := l.minGap + selfV*l.headway +
		selfV*(selfV-aheadV)/(2*math.Sqrt(l.maxA*l.comfortB))
	acc := l.maxA * (1 - math.Pow(selfV/targetV, idmTheta) - math.Pow(sStar/s, 2))
	return lo.Clamp(acc, maxBrakingA, accLimitRatio*l.maxA)
}

// carFollow 计算当前车道内的跟车加速度
// 参数：leader-前车节点，nil表示前方无车
// 说明：前车处于抛锚异常时采用固定紧急减速度
func (l *controller) carFollow(leader *entity.VehicleNode) float64 {
	if leader != nil && leader.Value.IsStalled() {
		return -emergencyBrakeRatio * l.maxA
	}
	selfV := l.self.v
	targetV := l.desiredV()
	if leader == nil {
		return l.followImpl(selfV, targetV, selfV, mathutil.INF)
	}
	return l.followImpl(selfV, targetV, leader.V(), leader.S-leader.L()-l.self.s)
}

// trackTargetV 异常活跃期间的目标速度跟踪
// 功能：以一阶松弛逼近异常目标速度，同时不超过跟车模型允许的加速度
// 说明：即使处于异常减速状态，也不能追尾前车
func (l *controller) trackTargetV(leader *entity.VehicleNode) float64 {
	a := (l.self.anomaly.TargetV - l.self.v) / trackTau
	a = lo.Clamp(a, maxBrakingA, accLimitRatio*l.maxA)
	if follow := l.carFollow(leader); follow < a {
		a = follow
	}
	return a
}
