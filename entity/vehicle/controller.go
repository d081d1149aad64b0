package vehicle

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
)

// Action 控制器的决策结果
type Action struct {
	A        float64 // 加速度（米/秒²）
	LCTarget int     // 变道目标车道序号，-1表示不变道
	Forced   bool    // 是否为强制变道
}

// controller 车辆控制器
// 功能：每个物理步做一次纵向（跟车/目标速度跟踪）与横向（变道）决策
// 说明：有效参数已含驾驶风格的激进系数缩放
type controller struct {
	self *Vehicle

	// 有效模型参数
	v0       float64 // 期望速度（米/秒）
	maxA     float64 // 最大加速度（米/秒²）
	comfortB float64 // 舒适减速度（米/秒²）
	minGap   float64 // 最小停车间距（米）
	headway  float64 // 期望车头时距（秒）
}

// newController 创建车辆控制器
func newController(self *Vehicle) *controller {
	return &controller{
		self:     self,
		v0:       self.v0,
		maxA:     self.maxA,
		comfortB: self.attr.ComfortB,
		minGap:   self.attr.MinGap,
		headway:  self.attr.Headway,
	}
}

// update 执行一次决策
// 算法说明：
// 1. 感知当前车道前车，扫描周边异常并缓存衰减系数
// 2. 变道决策（异常活跃的车辆不变道）
// 3. 纵向决策：异常活跃时跟踪目标速度，
// 否则IDM跟车，正向加速度乘以异常衰减系数
func (l *controller) update() (ac Action) {
	ac.LCTarget = -1
	veh := l.self

	leader := veh.node.Next()
	veh.impactFactor = veh.impactScan()

	if veh.anomaly.State == AnomalyActive {
		ac.A = l.trackTargetV(leader)
		return
	}

	if target, forced, ok := l.planLaneChange(leader); ok {
		ac.LCTarget = target
		ac.Forced = forced
	}

	a := l.carFollow(leader)
	if a > 0 {
		a *= veh.impactFactor
	}
	ac.A = a
	return
}

// updateRisk 重算弯道风险系数
func (veh *Vehicle) updateRisk() {
	radius := veh.ctx.Profile().RadiusAt(veh.s)
	veh.risk = road.AccidentFactor(radius, veh.v, road.SafeSpeed(radius))
}
