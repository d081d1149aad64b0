package road

import (
	"math"
)

const (
	gravity        = 9.8  // 重力加速度（米/秒²）
	frictionMu     = 0.50 // 路面横向摩擦系数
	superelevation = 0.06 // 超高（路面横坡）
	// refSafeRadius 安全半径参考值（米）
	// 说明：半径不小于该值的弯道按直线处理，不产生弯道风险
	refSafeRadius = 500.0
	// curveRiskBeta 弯道风险幂律指数
	curveRiskBeta = 1.2
)

// CurveSegment 曲率分段
// 功能：描述一段里程范围对应的弯道半径
// 说明：派生的不可变数据；半径为+Inf表示直线段
type CurveSegment struct {
	Start  float64 // 起始里程（米）
	End    float64 // 结束里程（米）
	Radius float64 // 弯道半径（米），+Inf表示直线
}

// Length 分段长度（米）
func (s CurveSegment) Length() float64 {
	return s.End - s.Start
}

// Profile 曲率剖面
// 功能：以里程为索引的弯道半径表
// 说明：分段有序、无重叠、无缝隙，几何合法时覆盖全路段
type Profile struct {
	segments []CurveSegment // 有序分段
	length   float64        // 覆盖的总里程（米）
}

// Build 根据道路几何构建曲率剖面
// 功能：将静态道路几何转换为里程索引的弯道半径表
// 参数：g-道路几何
// 返回：曲率剖面；几何非法时返回ErrInvalidGeometry
// 算法说明：
// 1. 对每对相邻节点计算线段长度（米 = 欧氏距离×缩放系数）
// 2. 每段的弯道半径取自下一个节点的圆角半径（米 = 圆角×缩放系数），
//    缺失或非正值记为+Inf（直线）
// 3. 分段首尾相接，共同覆盖整条折线
func Build(g *Geometry) (*Profile, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	p := &Profile{}
	s := 0.0
	for i := 0; i+1 < len(g.Nodes); i++ {
		a, b := g.Nodes[i].Point(), g.Nodes[i+1].Point()
		length := math.Hypot(b.X-a.X, b.Y-a.Y) * g.Scale
		radius := math.Inf(1)
		if f := g.Nodes[i+1].Fillet; f > 0 {
			radius = f * g.Scale
		}
		p.segments = append(p.segments, CurveSegment{
			Start:  s,
			End:    s + length,
			Radius: radius,
		})
		s += length
	}
	p.length = s
	return p, nil
}

// Straight 构建全直线剖面
// 功能：几何缺失或非法时的退化剖面
// 参数：length-覆盖的里程长度（米）
func Straight(length float64) *Profile {
	return &Profile{
		segments: []CurveSegment{{Start: 0, End: length, Radius: math.Inf(1)}},
		length:   length,
	}
}

// Segments 获取全部曲率分段
func (p *Profile) Segments() []CurveSegment {
	return p.segments
}

// Length 获取剖面覆盖的总里程（米）
func (p *Profile) Length() float64 {
	return p.length
}

// RadiusAt 查询指定里程处的弯道半径
// 参数：s-里程（米）
// 返回：所在分段的半径；超出范围或剖面为空时返回+Inf
func (p *Profile) RadiusAt(s float64) float64 {
	if len(p.segments) == 0 || s < 0 || s > p.length {
		return math.Inf(1)
	}
	for _, seg := range p.segments {
		if s <= seg.End {
			return seg.Radius
		}
	}
	return math.Inf(1)
}

// SafeSpeed 计算弯道安全速度
// 功能：根据横向力平衡计算给定半径下的安全车速
// 参数：radius-弯道半径（米）
// 返回：安全速度（米/秒）= sqrt((μ+e)·g·r)；
// 半径非有限或非正时返回+Inf（直线无限制）
func SafeSpeed(radius float64) float64 {
	if math.IsInf(radius, 0) || math.IsNaN(radius) || radius <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt((frictionMu + superelevation) * gravity * radius)
}

// AccidentFactor 计算弯道事故风险系数
// 参数：radius-弯道半径（米），v-当前车速（米/秒），safeV-该弯道的安全速度（米/秒）
// 返回：风险系数，1.0表示无额外风险
// 算法说明：
// 1. 半径不小于安全半径参考值时按直线处理，返回1.0
// 2. 否则基础风险为曲率幂律项(refRadius/radius)^β
// 3. 仅当车速超过安全速度时叠加超速惩罚(v/safeV)²
func AccidentFactor(radius, v, safeV float64) float64 {
	if radius >= refSafeRadius {
		return 1.0
	}
	factor := math.Pow(refSafeRadius/radius, curveRiskBeta)
	if v > safeV {
		factor *= (v / safeV) * (v / safeV)
	}
	return factor
}
