package vehicle

import (
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

// Class 车辆类型
type Class int32

const (
	ClassCar   Class = iota // 小汽车
	ClassTruck              // 卡车
	ClassBus                // 公交车
)

// String 获取车辆类型的字符串表示
func (c Class) String() string {
	switch c {
	case ClassCar:
		return "car"
	case ClassTruck:
		return "truck"
	case ClassBus:
		return "bus"
	default:
		return "unknown"
	}
}

// Style 驾驶风格
type Style int32

const (
	StyleAggressive   Style = iota // 激进型
	StyleNormal                    // 普通型
	StyleConservative              // 保守型
)

// String 获取驾驶风格的字符串表示
func (s Style) String() string {
	switch s {
	case StyleAggressive:
		return "aggressive"
	case StyleNormal:
		return "normal"
	case StyleConservative:
		return "conservative"
	default:
		return "unknown"
	}
}

// Attr 车辆类型的静态属性
// 说明：激进系数会在此基础上缩放期望速度与最大加速度
type Attr struct {
	Length   float64 // 车长（m）
	MaxV     float64 // 期望速度基准值（m/s）
	MaxA     float64 // 最大加速度基准值（m/s^2）
	ComfortB float64 // 舒适减速度（m/s^2）
	MinGap   float64 // 最小停车间距（m）
	Headway  float64 // 期望车头时距（s）
}

// 各车辆类型的属性表
var classAttrs = [...]Attr{
	ClassCar:   {Length: 5, MaxV: 33.3, MaxA: 2.0, ComfortB: 3.0, MinGap: 2.0, Headway: 1.5},
	ClassTruck: {Length: 12, MaxV: 25.0, MaxA: 1.2, ComfortB: 2.0, MinGap: 3.0, Headway: 1.8},
	ClassBus:   {Length: 10, MaxV: 27.8, MaxA: 1.4, ComfortB: 2.5, MinGap: 2.5, Headway: 1.6},
}

// Attr 获取车辆类型对应的静态属性
func (c Class) Attr() Attr {
	return classAttrs[c]
}

// styleRange 驾驶风格参数的采样区间
type styleRange struct {
	aggrLo, aggrHi     float64 // 激进系数区间
	politeLo, politeHi float64 // 礼让系数区间
}

var styleRanges = [...]styleRange{
	StyleAggressive:   {aggrLo: 1.1, aggrHi: 1.3, politeLo: 0.0, politeHi: 0.2},
	StyleNormal:       {aggrLo: 0.9, aggrHi: 1.1, politeLo: 0.3, politeHi: 0.5},
	StyleConservative: {aggrLo: 0.7, aggrHi: 0.9, politeLo: 0.5, politeHi: 0.8},
}

// sample 按驾驶风格采样激进系数与礼让系数
// 参数：e-车辆私有随机数引擎
// 返回：激进系数、礼让系数
func (s Style) sample(e *randengine.Engine) (aggressiveness, politeness float64) {
	r := styleRanges[s]
	return e.UniformFloat64(r.aggrLo, r.aggrHi), e.UniformFloat64(r.politeLo, r.politeHi)
}
