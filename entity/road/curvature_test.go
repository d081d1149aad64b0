package road_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
)

func TestBuildInvalidGeometry(t *testing.T) {
	// 节点不足
	_, err := road.Build(&road.Geometry{Scale: 1, Nodes: []road.Node{{X: 0, Y: 0}}})
	assert.ErrorIs(t, err, road.ErrInvalidGeometry)

	// 零长度线段
	_, err = road.Build(&road.Geometry{Scale: 1, Nodes: []road.Node{
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0},
	}})
	assert.ErrorIs(t, err, road.ErrInvalidGeometry)

	// 非法缩放系数
	_, err = road.Build(&road.Geometry{Scale: 0, Nodes: []road.Node{
		{X: 0, Y: 0}, {X: 1, Y: 0},
	}})
	assert.ErrorIs(t, err, road.ErrInvalidGeometry)
}

func TestBuildLengthRoundTrip(t *testing.T) {
	g := &road.Geometry{
		Scale: 2.5,
		Nodes: []road.Node{
			{X: 0, Y: 0},
			{X: 100, Y: 0, Fillet: 40},
			{X: 100, Y: 80},
			{X: 250, Y: 80, Fillet: 60},
			{X: 250, Y: 300},
		},
	}
	p, err := road.Build(g)
	assert.NoError(t, err)

	polyline := 0.0
	for i := 0; i+1 < len(g.Nodes); i++ {
		polyline += math.Hypot(g.Nodes[i+1].X-g.Nodes[i].X, g.Nodes[i+1].Y-g.Nodes[i].Y)
	}
	sum := 0.0
	for _, seg := range p.Segments() {
		sum += seg.Length()
	}
	assert.InDelta(t, polyline*g.Scale, sum, 1e-9)
	assert.InDelta(t, polyline*g.Scale, p.Length(), 1e-9)

	// 分段有序、无缝隙
	prevEnd := 0.0
	for _, seg := range p.Segments() {
		assert.InDelta(t, prevEnd, seg.Start, 1e-9)
		assert.Greater(t, seg.End, seg.Start)
		prevEnd = seg.End
	}
}

func TestRadiusAt(t *testing.T) {
	g := &road.Geometry{
		Scale: 1,
		Nodes: []road.Node{
			{X: 0, Y: 0},
			{X: 100, Y: 0, Fillet: 50}, // 第一段半径50
			{X: 100, Y: 100},           // 第二段直线
		},
	}
	p, err := road.Build(g)
	assert.NoError(t, err)

	assert.Equal(t, 50.0, p.RadiusAt(10))
	assert.True(t, math.IsInf(p.RadiusAt(150), 1))
	// 超出范围
	assert.True(t, math.IsInf(p.RadiusAt(-1), 1))
	assert.True(t, math.IsInf(p.RadiusAt(1e9), 1))

	// 空剖面与退化剖面
	straight := road.Straight(1000)
	assert.True(t, math.IsInf(straight.RadiusAt(500), 1))
	empty := &road.Profile{}
	assert.True(t, math.IsInf(empty.RadiusAt(0), 1))
}

func TestSafeSpeed(t *testing.T) {
	assert.True(t, math.IsInf(road.SafeSpeed(math.Inf(1)), 1))
	assert.True(t, math.IsInf(road.SafeSpeed(0), 1))
	assert.True(t, math.IsInf(road.SafeSpeed(-10), 1))
	// sqrt(0.56*9.8*100)
	assert.InDelta(t, math.Sqrt(0.56*9.8*100), road.SafeSpeed(100), 1e-9)
}

func TestAccidentFactor(t *testing.T) {
	// 半径不小于参考安全半径时恒为1
	assert.Equal(t, 1.0, road.AccidentFactor(500, 100, 1))
	assert.Equal(t, 1.0, road.AccidentFactor(1e6, 0, 0))

	// 未超速时只有曲率项
	safeV := road.SafeSpeed(100)
	f := road.AccidentFactor(100, safeV-1, safeV)
	assert.InDelta(t, math.Pow(5, 1.2), f, 1e-9)

	// 超速时叠加二次惩罚
	f2 := road.AccidentFactor(100, 2*safeV, safeV)
	assert.InDelta(t, math.Pow(5, 1.2)*4, f2, 1e-9)
	assert.Greater(t, f2, f)
}
