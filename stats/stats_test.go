package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
)

func TestNewBoundariesSpacing(t *testing.T) {
	b := stats.NewBoundaries(10000, 500, nil)
	assert.Equal(t, 0.0, b[0])
	assert.Equal(t, 10000.0, b[len(b)-1])
	for i := 1; i < len(b); i++ {
		assert.Greater(t, b[i], b[i-1])
	}
	// 间距不整除时末段吸收余数
	b = stats.NewBoundaries(1200, 500, nil)
	assert.Equal(t, []float64{0, 500, 1000, 1200}, b)
}

func TestNewBoundariesGantries(t *testing.T) {
	b := stats.NewBoundaries(3000, 500, []float64{800, 1700})
	assert.Equal(t, []float64{0, 800, 1700, 3000}, b)
}

func TestSegmentIndexOf(t *testing.T) {
	b := []float64{0, 500, 1000, 1200}
	assert.Equal(t, 0, stats.SegmentIndexOf(b, 0))
	assert.Equal(t, 0, stats.SegmentIndexOf(b, 499.9))
	assert.Equal(t, 1, stats.SegmentIndexOf(b, 500))
	// 道路末端归入最后一段
	assert.Equal(t, 2, stats.SegmentIndexOf(b, 1200))
	assert.Equal(t, -1, stats.SegmentIndexOf(b, -1))
	assert.Equal(t, -1, stats.SegmentIndexOf(b, 1201))
}

func TestAggregatorSample(t *testing.T) {
	a, err := stats.NewAggregator(1000, 500, nil, 2, 30)
	assert.NoError(t, err)
	assert.False(t, a.Due(29.9))
	assert.True(t, a.Due(30))

	a.Sample(30, []stats.VehicleState{
		{ID: 1, S: 100, V: 10},
		{ID: 2, S: 200, V: 20},
		{ID: 3, S: 700, V: 30},
	})
	records := a.Records()
	assert.Len(t, records, 2)

	r0 := records[0]
	assert.Equal(t, 2, r0.Count)
	assert.InDelta(t, 15.0, r0.AvgV, 1e-9)
	assert.InDelta(t, 2.0/(500*2), r0.Density, 1e-9)
	assert.InDelta(t, r0.Density*r0.AvgV, r0.Flow, 1e-9)

	r1 := records[1]
	assert.Equal(t, 1, r1.Count)
	assert.InDelta(t, 30.0, r1.AvgV, 1e-9)

	// 新增记录游标
	assert.Len(t, a.PopNewRecords(), 2)
	assert.Nil(t, a.PopNewRecords())

	// 下一周期
	assert.False(t, a.Due(31))
	assert.True(t, a.Due(60))
}

func TestSamplerSubsample(t *testing.T) {
	s := stats.NewSampler(10, 10)
	assert.True(t, s.Due(10))
	for i := 0; i < 5; i++ {
		states := make([]stats.VehicleState, 5)
		for j := range states {
			states[j] = stats.VehicleState{ID: int32(j), S: float64(i*100 + j)}
		}
		s.Sample(float64((i+1)*10), states)
	}
	assert.Equal(t, 25, s.Count())

	sub := s.Subsampled()
	assert.LessOrEqual(t, len(sub), 10)
	// stride = ceil(25/10) = 3 → 9个点，时间保持有序
	assert.Len(t, sub, 9)
	for i := 1; i < len(sub); i++ {
		assert.LessOrEqual(t, sub[i-1].T, sub[i].T)
	}
	// 确定性
	assert.Equal(t, sub, s.Subsampled())
}

func TestEventLog(t *testing.T) {
	l := &stats.EventLog{}
	assert.Equal(t, 0, l.Len())
	l.Append(stats.AnomalyEvent{VehicleID: 7, Type: 1, T: 12, S: 340})
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, int32(7), l.Events()[0].VehicleID)
}
