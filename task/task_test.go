package task

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadsim-oss/entity/road"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/input"
)

// recordingObserver 记录快照与结束统计的测试观察者
type recordingObserver struct {
	mu        sync.Mutex
	snapshots int
	final     *stats.FinalStats
	done      chan struct{}
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{done: make(chan struct{})}
}

func (o *recordingObserver) OnSnapshot(*stats.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshots++
}

func (o *recordingObserver) snapshotCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshots
}

func (o *recordingObserver) OnComplete(f *stats.FinalStats) {
	o.mu.Lock()
	o.final = f
	o.mu.Unlock()
	close(o.done)
}

func baseConfig() config.Config {
	return config.Config{
		Control: config.Control{Step: config.ControlStep{Interval: 0.1, MaxTime: 3600}},
		Road:    config.Road{Length: 10000, Lanes: 4, SegmentSpacing: 500},
		Vehicle: config.Vehicle{
			Total:       100,
			TypeRatios:  config.TypeRatios{Car: 0.7, Truck: 0.2, Bus: 0.1},
			StyleRatios: config.StyleRatios{Aggressive: 0.2, Normal: 0.6, Conservative: 0.2},
		},
		Anomaly: config.Anomaly{
			Ratio:             0,
			TypeWeights:       []float64{0.4, 0.3, 0.3},
			StallDuration:     120,
			ShortDuration:     15,
			LongDuration:      45,
			DiscoveryDistance: 300,
			SlowdownRatio:     0.75,
			ImpactThreshold:   0.5,
		},
		Output: config.Output{SegmentInterval: 30, TrajectoryInterval: 10},
		Seed:   42,
	}
}

func TestRunToCompletionWithoutAnomalies(t *testing.T) {
	obs := newRecordingObserver()
	ctx, err := NewContext(baseConfig(), nil, obs)
	require.NoError(t, err)
	require.Equal(t, StateIdle, ctx.State())

	ctx.Run(true)

	require.Equal(t, StateComplete, ctx.State())
	<-obs.done
	f := obs.final
	require.NotNil(t, f)
	assert.Zero(t, f.Active)
	assert.Zero(t, f.TotalAnomalies)
	assert.Empty(t, f.Events)
	// 每个到达要么完成行程，要么因起点净空不足被丢弃
	assert.Equal(t, int32(100-ctx.vehicleManager.DroppedCount()), f.Completed)
	assert.GreaterOrEqual(t, f.Completed, int32(80))
	assert.Greater(t, f.AvgTravelTime, 0.0)
	assert.NotEmpty(t, f.SegmentRecords)
	assert.NotEmpty(t, f.Trajectory)
	assert.False(t, f.GeometryUnavailable)
	assert.Greater(t, obs.snapshots, 0)
}

func TestAnomaliesProduceEvents(t *testing.T) {
	c := baseConfig()
	c.Anomaly.Ratio = 0.3
	obs := newRecordingObserver()
	ctx, err := NewContext(c, nil, obs)
	require.NoError(t, err)

	ctx.Run(true)
	<-obs.done
	f := obs.final
	assert.Equal(t, int(f.TotalAnomalies), len(f.Events))
	for _, e := range f.Events {
		assert.Contains(t, []int32{1, 2, 3}, e.Type)
		assert.GreaterOrEqual(t, e.T, 0.0)
		assert.GreaterOrEqual(t, e.S, 0.0)
	}
}

func TestTurboAndNormalCadenceAgree(t *testing.T) {
	c := baseConfig()
	c.Road.Length = 150
	c.Vehicle.Total = 2
	c.Control.Step.MaxTime = 60

	run := func(turbo bool) *stats.FinalStats {
		obs := newRecordingObserver()
		ctx, err := NewContext(c, nil, obs)
		require.NoError(t, err)
		ctx.Run(turbo)
		<-obs.done
		return obs.final
	}

	turbo := run(true)
	normal := run(false)
	assert.Equal(t, turbo.T, normal.T)
	assert.Equal(t, turbo.Completed, normal.Completed)
	assert.Equal(t, turbo.AvgTravelTime, normal.AvgTravelTime)
	assert.Equal(t, turbo.TotalLaneChanges, normal.TotalLaneChanges)
	assert.Equal(t, len(turbo.Trajectory), len(normal.Trajectory))
}

func TestForceCompleteAtHardLimit(t *testing.T) {
	c := baseConfig()
	c.Control.Step.MaxTime = 5 // 强制结束时刻为10秒，车辆不可能完成10公里
	obs := newRecordingObserver()
	ctx, err := NewContext(c, nil, obs)
	require.NoError(t, err)

	ctx.Run(true)
	<-obs.done
	f := obs.final
	assert.GreaterOrEqual(t, f.T, ctx.clock.HardLimit())
	assert.Greater(t, f.Active, int32(0))
}

func TestStopEndsRunEarly(t *testing.T) {
	c := baseConfig()
	c.Road.Length = 1e6 // 行程不可能在测试期间完成
	c.Control.Step.MaxTime = 1e6
	obs := newRecordingObserver()
	ctx, err := NewContext(c, nil, obs)
	require.NoError(t, err)

	go ctx.Run(true)
	time.Sleep(50 * time.Millisecond)
	ctx.Stop()

	select {
	case <-obs.done:
	case <-time.After(10 * time.Second):
		t.Fatal("stop not honored")
	}
	assert.Equal(t, StateComplete, ctx.State())
}

func TestPauseAndResume(t *testing.T) {
	c := baseConfig()
	c.Road.Length = 1e6
	c.Control.Step.MaxTime = 1e6
	obs := newRecordingObserver()
	ctx, err := NewContext(c, nil, obs)
	require.NoError(t, err)

	go ctx.Run(true)
	ctx.Pause()
	// 等待暂停在批次边界生效
	deadline := time.Now().Add(5 * time.Second)
	for ctx.State() != StatePaused && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, StatePaused, ctx.State())

	// 暂停期间主循环阻塞，时钟不动
	frozenT := ctx.clock.T
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozenT, ctx.clock.T)

	before := obs.snapshotCount()
	ctx.Resume()
	for obs.snapshotCount() == before && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Greater(t, obs.snapshotCount(), before)

	ctx.Stop()
	<-obs.done
	assert.Greater(t, obs.final.T, frozenT)
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	c := baseConfig()
	c.Road.Lanes = 0
	_, err := NewContext(c, nil, nil)
	assert.Error(t, err)

	c = baseConfig()
	c.Vehicle.TypeRatios = config.TypeRatios{Car: 0.5, Truck: 0.2, Bus: 0.1}
	_, err = NewContext(c, nil, nil)
	assert.Error(t, err)
}

func TestGeometryFallback(t *testing.T) {
	c := baseConfig()
	c.Road.GeometryFile = "nonexistent.yml"
	ctx, err := NewContext(c, input.Init(c), nil)
	require.NoError(t, err)
	assert.True(t, ctx.GeometryUnavailable())
	// 退化剖面为全直线
	assert.True(t, ctx.Profile().RadiusAt(100) > 1e18)
}

func TestGeometryProfileWired(t *testing.T) {
	c := baseConfig()
	geo := &road.Geometry{
		Scale: 10,
		Nodes: []road.Node{
			{X: 0, Y: 0},
			{X: 500, Y: 0, Fillet: 40},
			{X: 500, Y: 500},
		},
	}
	require.NoError(t, geo.Validate())
	ctx, err := NewContext(c, &input.Input{Config: c, Geometry: geo}, nil)
	require.NoError(t, err)
	assert.False(t, ctx.GeometryUnavailable())
	// 第一段的曲率半径来自下一节点的圆角半径×缩放系数，第二段为直线
	assert.InDelta(t, 400, ctx.Profile().RadiusAt(100), 1e-9)
	assert.True(t, math.IsInf(ctx.Profile().RadiusAt(5001), 1))
}
