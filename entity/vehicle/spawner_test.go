package vehicle

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/randengine"
)

func TestPlanSpawnsExactCount(t *testing.T) {
	for _, n := range []int{1, 2, 5, 7, 100, 1234} {
		times := PlanSpawns(randengine.New(42), n)
		require.Len(t, times, n, "n=%d", n)
		assert.True(t, sort.Float64sAreSorted(times), "n=%d", n)
		for _, ts := range times {
			assert.GreaterOrEqual(t, ts, 0.0)
		}
	}
}

func TestPlanSpawnsDeterministic(t *testing.T) {
	a := PlanSpawns(randengine.New(7), 50)
	b := PlanSpawns(randengine.New(7), 50)
	assert.Equal(t, a, b)
}

func TestSpawnRespectsOriginClearance(t *testing.T) {
	cfg := testConfig()
	cfg.Vehicle.Total = 10
	ctx, m := newTestCtx(cfg)

	// 所有到达均已到期；起点净空约束下最多每车道投放一辆
	m.spawner.SpawnVehicles(1e6)
	m.settle()
	assert.Equal(t, 2, m.ActiveCount())
	assert.True(t, m.spawner.Exhausted())
	assert.Equal(t, 2, m.spawnedCount)

	for _, l := range ctx.lm.Lanes() {
		assert.Equal(t, 1, l.VehicleCount())
	}
}

func TestSpawnNotBeforeDueTime(t *testing.T) {
	cfg := testConfig()
	cfg.Vehicle.Total = 4
	_, m := newTestCtx(cfg)

	pendingBefore := m.spawner.Pending()
	m.spawner.SpawnVehicles(-1)
	m.settle()
	assert.Zero(t, m.ActiveCount())
	assert.Equal(t, pendingBefore, m.spawner.Pending())
}
