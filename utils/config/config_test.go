package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"gopkg.in/yaml.v2"
)

const configYAML = `control:
  step:
    interval: 0.1
    max_time: 3600
road:
  length: 10000
  lanes: 4
  segment_spacing: 500
vehicle:
  total: 100
  type_ratios: {car: 0.7, truck: 0.2, bus: 0.1}
  style_ratios: {aggressive: 0.2, normal: 0.6, conservative: 0.2}
anomaly:
  ratio: 0.1
  start_time: 60
  safe_run_time: 30
  type_weights: [0.4, 0.3, 0.3]
  stall_duration: 120
  short_duration: 15
  long_duration: 45
  discovery_distance: 300
  slowdown_ratio: 0.75
  impact_threshold: 0.5
output:
  segment_interval: 30
  trajectory_interval: 10
seed: 42
`

func loadValid(t *testing.T) config.Config {
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(configYAML), &c))
	return c
}

func TestValidateAcceptsFullConfig(t *testing.T) {
	c := loadValid(t)
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero interval", func(c *config.Config) { c.Control.Step.Interval = 0 }},
		{"zero max time", func(c *config.Config) { c.Control.Step.MaxTime = 0 }},
		{"zero length", func(c *config.Config) { c.Road.Length = 0 }},
		{"zero lanes", func(c *config.Config) { c.Road.Lanes = 0 }},
		{"zero total", func(c *config.Config) { c.Vehicle.Total = 0 }},
		{"type ratios not summing", func(c *config.Config) { c.Vehicle.TypeRatios.Car = 0.5 }},
		{"style ratio out of range", func(c *config.Config) { c.Vehicle.StyleRatios.Normal = 1.5 }},
		{"anomaly ratio out of range", func(c *config.Config) { c.Anomaly.Ratio = 2 }},
		{"bad type weights", func(c *config.Config) { c.Anomaly.TypeWeights = []float64{1, 1} }},
		{"negative type weight", func(c *config.Config) { c.Anomaly.TypeWeights = []float64{1, -1, 1} }},
		{"zero stall duration", func(c *config.Config) { c.Anomaly.StallDuration = 0 }},
		{"slowdown ratio above 1", func(c *config.Config) { c.Anomaly.SlowdownRatio = 1.2 }},
		{"unsorted gantries", func(c *config.Config) { c.Road.Gantries = []float64{500, 300} }},
		{"gantry beyond road end", func(c *config.Config) { c.Road.Gantries = []float64{12000} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := loadValid(t)
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestAnomalySectionIgnoredWhenDisabled(t *testing.T) {
	c := loadValid(t)
	c.Anomaly = config.Anomaly{Ratio: 0}
	assert.NoError(t, c.Validate())
}

func TestNewRuntimeConfigFillsDefaults(t *testing.T) {
	c := loadValid(t)
	c.Road.SegmentSpacing = 0
	c.Road.Scale = 0
	c.Output = config.Output{}

	rc := config.NewRuntimeConfig(c)
	assert.Equal(t, 500.0, rc.All.Road.SegmentSpacing)
	assert.Equal(t, 1.0, rc.All.Road.Scale)
	assert.Equal(t, 30.0, rc.All.Output.SegmentInterval)
	assert.Equal(t, 10.0, rc.All.Output.TrajectoryInterval)
	assert.Equal(t, 100_000, rc.All.Output.MaxTrajectoryPoints)
	assert.Equal(t, c.Control, rc.C)
}
