package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
)

const geometryYAML = `scale: 2.5
nodes:
  - {x: 0, y: 0}
  - {x: 100, y: 0, fillet: 80}
  - {x: 100, y: 100}
`

func TestParseGeometry(t *testing.T) {
	geo, err := ParseGeometry([]byte(geometryYAML), 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, geo.Scale)
	require.Len(t, geo.Nodes, 3)
	assert.Equal(t, 80.0, geo.Nodes[1].Fillet)
}

func TestParseGeometryFallbackScale(t *testing.T) {
	geo, err := ParseGeometry([]byte("nodes:\n  - {x: 0, y: 0}\n  - {x: 1, y: 0}\n"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, geo.Scale)
}

func TestParseGeometryRejectsUnknownField(t *testing.T) {
	_, err := ParseGeometry([]byte("scale: 1\nnodes: []\nbogus: 1\n"), 1)
	assert.Error(t, err)
}

func TestParseGeometryRejectsInvalid(t *testing.T) {
	_, err := ParseGeometry([]byte("scale: 1\nnodes:\n  - {x: 0, y: 0}\n"), 1)
	assert.Error(t, err)
}

func TestInitFallsBackOnMissingFile(t *testing.T) {
	c := config.Config{}
	c.Road.GeometryFile = filepath.Join(t.TempDir(), "missing.yml")
	res := Init(c)
	assert.Nil(t, res.Geometry)
}

func TestInitLoadsGeometryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.yml")
	require.NoError(t, os.WriteFile(path, []byte(geometryYAML), 0o644))

	c := config.Config{}
	c.Road.GeometryFile = path
	res := Init(c)
	require.NotNil(t, res.Geometry)
	assert.Len(t, res.Geometry.Nodes, 3)
}
