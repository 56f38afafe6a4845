package collider3d

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallObj = `v -1 0 -2
v 1 0 -2
v 1 3 2
v -1 3 2
usemtl wall
f 1 2 3
usemtl glass
f 1 3 4
`

func TestObjLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "north_wall.obj")
	require.NoError(t, os.WriteFile(path, []byte(wallObj), 0o644))

	sc, err := (&ObjLoader{}).Load(path)
	require.NoError(t, err)
	require.Len(t, sc.Objects(), 1)

	obj := sc.Objects()[0]
	assert.Equal(t, "north_wall", obj.Name())
	assert.Equal(t, []string{"wall", "glass"}, obj.Materials())

	desc, err := ExtractBounds(obj)
	require.NoError(t, err)
	// the Y-up box spans x [-1, 1], y [0, 3], z [-2, 2]
	assert.InDelta(t, 2.0, desc.Dimensions.Width, 1e-9)
	assert.InDelta(t, 4.0, desc.Dimensions.Depth, 1e-9)
	assert.InDelta(t, 3.0, desc.Dimensions.Height, 1e-9)
	assertVector3InDelta(t, Vector3{X: 0, Y: 1.5, Z: 0}, desc.Origin, 1e-9)
}

func TestObjLoaderMissingFile(t *testing.T) {
	_, err := (&ObjLoader{}).Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
