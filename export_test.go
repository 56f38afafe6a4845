package collider3d

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const wallAExport = `{
 "colliders": [
  {
   "origin": {
    "x": 0,
    "y": 0,
    "z": 0
   },
   "rotation": {
    "x": 0,
    "y": 0,
    "z": 0
   },
   "dimensions": {
    "width": 1,
    "depth": 1,
    "height": 1
   }
  }
 ]
}
`

func exportOptions(dir string) Options {
	opts := DefaultOptions()
	opts.ProjectDir = dir
	return opts
}

func readExport(t *testing.T, path string) ExportDocument {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestExportSingleObject(t *testing.T) {
	dir := t.TempDir()
	sc := NewScene()
	sc.Add(NewObject("WallA", []string{"wall"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	res, err := Export(sc, exportOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Selected)
	assert.Equal(t, 1, res.Exported)
	assert.Equal(t, filepath.Join(dir, "collider_export.json"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, wallAExport, string(data))
}

func TestExportRotatedObject(t *testing.T) {
	dir := t.TempDir()
	sc := NewScene()
	sc.Add(NewObject("WallB", []string{"wall"}, &unitBox, dvec3.T{1, 2, 3}, dvec3.T{0, 0, math.Pi / 2}, dvec3.T{1, 1, 1}))
	sc.Add(NewObject("Floor", []string{"floor"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	res, err := Export(sc, exportOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Selected)

	doc := readExport(t, res.Path)
	require.Len(t, doc.Colliders, 1)
	assert.Equal(t, BoundingDescriptor{
		Origin:     Vector3{X: -1, Y: 3, Z: -2},
		Rotation:   Vector3{X: 0, Y: 90, Z: 0},
		Dimensions: Dimensions{Width: 1, Depth: 1, Height: 1},
	}, doc.Colliders[0])
}

func TestExportNoMatchingMaterial(t *testing.T) {
	dir := t.TempDir()
	sc := NewScene()
	sc.Add(NewObject("Floor", []string{"floor"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	res, err := Export(sc, exportOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Selected)
	assert.Equal(t, 0, res.Exported)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "{\n \"colliders\": []\n}\n", string(data))
}

func TestExportKeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()
	sc := NewScene()
	for i := 0; i < 4; i++ {
		sc.Add(NewObject("w", []string{"wall"}, &unitBox, dvec3.T{float64(i), 0, 0}, dvec3.T{}, dvec3.T{1, 1, 1}))
	}

	res, err := Export(sc, exportOptions(dir))
	require.NoError(t, err)
	doc := readExport(t, res.Path)
	require.Len(t, doc.Colliders, 4)
	for i, c := range doc.Colliders {
		assert.Equal(t, float64(-i), c.Origin.X)
	}
}

func TestExportSkipsObjectsWithoutGeometry(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.InfoLevel)
	sc := NewScene()
	sc.Add(NewObject("Empty", []string{"wall"}, nil, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))
	sc.Add(NewObject("WallA", []string{"wall"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))
	sc.Add(NewObject("Bare", nil, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	opts := exportOptions(dir)
	opts.Logger = zap.New(core)
	res, err := Export(sc, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 1, res.Exported)
	assert.Equal(t, 1, res.Unmaterialed)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Empty", res.Skipped[0].Name)
	assert.True(t, errors.Is(res.Skipped[0].Reason, ErrMissingGeometry))

	assert.Equal(t, 1, logs.FilterMessage("object skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("colliders exported").Len())
	assert.Len(t, readExport(t, res.Path).Colliders, 1)
}

func TestExportOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walls.json")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the export"), 0o644))

	opts := exportOptions(dir)
	opts.OutputName = "walls"
	_, err := Export(NewScene(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n \"colliders\": []\n}\n", string(data))
}

func TestExportWriteFailure(t *testing.T) {
	opts := exportOptions(filepath.Join(t.TempDir(), "missing", "dir"))
	res, err := Export(NewScene(), opts)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrWriteFailed))
}

func TestExportDefaultsEmptyNames(t *testing.T) {
	dir := t.TempDir()
	sc := NewScene()
	sc.Add(NewObject("WallA", []string{"wall"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	res, err := Export(sc, Options{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "collider_export.json"), res.Path)
	assert.Equal(t, 1, res.Exported)
}

func TestMarshalNilColliders(t *testing.T) {
	data, err := Marshal(ExportDocument{})
	require.NoError(t, err)
	assert.Equal(t, "{\n \"colliders\": []\n}\n", string(data))
}

func TestRounded(t *testing.T) {
	doc := ExportDocument{Colliders: []BoundingDescriptor{{
		Origin:     Vector3{X: 1.23456789, Y: -0.0000001, Z: math.Copysign(0, -1)},
		Rotation:   Vector3{X: 89.99999999, Y: 0, Z: -45.5},
		Dimensions: Dimensions{Width: 2.0000004, Depth: 1, Height: 0.1},
	}}}

	r := doc.Rounded(3).Colliders[0]
	assert.Equal(t, 1.235, r.Origin.X)
	assert.Equal(t, 0.0, r.Origin.Y)
	assert.False(t, math.Signbit(r.Origin.Y))
	assert.False(t, math.Signbit(r.Origin.Z))
	assert.Equal(t, 90.0, r.Rotation.X)
	assert.Equal(t, -45.5, r.Rotation.Z)
	assert.Equal(t, 2.0, r.Dimensions.Width)

	full := doc.Rounded(0).Colliders[0]
	assert.Equal(t, 1.23456789, full.Origin.X)
	assert.False(t, math.Signbit(full.Origin.Z))

	// the input is left untouched
	assert.Equal(t, 1.23456789, doc.Colliders[0].Origin.X)
}

func TestCollectDoesNotWrite(t *testing.T) {
	sc := NewScene()
	sc.Add(NewObject("WallA", []string{"wall"}, &unitBox, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	doc, res := Collect(sc, "wall")
	assert.Len(t, doc.Colliders, 1)
	assert.Equal(t, 1, res.Selected)
	assert.Empty(t, res.Path)
}
