package collider3d

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
)

func TestSceneKeepsOrderAndRegistersSlots(t *testing.T) {
	sc := NewScene()
	sc.Add(NewObject("first", []string{"wall"}, nil, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))
	sc.Add(NewObject("second", []string{"floor", "trim"}, nil, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1}))

	assert.Equal(t, []string{"first", "second"}, names(sc.Objects()))
	assert.True(t, sc.HasMaterial("wall"))
	assert.True(t, sc.HasMaterial("trim"))
	assert.False(t, sc.HasMaterial("glass"))

	sc.RegisterMaterial("glass")
	assert.True(t, sc.HasMaterial("glass"))
}

func TestNewObject(t *testing.T) {
	box := dvec3.Box{Min: dvec3.T{-1, -1, -1}, Max: dvec3.T{1, 1, 1}}
	obj := NewObject("box", []string{"wall"}, &box, dvec3.T{1, 0, 0}, dvec3.T{0.1, 0.2, 0.3}, dvec3.T{-2, 1, 3})

	corners, ok := obj.BoundBox()
	assert.True(t, ok)
	assert.Equal(t, box.Min, corners[0])
	assert.Equal(t, box.Max, corners[6])
	assert.Equal(t, dvec3.T{4, 2, 6}, obj.Dimensions())
	assert.Equal(t, dvec3.T{0.1, 0.2, 0.3}, obj.RotationEuler())

	empty := NewObject("empty", nil, nil, dvec3.T{}, dvec3.T{}, dvec3.T{1, 1, 1})
	_, ok = empty.BoundBox()
	assert.False(t, ok)
	assert.Equal(t, dvec3.T{}, empty.Dimensions())
}
