package collider3d

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// SceneObject is the narrow view of a host scene object the exporter needs.
// Positions are in the right-handed Z-up source space.
type SceneObject interface {
	Name() string
	// Materials lists the material slot names in slot order. May be empty.
	Materials() []string
	// BoundBox returns the eight local-space bound box corners, or false when the
	// object carries no geometry.
	BoundBox() ([8]dvec3.T, bool)
	MatrixWorld() dmat.T
	// Dimensions is the world-space size of the bound box along X, Y and Z.
	Dimensions() dvec3.T
	// RotationEuler is the local XYZ Euler rotation in radians.
	RotationEuler() dvec3.T
}

// SceneObjectSource is supplied by the host adapter once per export.
type SceneObjectSource interface {
	Objects() []SceneObject
	HasMaterial(name string) bool
}

// FirstMaterial returns the name in the first material slot of obj.
func FirstMaterial(obj SceneObject) (string, bool) {
	mtls := obj.Materials()
	if len(mtls) == 0 {
		return "", false
	}
	return mtls[0], true
}

type Object struct {
	ObjectName string
	Slots      []string
	Corners    *[8]dvec3.T
	World      dmat.T
	Size       dvec3.T
	Euler      dvec3.T
}

var _ SceneObject = (*Object)(nil)

// NewObject builds an unparented object from a local box and a location, XYZ Euler
// rotation (radians) and scale, the way the authoring tool composes matrix_world.
// A nil box yields an object without geometry.
func NewObject(name string, materials []string, local *dvec3.Box, location, rotation, scale dvec3.T) *Object {
	o := &Object{
		ObjectName: name,
		Slots:      materials,
		World:      ComposeTRS(location, rotation, scale),
		Euler:      rotation,
	}
	if local != nil {
		corners := boxCorners(local)
		o.Corners = &corners
		sz := boxSize(local)
		o.Size = dvec3.T{sz[0] * abs(scale[0]), sz[1] * abs(scale[1]), sz[2] * abs(scale[2])}
	}
	return o
}

func (o *Object) Name() string { return o.ObjectName }

func (o *Object) Materials() []string { return o.Slots }

func (o *Object) BoundBox() ([8]dvec3.T, bool) {
	if o.Corners == nil {
		return [8]dvec3.T{}, false
	}
	return *o.Corners, true
}

func (o *Object) MatrixWorld() dmat.T { return o.World }

func (o *Object) Dimensions() dvec3.T { return o.Size }

func (o *Object) RotationEuler() dvec3.T { return o.Euler }

// Scene is an in-memory SceneObjectSource. Objects keep insertion order.
type Scene struct {
	objects   []SceneObject
	materials map[string]struct{}
}

var _ SceneObjectSource = (*Scene)(nil)

func NewScene() *Scene {
	return &Scene{materials: make(map[string]struct{})}
}

// Add appends obj and registers its material slots.
func (s *Scene) Add(obj SceneObject) {
	s.objects = append(s.objects, obj)
	for _, m := range obj.Materials() {
		s.materials[m] = struct{}{}
	}
}

// RegisterMaterial adds a material to the registry without assigning it.
func (s *Scene) RegisterMaterial(name string) {
	s.materials[name] = struct{}{}
}

func (s *Scene) Objects() []SceneObject { return s.objects }

func (s *Scene) HasMaterial(name string) bool {
	_, ok := s.materials[name]
	return ok
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
