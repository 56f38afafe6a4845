package collider3d

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
)

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func FromVec3(v vec3d.T) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v Vector3) Vec3() vec3d.T {
	return vec3d.T{v.X, v.Y, v.Z}
}

// ConvertToTarget maps a vector from the right-handed Z-up source space into the
// left-handed Y-up target space. Euler angles go through the same component mapping,
// which is only an exact rotation mapping for single-axis rotations.
//
// The mapping is not an involution: applying it twice yields (x, -y, -z) and it
// returns to the input after four applications.
func ConvertToTarget(v Vector3) Vector3 {
	return Vector3{
		X: -v.X,
		Y: v.Z,
		Z: -v.Y,
	}
}

func (v Vector3) ToTarget() Vector3 {
	return ConvertToTarget(v)
}
