package collider3d

import (
	"fmt"
	"math"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// BoundingDescriptor is one collider in target space.
type BoundingDescriptor struct {
	Origin     Vector3    `json:"origin"`
	Rotation   Vector3    `json:"rotation"`
	Dimensions Dimensions `json:"dimensions"`
}

// ExtractBounds computes the collider of obj: the mean of its world-space bound box
// corners as origin, its local rotation in degrees, both converted to target space,
// and its world dimensions unchanged.
func ExtractBounds(obj SceneObject) (BoundingDescriptor, error) {
	corners, ok := obj.BoundBox()
	if !ok {
		return BoundingDescriptor{}, fmt.Errorf("%s: %w", obj.Name(), ErrMissingGeometry)
	}

	world := obj.MatrixWorld()
	var center dvec3.T
	for i := range corners {
		p := world.MulVec3(&corners[i])
		center.Add(&p)
	}
	center.Scale(1.0 / float64(len(corners)))

	euler := obj.RotationEuler()
	rotation := Vector3{
		X: degrees(euler[0]),
		Y: degrees(euler[1]),
		Z: degrees(euler[2]),
	}

	dims := obj.Dimensions()
	return BoundingDescriptor{
		Origin:   ConvertToTarget(FromVec3(center)),
		Rotation: ConvertToTarget(rotation),
		Dimensions: Dimensions{
			Width:  dims[0],
			Depth:  dims[1],
			Height: dims[2],
		},
	}, nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
