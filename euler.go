package collider3d

import (
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

const gimbalEpsilon = 1e-9

// EulerToMatrix builds the rotation for XYZ Euler angles in radians, applied X first
// then Y then Z (R = Rz * Ry * Rx).
func EulerToMatrix(e dvec3.T) dmat.T {
	cx, sx := math.Cos(e[0]), math.Sin(e[0])
	cy, sy := math.Cos(e[1]), math.Sin(e[1])
	cz, sz := math.Cos(e[2]), math.Sin(e[2])

	return dmat.T{
		dvec4.T{cy * cz, cy * sz, -sy, 0},
		dvec4.T{sx*sy*cz - cx*sz, sx*sy*sz + cx*cz, sx * cy, 0},
		dvec4.T{cx*sy*cz + sx*sz, cx*sy*sz - sx*cz, cx * cy, 0},
		dvec4.T{0, 0, 0, 1},
	}
}

// MatrixToEuler extracts XYZ Euler angles in radians from the rotation part of m.
// Scale is divided out of each column first. At gimbal lock Z is pinned to zero.
func MatrixToEuler(m *dmat.T) dvec3.T {
	s := MatrixScale(m)
	r := func(row, col int) float64 {
		if s[col] == 0 {
			return 0
		}
		return m[col][row] / s[col]
	}

	sy := math.Max(-1, math.Min(1, -r(2, 0)))
	y := math.Asin(sy)
	if math.Abs(r(2, 0)) < 1-gimbalEpsilon {
		return dvec3.T{
			math.Atan2(r(2, 1), r(2, 2)),
			y,
			math.Atan2(r(1, 0), r(0, 0)),
		}
	}
	return dvec3.T{math.Atan2(-r(1, 2), r(1, 1)), y, 0}
}

// MatrixScale returns the length of the three basis columns of m.
func MatrixScale(m *dmat.T) dvec3.T {
	var s dvec3.T
	for i := 0; i < 3; i++ {
		c := dvec3.T{m[i][0], m[i][1], m[i][2]}
		s[i] = c.Length()
	}
	return s
}

// ComposeTRS returns translation * rotation * scale.
func ComposeTRS(t, euler, scale dvec3.T) dmat.T {
	m := EulerToMatrix(euler)
	return composeWithRotation(t, &m, scale)
}

func composeQuatTRS(t dvec3.T, q quat.T, scale dvec3.T) dmat.T {
	var m dmat.T
	m.AssignQuaternion(&q)
	return composeWithRotation(t, &m, scale)
}

func composeWithRotation(t dvec3.T, rot *dmat.T, scale dvec3.T) dmat.T {
	m := *rot
	for i := 0; i < 3; i++ {
		m[i][0] *= scale[i]
		m[i][1] *= scale[i]
		m[i][2] *= scale[i]
		m[i][3] = 0
	}
	m[3] = dvec4.T{t[0], t[1], t[2], 1}
	return m
}

func mulMat(a, b *dmat.T) dmat.T {
	m := dmat.Ident
	m.AssignMul(a, b)
	return m
}

// yUpToZUp maps a Y-up right-handed vector (x, y, z) to Z-up as (x, -z, y).
var (
	yUpToZUp = dmat.T{
		dvec4.T{1, 0, 0, 0},
		dvec4.T{0, 0, 1, 0},
		dvec4.T{0, -1, 0, 0},
		dvec4.T{0, 0, 0, 1},
	}
	zUpToYUp = dmat.T{
		dvec4.T{1, 0, 0, 0},
		dvec4.T{0, 0, -1, 0},
		dvec4.T{0, 1, 0, 0},
		dvec4.T{0, 0, 0, 1},
	}
)

// toZUpBasis re-expresses a transform authored in a Y-up basis in the Z-up basis.
func toZUpBasis(m *dmat.T) dmat.T {
	tmp := mulMat(&yUpToZUp, m)
	return mulMat(&tmp, &zUpToYUp)
}

// boxCorners returns the eight corners of b in the order the authoring tool lists
// its bound box.
func boxCorners(b *dvec3.Box) [8]dvec3.T {
	lo, hi := b.Min, b.Max
	return [8]dvec3.T{
		{lo[0], lo[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{hi[0], hi[1], lo[2]},
	}
}

func boxSize(b *dvec3.Box) dvec3.T {
	return dvec3.T{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

func isEmptyBox(b *dvec3.Box) bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}
