package collider3d

import (
	"fmt"
	"path/filepath"
	"strings"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

const (
	GLTF = "gltf"
	GLB  = "glb"
	FBX  = "fbx"
	DAE  = "dae"
	OBJ  = "obj"
	TDS  = "3ds"
	JSON = "json"
	YAML = "yaml"
	YML  = "yml"
)

type UpAxis string

const (
	AxisY UpAxis = "y"
	AxisZ UpAxis = "z"
)

func ParseUpAxis(s string) (UpAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return "", fmt.Errorf("invalid up axis %q, want y or z", s)
}

type LoaderOptions struct {
	// UpAxis overrides the format's conventional up axis. Y-up input is rotated
	// into the Z-up source space before extraction.
	UpAxis UpAxis
}

func (o LoaderOptions) isYUp(def UpAxis) bool {
	if o.UpAxis == "" {
		return def == AxisY
	}
	return o.UpAxis == AxisY
}

// SceneLoader reads an interchange file into a SceneObjectSource.
type SceneLoader interface {
	Load(path string) (*Scene, error)
}

func LoaderFactory(format string, opts LoaderOptions) SceneLoader {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case GLTF, GLB:
		return &GltfLoader{opts: opts}
	case FBX:
		return &FbxLoader{opts: opts}
	case DAE:
		return &DaeLoader{opts: opts}
	case OBJ:
		return &ObjLoader{opts: opts}
	case TDS:
		return &ThreeDsLoader{opts: opts}
	case JSON, YAML, YML:
		return &DumpLoader{opts: opts}
	}
	return nil
}

// LoadScene picks a loader by the extension of path.
func LoadScene(path string, opts LoaderOptions) (*Scene, error) {
	ld := LoaderFactory(filepath.Ext(path), opts)
	if ld == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	sc, err := ld.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return sc, nil
}

// buildObject assembles an Object from a local box and transforms expressed in the
// file's basis. rotation is the transform the Euler angles are read from.
func buildObject(name string, materials []string, local *dvec3.Box, rotation, world dmat.T, yUp bool) *Object {
	if yUp {
		rotation = toZUpBasis(&rotation)
		world = toZUpBasis(&world)
		if local != nil {
			b := transformBox(local, &yUpToZUp)
			local = &b
		}
	}

	o := &Object{
		ObjectName: name,
		Slots:      materials,
		World:      world,
		Euler:      MatrixToEuler(&rotation),
	}
	if local != nil && !isEmptyBox(local) {
		corners := boxCorners(local)
		o.Corners = &corners
		size := boxSize(local)
		scale := MatrixScale(&world)
		o.Size = dvec3.T{size[0] * scale[0], size[1] * scale[1], size[2] * scale[2]}
	}
	return o
}

func transformBox(b *dvec3.Box, m *dmat.T) dvec3.Box {
	out := dvec3.MinBox
	for _, c := range boxCorners(b) {
		p := m.MulVec3(&c)
		out.Extend(&p)
	}
	return out
}

// appendUnique appends name to slots unless it is empty or already present.
func appendUnique(slots []string, name string) []string {
	if name == "" {
		return slots
	}
	for _, s := range slots {
		if s == name {
			return slots
		}
	}
	return append(slots, name)
}
