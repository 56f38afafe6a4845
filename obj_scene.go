package collider3d

import (
	"os"
	"path/filepath"
	"strings"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"

	gobj "github.com/flywave/go-obj"
)

// ObjLoader reads a Wavefront OBJ file as a single object named after the file.
// OBJ vertices are already in world space, so the object has an identity transform.
// Material slots follow the order of first use in the face list.
type ObjLoader struct {
	opts LoaderOptions
}

func (obj *ObjLoader) Load(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := &gobj.ObjReader{}
	if err := reader.Read(file); err != nil {
		return nil, err
	}

	var slots []string
	for _, face := range reader.F {
		slots = appendUnique(slots, face.Material)
	}

	var local *dvec3.Box
	ext := dvec3.MinBox
	for _, v := range reader.V {
		ext.Extend(&dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
	}
	if !isEmptyBox(&ext) {
		local = &ext
	}

	sc := NewScene()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sc.Add(buildObject(name, slots, local, dmat.Ident, dmat.Ident, obj.opts.isYUp(AxisY)))
	return sc, nil
}
