package collider3d

import (
	"os"
	"strings"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"

	fbx "github.com/flywave/ofbx"
)

// FbxLoader reads FBX files, one object per mesh. FBX exports default to Y-up.
// Rotation is taken from the global matrix, which equals the local one for
// unparented meshes.
type FbxLoader struct {
	opts LoaderOptions
}

func (cv *FbxLoader) Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scene, err := fbx.Load(f)
	if err != nil {
		return nil, err
	}

	sc := NewScene()
	yUp := cv.opts.isYUp(AxisY)
	for _, mh := range scene.Meshes {
		var slots []string
		for _, mt := range mh.Materials {
			if mt == nil {
				continue
			}
			name := fbxName(mt.Name())
			sc.RegisterMaterial(name)
			slots = appendUnique(slots, name)
		}

		var local *dvec3.Box
		if mh.Geometry != nil {
			bbx := dvec3.MinBox
			for _, v := range mh.Geometry.Vertices {
				bbx.Extend(&dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
			}
			if !isEmptyBox(&bbx) {
				local = &bbx
			}
		}

		mtx := fbx.GetGlobalMatrix(mh)
		world := arryToMat(mtx.ToArray())
		sc.Add(buildObject(fbxName(mh.Name()), slots, local, world, world, yUp))
	}
	return sc, nil
}

// fbxName strips the class suffix binary files append after a NUL ("Cube\x00\x01Model")
// and the class prefix text files put in front ("Model::Cube").
func fbxName(s string) string {
	s = cString(s)
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	return s
}

// arryToMat reads a column-major 4x4 array.
func arryToMat(mat [16]float64) dmat.T {
	return dmat.T{
		dvec4.T{mat[0], mat[1], mat[2], mat[3]},
		dvec4.T{mat[4], mat[5], mat[6], mat[7]},
		dvec4.T{mat[8], mat[9], mat[10], mat[11]},
		dvec4.T{mat[12], mat[13], mat[14], mat[15]},
	}
}
