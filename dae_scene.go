package collider3d

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	dae "github.com/flywave/go-collada"
	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

const daeMaterialSuffix = "-material"

// DaeLoader reads COLLADA files. Only top-level visual scene nodes become objects;
// the authoring tool's COLLADA export is Z-up.
type DaeLoader struct {
	opts      LoaderOptions
	daeGeoMap map[string]*dae.Geometry
}

func (cv *DaeLoader) Load(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	collada, err := dae.LoadDocumentFromReader(file)
	if err != nil {
		return nil, err
	}

	sc := NewScene()
	for _, m := range collada.LibraryMaterials {
		for _, mt := range m.Material {
			sc.RegisterMaterial(daeMaterialName(string(mt.Id)))
		}
	}

	cv.daeGeoMap = make(map[string]*dae.Geometry)
	for _, g := range collada.LibraryGeometries {
		for _, geo := range g.Geometry {
			cv.daeGeoMap[string(geo.Id)] = geo
		}
	}

	yUp := cv.opts.isYUp(AxisZ)
	for _, sce := range collada.LibraryVisualScenes {
		for _, vs := range sce.VisualScene {
			for _, nd := range vs.Node {
				mat, err := cv.nodeTransform(nd)
				if err != nil {
					return nil, fmt.Errorf("node %s: %w", string(nd.Id), err)
				}

				var slots []string
				var local *dvec3.Box
				for _, g := range nd.InstanceGeometry {
					geo, ok := cv.daeGeoMap[g.Url.GetId()]
					if !ok || geo.Mesh == nil {
						continue
					}
					slots = cv.geometryMaterials(geo.Mesh)
					local, err = cv.positionBox(geo.Mesh)
					if err != nil {
						return nil, fmt.Errorf("geometry %s: %w", string(geo.Id), err)
					}
					break
				}
				sc.Add(buildObject(string(nd.Id), slots, local, mat, mat, yUp))
			}
		}
	}
	return sc, nil
}

func (cv *DaeLoader) geometryMaterials(mh *dae.Mesh) []string {
	var slots []string
	for _, p := range mh.Polylist {
		slots = appendUnique(slots, daeMaterialName(p.Material))
	}

	var tgs []dae.Trig
	for _, t := range mh.Triangles {
		tgs = append(tgs, t)
	}
	for _, t := range mh.Trifans {
		tgs = append(tgs, t)
	}
	for _, t := range mh.Tristrips {
		tgs = append(tgs, t)
	}
	for _, t := range tgs {
		slots = appendUnique(slots, daeMaterialName(t.GetMaterial()))
	}
	return slots
}

func (cv *DaeLoader) positionBox(mh *dae.Mesh) (*dvec3.Box, error) {
	srcMap := make(map[string]*dae.Source)
	for _, src := range mh.Source {
		srcMap[string(src.Id)] = src
	}

	bbx := dvec3.MinBox
	for _, input := range mh.Vertices.Input {
		if input.Semantic != "POSITION" {
			continue
		}
		src, ok := srcMap[input.Source.GetId()]
		if !ok {
			return nil, fmt.Errorf("missing source %s", input.Source.GetId())
		}
		if src.FloatArray == nil {
			return nil, fmt.Errorf("source %s has no float_array", string(src.Id))
		}
		vals, err := parseFloats(src.FloatArray.ToSlice())
		if err != nil {
			return nil, err
		}
		stride := src.TechniqueCommon.Accessor.Stride
		if stride < 3 {
			stride = 3
		}
		for i := 0; i+2 < len(vals); i += stride {
			bbx.Extend(&dvec3.T{vals[i], vals[i+1], vals[i+2]})
		}
	}
	if isEmptyBox(&bbx) {
		return nil, nil
	}
	return &bbx, nil
}

// nodeTransform returns the node matrix, or translate * rotate... * scale when the
// node is described by separate transform elements.
func (cv *DaeLoader) nodeTransform(nd *dae.Node) (dmat.T, error) {
	if len(nd.Matrix) > 0 {
		vals, err := parseFloats(nd.Matrix[0].ToSlice())
		if err != nil {
			return dmat.Ident, err
		}
		return rowMajorToMat(vals)
	}

	tra := dvec3.T{}
	for _, t := range nd.Translate {
		vals, err := parseFloats(t.ToSlice())
		if err != nil {
			return dmat.Ident, err
		}
		if len(vals) >= 3 {
			tra.Add(&dvec3.T{vals[0], vals[1], vals[2]})
		}
	}

	rot := dmat.Ident
	for _, r := range nd.Rotate {
		vals, err := parseFloats(r.ToSlice())
		if err != nil {
			return dmat.Ident, err
		}
		if len(vals) < 4 {
			continue
		}
		step := axisAngleMat(dvec3.T{vals[0], vals[1], vals[2]}, vals[3]*math.Pi/180)
		rot = mulMat(&rot, &step)
	}

	scale := dvec3.T{1, 1, 1}
	if len(nd.Scale) > 0 {
		vals, err := parseFloats(nd.Scale[0].ToSlice())
		if err != nil {
			return dmat.Ident, err
		}
		if len(vals) >= 3 {
			scale = dvec3.T{vals[0], vals[1], vals[2]}
		}
	}
	return composeWithRotation(tra, &rot, scale), nil
}

func axisAngleMat(axis dvec3.T, angle float64) dmat.T {
	l := axis.Length()
	if l == 0 {
		return dmat.Ident
	}
	s := math.Sin(angle/2) / l
	q := quat.T{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(angle / 2)}
	var m dmat.T
	m.AssignQuaternion(&q)
	return m
}

func rowMajorToMat(vals []float64) (dmat.T, error) {
	if len(vals) < 16 {
		return dmat.Ident, fmt.Errorf("matrix has %d values, want 16", len(vals))
	}
	var m dmat.T
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col][row] = vals[row*4+col]
		}
	}
	return m, nil
}

func parseFloats(strs []string) ([]float64, error) {
	vals := make([]float64, 0, len(strs))
	for _, str := range strs {
		s := strings.TrimSpace(str)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// daeMaterialName maps a material id or symbol to the material name the authoring
// tool exported it from.
func daeMaterialName(id string) string {
	return strings.TrimSuffix(strings.TrimPrefix(id, "#"), daeMaterialSuffix)
}
