package collider3d

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"

	"github.com/qmuntal/gltf"
)

// GltfLoader reads glTF and GLB files. glTF is Y-up, so by default every node is
// rotated into the Z-up source space.
type GltfLoader struct {
	opts LoaderOptions
	doc  *gltf.Document
}

func (g *GltfLoader) Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return g.FromDocument(doc)
}

// FromDocument walks the default scene depth first, parents before children.
func (g *GltfLoader) FromDocument(doc *gltf.Document) (*Scene, error) {
	g.doc = doc
	sc := NewScene()
	for _, mt := range doc.Materials {
		if mt != nil {
			sc.RegisterMaterial(mt.Name)
		}
	}

	yUp := g.opts.isYUp(AxisY)
	visited := make(map[int]bool)
	var walk func(idx int, parent *dmat.T) error
	walk = func(idx int, parent *dmat.T) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", idx)
		}
		if visited[idx] {
			return fmt.Errorf("node %d is reachable twice", idx)
		}
		visited[idx] = true

		nd := doc.Nodes[idx]
		if nd == nil {
			return fmt.Errorf("node %d is empty", idx)
		}
		local := g.toMat(nd)
		world := mulMat(parent, &local)

		mh, err := g.mesh(nd)
		if err != nil {
			return fmt.Errorf("node %s: %w", nodeName(nd, idx), err)
		}
		box, err := g.localBox(mh)
		if err != nil {
			return fmt.Errorf("node %s: %w", nodeName(nd, idx), err)
		}
		sc.Add(buildObject(nodeName(nd, idx), g.materials(mh), box, local, world, yUp))

		for _, c := range nd.Children {
			if err := walk(int(c), &world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range g.rootNodes() {
		if err := walk(r, &dmat.Ident); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (g *GltfLoader) rootNodes() []int {
	doc := g.doc
	var roots []int
	if len(doc.Scenes) > 0 && doc.Scenes[0] != nil {
		sidx := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) && doc.Scenes[int(*doc.Scene)] != nil {
			sidx = int(*doc.Scene)
		}
		for _, n := range doc.Scenes[sidx].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	isChild := make(map[int]bool)
	for _, nd := range doc.Nodes {
		for _, c := range nd.Children {
			isChild[int(c)] = true
		}
	}
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// mesh returns the mesh nd instances, or nil when it has none.
func (g *GltfLoader) mesh(nd *gltf.Node) (*gltf.Mesh, error) {
	if nd.Mesh == nil {
		return nil, nil
	}
	idx := int(*nd.Mesh)
	if idx >= len(g.doc.Meshes) || g.doc.Meshes[idx] == nil {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}
	return g.doc.Meshes[idx], nil
}

func (g *GltfLoader) materials(mh *gltf.Mesh) []string {
	if mh == nil {
		return nil
	}
	var slots []string
	for _, ps := range mh.Primitives {
		if ps == nil || ps.Material == nil || int(*ps.Material) >= len(g.doc.Materials) {
			continue
		}
		if mt := g.doc.Materials[int(*ps.Material)]; mt != nil {
			slots = appendUnique(slots, mt.Name)
		}
	}
	return slots
}

// localBox uses the POSITION accessor bounds when present and falls back to reading
// the vertex data.
func (g *GltfLoader) localBox(mh *gltf.Mesh) (*dvec3.Box, error) {
	if mh == nil {
		return nil, nil
	}
	bbx := dvec3.MinBox
	for _, ps := range mh.Primitives {
		if ps == nil {
			continue
		}
		idx, ok := ps.Attributes["POSITION"]
		if !ok {
			continue
		}
		if int(idx) >= len(g.doc.Accessors) || g.doc.Accessors[int(idx)] == nil {
			return nil, fmt.Errorf("accessor index %d out of range", idx)
		}
		acc := g.doc.Accessors[int(idx)]
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			bbx.Extend(&dvec3.T{float64(acc.Min[0]), float64(acc.Min[1]), float64(acc.Min[2])})
			bbx.Extend(&dvec3.T{float64(acc.Max[0]), float64(acc.Max[1]), float64(acc.Max[2])})
			continue
		}
		err := readPositions(g.doc, acc, func(v [3]float32) {
			bbx.Extend(&dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
		})
		if err != nil {
			return nil, err
		}
	}
	if isEmptyBox(&bbx) {
		return nil, nil
	}
	return &bbx, nil
}

func readPositions(doc *gltf.Document, acc *gltf.Accessor, process func([3]float32)) error {
	if acc.BufferView == nil {
		return errors.New("POSITION accessor has no buffer view")
	}
	if acc.Type != gltf.AccessorVec3 || acc.ComponentType != gltf.ComponentFloat {
		return errors.New("POSITION accessor is not a float vec3")
	}
	if int(*acc.BufferView) >= len(doc.BufferViews) || doc.BufferViews[int(*acc.BufferView)] == nil {
		return fmt.Errorf("buffer view index %d out of range", *acc.BufferView)
	}
	bv := doc.BufferViews[int(*acc.BufferView)]
	if int(bv.Buffer) >= len(doc.Buffers) || doc.Buffers[int(bv.Buffer)] == nil {
		return fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	buffer := doc.Buffers[int(bv.Buffer)]
	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = 12
	}
	start := int(bv.ByteOffset) + int(acc.ByteOffset)
	for i := 0; i < int(acc.Count); i++ {
		off := start + i*stride
		if off+12 > len(buffer.Data) {
			return io.ErrUnexpectedEOF
		}
		var v [3]float32
		for k := range v {
			v[k] = math.Float32frombits(binary.LittleEndian.Uint32(buffer.Data[off+k*4:]))
		}
		process(v)
	}
	return nil
}

// toMat returns the node's local transform. An explicit matrix wins over TRS unless
// it is zero or identity.
func (g *GltfLoader) toMat(nd *gltf.Node) dmat.T {
	var ay [16]float64
	explicit := false
	for i, v := range nd.Matrix {
		ay[i] = float64(v)
		ident := 0.0
		if i%5 == 0 {
			ident = 1
		}
		if ay[i] != ident && ay[i] != 0 {
			explicit = true
		}
	}
	if explicit {
		return dmat.T{
			dvec4.T{ay[0], ay[1], ay[2], ay[3]},
			dvec4.T{ay[4], ay[5], ay[6], ay[7]},
			dvec4.T{ay[8], ay[9], ay[10], ay[11]},
			dvec4.T{ay[12], ay[13], ay[14], ay[15]},
		}
	}

	tra := dvec3.T{float64(nd.Translation[0]), float64(nd.Translation[1]), float64(nd.Translation[2])}
	sc := dvec3.T{float64(nd.Scale[0]), float64(nd.Scale[1]), float64(nd.Scale[2])}
	if sc == (dvec3.T{}) {
		sc = dvec3.T{1, 1, 1}
	}
	rot := quat.T{float64(nd.Rotation[0]), float64(nd.Rotation[1]), float64(nd.Rotation[2]), float64(nd.Rotation[3])}
	if rot == (quat.T{}) {
		rot = quat.T{0, 0, 0, 1}
	}
	return composeQuatTRS(tra, rot, sc)
}

func nodeName(nd *gltf.Node, idx int) string {
	if nd.Name != "" {
		return nd.Name
	}
	return fmt.Sprintf("node_%d", idx)
}
