package collider3d

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tds "github.com/flywave/go-3ds"
	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

// Root chunk ids lib3ds accepts.
const (
	chunkM3DMagic  = 0x4D4D
	chunkMLibMagic = 0x3DAA
	chunkCMagic    = 0xC23D
	chunkMData     = 0x3D3D
)

var errNot3ds = errors.New("not a 3ds file")

// ThreeDsLoader reads 3D Studio files, one object per mesh. 3DS is Z-up like the
// source space. Material slots follow the order faces first reference them.
//
// Mesh vertices are stored in world space and the mesh matrix is the object
// frame, so the local box is taken from the vertices brought back through the
// inverse of that matrix.
type ThreeDsLoader struct {
	opts LoaderOptions
}

func (cv *ThreeDsLoader) Load(path string) (*Scene, error) {
	if err := check3dsHeader(path); err != nil {
		return nil, err
	}
	f := tds.OpenFile(path)
	mhs := f.GetMeshs()
	mtls := f.GetMaterials()

	sc := NewScene()
	for i := range mtls {
		sc.RegisterMaterial(cString(mtls[i].Name[:]))
	}

	yUp := cv.opts.isYUp(AxisZ)
	for i := range mhs {
		m := &mhs[i]
		mat := dmat.Ident
		for j, r := range m.Matrix {
			mat[j] = dvec4.T{float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])}
		}
		inv := dmat.Ident
		if mat.Determinant() != 0 {
			inv = mat.Inverted()
		}

		var slots []string
		for _, fc := range m.Faces {
			if fc.Material < 0 || int(fc.Material) >= len(mtls) {
				continue
			}
			slots = appendUnique(slots, cString(mtls[fc.Material].Name[:]))
		}

		var local *dvec3.Box
		ext := dvec3.MinBox
		for _, v := range m.Vertices {
			p := inv.MulVec3(&dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
			ext.Extend(&p)
		}
		if !isEmptyBox(&ext) {
			local = &ext
		}
		sc.Add(buildObject(cString(m.Name), slots, local, mat, mat, yUp))
	}
	return sc, nil
}

// check3dsHeader rejects files lib3ds would fail to open: an unknown root chunk
// or one that claims more bytes than the file holds.
func check3dsHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	var hdr struct {
		ID   uint16
		Size uint32
	}
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%s: %w", path, errNot3ds)
		}
		return err
	}
	switch hdr.ID {
	case chunkM3DMagic, chunkMLibMagic, chunkCMagic, chunkMData:
	default:
		return fmt.Errorf("%s: %w: root chunk 0x%04X", path, errNot3ds, hdr.ID)
	}
	if hdr.Size < 6 || int64(hdr.Size) > st.Size() {
		return fmt.Errorf("%s: %w: root chunk size %d of %d bytes", path, errNot3ds, hdr.Size, st.Size())
	}
	return nil
}

// cString cuts a fixed size name field at its first NUL.
func cString[S ~string | ~[]byte](s S) string {
	str := string(s)
	if i := strings.IndexByte(str, 0); i >= 0 {
		str = str[:i]
	}
	return str
}
