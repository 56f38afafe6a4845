package collider3d

import (
	"fmt"
	"io"
	"os"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"

	"gopkg.in/yaml.v3"
)

// SceneDump is the scene description a host-side script writes out. JSON is read
// through the YAML decoder, so either encoding works.
type SceneDump struct {
	Materials []string     `yaml:"materials" json:"materials"`
	Objects   []ObjectDump `yaml:"objects" json:"objects"`
}

// ObjectDump mirrors the authoring tool's object properties. MatrixWorld is given as
// four rows; when absent it is composed from Location, RotationEuler and Scale.
type ObjectDump struct {
	Name          string      `yaml:"name" json:"name"`
	Materials     []string    `yaml:"materials" json:"materials"`
	BoundBox      [][]float64 `yaml:"bound_box" json:"bound_box"`
	MatrixWorld   [][]float64 `yaml:"matrix_world" json:"matrix_world"`
	Location      []float64   `yaml:"location" json:"location"`
	RotationEuler []float64   `yaml:"rotation_euler" json:"rotation_euler"`
	Scale         []float64   `yaml:"scale" json:"scale"`
	Dimensions    []float64   `yaml:"dimensions" json:"dimensions"`
}

type DumpLoader struct {
	opts LoaderOptions
}

func (l *DumpLoader) Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Read(f)
}

func (l *DumpLoader) Read(r io.Reader) (*Scene, error) {
	var dump SceneDump
	if err := yaml.NewDecoder(r).Decode(&dump); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scene dump: %w", err)
	}
	return dump.Scene(l.opts)
}

// Scene validates the dump and builds an in-memory scene from it.
func (d *SceneDump) Scene(opts LoaderOptions) (*Scene, error) {
	sc := NewScene()
	for _, m := range d.Materials {
		sc.RegisterMaterial(m)
	}
	yUp := opts.isYUp(AxisZ)
	for i := range d.Objects {
		obj, err := d.Objects[i].object(yUp)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, d.Objects[i].Name, err)
		}
		sc.Add(obj)
	}
	return sc, nil
}

func (od *ObjectDump) object(yUp bool) (*Object, error) {
	rotation, err := vec3OrDefault(od.RotationEuler, dvec3.T{}, "rotation_euler")
	if err != nil {
		return nil, err
	}

	var world dmat.T
	if len(od.MatrixWorld) > 0 {
		if world, err = rowsToMat(od.MatrixWorld); err != nil {
			return nil, err
		}
	} else {
		loc, err := vec3OrDefault(od.Location, dvec3.T{}, "location")
		if err != nil {
			return nil, err
		}
		scale, err := vec3OrDefault(od.Scale, dvec3.T{1, 1, 1}, "scale")
		if err != nil {
			return nil, err
		}
		world = ComposeTRS(loc, rotation, scale)
	}

	o := &Object{
		ObjectName: od.Name,
		Slots:      od.Materials,
		World:      world,
		Euler:      rotation,
	}

	if len(od.BoundBox) > 0 {
		if len(od.BoundBox) != 8 {
			return nil, fmt.Errorf("bound_box has %d corners, want 8", len(od.BoundBox))
		}
		var corners [8]dvec3.T
		bbx := dvec3.MinBox
		for i, c := range od.BoundBox {
			if len(c) != 3 {
				return nil, fmt.Errorf("bound_box corner %d has %d values, want 3", i, len(c))
			}
			corners[i] = dvec3.T{c[0], c[1], c[2]}
			bbx.Extend(&corners[i])
		}
		o.Corners = &corners

		size := boxSize(&bbx)
		scale := MatrixScale(&world)
		o.Size = dvec3.T{size[0] * scale[0], size[1] * scale[1], size[2] * scale[2]}
	}
	if len(od.Dimensions) > 0 {
		if o.Size, err = vec3OrDefault(od.Dimensions, dvec3.T{}, "dimensions"); err != nil {
			return nil, err
		}
	}

	if yUp {
		o.toZUp()
	}
	return o, nil
}

// toZUp rotates an object authored in a Y-up basis into the Z-up source space.
func (o *Object) toZUp() {
	rot := EulerToMatrix(o.Euler)
	rot = toZUpBasis(&rot)
	o.Euler = MatrixToEuler(&rot)
	o.World = toZUpBasis(&o.World)
	if o.Corners != nil {
		for i := range o.Corners {
			o.Corners[i] = yUpToZUp.MulVec3(&o.Corners[i])
		}
	}
	o.Size = dvec3.T{o.Size[0], o.Size[2], o.Size[1]}
}

func vec3OrDefault(vals []float64, def dvec3.T, field string) (dvec3.T, error) {
	if len(vals) == 0 {
		return def, nil
	}
	if len(vals) != 3 {
		return def, fmt.Errorf("%s has %d values, want 3", field, len(vals))
	}
	return dvec3.T{vals[0], vals[1], vals[2]}, nil
}

func rowsToMat(rows [][]float64) (dmat.T, error) {
	if len(rows) != 4 {
		return dmat.Ident, fmt.Errorf("matrix_world has %d rows, want 4", len(rows))
	}
	var m dmat.T
	for row, vals := range rows {
		if len(vals) != 4 {
			return dmat.Ident, fmt.Errorf("matrix_world row %d has %d values, want 4", row, len(vals))
		}
		for col := 0; col < 4; col++ {
			m[col][row] = vals[col]
		}
	}
	return m, nil
}
