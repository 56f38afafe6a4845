package collider3d

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultMaterialName = "wall"
	DefaultOutputName   = "collider_export"
	DefaultPrecision    = 6
)

type Options struct {
	MaterialName string // first material slot name to export
	OutputName   string // output file name without the .json extension
	ProjectDir   string // directory the output is written to, "" for the working directory
	Precision    int    // decimals kept in the output, <= 0 keeps full precision
	Logger       *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		MaterialName: DefaultMaterialName,
		OutputName:   DefaultOutputName,
		Precision:    DefaultPrecision,
	}
}

type ExportDocument struct {
	Colliders []BoundingDescriptor `json:"colliders"`
}

type Result struct {
	// Selected counts objects matched by material, including the ones skipped later.
	Selected     int
	Exported     int
	Unmaterialed int
	Skipped      []SkippedObject
	Path         string
}

// Export writes the colliders of every object in src whose first material is
// opts.MaterialName to <ProjectDir>/<OutputName>.json, replacing any existing file.
// Only a write failure is returned as an error; objects without geometry are skipped
// and reported in the result.
func Export(src SceneObjectSource, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaterialName == "" {
		opts.MaterialName = DefaultMaterialName
	}
	if opts.OutputName == "" {
		opts.OutputName = DefaultOutputName
	}

	doc, res := Collect(src, opts.MaterialName)
	for _, sk := range res.Skipped {
		logger.Warn("object skipped", zap.String("object", sk.Name), zap.Error(sk.Reason))
	}
	if res.Unmaterialed > 0 {
		logger.Debug("objects without material ignored", zap.Int("count", res.Unmaterialed), zap.Error(ErrMissingMaterial))
	}
	if !src.HasMaterial(opts.MaterialName) {
		logger.Info("material not found in scene", zap.String("material", opts.MaterialName))
	}

	data, err := Marshal(doc.Rounded(opts.Precision))
	if err != nil {
		return nil, err
	}

	res.Path = filepath.Join(opts.ProjectDir, opts.OutputName+".json")
	if err := writeFile(res.Path, data); err != nil {
		return nil, err
	}

	logger.Info("colliders exported",
		zap.String("path", res.Path),
		zap.String("material", opts.MaterialName),
		zap.Int("selected", res.Selected),
		zap.Int("exported", res.Exported),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("unmaterialed", res.Unmaterialed),
	)
	return res, nil
}

// Collect builds the export document in memory without touching the filesystem.
func Collect(src SceneObjectSource, materialName string) (ExportDocument, *Result) {
	selected := SelectByMaterial(src, materialName)
	res := &Result{Selected: len(selected)}
	for _, obj := range src.Objects() {
		if _, ok := FirstMaterial(obj); !ok {
			res.Unmaterialed++
		}
	}

	doc := ExportDocument{Colliders: make([]BoundingDescriptor, 0, len(selected))}
	for _, obj := range selected {
		desc, err := ExtractBounds(obj)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedObject{Name: obj.Name(), Reason: err})
			continue
		}
		doc.Colliders = append(doc.Colliders, desc)
	}
	res.Exported = len(doc.Colliders)
	return doc, res
}

// Marshal encodes doc with a one space indent and a trailing newline. The document
// holds only numbers under fixed ASCII keys, so the output is plain ASCII.
func Marshal(doc ExportDocument) ([]byte, error) {
	if doc.Colliders == nil {
		doc.Colliders = []BoundingDescriptor{}
	}
	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return nil, fmt.Errorf("encode colliders: %w", err)
	}
	return append(data, '\n'), nil
}

// Rounded returns a copy of doc with every number rounded to precision decimals.
// Negative zero is always written as 0.
func (doc ExportDocument) Rounded(precision int) ExportDocument {
	out := ExportDocument{Colliders: make([]BoundingDescriptor, len(doc.Colliders))}
	r := func(v float64) float64 {
		if precision > 0 {
			v, _ = decimal.NewFromFloat(v).Round(int32(precision)).Float64()
		}
		if v == 0 {
			return 0
		}
		return v
	}
	rv := func(v Vector3) Vector3 {
		return Vector3{X: r(v.X), Y: r(v.Y), Z: r(v.Z)}
	}
	for i, c := range doc.Colliders {
		out.Colliders[i] = BoundingDescriptor{
			Origin:   rv(c.Origin),
			Rotation: rv(c.Rotation),
			Dimensions: Dimensions{
				Width:  r(c.Dimensions.Width),
				Depth:  r(c.Dimensions.Depth),
				Height: r(c.Dimensions.Height),
			},
		}
	}
	return out
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWriteFailed, cerr)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
