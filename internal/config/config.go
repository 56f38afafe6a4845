package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	collider3d "github.com/flywave/go-3dcollider"
)

// Config holds the export settings of the command line tool.
type Config struct {
	Input        string `yaml:"input"`
	UpAxis       string `yaml:"up_axis"` // "y", "z" or empty for the format default
	MaterialName string `yaml:"material_name"`
	OutputName   string `yaml:"output_name"`
	ProjectDir   string `yaml:"project_dir"` // empty writes next to the input file
	Precision    int    `yaml:"precision"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns a Config with the exporter defaults.
func Default() *Config {
	return &Config{
		MaterialName: collider3d.DefaultMaterialName,
		OutputName:   collider3d.DefaultOutputName,
		Precision:    collider3d.DefaultPrecision,
		LogLevel:     "info",
	}
}

// Load reads a YAML config file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded values into cfg, but only for fields whose flag was
// not explicitly set on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["input"] {
		cfg.Input = fromFile.Input
	}
	if !explicitFlags["up-axis"] {
		cfg.UpAxis = fromFile.UpAxis
	}
	if !explicitFlags["material"] {
		cfg.MaterialName = fromFile.MaterialName
	}
	if !explicitFlags["output"] {
		cfg.OutputName = fromFile.OutputName
	}
	if !explicitFlags["project-dir"] {
		cfg.ProjectDir = fromFile.ProjectDir
	}
	if !explicitFlags["precision"] {
		cfg.Precision = fromFile.Precision
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
}

// ExportOptions maps the config onto the exporter options.
func (c *Config) ExportOptions() collider3d.Options {
	return collider3d.Options{
		MaterialName: c.MaterialName,
		OutputName:   c.OutputName,
		ProjectDir:   c.ProjectDir,
		Precision:    c.Precision,
	}
}
