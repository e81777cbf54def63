// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/sgraph/texture"
)

// Config is used to configure a Service.
type Config struct {
	// Paths of shader source files that replace the
	// built-in program's stages.
	//
	// Default is empty (use the built-in source).
	VertexShader   string `toml:"vertex_shader" yaml:"vertex_shader"`
	GeometryShader string `toml:"geometry_shader" yaml:"geometry_shader"`
	FragmentShader string `toml:"fragment_shader" yaml:"fragment_shader"`

	// Whether the default program has a geometry stage.
	//
	// Default is false.
	NoGeometryShader bool `toml:"no_geometry_shader" yaml:"no_geometry_shader"`

	// The name of the diffuse texture set on every
	// imported material before its own texture (if any).
	//
	// Default is texture.White.
	DefaultTexture string `toml:"default_texture" yaml:"default_texture"`

	// Whether the V texture coordinate of imported
	// meshes is replaced by 1-V.
	//
	// Default is true.
	FlipV bool `toml:"flip_v" yaml:"flip_v"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTexture: texture.White,
		FlipV:          true,
	}
}

// LoadConfig reads a configuration file.
// The format is chosen from the file extension: either
// TOML (.toml) or YAML (.yaml, .yml).
// Fields that the file does not set keep their default
// values.
func LoadConfig(name string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(name)
	if err != nil {
		return cfg, fmt.Errorf("scene: config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return cfg, fmt.Errorf("scene: config: unknown format %q", ext)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("scene: config %s: %w", name, err)
	}
	if cfg.DefaultTexture == "" {
		cfg.DefaultTexture = texture.White
	}
	return cfg, nil
}
