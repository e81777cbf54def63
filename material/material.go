// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package material defines the material bound to drawable
// scene nodes: a shader program and its named parameters.
package material

import (
	"errors"
	"slices"
	"strings"

	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
)

const matPrefix = "material: "

func newMatErr(reason string) error { return errors.New(matPrefix + reason) }

// Parameter names understood by the default program.
const (
	ParamDiffuse        = "diffuse"
	ParamSpecular       = "specular"
	ParamEmission       = "emission"
	ParamDiffuseTexture = "diffuseTexture"
)

// Material binds a program to parameter values.
//
// Materials are shared, not copied: the same *Material may
// be set on any number of nodes, and changes made through
// one of them are seen by all.
// The program must outlive the material. Textures must
// belong to the context that created the program.
type Material struct {
	prog   device.Program
	params map[string]any
}

// New creates a material that uses prog.
func New(prog device.Program) (*Material, error) {
	if prog == nil {
		return nil, newMatErr("nil device.Program")
	}
	return &Material{
		prog:   prog,
		params: make(map[string]any),
	}, nil
}

// Program returns the program of m.
func (m *Material) Program() device.Program { return m.prog }

func (m *Material) set(name string, v any) error {
	if strings.TrimSpace(name) == "" {
		return newMatErr("empty parameter name")
	}
	m.params[name] = v
	return nil
}

// SetFloat sets a scalar parameter.
func (m *Material) SetFloat(name string, v float32) error { return m.set(name, v) }

// SetInt sets an integer parameter.
func (m *Material) SetInt(name string, v int32) error { return m.set(name, v) }

// SetVec3 sets a 3-component parameter.
func (m *Material) SetVec3(name string, v linear.V3) error { return m.set(name, v) }

// SetVec4 sets a 4-component parameter.
func (m *Material) SetVec4(name string, v linear.V4) error { return m.set(name, v) }

// SetTexture sets a texture parameter.
func (m *Material) SetTexture(name string, t device.Texture) error {
	if t == nil {
		return newMatErr("nil device.Texture")
	}
	return m.set(name, t)
}

// Get returns the value of a parameter.
func (m *Material) Get(name string) (v any, ok bool) {
	v, ok = m.params[name]
	return
}

// Delete removes a parameter.
func (m *Material) Delete(name string) { delete(m.params, name) }

// Len returns the number of parameters.
func (m *Material) Len() int { return len(m.params) }

// Uniforms appends the parameters of m to dst, sorted
// by name, and returns the extended slice.
func (m *Material) Uniforms(dst []device.Uniform) []device.Uniform {
	n := len(dst)
	for name, v := range m.params {
		dst = append(dst, device.Uniform{Name: name, Value: v})
	}
	slices.SortFunc(dst[n:], func(a, b device.Uniform) int {
		return strings.Compare(a.Name, b.Name)
	})
	return dst
}

// SetDiffuse sets the diffuse color.
func (m *Material) SetDiffuse(c linear.V3) { m.params[ParamDiffuse] = c }

// Diffuse returns the diffuse color.
func (m *Material) Diffuse() (c linear.V3, ok bool) {
	c, ok = m.params[ParamDiffuse].(linear.V3)
	return
}

// SetSpecular sets the specular color.
func (m *Material) SetSpecular(c linear.V3) { m.params[ParamSpecular] = c }

// Specular returns the specular color.
func (m *Material) Specular() (c linear.V3, ok bool) {
	c, ok = m.params[ParamSpecular].(linear.V3)
	return
}

// SetEmission sets the emissive color.
func (m *Material) SetEmission(c linear.V3) { m.params[ParamEmission] = c }

// Emission returns the emissive color.
func (m *Material) Emission() (c linear.V3, ok bool) {
	c, ok = m.params[ParamEmission].(linear.V3)
	return
}

// SetDiffuseTexture sets the diffuse texture.
// The texture is sampled and multiplied by the diffuse
// color, so both are set independently.
func (m *Material) SetDiffuseTexture(t device.Texture) error {
	return m.SetTexture(ParamDiffuseTexture, t)
}

// DiffuseTexture returns the diffuse texture.
func (m *Material) DiffuseTexture() (t device.Texture, ok bool) {
	t, ok = m.params[ParamDiffuseTexture].(device.Texture)
	return
}
