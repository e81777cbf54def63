// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
)

type fakeProg struct{}

func (fakeProg) Destroy()             {}
func (fakeProg) Attach(device.Shader) {}
func (fakeProg) Link() error          { return nil }

type fakeTex struct{}

func (fakeTex) Destroy()         {}
func (fakeTex) Size() (int, int) { return 1, 1 }

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	m, err := New(fakeProg{})
	require.NoError(t, err)
	assert.Equal(t, fakeProg{}, m.Program())
	assert.Zero(t, m.Len())
	_, ok := m.Diffuse()
	assert.False(t, ok)
}

func TestParams(t *testing.T) {
	m, err := New(fakeProg{})
	require.NoError(t, err)

	m.SetDiffuse(linear.V3{1, 0, 0})
	m.SetSpecular(linear.V3{0.5, 0.5, 0.5})
	require.NoError(t, m.SetDiffuseTexture(fakeTex{}))
	require.NoError(t, m.SetFloat("shininess", 32))
	require.NoError(t, m.SetInt("enableSmooth", 1))

	d, ok := m.Diffuse()
	require.True(t, ok)
	assert.Equal(t, linear.V3{1, 0, 0}, d)
	tex, ok := m.DiffuseTexture()
	require.True(t, ok)
	assert.Equal(t, fakeTex{}, tex)

	assert.Error(t, m.SetTexture("bump", nil))
	assert.Error(t, m.SetFloat(" ", 1))

	u := m.Uniforms([]device.Uniform{{Name: "model"}})
	names := make([]string, len(u))
	for i := range u {
		names[i] = u[i].Name
	}
	assert.Equal(t, []string{"model", "diffuse", "diffuseTexture", "enableSmooth", "shininess", "specular"}, names)

	m.Delete("shininess")
	_, ok = m.Get("shininess")
	assert.False(t, ok)
}

func TestShared(t *testing.T) {
	m, err := New(fakeProg{})
	require.NoError(t, err)
	a, b := m, m
	a.SetDiffuse(linear.V3{0, 1, 0})
	d, ok := b.Diffuse()
	require.True(t, ok)
	assert.Equal(t, linear.V3{0, 1, 0}, d)
}
