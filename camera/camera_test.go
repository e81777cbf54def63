// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/node"
)

var _ node.Camera = &Camera{}

const eps = 1e-4

func project(m *linear.M4, p linear.V3) linear.V3 {
	v := linear.V4{p[0], p[1], p[2], 1}
	v.Mul(m, &v)
	return linear.V3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
}

func TestViewProj(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())
	vp := c.ViewProj()

	// The target is at the center of the viewport.
	p := project(&vp, c.Target)
	assert.InDelta(t, 0, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.True(t, p[2] > -1 && p[2] < 1)

	// Near and far planes map to -1 and 1.
	p = project(&vp, linear.V3{0, 0, c.Eye[2] - c.Near})
	assert.InDelta(t, -1, p[2], eps)
	p = project(&vp, linear.V3{0, 0, c.Eye[2] - c.Far})
	assert.InDelta(t, 1, p[2], 1e-3)

	// Points above the target project above the center.
	p = project(&vp, linear.V3{0, 1, 0})
	assert.Greater(t, p[1], float32(0))
}

func TestValidate(t *testing.T) {
	for _, f := range [...]func(c *Camera){
		func(c *Camera) { c.FOV = 0 },
		func(c *Camera) { c.FOV = 180 },
		func(c *Camera) { c.Aspect = 0 },
		func(c *Camera) { c.Near = 0 },
		func(c *Camera) { c.Far = c.Near },
		func(c *Camera) { c.Target = c.Eye },
		func(c *Camera) { c.Up = linear.V3{0, 0, 1} },
	} {
		c := New()
		f(c)
		assert.Error(t, c.Validate())
	}
}

func TestOrbit(t *testing.T) {
	c := New()
	c.Orbit(math32.Pi/2, 0)
	assert.InDelta(t, 10, c.Eye[0], eps)
	assert.InDelta(t, 0, c.Eye[1], eps)
	assert.InDelta(t, 0, c.Eye[2], eps)
	var d linear.V3
	d.Sub(&c.Eye, &c.Target)
	assert.InDelta(t, 10, d.Len(), eps)
}

func TestZoom(t *testing.T) {
	c := New()
	c.Zoom(0.5)
	assert.InDelta(t, 5, c.Eye[2], eps)
	c.Zoom(-1)
	assert.InDelta(t, 10, c.Eye[2], eps)
	c.Zoom(1)
	assert.InDelta(t, 10, c.Eye[2], eps)
}

func TestSetViewport(t *testing.T) {
	c := New()
	c.SetViewport(800, 600)
	assert.InDelta(t, 4.0/3.0, c.Aspect, eps)
	c.SetViewport(0, 600)
	assert.InDelta(t, 4.0/3.0, c.Aspect, eps)
}
