// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package camera implements a perspective camera that can
// be bound to a scene.
package camera

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/gviegas/sgraph/linear"
)

// Camera is a perspective camera looking from Eye
// towards Target.
// It implements node.Camera.
type Camera struct {
	// Vertical field of view, in degrees.
	FOV float32
	// Aspect ratio (width / height).
	Aspect float32
	// Near and far planes. 0 < Near < Far.
	Near, Far float32

	Eye, Target, Up linear.V3
}

// New creates a camera with default parameters: a 45°
// field of view, 16:9 aspect ratio, looking at the origin
// from (0, 0, 10) with +Y up.
func New() *Camera {
	return &Camera{
		FOV:    45,
		Aspect: 16.0 / 9.0,
		Near:   0.1,
		Far:    1000,
		Eye:    linear.V3{0, 0, 10},
		Up:     linear.V3{0, 1, 0},
	}
}

// Validate checks whether c describes a valid projection.
func (c *Camera) Validate() error {
	switch {
	case c.FOV <= 0 || c.FOV >= 180:
		return errors.New("camera: FOV out of range (0, 180)")
	case c.Aspect <= 0:
		return errors.New("camera: non-positive aspect ratio")
	case c.Near <= 0 || c.Far <= c.Near:
		return errors.New("camera: invalid depth range")
	}
	var d linear.V3
	d.Sub(&c.Target, &c.Eye)
	if d.Len() == 0 {
		return errors.New("camera: Eye and Target coincide")
	}
	var x linear.V3
	x.Cross(&d, &c.Up)
	if x.Len() == 0 {
		return errors.New("camera: Up is parallel to the view direction")
	}
	return nil
}

// LookAt sets the camera's target and up direction.
func (c *Camera) LookAt(target, up linear.V3) {
	c.Target = target
	c.Up = up
}

// SetViewport sets the aspect ratio from a viewport size.
// Non-positive sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// View returns the view matrix.
func (c *Camera) View() (m linear.M4) {
	m.LookAt(&c.Eye, &c.Target, &c.Up)
	return
}

// Proj returns the projection matrix.
func (c *Camera) Proj() (m linear.M4) {
	m.Perspective(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
	return
}

// ViewProj returns Proj ⋅ View.
func (c *Camera) ViewProj() linear.M4 {
	v, p := c.View(), c.Proj()
	var m linear.M4
	m.Mul(&p, &v)
	return m
}

// Orbit rotates the eye around Target by yaw radians about
// Up, then by pitch radians about the camera's right axis.
// The distance to Target is preserved.
func (c *Camera) Orbit(yaw, pitch float32) {
	var d linear.V3
	d.Sub(&c.Eye, &c.Target)
	up := c.Up
	up.Norm(&up)

	var q, p linear.Q
	q.Rotate(yaw, &up)
	var right linear.V3
	right.Cross(&up, &d)
	if right.Len() > 0 {
		right.Norm(&right)
		p.Rotate(pitch, &right)
		q.Mul(&p, &q)
	}
	var r linear.M4
	r.RotateQ(&q)
	d4 := linear.V4{d[0], d[1], d[2], 0}
	d4.Mul(&r, &d4)
	c.Eye = linear.V3{c.Target[0] + d4[0], c.Target[1] + d4[1], c.Target[2] + d4[2]}
}

// Zoom moves the eye towards Target by a fraction of their
// distance. Negative values move it away.
// The eye never reaches Target.
func (c *Camera) Zoom(fraction float32) {
	if fraction >= 1 {
		return
	}
	var d linear.V3
	d.Sub(&c.Eye, &c.Target)
	d.Scale(1-fraction, &d)
	c.Eye.Add(&c.Target, &d)
}
