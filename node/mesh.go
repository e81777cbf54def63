// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"errors"
	"fmt"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
)

const meshPrefix = "node: mesh: "

// Uniform names set by Mesh on every draw.
const (
	UniformModel = "model"
	UniformMVP   = "mvp"
)

// Mesh is a node that draws an indexed triangle list.
// Its geometry is uploaded once, on creation, and cannot
// be changed afterwards.
type Mesh struct {
	Base
	vbuf  device.Buffer
	ibuf  device.Buffer
	count int
}

// NewMesh creates a new mesh whose vertex and index buffers
// are created from ctx.
// indices must describe a triangle list whose elements are
// valid indices into vertices.
// Errors from ctx are wrapped and returned as is; no buffer
// remains allocated in that case.
func NewMesh(ctx device.Context, name string, vertices []device.Vertex, indices []uint32) (*Mesh, error) {
	if ctx == nil {
		return nil, errors.New(meshPrefix + "nil device.Context")
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%s%q: index count %d is not a multiple of 3", meshPrefix, name, len(indices))
	}
	for _, x := range indices {
		if int64(x) >= int64(len(vertices)) {
			return nil, fmt.Errorf("%s%q: index %d out of range [0, %d)", meshPrefix, name, x, len(vertices))
		}
	}
	vbuf, err := ctx.NewVertexBuffer(vertices)
	if err != nil {
		return nil, fmt.Errorf("%s%q: vertex buffer: %w", meshPrefix, name, err)
	}
	ibuf, err := ctx.NewIndexBuffer(indices)
	if err != nil {
		vbuf.Destroy()
		return nil, fmt.Errorf("%s%q: index buffer: %w", meshPrefix, name, err)
	}
	m := &Mesh{
		vbuf:  vbuf,
		ibuf:  ibuf,
		count: len(indices),
	}
	m.Init(m, name)
	return m, nil
}

// VertexBuffer returns the vertex buffer of m.
func (m *Mesh) VertexBuffer() device.Buffer { return m.vbuf }

// IndexBuffer returns the index buffer of m.
func (m *Mesh) IndexBuffer() device.Buffer { return m.ibuf }

// VertexCount returns the number of vertices in m.
func (m *Mesh) VertexCount() int {
	if m.vbuf == nil {
		return 0
	}
	return m.vbuf.Len()
}

// IndexCount returns the number of indices in m.
func (m *Mesh) IndexCount() int { return m.count }

// Draw issues a single draw call using m's material.
// The material's parameters are preceded by the "model"
// (world) and "mvp" (view-projection ⋅ world) uniforms.
// Meshes without a material are not drawn.
func (m *Mesh) Draw(r device.Renderer, cam Camera, world *linear.M4) {
	mat := m.Material()
	if mat == nil || m.vbuf == nil {
		sgraph.Logger().Debug("mesh not drawn", "name", m.Name(), "material", mat != nil)
		return
	}
	mvp := *world
	if cam != nil {
		vp := cam.ViewProj()
		mvp.Mul(&vp, world)
	}
	u := make([]device.Uniform, 0, 2+mat.Len())
	u = append(u,
		device.Uniform{Name: UniformModel, Value: *world},
		device.Uniform{Name: UniformMVP, Value: mvp},
	)
	r.Draw(&device.Draw{
		Program:  mat.Program(),
		Uniforms: mat.Uniforms(u),
		Vertices: m.vbuf,
		Indices:  m.ibuf,
		Count:    m.count,
	})
}

// Destroy destroys m's buffers and descendants.
func (m *Mesh) Destroy() {
	if m.vbuf != nil {
		m.vbuf.Destroy()
		m.ibuf.Destroy()
		m.vbuf, m.ibuf = nil, nil
		m.count = 0
	}
	m.Base.Destroy()
}
