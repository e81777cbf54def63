// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package device defines the graphics device contracts
// that scene graphs render against.
// Implementations live elsewhere (see package headless);
// this package only describes what the scene graph needs
// from them: shader programs, immutable geometry buffers,
// 2D textures and a renderer that accepts draw calls.
package device

import (
	"errors"
	"image"

	"github.com/gviegas/sgraph/linear"
)

// ErrNoHostMemory means that host memory could not be
// allocated.
var ErrNoHostMemory = errors.New("device: out of host memory")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("device: out of device memory")

// ErrCompile means that a shader failed to compile.
var ErrCompile = errors.New("device: shader compilation failed")

// ErrLink means that a program failed to link.
var ErrLink = errors.New("device: program link failed")

// Destroyer is the interface that wraps the Destroy method.
// Destroy releases the resource. Using a destroyed resource
// is undefined behavior; destroying it twice has no effect.
type Destroyer interface {
	Destroy()
}

// Context is a device context.
// Resources created from a context must not be used with
// a different one.
type Context interface {
	// NewShader creates an empty shader of a given stage.
	NewShader(stage Stage) (Shader, error)

	// NewProgram creates a program with no shaders attached.
	NewProgram() (Program, error)

	// NewVertexBuffer creates an immutable buffer holding
	// a copy of v.
	NewVertexBuffer(v []Vertex) (Buffer, error)

	// NewIndexBuffer creates an immutable buffer holding
	// a copy of idx. Indices describe a triangle list.
	NewIndexBuffer(idx []uint32) (Buffer, error)

	// NewTexture2D creates a color texture from img.
	NewTexture2D(img image.Image) (Texture, error)

	// TextureManager returns the texture cache of the context.
	TextureManager() TextureManager

	// Renderer returns the renderer of the context.
	Renderer() Renderer
}

// Stage is the type of a shader stage.
type Stage int

// Shader stages.
const (
	VertexStage Stage = iota
	GeometryStage
	FragmentStage
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "Vertex"
	case GeometryStage:
		return "Geometry"
	case FragmentStage:
		return "Fragment"
	default:
		return "!device.Stage"
	}
}

// Shader is the interface that defines a single shader stage.
type Shader interface {
	Destroyer

	// Stage returns the stage of the shader.
	Stage() Stage

	// SetSource replaces the shader's source code.
	SetSource(src string)

	// Compile compiles the current source.
	// Failures wrap ErrCompile.
	Compile() error
}

// Program is the interface that defines a linked set of
// shader stages. Programs are opaque to the scene graph,
// which only refers to their uniforms by name.
type Program interface {
	Destroyer

	// Attach attaches a compiled shader to the program.
	Attach(s Shader)

	// Link links the attached shaders.
	// Failures wrap ErrLink.
	Link() error
}

// Buffer is the interface that defines immutable GPU memory.
type Buffer interface {
	Destroyer

	// Len returns the number of elements in the buffer.
	Len() int
}

// Texture is the interface that defines a 2D color texture.
type Texture interface {
	Destroyer

	// Size returns the width and height of the texture.
	Size() (width, height int)
}

// TextureManager is the interface that defines a texture
// cache.
type TextureManager interface {
	// RegisterColorTexture2D returns the texture identified by
	// name, loading and uploading it if needed.
	RegisterColorTexture2D(name string) (Texture, error)
}

// Vertex is the interleaved vertex layout used by meshes.
// Attribute locations are 0 (Pos), 1 (UV) and 2 (Norm).
type Vertex struct {
	Pos  linear.V3
	UV   linear.V2
	Norm linear.V3
}

// Uniform is a named program parameter.
// Value is one of float32, int32, linear.V3, linear.V4,
// linear.M4 or Texture.
type Uniform struct {
	Name  string
	Value any
}

// Draw describes a single indexed draw call.
type Draw struct {
	Program  Program
	Uniforms []Uniform
	Vertices Buffer
	Indices  Buffer
	Count    int
}

// Renderer is the interface that accepts draw calls.
type Renderer interface {
	// Draw issues d. The renderer must not retain d
	// or its Uniforms slice after returning.
	Draw(d *Draw)
}
