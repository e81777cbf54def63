// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package headless implements a device.Context that does
// not render anything.
//
// Resources are kept in host memory and draw calls are
// recorded, so that the output of a scene graph can be
// inspected without a GPU. It is also registered as a
// device.Driver named "headless".
package headless

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/internal/handle"
	"github.com/gviegas/sgraph/texture"
)

const prefix = "headless: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Config configures a Context.
type Config struct {
	// MaxBuffers is the maximum number of live buffers.
	// Zero means no limit.
	MaxBuffers int
	// MaxTextures is the maximum number of live textures.
	// Zero means no limit.
	MaxTextures int
	// TextureFS is the file system from which textures
	// are loaded. Nil means the operating system's.
	TextureFS fs.FS
}

// Context implements device.Context.
type Context struct {
	cfg     Config
	bufs    handle.Table[*Buffer]
	texs    handle.Table[*Texture]
	shaders handle.Table[*Shader]
	progs   handle.Table[*Program]
	cache   *texture.Cache
	rend    Renderer
}

// New creates a new Context.
// A nil cfg is the same as the zero Config.
func New(cfg *Config) *Context {
	c := new(Context)
	if cfg != nil {
		c.cfg = *cfg
	}
	c.cache = texture.NewCache(c, c.cfg.TextureFS)
	return c
}

// NewShader implements device.Context.
func (c *Context) NewShader(stage device.Stage) (device.Shader, error) {
	switch stage {
	case device.VertexStage, device.GeometryStage, device.FragmentStage:
	default:
		return nil, newErr(fmt.Sprintf("invalid shader stage %d", stage))
	}
	s := &Shader{ctx: c, stage: stage}
	s.h = c.shaders.Insert(s)
	return s, nil
}

// NewProgram implements device.Context.
func (c *Context) NewProgram() (device.Program, error) {
	p := &Program{ctx: c}
	p.h = c.progs.Insert(p)
	return p, nil
}

func (c *Context) newBuffer() (*Buffer, error) {
	if c.cfg.MaxBuffers > 0 && c.bufs.Len() >= c.cfg.MaxBuffers {
		return nil, device.ErrNoDeviceMemory
	}
	b := &Buffer{ctx: c}
	b.h = c.bufs.Insert(b)
	return b, nil
}

// NewVertexBuffer implements device.Context.
func (c *Context) NewVertexBuffer(v []device.Vertex) (device.Buffer, error) {
	b, err := c.newBuffer()
	if err != nil {
		return nil, err
	}
	b.verts = slices.Clone(v)
	return b, nil
}

// NewIndexBuffer implements device.Context.
func (c *Context) NewIndexBuffer(idx []uint32) (device.Buffer, error) {
	b, err := c.newBuffer()
	if err != nil {
		return nil, err
	}
	b.index = true
	b.idx = slices.Clone(idx)
	return b, nil
}

// NewTexture2D implements device.Context.
func (c *Context) NewTexture2D(img image.Image) (device.Texture, error) {
	if img == nil {
		return nil, newErr("nil image")
	}
	if c.cfg.MaxTextures > 0 && c.texs.Len() >= c.cfg.MaxTextures {
		return nil, device.ErrNoDeviceMemory
	}
	t := &Texture{ctx: c, img: img}
	t.h = c.texs.Insert(t)
	return t, nil
}

// TextureManager implements device.Context.
func (c *Context) TextureManager() device.TextureManager { return c.cache }

// Cache returns the texture cache of c.
func (c *Context) Cache() *texture.Cache { return c.cache }

// Renderer implements device.Context.
func (c *Context) Renderer() device.Renderer { return &c.rend }

// Recorder returns the renderer of c.
func (c *Context) Recorder() *Renderer { return &c.rend }

// Live returns the number of resources created from c
// that were not destroyed yet.
func (c *Context) Live() int {
	return c.bufs.Len() + c.texs.Len() + c.shaders.Len() + c.progs.Len()
}

// Buffers returns the number of live buffers.
func (c *Context) Buffers() int { return c.bufs.Len() }

// Textures returns the number of live textures.
func (c *Context) Textures() int { return c.texs.Len() }

// Destroy destroys every resource created from c.
func (c *Context) Destroy() {
	c.cache.Release()
	var ds []device.Destroyer
	for _, b := range c.bufs.All() {
		ds = append(ds, b)
	}
	for _, t := range c.texs.All() {
		ds = append(ds, t)
	}
	for _, p := range c.progs.All() {
		ds = append(ds, p)
	}
	for _, s := range c.shaders.All() {
		ds = append(ds, s)
	}
	for _, d := range ds {
		d.Destroy()
	}
	c.rend.Reset()
}

// Buffer implements device.Buffer.
type Buffer struct {
	ctx   *Context
	h     int
	index bool
	verts []device.Vertex
	idx   []uint32
}

// Destroy implements device.Destroyer.
func (b *Buffer) Destroy() {
	if b.ctx == nil {
		return
	}
	b.ctx.bufs.Remove(b.h)
	*b = Buffer{index: b.index}
}

// Len implements device.Buffer.
func (b *Buffer) Len() int {
	if b.index {
		return len(b.idx)
	}
	return len(b.verts)
}

// Vertices returns the vertex data of b.
// It is nil for index buffers.
func (b *Buffer) Vertices() []device.Vertex { return b.verts }

// Indices returns the index data of b.
// It is nil for vertex buffers.
func (b *Buffer) Indices() []uint32 { return b.idx }

// Texture implements device.Texture.
type Texture struct {
	ctx *Context
	h   int
	img image.Image
}

// Destroy implements device.Destroyer.
func (t *Texture) Destroy() {
	if t.ctx == nil {
		return
	}
	t.ctx.texs.Remove(t.h)
	*t = Texture{}
}

// Size implements device.Texture.
func (t *Texture) Size() (width, height int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the image from which t was created.
func (t *Texture) Image() image.Image { return t.img }

// Shader implements device.Shader.
type Shader struct {
	ctx      *Context
	h        int
	stage    device.Stage
	src      string
	compiled bool
}

// Destroy implements device.Destroyer.
func (s *Shader) Destroy() {
	if s.ctx == nil {
		return
	}
	s.ctx.shaders.Remove(s.h)
	s.ctx = nil
	s.compiled = false
}

// Stage implements device.Shader.
func (s *Shader) Stage() device.Stage { return s.stage }

// SetSource implements device.Shader.
func (s *Shader) SetSource(src string) {
	s.src = src
	s.compiled = false
}

// Source returns the current source of s.
func (s *Shader) Source() string { return s.src }

// Compile implements device.Shader.
// The source is not validated beyond being non-empty
// and declaring an entry point.
func (s *Shader) Compile() error {
	switch {
	case s.ctx == nil:
		return fmt.Errorf("%w: %s shader destroyed", device.ErrCompile, s.stage)
	case strings.TrimSpace(s.src) == "":
		return fmt.Errorf("%w: %s shader has no source", device.ErrCompile, s.stage)
	case !strings.Contains(s.src, "main"):
		return fmt.Errorf("%w: %s shader has no entry point", device.ErrCompile, s.stage)
	}
	s.compiled = true
	return nil
}

// Compiled reports whether s was compiled successfully
// since its source was last set.
func (s *Shader) Compiled() bool { return s.compiled }

// Program implements device.Program.
type Program struct {
	ctx     *Context
	h       int
	shaders []*Shader
	linked  bool
}

// Destroy implements device.Destroyer.
func (p *Program) Destroy() {
	if p.ctx == nil {
		return
	}
	p.ctx.progs.Remove(p.h)
	p.ctx = nil
	p.shaders = nil
	p.linked = false
}

// Attach implements device.Program.
// Shaders not created by the headless device are ignored.
func (p *Program) Attach(s device.Shader) {
	if hs, ok := s.(*Shader); ok {
		p.shaders = append(p.shaders, hs)
		p.linked = false
	} else {
		sgraph.Logger().Warn("headless: foreign shader not attached", "type", fmt.Sprintf("%T", s))
	}
}

// Link implements device.Program.
// It requires compiled vertex and fragment stages.
func (p *Program) Link() error {
	if p.ctx == nil {
		return fmt.Errorf("%w: program destroyed", device.ErrLink)
	}
	var vert, frag bool
	for _, s := range p.shaders {
		if !s.compiled {
			return fmt.Errorf("%w: %s shader not compiled", device.ErrLink, s.stage)
		}
		switch s.stage {
		case device.VertexStage:
			vert = true
		case device.FragmentStage:
			frag = true
		}
	}
	if !vert || !frag {
		return fmt.Errorf("%w: missing vertex or fragment stage", device.ErrLink)
	}
	p.linked = true
	return nil
}

// Linked reports whether p was linked successfully
// since a shader was last attached.
func (p *Program) Linked() bool { return p.linked }

// Stages returns the stages attached to p, in order.
func (p *Program) Stages() []device.Stage {
	s := make([]device.Stage, len(p.shaders))
	for i := range p.shaders {
		s[i] = p.shaders[i].stage
	}
	return s
}

// Renderer implements device.Renderer.
// It records a copy of every draw call.
type Renderer struct {
	mu    sync.Mutex
	calls []device.Draw
}

// Draw implements device.Renderer.
func (r *Renderer) Draw(d *device.Draw) {
	c := *d
	c.Uniforms = slices.Clone(d.Uniforms)
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded draw calls, in
// the order they were issued.
func (r *Renderer) Calls() []device.Draw {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Reset discards the recorded draw calls.
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
