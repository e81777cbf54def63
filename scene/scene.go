// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides functionality for creating and
// rendering scene graphs.
//
// A Service owns the root of a graph and the default
// shader program used by imported materials. It draws
// the whole graph once per frame and lowers Wavefront
// OBJ and glTF files into Group and Mesh nodes.
package scene

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/node"
	"github.com/gviegas/sgraph/texture"
)

const prefix = "scene: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// ErrNoContext means that the device.Provider has no
// current context.
var ErrNoContext = newErr("no current device context")

// Name of the root node.
const RootName = "root"

//go:embed shader
var shaderFS embed.FS

// Service manages a scene graph.
// It is not safe for concurrent use: the graph must only
// be accessed from the goroutine that draws it.
type Service struct {
	prov    device.Provider
	cfg     Config
	prog    device.Program
	shaders []device.Shader
	root    *node.Group
	cam     node.Camera
}

// New creates a new Service.
// The default program is built with the provider's current
// context, which must remain valid for the lifetime of
// the Service.
// A nil cfg is the same as DefaultConfig(). An empty
// cfg.DefaultTexture means texture.White.
func New(prov device.Provider, cfg *Config) (*Service, error) {
	if prov == nil {
		return nil, newErr("nil device.Provider")
	}
	ctx := prov.CurrentContext()
	if ctx == nil {
		return nil, ErrNoContext
	}
	s := &Service{prov: prov, cfg: DefaultConfig()}
	if cfg != nil {
		s.cfg = *cfg
		if s.cfg.DefaultTexture == "" {
			s.cfg.DefaultTexture = texture.White
		}
	}
	if err := s.buildProgram(ctx); err != nil {
		return nil, err
	}
	s.root = node.NewGroup(RootName)
	sgraph.Logger().Debug("scene created", "stages", len(s.shaders))
	return s, nil
}

type stageSource struct {
	stage device.Stage
	path  string
	embed string
}

func (s *Service) sources() []stageSource {
	src := []stageSource{
		{device.VertexStage, s.cfg.VertexShader, "shader/default.vert"},
		{device.GeometryStage, s.cfg.GeometryShader, "shader/default.geom"},
		{device.FragmentStage, s.cfg.FragmentShader, "shader/default.frag"},
	}
	if s.cfg.NoGeometryShader {
		src = append(src[:1], src[2])
	}
	return src
}

// buildProgram compiles and links the default program.
// Nothing remains allocated on failure.
func (s *Service) buildProgram(ctx device.Context) (err error) {
	defer func() {
		if err != nil {
			s.destroyProgram()
		}
	}()
	if s.prog, err = ctx.NewProgram(); err != nil {
		return fmt.Errorf("%sdefault program: %w", prefix, err)
	}
	for _, x := range s.sources() {
		var b []byte
		if x.path != "" {
			b, err = os.ReadFile(x.path)
		} else {
			b, err = shaderFS.ReadFile(x.embed)
		}
		if err != nil {
			return fmt.Errorf("%s%s shader source: %w", prefix, x.stage, err)
		}
		sh, err := ctx.NewShader(x.stage)
		if err != nil {
			return fmt.Errorf("%s%s shader: %w", prefix, x.stage, err)
		}
		s.shaders = append(s.shaders, sh)
		sh.SetSource(string(b))
		if err := sh.Compile(); err != nil {
			return fmt.Errorf("%s%s shader: %w", prefix, x.stage, err)
		}
		s.prog.Attach(sh)
	}
	if err = s.prog.Link(); err != nil {
		return fmt.Errorf("%sdefault program: %w", prefix, err)
	}
	return nil
}

func (s *Service) destroyProgram() {
	if s.prog != nil {
		s.prog.Destroy()
		s.prog = nil
	}
	for _, sh := range s.shaders {
		sh.Destroy()
	}
	s.shaders = nil
}

// Root returns the root node.
func (s *Service) Root() *node.Group { return s.root }

// Program returns the default program.
func (s *Service) Program() device.Program { return s.prog }

// Config returns the configuration of s.
func (s *Service) Config() Config { return s.cfg }

// SetCamera sets the camera used to draw the scene.
// A nil cam disables drawing.
func (s *Service) SetCamera(cam node.Camera) { s.cam = cam }

// Camera returns the current camera, or nil.
func (s *Service) Camera() node.Camera { return s.cam }

// DrawAll draws the whole graph using the renderer of the
// current context.
// It does nothing if no camera is set.
func (s *Service) DrawAll() {
	if s.cam == nil {
		return
	}
	ctx := s.prov.CurrentContext()
	if ctx == nil {
		sgraph.Logger().Warn("scene not drawn", "err", ErrNoContext)
		return
	}
	id := linear.Identity()
	node.Render(s.root, ctx.Renderer(), s.cam, &id)
}

// Animate calls the Animate method of every node.
// It is meant to be called once per frame, before DrawAll.
func (s *Service) Animate(timeMS uint32) { node.Animate(s.root, timeMS) }

// Frame animates and then draws the graph.
func (s *Service) Frame(timeMS uint32) {
	s.Animate(timeMS)
	s.DrawAll()
}

// parent resolves the parent argument of the methods that
// attach nodes. A nil parent, including a typed nil, means
// the root.
func (s *Service) parent(n node.Node) node.Node {
	if node.IsNil(n) {
		return s.root
	}
	return n
}

// AddEmptySceneNode creates an unnamed group as the last
// child of parent. A nil parent means the root.
func (s *Service) AddEmptySceneNode(parent node.Node) (*node.Group, error) {
	g := node.NewGroup("")
	if err := s.parent(parent).AddChild(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Close destroys the graph and the default program.
// The Service must not be used afterwards.
func (s *Service) Close() {
	if s.root != nil {
		s.root.Destroy()
		s.root = nil
	}
	s.destroyProgram()
	s.cam = nil
}
