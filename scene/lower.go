// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"fmt"
	"path/filepath"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/material"
	"github.com/gviegas/sgraph/node"
	"github.com/gviegas/sgraph/obj"
)

// LoadObjScene loads the .obj file filename and lowers it
// into a new group named after filename, which becomes
// the last child of parent. A nil parent means the root.
//
// Material libraries and textures are resolved relative
// to mtlBase or, if it is empty, to the directory that
// contains filename.
//
// If the file cannot be parsed or lowered, an error is
// returned and the graph is left unchanged.
func (s *Service) LoadObjScene(parent node.Node, filename, mtlBase string) (*node.Group, error) {
	shapes, mats, err := obj.Load(filename, mtlBase)
	if err != nil {
		return nil, fmt.Errorf("%sload %s: %w", prefix, filename, err)
	}
	g, err := s.Lower(parent, filename, shapes, mats, obj.BaseDir(filename, mtlBase))
	if err != nil {
		return nil, err
	}
	sgraph.Logger().Info("obj scene loaded", "file", filename, "shapes", len(shapes), "meshes", g.Len(), "materials", len(mats))
	return g, nil
}

// Lower creates a group named name holding a Mesh for
// each shape, then appends it to parent.
// A nil parent means the root. If the group cannot be
// appended, its meshes are destroyed and parent is left
// unchanged.
//
// Every mesh gets its own Material on the default program.
// Its diffuse texture is the configured default texture,
// replaced by the diffuse texture of the shape's material
// when that can be registered. The shape's material is
// the first non-negative entry of its material IDs.
// Relative texture names are joined with texBase, unless
// it is empty.
//
// Shapes whose mesh cannot be created are logged and
// skipped. Texture misses are logged.
func (s *Service) Lower(parent node.Node, name string, shapes []obj.Shape, mats []obj.Material, texBase string) (*node.Group, error) {
	ctx := s.prov.CurrentContext()
	if ctx == nil {
		return nil, ErrNoContext
	}
	g := node.NewGroup(name)
	tm := ctx.TextureManager()
	for i := range shapes {
		sh := &shapes[i]
		m, err := node.NewMesh(ctx, sh.Name, vertices(&sh.Mesh, s.cfg.FlipV), sh.Mesh.Indices)
		if err != nil {
			sgraph.Logger().Error("shape skipped", "group", name, "shape", sh.Name, "index", i, "err", err)
			continue
		}
		mat, err := s.material(tm, sh, mats, texBase)
		if err != nil {
			m.Destroy()
			sgraph.Logger().Error("shape skipped", "group", name, "shape", sh.Name, "index", i, "err", err)
			continue
		}
		m.SetMaterial(mat)
		if err := g.AddChild(m); err != nil {
			m.Destroy()
			g.Destroy()
			return nil, err
		}
	}
	if err := s.parent(parent).AddChild(g); err != nil {
		g.Destroy()
		return nil, err
	}
	return g, nil
}

// vertices interleaves the attributes of m.
// Missing texture coordinates and normals are zero.
func vertices(m *obj.MeshData, flipV bool) []device.Vertex {
	n := m.VertexCount()
	hasUV := len(m.TexCoords) >= n*2
	hasN := len(m.Normals) >= n*3
	v := make([]device.Vertex, n)
	for i := range v {
		copy(v[i].Pos[:], m.Positions[i*3:i*3+3])
		if hasUV {
			v[i].UV = linear.V2{m.TexCoords[i*2], m.TexCoords[i*2+1]}
			if flipV {
				v[i].UV[1] = 1 - v[i].UV[1]
			}
		}
		if hasN {
			copy(v[i].Norm[:], m.Normals[i*3:i*3+3])
		}
	}
	return v
}

// resolveMaterial returns the first non-negative ID in ids,
// or -1 if there is none.
func resolveMaterial(ids []int) int {
	for _, id := range ids {
		if id >= 0 {
			return id
		}
	}
	return -1
}

// baseMaterial creates a Material on the default program
// whose diffuse texture is the configured default texture.
func (s *Service) baseMaterial(tm device.TextureManager) (*material.Material, error) {
	mat, err := material.New(s.prog)
	if err != nil {
		return nil, err
	}
	if tex, err := tm.RegisterColorTexture2D(s.cfg.DefaultTexture); err != nil {
		sgraph.Logger().Warn("default texture not loaded", "name", s.cfg.DefaultTexture, "err", err)
	} else if err := mat.SetDiffuseTexture(tex); err != nil {
		return nil, err
	}
	return mat, nil
}

// setDiffuseTexture replaces the diffuse texture of mat with
// the texture name, relative to base unless absolute.
// Misses are logged with attrs and leave mat unchanged.
func setDiffuseTexture(tm device.TextureManager, mat *material.Material, base, name string, attrs ...any) error {
	if base != "" && !filepath.IsAbs(name) {
		name = filepath.Join(base, name)
	}
	tex, err := tm.RegisterColorTexture2D(name)
	if err != nil {
		sgraph.Logger().Warn("texture not loaded", append(attrs, "name", name, "err", err)...)
		return nil
	}
	return mat.SetDiffuseTexture(tex)
}

func (s *Service) material(tm device.TextureManager, sh *obj.Shape, mats []obj.Material, texBase string) (*material.Material, error) {
	mat, err := s.baseMaterial(tm)
	if err != nil {
		return nil, err
	}
	id := resolveMaterial(sh.Mesh.MaterialIDs)
	switch {
	case id < 0:
		return mat, nil
	case id >= len(mats):
		sgraph.Logger().Warn("material ID out of range", "shape", sh.Name, "id", id, "materials", len(mats))
		return mat, nil
	}
	om := &mats[id]
	if om.DiffuseTex != "" {
		if err := setDiffuseTexture(tm, mat, texBase, om.DiffuseTex, "shape", sh.Name, "material", om.Name); err != nil {
			return nil, err
		}
	}
	mat.SetDiffuse(linear.V3(om.Diffuse))
	mat.SetSpecular(linear.V3(om.Specular))
	return mat, nil
}
