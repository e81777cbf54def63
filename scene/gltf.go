// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"fmt"
	"strconv"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/gltf"
	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/material"
	"github.com/gviegas/sgraph/node"
)

// LoadGLTFScene loads the .gltf or .glb file filename and
// lowers its root nodes into a new group named after
// filename, which becomes the last child of parent.
// A nil parent means the root.
//
// Each glTF node becomes a Group carrying the node's
// transform. Each triangle primitive of a node's mesh
// becomes a Mesh child of that group. Other primitives,
// and primitives whose mesh cannot be created, are logged
// and skipped. Texture coordinates are used as stored.
//
// If the file cannot be decoded or the group cannot be
// attached, an error is returned and the graph is left
// unchanged.
func (s *Service) LoadGLTFScene(parent node.Node, filename string) (*node.Group, error) {
	ctx := s.prov.CurrentContext()
	if ctx == nil {
		return nil, ErrNoContext
	}
	doc, err := gltf.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("%sload %s: %w", prefix, filename, err)
	}
	g := node.NewGroup(filename)
	l := gltfLowering{s: s, ctx: ctx, doc: doc, mats: make(map[int64]*material.Material)}
	for _, r := range doc.Roots() {
		if err := l.addNode(g, r); err != nil {
			g.Destroy()
			return nil, err
		}
	}
	if err := s.parent(parent).AddChild(g); err != nil {
		g.Destroy()
		return nil, err
	}
	sgraph.Logger().Info("gltf scene loaded", "file", filename, "nodes", len(doc.Nodes), "meshes", l.meshes, "materials", len(l.mats))
	return g, nil
}

type gltfLowering struct {
	s      *Service
	ctx    device.Context
	doc    *gltf.Doc
	mats   map[int64]*material.Material
	meshes int
}

// addNode lowers the subtree rooted at glTF node i and
// appends it to parent. On failure, nothing is appended.
func (l *gltfLowering) addNode(parent node.Node, i int64) error {
	gn := &l.doc.Nodes[i]
	name := gn.Name
	if name == "" {
		name = "node" + strconv.FormatInt(i, 10)
	}
	g := node.NewGroup(name)
	setTransform(g.Transform(), gn)
	if gn.Mesh != nil {
		gm := &l.doc.Meshes[*gn.Mesh]
		for j := range gm.Primitives {
			m, err := l.primitive(gm, j)
			if err != nil {
				sgraph.Logger().Error("primitive skipped", "node", name, "mesh", gm.Name, "index", j, "err", err)
				continue
			}
			if m == nil {
				continue
			}
			if err := g.AddChild(m); err != nil {
				m.Destroy()
				g.Destroy()
				return err
			}
			l.meshes++
		}
	}
	for _, c := range gn.Children {
		if err := l.addNode(g, c); err != nil {
			g.Destroy()
			return err
		}
	}
	if err := parent.AddChild(g); err != nil {
		g.Destroy()
		return err
	}
	return nil
}

func setTransform(t *linear.Transform, gn *gltf.Node) {
	if m := gn.Matrix; m != nil {
		mat := linear.M4{
			{m[0], m[1], m[2], m[3]},
			{m[4], m[5], m[6], m[7]},
			{m[8], m[9], m[10], m[11]},
			{m[12], m[13], m[14], m[15]},
		}
		t.SetMatrix(&mat)
		return
	}
	if v := gn.Translation; v != nil {
		t.SetTranslation(v[0], v[1], v[2])
	}
	if q := gn.Rotation; q != nil {
		t.SetRotation(linear.Q{V: linear.V3{q[0], q[1], q[2]}, R: q[3]})
	}
	if v := gn.Scale; v != nil {
		t.SetScale(v[0], v[1], v[2])
	}
}

// primitive creates a Mesh from primitive j of gm.
// It returns nil and no error if the primitive is not
// made of triangles.
func (l *gltfLowering) primitive(gm *gltf.Mesh, j int) (*node.Mesh, error) {
	p := &gm.Primitives[j]
	if p.Mode != nil && *p.Mode != gltf.TRIANGLES {
		sgraph.Logger().Warn("primitive mode not supported", "mesh", gm.Name, "index", j, "mode", *p.Mode)
		return nil, nil
	}
	pa, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, newErr("primitive has no " + gltf.POSITION)
	}
	pos, err := l.doc.Floats(pa, 3)
	if err != nil {
		return nil, err
	}
	n := len(pos) / 3
	var norm, uv []float32
	if a, ok := p.Attributes[gltf.NORMAL]; ok {
		if norm, err = l.doc.Floats(a, 3); err != nil {
			return nil, err
		}
	}
	if a, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if uv, err = l.doc.Floats(a, 2); err != nil {
			return nil, err
		}
	}
	verts := make([]device.Vertex, n)
	for i := range verts {
		copy(verts[i].Pos[:], pos[i*3:])
		if len(norm) >= n*3 {
			copy(verts[i].Norm[:], norm[i*3:])
		}
		if len(uv) >= n*2 {
			copy(verts[i].UV[:], uv[i*2:])
		}
	}
	var idx []uint32
	if p.Indices != nil {
		if idx, err = l.doc.Indices(*p.Indices); err != nil {
			return nil, err
		}
	} else {
		idx = make([]uint32, n)
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	name := gm.Name
	if len(gm.Primitives) > 1 {
		name += "/" + strconv.Itoa(j)
	}
	m, err := node.NewMesh(l.ctx, name, verts, idx)
	if err != nil {
		return nil, err
	}
	mat, err := l.material(p.Material)
	if err != nil {
		m.Destroy()
		return nil, err
	}
	m.SetMaterial(mat)
	return m, nil
}

// material returns the Material for glTF material id.
// Primitives that share a glTF material share the result.
// A nil id yields a fresh base material.
func (l *gltfLowering) material(id *int64) (*material.Material, error) {
	tm := l.ctx.TextureManager()
	if id == nil {
		return l.s.baseMaterial(tm)
	}
	if mat, ok := l.mats[*id]; ok {
		return mat, nil
	}
	mat, err := l.s.baseMaterial(tm)
	if err != nil {
		return nil, err
	}
	gm := &l.doc.Materials[*id]
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if c := pbr.BaseColorFactor; c != nil {
			mat.SetDiffuse(linear.V3{c[0], c[1], c[2]})
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			uri, err := l.doc.ImageURI(ti.Index)
			if err != nil {
				sgraph.Logger().Warn("texture not loaded", "material", gm.Name, "err", err)
			} else if err := setDiffuseTexture(tm, mat, l.doc.Dir, uri, "material", gm.Name); err != nil {
				return nil, err
			}
		}
	}
	if e := gm.EmissiveFactor; e != nil {
		mat.SetEmission(linear.V3(*e))
	}
	l.mats[*id] = mat
	return mat, nil
}
