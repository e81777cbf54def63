// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
	"fmt"
)

const prefix = "gltf: "

func newErr(reason string) error {
	return errors.New(prefix + reason)
}

func indexErr(what string, i int64) error {
	return fmt.Errorf("%sinvalid %s index %d", prefix, what, i)
}

func inRange[T any](i int64, s []T) bool { return i >= 0 && i < int64(len(s)) }

// Check checks that f is valid glTF for this package.
// Besides index bounds, it requires the node hierarchy
// to be a forest.
func (f *GLTF) Check() error {
	if len(f.ExtensionsRequired) > 0 {
		return newErr("required extension not supported: " + f.ExtensionsRequired[0])
	}
	if s := f.Scene; s != nil && !inRange(*s, f.Scenes) {
		return indexErr("GLTF.Scene", *s)
	}
	for i := range f.Scenes {
		for _, n := range f.Scenes[i].Nodes {
			if !inRange(n, f.Nodes) {
				return indexErr("Scene.Nodes", n)
			}
		}
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	for i := range f.BufferViews {
		bv := &f.BufferViews[i]
		if !inRange(bv.Buffer, f.Buffers) {
			return indexErr("BufferView.Buffer", bv.Buffer)
		}
		if bv.ByteOffset < 0 || bv.ByteLength < 1 || bv.ByteOffset+bv.ByteLength > f.Buffers[bv.Buffer].ByteLength {
			return newErr("BufferView out of Buffer bounds")
		}
		if bv.ByteStride != 0 && (bv.ByteStride < 4 || bv.ByteStride > 252 || bv.ByteStride%4 != 0) {
			return newErr("invalid BufferView.ByteStride value")
		}
	}
	for i := range f.Images {
		if bv := f.Images[i].BufferView; bv != nil && !inRange(*bv, f.BufferViews) {
			return indexErr("Image.BufferView", *bv)
		}
	}
	for i := range f.Textures {
		if src := f.Textures[i].Source; src != nil && !inRange(*src, f.Images) {
			return indexErr("Texture.Source", *src)
		}
	}
	for i := range f.Materials {
		pbr := f.Materials[i].PBRMetallicRoughness
		if pbr != nil && pbr.BaseColorTexture != nil && !inRange(pbr.BaseColorTexture.Index, f.Textures) {
			return indexErr("Material.BaseColorTexture", pbr.BaseColorTexture.Index)
		}
	}
	for i := range f.Meshes {
		if err := f.Meshes[i].Check(f); err != nil {
			return err
		}
	}
	return f.checkNodes()
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil && !inRange(*a.BufferView, gltf.BufferViews) {
		return indexErr("Accessor.BufferView", *a.BufferView)
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	if componentSize(a.ComponentType) == 0 {
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	if componentCount(a.Type) == 0 {
		return newErr("invalid Accessor.Type value")
	}
	if a.Sparse != nil {
		return newErr("sparse accessors not supported")
	}
	return nil
}

// Check checks that m is valid glTF.meshes' element.
func (m *Mesh) Check(gltf *GLTF) error {
	if len(m.Primitives) == 0 {
		return newErr("Mesh.Primitives is empty")
	}
	for _, p := range m.Primitives {
		for _, a := range p.Attributes {
			if !inRange(a, gltf.Accessors) {
				return indexErr("Primitive.Attributes", a)
			}
		}
		if p.Indices != nil && !inRange(*p.Indices, gltf.Accessors) {
			return indexErr("Primitive.Indices", *p.Indices)
		}
		if p.Material != nil && !inRange(*p.Material, gltf.Materials) {
			return indexErr("Primitive.Material", *p.Material)
		}
		if p.Mode != nil && (*p.Mode < POINTS || *p.Mode > TRIANGLE_FAN) {
			return newErr("invalid Primitive.Mode value")
		}
	}
	return nil
}

// checkNodes checks that every node has at most one parent
// and that every node is reachable from a parentless one.
func (f *GLTF) checkNodes() error {
	hasParent := make([]bool, len(f.Nodes))
	for i := range f.Nodes {
		n := &f.Nodes[i]
		if n.Mesh != nil && !inRange(*n.Mesh, f.Meshes) {
			return indexErr("Node.Mesh", *n.Mesh)
		}
		for _, c := range n.Children {
			switch {
			case !inRange(c, f.Nodes):
				return indexErr("Node.Children", c)
			case hasParent[c]:
				return fmt.Errorf("%snode %d has multiple parents", prefix, c)
			}
			hasParent[c] = true
		}
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if hasParent[n] {
				return fmt.Errorf("%sscene root %d is not a root node", prefix, n)
			}
		}
	}
	var (
		seen  int
		stack []int64
	)
	for i := range f.Nodes {
		if !hasParent[i] {
			stack = append(stack, int64(i))
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen++
		stack = append(stack, f.Nodes[n].Children...)
	}
	if seen != len(f.Nodes) {
		return newErr("node hierarchy has a cycle")
	}
	return nil
}

func componentSize(typ int64) int {
	switch typ {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case UNSIGNED_INT, FLOAT:
		return 4
	}
	return 0
}

func componentCount(typ string) int {
	switch typ {
	case SCALAR:
		return 1
	case VEC2:
		return 2
	case VEC3:
		return 3
	case VEC4, MAT2:
		return 4
	case MAT3:
		return 9
	case MAT4:
		return 16
	}
	return 0
}
