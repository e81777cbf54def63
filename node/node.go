// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
//
// A scene is a tree of nodes. Every node has a local
// transform relative to its parent, an optional material
// and an ordered list of children that it owns. Nodes
// have at most one parent; the graph is never a DAG or
// cyclic, which AddChild enforces.
package node

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/material"
)

// ErrInvalidOperation means that an operation would
// break the structure of the graph.
var ErrInvalidOperation = errors.New("node: invalid operation")

func newOpErr(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, reason)
}

// Camera is the interface that provides the view-projection
// transform used when drawing.
type Camera interface {
	ViewProj() linear.M4
}

// Node is the interface of every element of the graph.
// Implementations must embed Base and call its Init method.
type Node interface {
	// Name returns the name of the node.
	// Names need not be unique.
	Name() string
	SetName(name string)

	// Visible reports whether the node draws itself.
	// It has no effect on the node's children.
	Visible() bool
	SetVisible(visible bool)

	// Transform returns the local transform, relative to
	// the node's parent. It may be modified in place.
	Transform() *linear.Transform

	// Material returns the node's material, or nil.
	Material() *material.Material
	SetMaterial(m *material.Material)

	// Parent returns the node's parent, or nil.
	Parent() Node

	// Children returns a copy of the node's children,
	// in insertion order.
	Children() []Node

	// Len returns the number of children.
	Len() int

	// Child returns the first child with a given name,
	// or nil.
	Child(name string) Node

	// AddChild appends child to the node's children.
	// It fails if child is nil, is the node itself,
	// already has a parent or is an ancestor of the node.
	// Errors wrap ErrInvalidOperation.
	AddChild(child Node) error

	// RemoveChild removes and destroys the first child
	// with a given name. It returns false, leaving the
	// children unchanged, if there is no such child.
	RemoveChild(name string) bool

	// Detach removes the first child with a given name
	// and returns it, or nil if there is no such child.
	// Ownership of the subtree passes to the caller.
	Detach(name string) Node

	// Animate is called once per frame, before rendering,
	// with the current time in milliseconds.
	Animate(timeMS uint32)

	// Draw draws the node's own contribution, if any,
	// using world as its world transform.
	// It must not draw the node's children.
	Draw(r device.Renderer, cam Camera, world *linear.M4)

	// Destroy releases the node's resources and destroys
	// its descendants. If the node has a parent, it is
	// removed from it first.
	Destroy()

	base() *Base
}

// Base implements the functionality shared by all nodes.
type Base struct {
	self     Node
	name     string
	hidden   bool
	local    linear.Transform
	mat      *material.Material
	parent   Node
	children []Node
}

// Init initializes b as the Base of node self.
// self must embed b.
func (b *Base) Init(self Node, name string) {
	*b = Base{
		self:  self,
		name:  name,
		local: linear.NewTransform(),
	}
}

func (b *Base) base() *Base { return b }

// Name implements Node.
func (b *Base) Name() string { return b.name }

// SetName implements Node.
func (b *Base) SetName(name string) { b.name = name }

// Visible implements Node.
func (b *Base) Visible() bool { return !b.hidden }

// SetVisible implements Node.
func (b *Base) SetVisible(visible bool) { b.hidden = !visible }

// Transform implements Node.
func (b *Base) Transform() *linear.Transform { return &b.local }

// Material implements Node.
func (b *Base) Material() *material.Material { return b.mat }

// SetMaterial implements Node.
func (b *Base) SetMaterial(m *material.Material) { b.mat = m }

// Parent implements Node.
func (b *Base) Parent() Node { return b.parent }

// Children implements Node.
func (b *Base) Children() []Node { return slices.Clone(b.children) }

// Len implements Node.
func (b *Base) Len() int { return len(b.children) }

func (b *Base) index(name string) int {
	return slices.IndexFunc(b.children, func(n Node) bool { return n.Name() == name })
}

// Child implements Node.
func (b *Base) Child(name string) Node {
	if i := b.index(name); i >= 0 {
		return b.children[i]
	}
	return nil
}

// IsNil reports whether n is nil or holds a nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// AddChild implements Node.
func (b *Base) AddChild(child Node) error {
	if b.self == nil {
		return newOpErr("parent not initialized")
	}
	if IsNil(child) {
		return newOpErr("nil child")
	}
	cb := child.base()
	switch {
	case cb.self == nil:
		return newOpErr("child not initialized")
	case cb == b:
		return newOpErr("node cannot be its own child")
	case cb.parent != nil:
		return newOpErr(fmt.Sprintf("%q already has a parent", cb.name))
	}
	for a := b.self; a != nil; a = a.base().parent {
		if a.base() == cb {
			return newOpErr(fmt.Sprintf("%q is an ancestor of %q", cb.name, b.name))
		}
	}
	cb.parent = b.self
	b.children = append(b.children, cb.self)
	return nil
}

func (b *Base) detach(i int) Node {
	n := b.children[i]
	b.children = slices.Delete(b.children, i, i+1)
	n.base().parent = nil
	return n
}

// RemoveChild implements Node.
func (b *Base) RemoveChild(name string) bool {
	i := b.index(name)
	if i < 0 {
		return false
	}
	b.detach(i).Destroy()
	return true
}

// Detach implements Node.
func (b *Base) Detach(name string) Node {
	i := b.index(name)
	if i < 0 {
		return nil
	}
	return b.detach(i)
}

// Animate implements Node.
// It does nothing.
func (b *Base) Animate(timeMS uint32) {}

// Draw implements Node.
// It does nothing.
func (b *Base) Draw(r device.Renderer, cam Camera, world *linear.M4) {}

// Destroy implements Node.
func (b *Base) Destroy() {
	if p := b.parent; p != nil {
		pb := p.base()
		if i := slices.IndexFunc(pb.children, func(n Node) bool { return n.base() == b }); i >= 0 {
			pb.detach(i)
		}
	}
	children := b.children
	b.children = nil
	for _, c := range children {
		c.base().parent = nil
		c.Destroy()
	}
}
