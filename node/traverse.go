// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

import (
	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/linear"
)

// Render draws the tree rooted at n.
//
// Nodes are visited exactly once, in pre-order, children in
// insertion order. Each node's world transform is acc ⋅ local,
// and becomes the accumulated transform of its children.
// A nil acc is the identity. Invisible nodes are not drawn,
// but their descendants are.
//
// The tree must not be changed until Render returns.
func Render(n Node, r device.Renderer, cam Camera, acc *linear.M4) {
	world := n.Transform().Matrix()
	if acc != nil {
		world.Mul(acc, &world)
	}
	if n.Visible() {
		n.Draw(r, cam, &world)
	}
	for _, c := range n.base().children {
		Render(c, r, cam, &world)
	}
}

// Animate calls the Animate method of every node in the tree
// rooted at n, in pre-order.
func Animate(n Node, timeMS uint32) {
	n.Animate(timeMS)
	for _, c := range n.base().children {
		Animate(c, timeMS)
	}
}

// Walk calls f for n and each of its descendants, in pre-order.
// If f returns false, Walk returns immediately.
// The tree must not be changed until Walk returns.
func Walk(n Node, f func(Node) bool) {
	walk(n, f)
}

func walk(n Node, f func(Node) bool) bool {
	if !f(n) {
		return false
	}
	for _, c := range n.base().children {
		if !walk(c, f) {
			return false
		}
	}
	return true
}

// World computes the world transform of n, that is, the
// product of the local transforms of all of its ancestors
// and of n itself, root first.
func World(n Node) linear.M4 {
	m := n.Transform().Matrix()
	for p := n.Parent(); p != nil; p = p.Parent() {
		l := p.Transform().Matrix()
		m.Mul(&l, &m)
	}
	return m
}

// Root returns the root of the tree that contains n.
func Root(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}
