// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package node

// Group is a node with no drawable content.
// It is used to compose and transform other nodes.
type Group struct {
	Base
}

// NewGroup creates a new group.
func NewGroup(name string) *Group {
	g := new(Group)
	g.Init(g, name)
	return g
}
