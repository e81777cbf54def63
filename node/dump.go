// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package node

import (
	"fmt"
	"io"
	"strings"
)

// Path returns the names of n's ancestors and of n itself,
// root first, separated by slashes.
func Path(n Node) string {
	var s []string
	for ; n != nil; n = n.Parent() {
		s = append(s, n.Name())
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return strings.Join(s, "/")
}

// Dump writes a textual representation of the tree rooted
// at n to w, one node per line.
func Dump(w io.Writer, n Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n Node, depth int) error {
	var kind string
	switch x := n.(type) {
	case *Group:
		kind = "group"
	case *Mesh:
		kind = fmt.Sprintf("mesh vertices=%d indices=%d", x.VertexCount(), x.IndexCount())
	default:
		kind = fmt.Sprintf("%T", n)
	}
	var flags string
	if !n.Visible() {
		flags += " hidden"
	}
	if n.Material() != nil {
		flags += " material"
	}
	if _, err := fmt.Fprintf(w, "%s%q (%s)%s\n", strings.Repeat("  ", depth), n.Name(), kind, flags); err != nil {
		return err
	}
	for _, c := range n.base().children {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
