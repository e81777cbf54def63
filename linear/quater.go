// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	rr := l.R*r.R - d
	q.V.Add(&v, &w)
	q.R = rr
}

// Rotate sets q to contain a rotation of angle radians
// about axis.
// axis need not be normalized, but must not be the
// zero vector.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := math32.Sin(angle/2), math32.Cos(angle/2)
	q.V.Norm(axis)
	q.V.Scale(s, &q.V)
	q.R = c
}
