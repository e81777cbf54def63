// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func TestV3(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v", l, math.Sqrt(21))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}
	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	// Receiver aliases an operand.
	if v.Cross(&v, &w); v != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross (aliased)\nhave %v\nwant [1 0 0]", v)
	}

	m := M3{
		{2, 0, 1},
		{1, 3, 2},
		{4, 2, 3},
	}
	v = V3{-1, 0, 1}
	if u.Mul(&m, &v); u != (V3{2, 2, 2}) {
		t.Fatalf("V3.Mul\nhave %v\nwant [2 2 2]", u)
	}
	m.I()
	if v.Mul(&m, &v); v != (V3{-1, 0, 1}) {
		t.Fatalf("V3.Mul (identity, aliased)\nhave %v\nwant [-1 0 1]", v)
	}
}

func TestV4(t *testing.T) {
	var u V4
	v := V4{1, 2, 3, 4}
	w := V4{4, 3, 2, 1}

	if u.Add(&v, &w); u != (V4{5, 5, 5, 5}) {
		t.Fatalf("V4.Add\nhave %v\nwant [5 5 5 5]", u)
	}
	if u.Sub(&v, &w); u != (V4{-3, -1, 1, 3}) {
		t.Fatalf("V4.Sub\nhave %v\nwant [-3 -1 1 3]", u)
	}
	if d := v.Dot(&w); d != 20 {
		t.Fatalf("V4.Dot\nhave %v\nwant 20", d)
	}
	if u.Norm(&V4{0, 3, 0, 4}); !near(u[1], 0.6) || !near(u[3], 0.8) || u[0] != 0 || u[2] != 0 {
		t.Fatalf("V4.Norm\nhave %v\nwant [0 0.6 0 0.8]", u)
	}
}

func TestM3(t *testing.T) {
	var l M3
	m := M3{
		{1, 4, 7},
		{2, 5, 8},
		{3, 6, 9},
	}
	n := M3{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}

	if l.I(); l != (M3{{1}, {0, 1}, {0, 0, 1}}) {
		t.Fatalf("M3.I\nhave %v", l)
	}
	if l.Mul(&m, &n); l != (M3{m[1], m[2], m[0]}) {
		t.Fatalf("M3.Mul\nhave %v\nwant [%v %v %v]", l, m[1], m[2], m[0])
	}
	if l.Mul(&n, &m); l != (M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}}) {
		t.Fatalf("M3.Mul\nhave %v\nwant %v", l, M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}})
	}
	if l.Transpose(&m); l != (M3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}) {
		t.Fatalf("M3.Transpose\nhave %v", l)
	}
	if l.Invert(&n); l != (M3{n[1], n[2], n[0]}) {
		t.Fatalf("M3.Invert\nhave %v\nwant %v", l, M3{n[1], n[2], n[0]})
	}
}

func TestM4(t *testing.T) {
	var m, n, p M4
	m.Translate(1, 2, 3)
	n.Invert(&m)
	if want := (M4{{1}, {0, 1}, {0, 0, 1}, {-1, -2, -3, 1}}); n != want {
		t.Fatalf("M4.Invert\nhave %v\nwant %v", n, want)
	}
	if p.Mul(&m, &n); p != Identity() {
		t.Fatalf("M4.Mul(m, m⁻¹)\nhave %v\nwant identity", p)
	}
	// Receiver aliases the left operand.
	s := m
	s.Mul(&s, &n)
	if s != Identity() {
		t.Fatalf("M4.Mul (aliased)\nhave %v\nwant identity", s)
	}
	if p.Transpose(&m); p[0] != (V4{1, 0, 0, 1}) || p[3] != (V4{0, 0, 0, 1}) {
		t.Fatalf("M4.Transpose\nhave %v", p)
	}
}

func TestQ(t *testing.T) {
	var r Q
	q := Q{V: V3{1, 0, 0}, R: 3}
	p := Q{V: V3{0, 1, 0}, R: 3}

	if r.Mul(&q, &p); r.V != (V3{3, 3, 1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 1] 9}", r)
	}
	if r.Mul(&p, &q); r.V != (V3{3, 3, -1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 -1] 9}", r)
	}
	if q.Mul(&q, &q); q.V != (V3{6}) || q.R != 8 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[6 0 0] 8}", q)
	}
	if r.I(); r != (Q{R: 1}) {
		t.Fatalf("Q.I\nhave %v\nwant {[0 0 0] 1}", r)
	}
}

func TestTRS(t *testing.T) {
	var x, r, s M4
	var q Q

	x.Translate(-1, -2, -3)
	q.Rotate(0, &V3{1})
	r.RotateQ(&q)
	s.Scale(5, 5, 5)
	x.Mul(&x, &r)
	x.Mul(&x, &s)
	if x != (M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}}) {
		t.Fatalf("T*R*S\nhave %v\nwant %v", x, M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}})
	}
	v := V4{1, 1, 1, 1}
	v.Mul(&x, &v)
	if v != (V4{4, 3, 2, 1}) {
		t.Fatalf("TRS*v\nhave %v\nwant %v", v, V4{4, 3, 2, 1})
	}
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func TestRotateQ(t *testing.T) {
	var q Q
	var m M4
	q.Rotate(math.Pi/2, &V3{0, 0, 2})
	m.RotateQ(&q)
	v := V4{1, 0, 0, 1}
	v.Mul(&m, &v)
	want := V4{0, 1, 0, 1}
	for i := range v {
		if !near(v[i], want[i]) {
			t.Fatalf("RotateQ(90° about z)*x\nhave %v\nwant %v", v, want)
		}
	}
}

func TestView(t *testing.T) {
	var v, p M4
	v.LookAt(&V3{0, 0, 5}, &V3{}, &V3{0, 1, 0})
	o := V4{0, 0, 0, 1}
	o.Mul(&v, &o)
	if !near(o[2], -5) || !near(o[0], 0) || !near(o[1], 0) {
		t.Fatalf("LookAt: origin in view space\nhave %v\nwant [0 0 -5 1]", o)
	}

	p.Perspective(math.Pi/2, 1, 1, 10)
	n := V4{0, 0, -1, 1}
	n.Mul(&p, &n)
	if !near(n[2]/n[3], -1) {
		t.Fatalf("Perspective: near plane depth\nhave %v\nwant -1", n[2]/n[3])
	}
	f := V4{0, 0, -10, 1}
	f.Mul(&p, &f)
	if !near(f[2]/f[3], 1) {
		t.Fatalf("Perspective: far plane depth\nhave %v\nwant 1", f[2]/f[3])
	}
}
