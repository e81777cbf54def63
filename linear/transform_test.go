// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"
)

func TestTransformZero(t *testing.T) {
	var x Transform
	if !x.Changed() {
		t.Fatal("Transform{}.Changed\nhave false\nwant true")
	}
	if m := x.Matrix(); m != Identity() {
		t.Fatalf("Transform{}.Matrix\nhave %v\nwant identity", m)
	}
	if x.Changed() {
		t.Fatal("Transform.Changed after Matrix\nhave true\nwant false")
	}
	if s := x.Scale(); s != (V3{1, 1, 1}) {
		t.Fatalf("Transform{}.Scale\nhave %v\nwant [1 1 1]", s)
	}
}

func TestTransformTRS(t *testing.T) {
	x := NewTransform()
	x.SetTranslation(-1, -2, -3)
	x.SetScale(5, 5, 5)
	if !x.Changed() {
		t.Fatal("Transform.Changed after SetScale\nhave false\nwant true")
	}
	want := M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}}
	if m := x.Matrix(); m != want {
		t.Fatalf("Transform.Matrix\nhave %v\nwant %v", m, want)
	}
	if tr := x.Translation(); tr != (V3{-1, -2, -3}) {
		t.Fatalf("Transform.Translation\nhave %v\nwant [-1 -2 -3]", tr)
	}
}

func TestTransformMatrix(t *testing.T) {
	var m M4
	m.Translate(4, 5, 6)
	x := NewTransform()
	x.SetMatrix(&m)
	if have := x.Matrix(); have != m {
		t.Fatalf("Transform.Matrix after SetMatrix\nhave %v\nwant %v", have, m)
	}
	// Setting a component switches back to TRS.
	x.SetScale(2, 2, 2)
	want := M4{{2}, {1: 2}, {2: 2}, {3: 1}}
	if have := x.Matrix(); have != want {
		t.Fatalf("Transform.Matrix after SetScale\nhave %v\nwant %v", have, want)
	}
	x.Reset()
	if have := x.Matrix(); have != Identity() {
		t.Fatalf("Transform.Matrix after Reset\nhave %v\nwant identity", have)
	}
}
