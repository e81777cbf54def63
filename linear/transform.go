// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

// Transform is an affine transform relative to some
// parent space.
// It is either described by translation, rotation and
// scale components (applied as T⋅R⋅S) or by an explicit
// matrix set through SetMatrix.
// The zero value is the identity transform.
// Transforms are expected to be invertible; this is not
// checked.
type Transform struct {
	t, s    V3
	r       Q
	m       M4
	init    bool
	dirty   bool
	changed bool
}

// NewTransform returns an identity transform.
func NewTransform() (t Transform) {
	t.Reset()
	return
}

// Reset makes t the identity transform.
func (t *Transform) Reset() {
	*t = Transform{s: V3{1, 1, 1}, r: Q{R: 1}, init: true, dirty: true, changed: true}
}

func (t *Transform) lazyInit() {
	if !t.init {
		t.Reset()
	}
}

func (t *Transform) touch() {
	t.dirty = true
	t.changed = true
}

// Translation returns the translation component.
func (t *Transform) Translation() V3 {
	t.lazyInit()
	return t.t
}

// SetTranslation sets the translation component.
func (t *Transform) SetTranslation(x, y, z float32) {
	t.lazyInit()
	t.t = V3{x, y, z}
	t.touch()
}

// Rotation returns the rotation component.
func (t *Transform) Rotation() Q {
	t.lazyInit()
	return t.r
}

// SetRotation sets the rotation component.
// q must be a unit quaternion.
func (t *Transform) SetRotation(q Q) {
	t.lazyInit()
	t.r = q
	t.touch()
}

// Scale returns the scale component.
func (t *Transform) Scale() V3 {
	t.lazyInit()
	return t.s
}

// SetScale sets the scale component.
func (t *Transform) SetScale(x, y, z float32) {
	t.lazyInit()
	t.s = V3{x, y, z}
	t.touch()
}

// SetMatrix replaces t with an explicit matrix.
// The TRS components are left unchanged, but are
// ignored until one of them is set again.
func (t *Transform) SetMatrix(m *M4) {
	t.lazyInit()
	t.m = *m
	t.dirty = false
	t.changed = true
}

// Matrix returns the matrix of t.
// It clears the changed state.
func (t *Transform) Matrix() M4 {
	t.lazyInit()
	if t.dirty {
		var r, s M4
		t.m.Translate(t.t[0], t.t[1], t.t[2])
		r.RotateQ(&t.r)
		s.Scale(t.s[0], t.s[1], t.s[2])
		t.m.Mul(&t.m, &r)
		t.m.Mul(&t.m, &s)
		t.dirty = false
	}
	t.changed = false
	return t.m
}

// Changed returns whether t was modified since the last
// call to Matrix.
func (t *Transform) Changed() bool { return !t.init || t.changed }
