// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package device_test

import (
	"testing"

	"github.com/gviegas/sgraph/device"
	"github.com/gviegas/sgraph/device/headless"
)

func TestCurrent(t *testing.T) {
	c := device.NewCurrent(nil)
	if c.CurrentContext() != nil {
		t.Fatal("Current.CurrentContext: expected nil")
	}
	a, b := headless.New(nil), headless.New(nil)
	c.MakeCurrent(a)
	if c.CurrentContext() != device.Context(a) {
		t.Fatal("Current.MakeCurrent: context not made current")
	}
	var p device.Provider = c
	c.MakeCurrent(b)
	if p.CurrentContext() != device.Context(b) {
		t.Fatal("Current.MakeCurrent: context not replaced")
	}
}
