// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package headless

import (
	"sync"

	"github.com/gviegas/sgraph/device"
)

// Driver implements device.Driver.
type Driver struct {
	mu  sync.Mutex
	ctx *Context
}

const driverName = "headless"

func init() {
	device.Register(&Driver{})
}

// Open implements device.Driver.
func (d *Driver) Open() (device.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		d.ctx = New(nil)
	}
	return d.ctx, nil
}

// Name implements device.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements device.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		d.ctx.Destroy()
		d.ctx = nil
	}
}
