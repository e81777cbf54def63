// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package device

import (
	"errors"
	"strings"
	"sync"

	"github.com/gviegas/sgraph"
)

// Driver is the interface that provides methods for
// loading and unloading a device implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same Context.
	Open() (Context, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	Close()
}

// ErrNoDriver means that no registered driver could
// be opened.
var ErrNoDriver = errors.New("device: driver not found")

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers []Driver
)

// Drivers returns the registered Drivers.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// A driver with the same name will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			sgraph.Logger().Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	sgraph.Logger().Debug("driver registered", "name", drv.Name())
}

// Open opens the first registered driver whose name
// contains name (case-insensitive) and whose Open method
// succeeds. The empty string matches every driver.
func Open(name string) (Driver, Context, error) {
	name = strings.ToLower(name)
	err := ErrNoDriver
	for _, drv := range Drivers() {
		if !strings.Contains(strings.ToLower(drv.Name()), name) {
			continue
		}
		var ctx Context
		if ctx, err = drv.Open(); err != nil {
			sgraph.Logger().Warn("driver failed to open", "name", drv.Name(), "err", err)
			continue
		}
		return drv, ctx, nil
	}
	return nil, nil, err
}
