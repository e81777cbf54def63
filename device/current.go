// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package device

// Provider is the interface that wraps CurrentContext.
// Consumers resolve the context on every operation that
// creates resources, so contexts may be switched between
// operations. Resources created under one context are not
// usable with another.
type Provider interface {
	CurrentContext() Context
}

// Current holds the current context.
// It is not safe for concurrent use; contexts are owned by
// a single rendering goroutine.
type Current struct {
	ctx Context
}

// NewCurrent creates a Current with ctx made current.
func NewCurrent(ctx Context) *Current { return &Current{ctx: ctx} }

// MakeCurrent replaces the current context.
func (c *Current) MakeCurrent(ctx Context) { c.ctx = ctx }

// CurrentContext returns the current context, or nil if
// no context was made current.
func (c *Current) CurrentContext() Context { return c.ctx }
