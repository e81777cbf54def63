// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package sgraph

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var logger atomic.Pointer[slog.Logger]

func init() { logger.Store(slog.New(nopHandler{})) }

// SetLogger sets the logger used by sgraph and its sub-packages.
// No output is produced by default. Passing nil restores
// the default behavior.
//
// Levels in use:
//   - [slog.LevelDebug]: traversal and resource details
//   - [slog.LevelInfo]: scene imports
//   - [slog.LevelWarn]: missing assets (rendering proceeds)
//   - [slog.LevelError]: shapes dropped from an import
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return logger.Load() }
