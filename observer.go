package fwdad

import (
	"context"
	"log/slog"
)

// Observer is told about level lifecycle events. Methods are called without
// any lock held and may be called concurrently.
type Observer interface {
	// Allocated is called after a level is made active.
	Allocated(idx, gen uint64)
	// Released is called after a level is removed from the registry and
	// before its reference is dropped.
	Released(idx, gen uint64)
	// Destroyed is called after the cascade made grads containers forget
	// the level.
	Destroyed(idx, gen uint64, grads int)
}

type nopObserver struct{}

func (nopObserver) Allocated(idx, gen uint64)            {}
func (nopObserver) Released(idx, gen uint64)             {}
func (nopObserver) Destroyed(idx, gen uint64, grads int) {}

// NewLogObserver returns an Observer that logs every event to log at debug
// level.
func NewLogObserver(log *slog.Logger) Observer {
	return logObserver{log: log}
}

type logObserver struct {
	log *slog.Logger
}

func (o logObserver) Allocated(idx, gen uint64) {
	o.log.LogAttrs(context.Background(), slog.LevelDebug, "forward level allocated",
		slog.Uint64("index", idx), slog.Uint64("gen", gen))
}

func (o logObserver) Released(idx, gen uint64) {
	o.log.LogAttrs(context.Background(), slog.LevelDebug, "forward level released",
		slog.Uint64("index", idx), slog.Uint64("gen", gen))
}

func (o logObserver) Destroyed(idx, gen uint64, grads int) {
	o.log.LogAttrs(context.Background(), slog.LevelDebug, "forward level destroyed",
		slog.Uint64("index", idx), slog.Uint64("gen", gen), slog.Int("grads", grads))
}
