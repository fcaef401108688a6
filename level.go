package fwdad

import "sync"

// forgetter is implemented by the containers a Level holds. forget drops the
// value stored for idx if it was stored while generation gen held the index.
// It must never call back into the level.
type forgetter interface {
	forget(idx, gen uint64)
}

// Level is one active nesting depth of forward mode differentiation. It holds
// a strong reference to every container that stores a value for it and, when
// destroyed, makes each of them forget that value.
type Level struct {
	idx  uint64
	gen  uint64
	ctr  counter
	obs  Observer
	done chan struct{}

	mu    sync.Mutex
	grads map[forgetter]struct{} // nil once destroyed
}

// newLevel returns a Level holding a single reference for the registry.
func newLevel(idx, gen uint64, obs Observer) *Level {
	l := &Level{
		idx:   idx,
		gen:   gen,
		obs:   obs,
		done:  make(chan struct{}),
		grads: make(map[forgetter]struct{}),
	}
	l.ctr.Acquire()
	return l
}

// register records g as holding a value for the level. It is idempotent.
// Callers hold a reference, so the level cannot be destroyed concurrently.
func (l *Level) register(g forgetter) {
	l.mu.Lock()
	if l.grads != nil {
		l.grads[g] = struct{}{}
	}
	l.mu.Unlock()
}

// unregister removes g if it is present.
func (l *Level) unregister(g forgetter) {
	l.mu.Lock()
	delete(l.grads, g)
	l.mu.Unlock()
}

// len returns the number of registered containers.
func (l *Level) len() int {
	l.mu.Lock()
	n := len(l.grads)
	l.mu.Unlock()
	return n
}

// release drops a reference, destroying the level if it was the last one.
func (l *Level) release() {
	if l.ctr.Release() {
		l.destroy()
	}
}

// destroy runs exactly once, when the last reference is dropped. The set is
// swapped out under the lock and the containers are visited without it.
func (l *Level) destroy() {
	l.mu.Lock()
	grads := l.grads
	l.grads = nil
	l.mu.Unlock()

	for g := range grads {
		g.forget(l.idx, l.gen)
	}

	l.obs.Destroyed(l.idx, l.gen, len(grads))
	close(l.done)
}
