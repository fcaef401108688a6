package fwdad

import "sync"

// Undefined returns the value reported for a level that has no forward
// gradient. It is the zero value of V and is shared by every ForwardGrad.
func Undefined[V any]() V {
	var zero V
	return zero
}

// entry is a stored value along with the generation of the level it was
// stored for, so that a destroyed level never removes a value stored for a
// newer level at the same index.
type entry[V any] struct {
	gen uint64
	val V
}

// heldLevel names a level a ForwardGrad stored a value for.
type heldLevel struct{ idx, gen uint64 }

// ForwardGrad holds the forward gradients of one variable, one per level. It
// registers itself with every level it stores a value for, and those levels
// keep it alive until they are destroyed or it is torn down.
//
// The owner of a ForwardGrad must call Teardown exactly once when it is done
// with it. SetValue and Reset fail after that.
type ForwardGrad[V any] struct {
	reg *Registry

	mu      sync.Mutex
	content map[uint64]entry[V]
	torn    bool
}

// NewForwardGrad returns an empty ForwardGrad whose level indices refer to r.
// A nil r means the process wide Registry.
func NewForwardGrad[V any](r *Registry) *ForwardGrad[V] {
	if r == nil {
		r = Default()
	}
	return &ForwardGrad[V]{reg: r}
}

func (g *ForwardGrad[V]) tornDown() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.torn
}

// SetValue stores v as the gradient for level, replacing any previous value.
// The level must be active or an ErrNotActive error is returned.
func (g *ForwardGrad[V]) SetValue(v V, level uint64) error {
	if g.tornDown() {
		return ErrDoubleTeardown.New("set value for level %d", level)
	}

	ref, err := g.reg.Get(level)
	if err != nil {
		return err
	}
	// the ref is held until the value is stored, so a concurrent release
	// cannot run the cascade in between.
	defer ref.Release()

	ref.lvl.register(g)

	g.mu.Lock()
	if g.content == nil {
		g.content = make(map[uint64]entry[V])
	}
	g.content[level] = entry[V]{gen: ref.Gen(), val: v}
	g.mu.Unlock()

	return nil
}

// Reset removes the gradient for level, if any, and unregisters from the
// level. The level must be active or an ErrNotActive error is returned.
func (g *ForwardGrad[V]) Reset(level uint64) error {
	if g.tornDown() {
		return ErrDoubleTeardown.New("reset level %d", level)
	}

	ref, err := g.reg.Get(level)
	if err != nil {
		return err
	}
	defer ref.Release()

	ref.lvl.unregister(g)

	g.mu.Lock()
	delete(g.content, level)
	g.mu.Unlock()

	return nil
}

// forget is the cascade from a destroyed level. It does not touch the level.
func (g *ForwardGrad[V]) forget(idx, gen uint64) {
	g.mu.Lock()
	if e, ok := g.content[idx]; ok && e.gen == gen {
		delete(g.content, idx)
	}
	g.mu.Unlock()
}

// Value returns the gradient for level, or Undefined if there is none.
func (g *ForwardGrad[V]) Value(level uint64) V {
	v, _ := g.Lookup(level)
	return v
}

// Lookup returns the gradient for level and whether there is one. A value
// stored for a released level is not reported, even while that level is kept
// alive by a Ref or a newer level has taken its index.
func (g *ForwardGrad[V]) Lookup(level uint64) (V, bool) {
	gen, active := g.reg.genAt(level)
	if !active {
		return Undefined[V](), false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.content[level]
	if !ok || e.gen != gen {
		return Undefined[V](), false
	}
	return e.val, true
}

// Contains reports if there is a gradient for level.
func (g *ForwardGrad[V]) Contains(level uint64) bool {
	_, ok := g.Lookup(level)
	return ok
}

// Empty reports if there is no gradient for any active level.
func (g *ForwardGrad[V]) Empty() bool {
	gens := g.reg.gens()

	g.mu.Lock()
	defer g.mu.Unlock()

	for idx, e := range g.content {
		if idx < uint64(len(gens)) && gens[idx] == e.gen {
			return false
		}
	}
	return true
}

// Teardown unregisters from every level the ForwardGrad holds a value for so
// that none of them keeps it alive. It must be called exactly once; later
// calls return an ErrDoubleTeardown error.
//
// Levels may be released concurrently with Teardown. A level that is no
// longer active is skipped: its own destruction removes the registration.
func (g *ForwardGrad[V]) Teardown() error {
	g.mu.Lock()
	if g.torn {
		g.mu.Unlock()
		return ErrDoubleTeardown.New("teardown called twice")
	}
	g.torn = true
	levels := make([]heldLevel, 0, len(g.content))
	for idx, e := range g.content {
		levels = append(levels, heldLevel{idx: idx, gen: e.gen})
	}
	g.mu.Unlock()

	for _, h := range levels {
		ref, ok := g.reg.TryGet(h.idx)
		if !ok {
			continue
		}
		if ref.Gen() == h.gen {
			ref.lvl.unregister(g)
		}
		ref.Release()
	}

	return nil
}
