package fwdad

import "sync"

// Registry allocates level indices and keeps the active Levels. Indices follow
// nesting depth: Allocate returns the current depth and Release only accepts
// the deepest active index. The zero value is safe to use.
type Registry struct {
	mu    sync.Mutex // never held while calling into a Level or container
	slots []*Level   // slots at or past depth are nil
	depth uint64
	gen   uint64
	obs   Observer
}

// NewRegistry returns a Registry configured by opts.
func NewRegistry(opts ...Option) *Registry {
	cfg := newConfig(opts)
	return &Registry{
		slots: make([]*Level, 0, cfg.expectedDepth),
		obs:   cfg.obs,
	}
}

// observer returns the configured Observer or a no-op one. It must be called
// with the mutex held.
func (r *Registry) observer() Observer {
	if r.obs == nil {
		return nopObserver{}
	}
	return r.obs
}

// Allocate creates a Level one deeper than the current deepest and returns its
// index. It is safe to be called concurrently.
func (r *Registry) Allocate() uint64 {
	r.mu.Lock()
	idx := r.depth
	lvl := newLevel(idx, r.gen, r.observer())
	r.gen++
	if idx < uint64(len(r.slots)) {
		r.slots[idx] = lvl
	} else {
		r.slots = append(r.slots, lvl)
	}
	r.depth++
	r.mu.Unlock()

	lvl.obs.Allocated(idx, lvl.gen)
	return idx
}

// Release removes the deepest active level, which must be at idx, and drops
// the registry's reference to it. The level is destroyed as soon as no Ref to
// it is held, and the returned Pending can be used to wait for that. Releasing
// any other index fails with ErrOutOfOrder and changes nothing.
func (r *Registry) Release(idx uint64) (Pending, error) {
	r.mu.Lock()
	if r.depth == 0 || idx != r.depth-1 {
		depth := r.depth
		r.mu.Unlock()
		return Pending{}, ErrOutOfOrder.New("level %d released with %d active levels", idx, depth)
	}
	lvl := r.slots[idx]
	r.slots[idx] = nil
	r.depth--
	r.mu.Unlock()

	lvl.obs.Released(idx, lvl.gen)
	lvl.release()
	return Pending{lvl: lvl}, nil
}

// Get returns a Ref to the active level at idx, or an ErrNotActive error if
// there is none. The Ref must be Released.
func (r *Registry) Get(idx uint64) (*Ref, error) {
	ref, ok := r.TryGet(idx)
	if !ok {
		return nil, ErrNotActive.New("level %d", idx)
	}
	return ref, nil
}

// TryGet is like Get but reports absence with a bool.
func (r *Registry) TryGet(idx uint64) (*Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx >= uint64(len(r.slots)) || r.slots[idx] == nil {
		return nil, false
	}

	// the slot holds the registry's reference, so the count is above zero.
	lvl := r.slots[idx]
	lvl.ctr.Acquire()
	return &Ref{lvl: lvl}, true
}

// genAt returns the generation of the active level at idx.
func (r *Registry) genAt(idx uint64) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx >= uint64(len(r.slots)) || r.slots[idx] == nil {
		return 0, false
	}
	return r.slots[idx].gen, true
}

// gens returns the generations of the active levels indexed by level index.
func (r *Registry) gens() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, r.depth)
	for i, lvl := range r.slots[:r.depth] {
		out[i] = lvl.gen
	}
	return out
}

// Depth returns the number of active levels.
func (r *Registry) Depth() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depth
}

// LevelInfo describes an active level.
type LevelInfo struct {
	Index uint64
	Gen   uint64
	Grads int // registered containers
}

// Active returns a snapshot of the active levels ordered by index. The counts
// are read after the registry lock is dropped and may be stale.
func (r *Registry) Active() []LevelInfo {
	r.mu.Lock()
	lvls := append([]*Level(nil), r.slots[:r.depth]...)
	r.mu.Unlock()

	out := make([]LevelInfo, 0, len(lvls))
	for _, lvl := range lvls {
		out = append(out, LevelInfo{
			Index: lvl.idx,
			Gen:   lvl.gen,
			Grads: lvl.len(),
		})
	}
	return out
}

//
// process wide registry
//

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process wide Registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// InitDefault creates the process wide Registry with opts. Only the first of
// InitDefault and Default has any effect; later calls return the existing
// Registry unchanged.
func InitDefault(opts ...Option) *Registry {
	defaultOnce.Do(func() { defaultRegistry = NewRegistry(opts...) })
	return defaultRegistry
}

// Allocate calls Allocate on the process wide Registry.
func Allocate() uint64 { return Default().Allocate() }

// Release calls Release on the process wide Registry.
func Release(idx uint64) (Pending, error) { return Default().Release(idx) }

// Get calls Get on the process wide Registry.
func Get(idx uint64) (*Ref, error) { return Default().Get(idx) }

// TryGet calls TryGet on the process wide Registry.
func TryGet(idx uint64) (*Ref, bool) { return Default().TryGet(idx) }
