package fwdad

import "sync/atomic"

// Ref is a strong reference to a Level. While a Ref is held the level is not
// destroyed, even if its index has already been released from the Registry.
type Ref struct {
	lvl      *Level
	released uint32
}

// Release drops the reference and must be called exactly once. A second call
// panics.
func (r *Ref) Release() {
	if !atomic.CompareAndSwapUint32(&r.released, 0, 1) {
		panic("fwdad: Ref released twice")
	}
	r.lvl.release()
}

// Index reports the index of the referenced level.
func (r *Ref) Index() uint64 { return r.lvl.idx }

// Gen reports the generation of the referenced level.
func (r *Ref) Gen() uint64 { return r.lvl.gen }

// Len reports how many containers are registered with the referenced level.
func (r *Ref) Len() int { return r.lvl.len() }
