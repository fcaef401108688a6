package fwdad

import "sync/atomic"

// counter is the strong reference count of a Level. The registry holds one
// reference while the level is active and every Ref holds another.
type counter struct {
	count int32
}

// Acquire adds a reference. It is only valid while some other reference is
// known to be held, otherwise a destroyed level could be revived.
func (c *counter) Acquire() {
	atomic.AddInt32(&c.count, 1)
}

// Release drops a reference and reports if it was the last one. It panics if
// the counter would go negative.
func (c *counter) Release() bool {
	n := atomic.AddInt32(&c.count, -1)
	if n < 0 {
		panic("fwdad: level reference count below zero")
	}
	return n == 0
}
