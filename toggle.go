package fwdad

import "sync/atomic"

// enabled is the process wide forward mode switch. It starts off.
var enabled uint32

// Enabled reports if forward mode tracking is turned on. Call sites use it to
// skip forward gradient bookkeeping entirely. It is a hint: a concurrent
// SetEnabled may not be observed right away.
func Enabled() bool {
	return atomic.LoadUint32(&enabled) == 1
}

// SetEnabled turns forward mode tracking on or off for the whole process.
func SetEnabled(on bool) {
	var v uint32
	if on {
		v = 1
	}
	atomic.StoreUint32(&enabled, v)
}
