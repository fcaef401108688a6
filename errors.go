package fwdad

import "github.com/zeebo/errs"

var (
	// ErrNotActive is returned when a strict lookup names a level index that
	// has no active level.
	ErrNotActive = errs.Class("fwdad: level not active")

	// ErrOutOfOrder is returned when a level other than the deepest active one
	// is released.
	ErrOutOfOrder = errs.Class("fwdad: out of order release")

	// ErrDoubleTeardown is returned when a ForwardGrad is used after Teardown.
	ErrDoubleTeardown = errs.Class("fwdad: forward grad torn down")
)
