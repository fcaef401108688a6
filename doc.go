// package fwdad keeps track of forward mode automatic differentiation levels and
// of the per variable gradients stored for them.
//
// Forward mode differentiation computes gradients alongside the primal values, so
// a gradient belongs to one invocation of forward mode. Invocations can nest (for
// higher order derivatives) and can run on many goroutines at once. Each one is
// modeled as a level identified by its nesting depth:
//
//	func jvp(x *Variable, tangent *Tensor) (out *Tensor, err error) {
//		idx := fwdad.Allocate()
//		defer func() {
//			if _, rerr := fwdad.Release(idx); rerr != nil && err == nil {
//				err = rerr
//			}
//		}()
//
//		if err := x.Grad.SetValue(tangent, idx); err != nil {
//			return nil, err
//		}
//		return x.Grad.Value(idx), nil
//	}
//
// The owner of a ForwardGrad tears it down exactly once, when the variable
// itself goes away:
//
//	func (x *Variable) Close() error {
//		return x.Grad.Teardown()
//	}
//
// Release fails with ErrOutOfOrder unless idx is the deepest active level, and
// a second Teardown fails with ErrDoubleTeardown. Both mean the caller broke
// the nesting or ownership contract and should not be ignored.
//
// A ForwardGrad registers itself with every level it stores a value for. When
// the level is released, every ForwardGrad still registered with it forgets its
// value for that level without any call on the ForwardGrad. When the variable
// owning a ForwardGrad goes away, Teardown unregisters it from every level so
// that none of them keeps it alive.
//
// No two locks are ever held at once while calling between the Registry, a Level
// and a ForwardGrad. Every call across objects first copies what it needs under
// its own lock, drops it, and then locks the other object. Those calls tolerate
// the other side having already gone away, so they can race freely with levels
// being released and gradients being torn down.
//
// Indices are reused once released. Each level also carries a generation that is
// never reused, so a level that is destroyed late (because some Ref kept it
// alive) only removes values stored for itself and not for a newer level at the
// same index.
package fwdad
