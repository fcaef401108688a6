package fwdad

// closed is returned by Done on the zero Pending.
var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Pending represents a level that has been released from the Registry. When a
// call to Wait returns, the level has been destroyed and every container that
// was still registered with it has forgotten its value. The zero value is
// already done.
type Pending struct {
	lvl *Level
}

// Index returns the index the released level occupied.
func (p Pending) Index() uint64 {
	if p.lvl == nil {
		return 0
	}
	return p.lvl.idx
}

// Gen returns the generation of the released level.
func (p Pending) Gen() uint64 {
	if p.lvl == nil {
		return 0
	}
	return p.lvl.gen
}

// Done returns a channel that is closed once the level has been destroyed.
// Destruction is delayed for as long as some Ref to the level is held.
func (p Pending) Done() <-chan struct{} {
	if p.lvl == nil {
		return closed
	}
	return p.lvl.done
}

// Wait blocks until the level has been destroyed. It returns the generation
// the Pending is associated to.
func (p Pending) Wait() uint64 {
	<-p.Done()
	return p.Gen()
}
