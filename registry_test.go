package fwdad

import (
	"sync"
	"testing"

	"github.com/zeebo/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 10; i++ {
		idx := r.Allocate()
		assert.Equal(t, idx, 0)

		ref, err := r.Get(idx)
		assert.NoError(t, err)
		assert.Equal(t, ref.Index(), 0)
		assert.Equal(t, ref.Gen(), i)
		ref.Release()

		p, err := r.Release(idx)
		assert.NoError(t, err)
		assert.Equal(t, p.Wait(), i)

		_, err = r.Get(idx)
		assert.That(t, ErrNotActive.Has(err))
		_, ok := r.TryGet(idx)
		assert.That(t, !ok)
	}
}

func TestRegistryNesting(t *testing.T) {
	r := NewRegistry(WithExpectedDepth(1))

	for i := 0; i < 5; i++ {
		assert.Equal(t, r.Allocate(), i)
	}
	assert.Equal(t, r.Depth(), 5)

	for i := 4; i >= 0; i-- {
		_, err := r.Release(uint64(i))
		assert.NoError(t, err)
	}
	assert.Equal(t, r.Depth(), 0)

	// indices are handed out again from the bottom.
	assert.Equal(t, r.Allocate(), 0)
	assert.Equal(t, r.Allocate(), 1)
}

func TestRegistryOutOfOrder(t *testing.T) {
	r := NewRegistry()

	_, err := r.Release(0)
	assert.That(t, ErrOutOfOrder.Has(err))

	a, b := r.Allocate(), r.Allocate()

	_, err = r.Release(a)
	assert.That(t, ErrOutOfOrder.Has(err))
	_, err = r.Release(7)
	assert.That(t, ErrOutOfOrder.Has(err))

	// the rejected releases left both levels active.
	assert.Equal(t, r.Depth(), 2)
	_, ok := r.TryGet(a)
	assert.That(t, ok)

	_, err = r.Release(b)
	assert.NoError(t, err)
	_, err = r.Release(a)
	assert.NoError(t, err)
}

func TestRegistryStaleIndex(t *testing.T) {
	r := NewRegistry()

	r.Allocate()
	r.Allocate()
	_, err := r.Release(1)
	assert.NoError(t, err)

	// the slot is cleared, not removed, so both look absent.
	_, ok := r.TryGet(1)
	assert.That(t, !ok)
	_, ok = r.TryGet(1000)
	assert.That(t, !ok)
	_, err = r.Get(1000)
	assert.That(t, ErrNotActive.Has(err))
}

func TestRegistryActive(t *testing.T) {
	r := NewRegistry()
	g := NewForwardGrad[int](r)

	l0, l1 := r.Allocate(), r.Allocate()
	assert.NoError(t, g.SetValue(1, l1))

	assert.DeepEqual(t, r.Active(), []LevelInfo{
		{Index: l0, Gen: 0, Grads: 0},
		{Index: l1, Gen: 1, Grads: 1},
	})
}

func TestRegistryConcurrentGet(t *testing.T) {
	r := NewRegistry()
	idx := r.Allocate()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if ref, ok := r.TryGet(idx); ok {
					ref.Release()
				}
			}
		}()
	}

	p, err := r.Release(idx)
	assert.NoError(t, err)
	wg.Wait()
	p.Wait()
}

func TestRefDoubleRelease(t *testing.T) {
	r := NewRegistry()
	ref, err := r.Get(r.Allocate())
	assert.NoError(t, err)
	ref.Release()

	defer func() { assert.NotNil(t, recover()) }()
	ref.Release()
}

func TestPendingDelayedByRef(t *testing.T) {
	r := NewRegistry()
	g := NewForwardGrad[string](r)

	idx := r.Allocate()
	assert.NoError(t, g.SetValue("tangent", idx))

	ref, err := r.Get(idx)
	assert.NoError(t, err)

	p, err := r.Release(idx)
	assert.NoError(t, err)
	assert.Equal(t, p.Index(), idx)

	select {
	case <-p.Done():
		t.Fatal("level destroyed while a ref is held")
	default:
	}
	// the released level still holds the grad, but the value is gone from
	// the point of view of readers.
	assert.Equal(t, ref.Len(), 1)
	assert.Equal(t, stored(g), 1)
	assert.That(t, !g.Contains(idx))

	ref.Release()
	p.Wait()
	assert.Equal(t, stored(g), 0)
}

func TestPendingZero(t *testing.T) {
	var p Pending
	assert.Equal(t, p.Wait(), 0)
	assert.Equal(t, p.Index(), 0)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, InitDefault(WithExpectedDepth(4)), Default())

	idx := Allocate()
	ref, err := Get(idx)
	assert.NoError(t, err)
	ref.Release()

	_, err = Release(idx)
	assert.NoError(t, err)
	_, ok := TryGet(idx)
	assert.That(t, !ok)
}

func BenchmarkRegistry(b *testing.B) {
	b.Run("AllocateRelease", func(b *testing.B) {
		r := NewRegistry()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			_, _ = r.Release(r.Allocate())
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		b.Run("TryGet", func(b *testing.B) {
			r := NewRegistry()
			idx := r.Allocate()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if ref, ok := r.TryGet(idx); ok {
						ref.Release()
					}
				}
			})
		})
	})
}
