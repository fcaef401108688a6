package fwdad

import (
	"sync"
	"testing"

	"github.com/zeebo/assert"
)

func TestCounter(t *testing.T) {
	var ctr counter
	ctr.Acquire()
	var wg sync.WaitGroup
	last := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		ctr.Acquire()
		wg.Add(1)
		go func() {
			defer wg.Done()
			last <- ctr.Release()
		}()
	}
	wg.Wait()
	close(last)

	for l := range last {
		assert.That(t, !l)
	}
	assert.That(t, ctr.Release())
}

func TestCounterUnderflow(t *testing.T) {
	defer func() { assert.NotNil(t, recover()) }()

	var ctr counter
	ctr.Release()
}
