package fwdad

// defaultExpectedDepth is the nesting depth the slot table is sized for. It
// matches the order of derivative people commonly compute.
const defaultExpectedDepth = 2

type config struct {
	expectedDepth int
	obs           Observer
}

func newConfig(opts []Option) config {
	cfg := config{
		expectedDepth: defaultExpectedDepth,
		obs:           nopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Registry.
type Option func(*config)

// WithExpectedDepth sizes the slot table for n nested levels. Deeper nesting
// still works; the table grows.
func WithExpectedDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.expectedDepth = n
		}
	}
}

// WithObserver installs o to be told about level lifecycle events. A nil o
// restores the no-op observer.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o == nil {
			o = nopObserver{}
		}
		c.obs = o
	}
}
