package macro

import "time"

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the time source used for TIMESTAMP.
//
// Default: time.Now
//
// Example:
//
//	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
//	r := NewResolver(WithClock(func() time.Time { return fixed }))
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRandomSource sets the generator used for CACHEBUSTING, RANDOM and random.
//
// Default: the global math/rand/v2 generator
func WithRandomSource(src RandomSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.random = src
		}
	}
}
