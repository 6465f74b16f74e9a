package macro

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

// newTestResolver returns a resolver with a fixed clock and random source.
func newTestResolver() *Resolver {
	return NewResolver(
		WithClock(func() time.Time { return fixedNow }),
		WithRandomSource(fixedSource(42)),
	)
}

// TestResolve_Basic resolves an error code and a timestamp together.
func TestResolve_Basic(t *testing.T) {
	r := newTestResolver()

	urls := r.Resolve(
		Strings("http://t.example/[ERRORCODE]/%%TIMESTAMP%%"),
		Variables{"ERRORCODE": "500"},
		ResolveOptions{},
	)
	require.Len(t, urls, 1)
	assert.Equal(t, "http://t.example/500/2024-01-02T03%3A04%3A05.678Z", urls[0])
	assert.NotContains(t, urls[0], "[")
	assert.NotContains(t, urls[0], "%%")
}

// TestResolve_ErrorCode tests the three-digit ERRORCODE rule.
func TestResolve_ErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		custom   bool
		expected string
	}{
		{"two digits replaced", "42", false, "900"},
		{"three digits kept", "404", false, "404"},
		{"custom code kept", "42", true, "42"},
		{"numeric three digits kept", 404, false, "404"},
		{"four digits replaced", "4040", false, "900"},
		{"letters replaced", "abc", false, "900"},
		{"custom letters kept", "abc", true, "abc"},
		{"float three digits kept", 301.0, false, "301"},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			macros := r.Prepare(Variables{ErrorCode: tt.value}, ResolveOptions{IsCustomCode: tt.custom})
			got, ok := macros.Lookup(ErrorCode)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("empty code left as token", func(t *testing.T) {
		urls := r.Resolve(Strings("/e/[ERRORCODE]"), Variables{ErrorCode: ""}, ResolveOptions{})
		assert.Equal(t, []string{"/e/[ERRORCODE]"}, urls)
	})

	t.Run("zero code left as token", func(t *testing.T) {
		urls := r.Resolve(Strings("/[E]/[ERRORCODE]"), Variables{"E": 0, ErrorCode: 0}, ResolveOptions{})
		assert.Equal(t, []string{"/[E]/[ERRORCODE]"}, urls)
	})
}

// TestResolve_Encoding tests that asset and playhead values are RFC 3986 encoded.
func TestResolve_Encoding(t *testing.T) {
	r := newTestResolver()
	asset := "http://cdn.example/ad (final)*.mp4?x=1"
	macros := r.Prepare(Variables{
		AssetURI:        asset,
		ContentPlayhead: "00:00:05.000",
		"OTHER":         "a b",
	}, ResolveOptions{})

	got, _ := macros.Lookup(AssetURI)
	assert.Equal(t, EncodeRFC3986(asset), got)
	assert.Contains(t, got, "%28final%29%2a")

	got, _ = macros.Lookup(ContentPlayhead)
	assert.Equal(t, "00%3A00%3A05.000", got)

	got, _ = macros.Lookup("OTHER")
	assert.Equal(t, "a b", got, "other variables are not encoded")
}

// TestResolve_Derived tests the random and time based macros.
func TestResolve_Derived(t *testing.T) {
	t.Run("fixed sources", func(t *testing.T) {
		macros := newTestResolver().Prepare(nil, ResolveOptions{})
		for _, name := range []string{CacheBusting, Random, RandomLower} {
			got, ok := macros.Lookup(name)
			require.True(t, ok, name)
			assert.Equal(t, "00000042", got)
		}
		got, _ := macros.Lookup(Timestamp)
		assert.Equal(t, "2024-01-02T03%3A04%3A05.678Z", got)
	})

	t.Run("default sources", func(t *testing.T) {
		r := NewResolver()
		for range 50 {
			macros := r.Prepare(nil, ResolveOptions{})
			cb, ok := macros.Lookup(CacheBusting)
			require.True(t, ok)
			assert.Regexp(t, eightDigits, cb)
			rnd, _ := macros.Lookup(Random)
			assert.Equal(t, cb, rnd)
			lower, _ := macros.Lookup(RandomLower)
			assert.Equal(t, cb, lower)
		}
	})

	t.Run("clock converted to UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+2", 2*60*60)
		r := NewResolver(WithClock(func() time.Time { return fixedNow.In(zone) }))
		got, _ := r.Prepare(nil, ResolveOptions{}).Lookup(Timestamp)
		assert.Equal(t, "2024-01-02T03%3A04%3A05.678Z", got)
	})

	t.Run("caller values overridden", func(t *testing.T) {
		macros := newTestResolver().Prepare(Variables{CacheBusting: "x", Random: "y"}, ResolveOptions{})
		got, _ := macros.Lookup(CacheBusting)
		assert.Equal(t, "00000042", got)
		got, _ = macros.Lookup(Random)
		assert.Equal(t, "00000042", got)
	})

	t.Run("both token forms", func(t *testing.T) {
		urls := newTestResolver().Resolve(
			Strings("/[CACHEBUSTING]/%%CACHEBUSTING%%/[RANDOM]/[random]/%%RANDOM%%"),
			nil, ResolveOptions{},
		)
		assert.Equal(t, []string{"/00000042/00000042/00000042/00000042/00000042"}, urls)
	})
}

// TestResolve_Substitution pins the literal replacement rules.
func TestResolve_Substitution(t *testing.T) {
	r := newTestResolver()

	t.Run("first occurrence only", func(t *testing.T) {
		urls := r.Resolve(Strings("/[A]/[A]/%%A%%/%%A%%"), Variables{"A": "1"}, ResolveOptions{})
		assert.Equal(t, []string{"/1/[A]/1/%%A%%"}, urls)
	})

	t.Run("unknown tokens kept", func(t *testing.T) {
		urls := r.Resolve(Strings("/[UNKNOWN]/%%NOPE%%"), Variables{"A": "1"}, ResolveOptions{})
		assert.Equal(t, []string{"/[UNKNOWN]/%%NOPE%%"}, urls)
	})

	t.Run("nil values kept as tokens", func(t *testing.T) {
		urls := r.Resolve(Strings("/[A]"), Variables{"A": nil}, ResolveOptions{})
		assert.Equal(t, []string{"/[A]"}, urls)
	})

	t.Run("numbers formatted plainly", func(t *testing.T) {
		urls := r.Resolve(Strings("/[W]/[H]/[N]"), Variables{"W": 640, "H": 360.5, "N": -3}, ResolveOptions{})
		assert.Equal(t, []string{"/640/360.5/-3"}, urls)
	})

	t.Run("falsy values kept as tokens", func(t *testing.T) {
		vars := Variables{"Z": 0, "F": false, "N": math.NaN(), "E": "", "Z2": 0.0}
		urls := r.Resolve(Strings("/[Z]/[F]/[N]/%%E%%/[Z2]"), vars, ResolveOptions{})
		assert.Equal(t, []string{"/[Z]/[F]/[N]/%%E%%/[Z2]"}, urls)
	})

	t.Run("true substituted", func(t *testing.T) {
		urls := r.Resolve(Strings("/[T]"), Variables{"T": true}, ResolveOptions{})
		assert.Equal(t, []string{"/true"}, urls)
	})

	t.Run("case sensitive", func(t *testing.T) {
		urls := r.Resolve(Strings("/[a]/[A]"), Variables{"A": "1"}, ResolveOptions{})
		assert.Equal(t, []string{"/[a]/1"}, urls)
	})

	t.Run("replacement not re-scanned", func(t *testing.T) {
		urls := r.Resolve(Strings("/[B]"), Variables{"A": "x", "B": "[A]"}, ResolveOptions{})
		assert.Equal(t, []string{"/[A]"}, urls)
	})

	t.Run("direct substitute", func(t *testing.T) {
		got := Substitute("/[A]/[A]/%%A%%", Macros{{Name: "A", Value: "1"}})
		assert.Equal(t, "/1/[A]/1", got)
	})
}

// TestResolve_Lists tests ordering and invalid entries.
func TestResolve_Lists(t *testing.T) {
	r := newTestResolver()
	templates := []Template{
		Named("imp", "http://a.example/[ERRORCODE]"),
		{},
		Raw("http://b.example/[ERRORCODE]"),
		Record("http://c.example/[ERRORCODE]"),
	}

	urls := r.Resolve(templates, Variables{ErrorCode: "303"}, ResolveOptions{})
	assert.Equal(t, []string{
		"http://a.example/303",
		"http://b.example/303",
		"http://c.example/303",
	}, urls)

	assert.Empty(t, r.Resolve(nil, nil, ResolveOptions{}))
}

// TestResolve_DoesNotMutateVariables tests that caller maps are left alone.
func TestResolve_DoesNotMutateVariables(t *testing.T) {
	vars := Variables{
		AssetURI:  "http://cdn.example/a b.mp4",
		ErrorCode: "42",
	}
	_ = Resolve(Strings("/[ASSETURI]/[ERRORCODE]"), vars, ResolveOptions{})

	assert.Equal(t, Variables{
		AssetURI:  "http://cdn.example/a b.mp4",
		ErrorCode: "42",
	}, vars)
}

// TestResolve_Concurrent tests the default resolver from many goroutines.
func TestResolve_Concurrent(t *testing.T) {
	vars := Variables{ErrorCode: "404"}
	templates := Strings("/[ERRORCODE]/[CACHEBUSTING]")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			urls := Resolve(templates, vars, ResolveOptions{})
			assert.Len(t, urls, 1)
			assert.Regexp(t, `^/404/[0-9]{8}$`, urls[0])
		}()
	}
	wg.Wait()
}
