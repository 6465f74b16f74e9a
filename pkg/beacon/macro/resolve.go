package macro

import (
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Macro names with special handling.
const (
	AssetURI        = "ASSETURI"
	ContentPlayhead = "CONTENTPLAYHEAD"
	ErrorCode       = "ERRORCODE"
	CacheBusting    = "CACHEBUSTING"
	Timestamp       = "TIMESTAMP"

	// Random and RandomLower are not VAST macros, but some ad servers use them
	// as aliases of CACHEBUSTING.
	Random      = "RANDOM"
	RandomLower = "random"
)

// DefaultErrorCode replaces an ERRORCODE that is not three digits.
const DefaultErrorCode = 900

// timestampLayout is ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var errorCodePattern = regexp.MustCompile(`^[0-9]{3}$`)

// derivedNames are computed on every resolution and always come last.
var derivedNames = []string{CacheBusting, Timestamp, Random, RandomLower}

// Variables maps macro names to values. Values are strings or numbers.
// Names are case-sensitive.
type Variables map[string]any

// ResolveOptions tunes a single resolution.
type ResolveOptions struct {
	// IsCustomCode keeps ERRORCODE as given instead of forcing a
	// three-digit code.
	IsCustomCode bool
}

// Macro is a prepared name/value pair ready for substitution.
type Macro struct {
	Name  string
	Value string
}

// Macros is the ordered variable set used for substitution.
type Macros []Macro

// Lookup returns the value prepared for name.
func (m Macros) Lookup(name string) (string, bool) {
	for _, mac := range m {
		if mac.Name == name {
			return mac.Value, true
		}
	}
	return "", false
}

// Resolver substitutes macros into tracking templates.
//
// Create with NewResolver() and configure with Option functions.
// Resolver is safe for concurrent use after construction.
type Resolver struct {
	now    func() time.Time
	random RandomSource
}

// NewResolver creates a Resolver with the given options.
//
// Default configuration:
//   - Clock: time.Now
//   - RandomSource: the global math/rand/v2 generator
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		now:    time.Now,
		random: globalSource{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns one resolved URL per template that carries a URL, in order.
//
// vars is not modified. See Prepare for how the variable set is built and
// Substitute for how tokens are replaced.
//
// Example:
//
//	r := NewResolver()
//	urls := r.Resolve(Strings("http://t.example/[ERRORCODE]"), Variables{"ERRORCODE": "42"}, ResolveOptions{})
//	// urls: ["http://t.example/900"]
func (r *Resolver) Resolve(templates []Template, vars Variables, opts ResolveOptions) []string {
	candidates := Extract(templates)
	macros := r.Prepare(vars, opts)

	resolved := make([]string, len(candidates))
	for i, u := range candidates {
		resolved[i] = Substitute(u, macros)
	}
	return resolved
}

// Prepare builds the substitution set from vars.
//
// Caller variables come first, sorted by name, followed by CACHEBUSTING,
// TIMESTAMP, RANDOM and random. ASSETURI and CONTENTPLAYHEAD are RFC 3986
// encoded, and an ERRORCODE that is not exactly three digits becomes 900
// unless opts.IsCustomCode is set. Falsy variables (nil, "", 0, false and
// NaN) are left out, so their tokens stay in the URL.
func (r *Resolver) Prepare(vars Variables, opts ResolveOptions) Macros {
	working := make(Variables, len(vars)+len(derivedNames))
	maps.Copy(working, vars)

	for _, name := range []string{AssetURI, ContentPlayhead} {
		if v := working[name]; truthy(v) {
			s, _ := formatValue(v)
			working[name] = EncodeRFC3986(s)
		}
	}

	if v := working[ErrorCode]; truthy(v) && !opts.IsCustomCode {
		if s, _ := formatValue(v); !errorCodePattern.MatchString(s) {
			working[ErrorCode] = DefaultErrorCode
		}
	}

	cacheBuster := CacheBuster(r.random)
	working[CacheBusting] = cacheBuster
	working[Timestamp] = EncodeRFC3986(r.now().UTC().Format(timestampLayout))
	working[Random] = cacheBuster
	working[RandomLower] = cacheBuster

	names := make([]string, 0, len(working))
	for name := range working {
		if !slices.Contains(derivedNames, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = append(names, derivedNames...)

	macros := make(Macros, 0, len(names))
	for _, name := range names {
		if s, ok := formatValue(working[name]); ok {
			macros = append(macros, Macro{Name: name, Value: s})
		}
	}
	return macros
}

// Substitute replaces the first [NAME] and the first %%NAME%% of every macro
// in url. Replaced text is not scanned again.
//
// Example:
//
//	Substitute("/[A]/[A]/%%A%%", Macros{{Name: "A", Value: "1"}})
//	// "/1/[A]/1"
func Substitute(url string, macros Macros) string {
	for _, m := range macros {
		url = strings.Replace(url, "["+m.Name+"]", m.Value, 1)
		url = strings.Replace(url, "%%"+m.Name+"%%", m.Value, 1)
	}
	return url
}

// truthy reports whether v counts as set.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	case uint32:
		return val != 0
	default:
		return true
	}
}

// formatValue renders v for substitution. It returns false for falsy values,
// which leave their token in place.
func formatValue(v any) (string, bool) {
	if !truthy(v) {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// defaultResolver is the package-level resolver with default settings.
var defaultResolver = NewResolver()

// Resolve resolves templates with the default resolver.
//
// Uses the wall clock and the global random source.
func Resolve(templates []Template, vars Variables, opts ResolveOptions) []string {
	return defaultResolver.Resolve(templates, vars, opts)
}
