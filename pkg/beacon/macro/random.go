package macro

import (
	mathrand "math/rand/v2"
	"strconv"
	"strings"
)

// cacheBusterWidth is the number of digits in a cache-busting value.
const cacheBusterWidth = 8

// cacheBusterSpan is the exclusive upper bound of cache-busting values.
const cacheBusterSpan = 100_000_000

// RandomSource supplies uniform integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// globalSource reads from the math/rand/v2 global generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return mathrand.IntN(n) }

// CacheBuster returns an 8-digit, zero-padded random number.
// A nil src uses the global math/rand/v2 source.
func CacheBuster(src RandomSource) string {
	if src == nil {
		src = globalSource{}
	}
	return LeftPad(strconv.Itoa(src.IntN(cacheBusterSpan)), cacheBusterWidth)
}

// LeftPad prepends zeros to s until it is width characters long.
// Strings already at least width long are returned unchanged.
func LeftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
