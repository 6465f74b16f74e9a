// Package util holds small numeric and slice helpers shared by beacon tools.
package util

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// IsNumeric reports whether v is a finite number or a string holding one.
// Surrounding whitespace in strings is ignored. Strings may also be unsigned
// integers with a 0x, 0o or 0b prefix.
func IsNumeric(v any) bool {
	switch val := v.(type) {
	case string:
		return isNumericString(strings.TrimSpace(val))
	case float64:
		return isFinite(val)
	case float32:
		return isFinite(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isNumericString(s string) bool {
	if base := prefixBase(s); base != 0 {
		_, err := strconv.ParseUint(s[2:], base, 64)
		return err == nil || errors.Is(err, strconv.ErrRange)
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') && prefixBase(s[1:]) != 0 {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && isFinite(f)
}

// prefixBase returns the base named by a 0x, 0o or 0b prefix, or 0.
func prefixBase(s string) int {
	if len(s) < 2 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Flatten returns the elements of seq with every nested []any expanded in
// place, at any depth.
func Flatten(seq []any) []any {
	out := make([]any, 0, len(seq))
	for _, item := range seq {
		if nested, ok := item.([]any); ok {
			out = append(out, Flatten(nested)...)
			continue
		}
		out = append(out, item)
	}
	return out
}

// Range returns the integers from left towards right. The sequence ascends
// when left < right and descends otherwise. right itself is included only
// when inclusive is set.
func Range(left, right int, inclusive bool) []int {
	ascending := left < right
	end := right
	if inclusive {
		if ascending {
			end++
		} else {
			end--
		}
	}

	var out []int
	if ascending {
		for i := left; i < end; i++ {
			out = append(out, i)
		}
		return out
	}
	for i := left; i > end; i-- {
		out = append(out, i)
	}
	return out
}
