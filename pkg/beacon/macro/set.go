package macro

// Equal reports whether a and b are the same template.
//
// Invalid templates are never equal to anything, themselves included.
// Records match when both or neither carry an id, and id and url are equal.
// Raw templates match on their string. A raw template never equals a record.
func Equal(a, b Template) bool {
	if a.kind == KindInvalid || b.kind == KindInvalid {
		return false
	}
	if a.kind != b.kind || a.hasID != b.hasID {
		return false
	}
	return a.id == b.id && a.url == b.url
}

// Contains reports whether list holds a template equal to t.
func Contains(list []Template, t Template) bool {
	for _, item := range list {
		if Equal(item, t) {
			return true
		}
	}
	return false
}

// Union concatenates a and b and drops later duplicates, keeping the order in
// which each template first appears. nil lists count as empty. Invalid
// templates never compare equal, so every one of them is kept.
func Union(a, b []Template) []Template {
	out := make([]Template, 0, len(a)+len(b))
	for _, list := range [][]Template{a, b} {
		for _, t := range list {
			if !Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}
