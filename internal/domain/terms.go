package domain

import "reflect"

// Terms holds the opaque trade terms of a proposal as decoded JSON.
// The engine never interprets individual fields; it only compares
// terms through a TermsMatcher.
type Terms map[string]any

// Clone returns a shallow copy of the terms.
func (t Terms) Clone() Terms {
	c := make(Terms, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// TermsMatcher is the equality predicate used to pair a proposal with a
// counter-proposal. Two terms match when every field outside the ignored
// set is present in both and deeply equal. The ignored set typically holds
// client-supplied noise such as timestamps.
type TermsMatcher struct {
	ignored map[string]bool
}

// NewTermsMatcher creates a matcher that ignores the given field names.
func NewTermsMatcher(ignoredFields ...string) *TermsMatcher {
	ignored := make(map[string]bool, len(ignoredFields))
	for _, f := range ignoredFields {
		ignored[f] = true
	}
	return &TermsMatcher{ignored: ignored}
}

// Match reports whether a and b are equal on all non-ignored fields.
func (m *TermsMatcher) Match(a, b Terms) bool {
	for k, av := range a {
		if m.ignored[k] {
			continue
		}
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	for k := range b {
		if m.ignored[k] {
			continue
		}
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}

// IgnoredFields returns the ignored field names in unspecified order.
func (m *TermsMatcher) IgnoredFields() []string {
	fields := make([]string, 0, len(m.ignored))
	for f := range m.ignored {
		fields = append(fields, f)
	}
	return fields
}
