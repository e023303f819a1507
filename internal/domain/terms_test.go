package domain

import "testing"

func TestTermsMatcher_ExactMatch(t *testing.T) {
	m := NewTermsMatcher()

	a := Terms{"item": "cacao", "qty": float64(5)}
	b := Terms{"item": "cacao", "qty": float64(5)}
	if !m.Match(a, b) {
		t.Error("expected identical terms to match")
	}
}

func TestTermsMatcher_DifferentValue_NoMatch(t *testing.T) {
	m := NewTermsMatcher()

	a := Terms{"item": "cacao", "qty": float64(5)}
	b := Terms{"item": "cacao", "qty": float64(6)}
	if m.Match(a, b) {
		t.Error("expected terms with different qty not to match")
	}
}

func TestTermsMatcher_MissingField_NoMatch(t *testing.T) {
	m := NewTermsMatcher()

	a := Terms{"item": "cacao", "qty": float64(5)}
	b := Terms{"item": "cacao"}
	if m.Match(a, b) {
		t.Error("expected terms with a missing field not to match")
	}
	if m.Match(b, a) {
		t.Error("expected the reverse direction not to match either")
	}
}

func TestTermsMatcher_IgnoredFieldDiffers_Matches(t *testing.T) {
	m := NewTermsMatcher("submitted_at")

	a := Terms{"item": "cacao", "qty": float64(5), "submitted_at": "10:00"}
	b := Terms{"item": "cacao", "qty": float64(5), "submitted_at": "10:03"}
	if !m.Match(a, b) {
		t.Error("expected terms differing only in an ignored field to match")
	}
}

func TestTermsMatcher_IgnoredFieldAbsentOnOneSide_Matches(t *testing.T) {
	m := NewTermsMatcher("submitted_at")

	a := Terms{"item": "cacao", "qty": float64(5), "submitted_at": "10:00"}
	b := Terms{"item": "cacao", "qty": float64(5)}
	if !m.Match(a, b) {
		t.Error("expected an ignored field present on one side only to be irrelevant")
	}
}

func TestTermsMatcher_NestedValues(t *testing.T) {
	m := NewTermsMatcher()

	a := Terms{"item": "cacao", "lot": map[string]any{"size": float64(10)}}
	b := Terms{"item": "cacao", "lot": map[string]any{"size": float64(10)}}
	c := Terms{"item": "cacao", "lot": map[string]any{"size": float64(12)}}
	if !m.Match(a, b) {
		t.Error("expected deeply equal nested values to match")
	}
	if m.Match(a, c) {
		t.Error("expected different nested values not to match")
	}
}

func TestTerms_Clone(t *testing.T) {
	a := Terms{"item": "cacao", "qty": float64(5)}
	c := a.Clone()

	c["qty"] = float64(9)
	if a["qty"] != float64(5) {
		t.Error("mutating the clone changed the original")
	}
}
