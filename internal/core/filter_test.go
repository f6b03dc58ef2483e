package core

import (
	"testing"
	"time"
)

func entryAt(number string, vt VehicleType, ts time.Time) VehicleEntry {
	return VehicleEntry{
		ID:        number,
		Type:      vt,
		Number:    number,
		Model:     "m",
		Payment:   PayCash,
		CreatedAt: ts,
	}
}

func TestFilterByDate(t *testing.T) {
	d := NewDay(2024, time.June, 5)
	entries := []VehicleEntry{
		entryAt("a", TwoWheeler, time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)),
		entryAt("b", FourWheeler, time.Date(2024, 6, 5, 23, 59, 0, 0, time.UTC)),
		entryAt("c", FourWheeler, time.Date(2024, 6, 6, 0, 1, 0, 0, time.UTC)),
	}

	got := FilterByDate(entries, d)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Number != "a" || got[1].Number != "b" {
		t.Fatalf("unexpected matches %v", got)
	}

	if got := FilterByDate(nil, d); len(got) != 0 {
		t.Fatalf("empty collection must yield empty result")
	}
}

func TestFilterByQuery(t *testing.T) {
	entries := []VehicleEntry{
		entryAt("MH12AB1234", TwoWheeler, time.Now()),
		entryAt("KA05XY9999", FourWheeler, time.Now()),
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"mh12", 1},
		{"wheeler", 2}, // matches type
		{"4 wheeler", 1},
		{"nothing", 0},
	}
	for _, tc := range cases {
		if got := FilterByQuery(entries, tc.query); len(got) != tc.want {
			t.Fatalf("query %q: expected %d, got %d", tc.query, tc.want, len(got))
		}
	}
}

// Date and query predicates are independent, so applying them in either
// order yields the same content.
func TestFilterOrderIndependence(t *testing.T) {
	d := NewDay(2024, time.June, 5)
	on := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	off := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	entries := []VehicleEntry{
		entryAt("MH12AB1234", TwoWheeler, on),
		entryAt("MH12CD5678", FourWheeler, off),
		entryAt("KA05XY9999", FourWheeler, on),
	}

	a := FilterByQuery(FilterByDate(entries, d), "mh12")
	b := FilterByDate(FilterByQuery(entries, "mh12"), d)

	if len(a) != len(b) {
		t.Fatalf("order dependent: %d vs %d", len(a), len(b))
	}
	seen := make(map[string]bool, len(a))
	for _, e := range a {
		seen[e.Number] = true
	}
	for _, e := range b {
		if !seen[e.Number] {
			t.Fatalf("entry %s only matched in one order", e.Number)
		}
	}
	if len(a) != 1 || a[0].Number != "MH12AB1234" {
		t.Fatalf("unexpected result %v", a)
	}
}
