package core

import "strings"

// FilterByDate returns the entries created on the given calendar day.
// Pure: the input slice is never modified.
func FilterByDate(entries []VehicleEntry, d Day) []VehicleEntry {
	out := make([]VehicleEntry, 0, len(entries))
	for _, e := range entries {
		if d.Contains(e.CreatedAt) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByQuery returns the entries whose number or type contains the query,
// case-insensitively. An empty query matches everything.
func FilterByQuery(entries []VehicleEntry, query string) []VehicleEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]VehicleEntry, len(entries))
		copy(out, entries)
		return out
	}
	out := make([]VehicleEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Number), q) ||
			strings.Contains(strings.ToLower(string(e.Type)), q) {
			out = append(out, e)
		}
	}
	return out
}
