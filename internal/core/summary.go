package core

// TypeTotal is the count and revenue accumulated for one vehicle-type bucket.
type TypeTotal struct {
	Count int
	Total Money
}

// Summary is the per-type aggregation over a filtered entry set. ByType
// always carries all four buckets, even when empty.
type Summary struct {
	ByType  map[VehicleType]TypeTotal
	Flagged int // entries whose price was unparseable and counted as zero
}

// Summarize buckets entries by normalized vehicle type. Every entry lands in
// exactly one bucket; unknown types go to OtherVehicle.
func Summarize(entries []VehicleEntry) Summary {
	s := Summary{ByType: make(map[VehicleType]TypeTotal, 4)}
	for _, vt := range VehicleTypes() {
		s.ByType[vt] = TypeTotal{}
	}
	for _, e := range entries {
		vt := NormalizeVehicleType(string(e.Type))
		tt := s.ByType[vt]
		tt.Count++
		tt.Total = tt.Total.Add(e.Price)
		s.ByType[vt] = tt
		if e.PriceFlagged {
			s.Flagged++
		}
	}
	return s
}

// GrandTotal folds over the per-type buckets; it is the only code path for
// the totals.
func (s Summary) GrandTotal() TypeTotal {
	var g TypeTotal
	for _, tt := range s.ByType {
		g.Count += tt.Count
		g.Total = g.Total.Add(tt.Total)
	}
	return g
}
