package model

import "math"

// Range is an inclusive numeric range. Max may be +Inf for "no upper bound"
// ("trên 3 triệu" style queries).
type Range struct {
	Min float64
	Max float64
}

// UnboundedRange returns a range with the given lower bound and no upper
// bound.
func UnboundedRange(min float64) *Range {
	return &Range{Min: min, Max: math.Inf(1)}
}

// UnboundedAbove reports whether the range has no upper bound.
func (r Range) UnboundedAbove() bool {
	return math.IsInf(r.Max, 1)
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	if r.UnboundedAbove() {
		return v >= r.Min
	}
	return v >= r.Min && v <= r.Max
}

// Criteria is the structured search constraint bundle extracted from a
// free-text question. Zero values mean "unconstrained": empty Location,
// nil Price/Area, empty Category, empty Amenities. It lives for one request
// and is never persisted.
type Criteria struct {
	Location      string
	Price         *Range
	Area          *Range
	Category      string
	Amenities     []string
	RentalRequest bool
}
