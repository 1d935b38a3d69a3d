package pattern

// Arc is a half-open interval [Start, End) in fractional cycles. Arcs
// serve both as query windows and as event spans.
//
// Invariant: Start <= End.
type Arc struct {
	Start Rat
	End   Rat
}

// NewArc creates an arc from start to end.
func NewArc(start, end Rat) Arc {
	return Arc{Start: start, End: end}
}

// Width returns End - Start.
func (a Arc) Width() Rat {
	return a.End.Sub(a.Start)
}

// IsZeroWidth reports Start == End.
func (a Arc) IsZeroWidth() bool {
	return a.Start.Equal(a.End)
}

// Sect returns the intersection of a and o. The result may be
// zero-width or inverted when the arcs don't overlap; callers check
// with IsZeroWidth / Width.
func (a Arc) Sect(o Arc) Arc {
	return Arc{Start: a.Start.Max(o.Start), End: a.End.Min(o.End)}
}

// Contains reports whether t lies inside the half-open interval.
func (a Arc) Contains(t Rat) bool {
	return a.Start.LessEq(t) && t.Less(a.End)
}

// WithTime returns the arc with f applied to both endpoints.
func (a Arc) WithTime(f func(Rat) Rat) Arc {
	return Arc{Start: f(a.Start), End: f(a.End)}
}

// CycleArcs splits the arc at integer cycle boundaries, so each piece
// lies within a single cycle. A zero-width arc yields nothing: queries
// are half-open, a point selects no events.
func (a Arc) CycleArcs() []Arc {
	if a.End.LessEq(a.Start) {
		return nil
	}
	var out []Arc
	start := a.Start
	for start.Less(a.End) {
		end := start.NextSam().Min(a.End)
		out = append(out, Arc{Start: start, End: end})
		start = end
	}
	return out
}

func (a Arc) String() string {
	return "[" + a.Start.String() + "," + a.End.String() + ")"
}
