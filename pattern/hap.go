package pattern

// Span is a character range in the notation source that produced an
// event. The scheduler forwards spans to the highlight sink so a UI can
// flash the text that just fired. A zero Span means "no source".
type Span struct {
	Begin int
	End   int
}

// Hap is a timed occurrence: an event value plus the Whole span it
// conceptually occupies and the Part actually covered by the query
// window. An event reaching outside the query is reported with its
// clipped Part and its true Whole.
//
// Invariants: Part is inside the query arc, Whole contains Part.
type Hap[T any] struct {
	Whole Arc
	Part  Arc
	Value T
	Span  Span
}

// HasOnset reports whether the hap's beginning lies inside its part,
// i.e. this fragment is where the event actually starts. Only onsets
// are dispatched; later fragments of the same event are bookkeeping.
func (h Hap[T]) HasOnset() bool {
	return h.Whole.Start.Equal(h.Part.Start)
}

// WithTime returns the hap with f applied to every timestamp.
func (h Hap[T]) WithTime(f func(Rat) Rat) Hap[T] {
	h.Whole = h.Whole.WithTime(f)
	h.Part = h.Part.WithTime(f)
	return h
}
