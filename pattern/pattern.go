package pattern

import "sort"

// Pattern is a pure function from a query arc to the timed events
// occurring inside it. Queries are deterministic and allocate no shared
// state, so a pattern can be queried from any goroutine. Combinators
// close over their inputs and return new values; nothing is mutated.
type Pattern[T any] struct {
	query func(Arc) []Hap[T]
}

// New wraps a query function as a Pattern.
func New[T any](query func(Arc) []Hap[T]) Pattern[T] {
	return Pattern[T]{query: query}
}

// Query returns the haps inside a, ordered by Part.Start. A zero-width
// or inverted arc returns nothing. The zero Pattern is silence.
func (p Pattern[T]) Query(a Arc) []Hap[T] {
	if p.query == nil || a.End.LessEq(a.Start) {
		return nil
	}
	return p.query(a)
}

// Silence returns the pattern with no events.
func Silence[T any]() Pattern[T] {
	return Pattern[T]{}
}

// Pure repeats v once per cycle: whole [c, c+1) for every cycle c the
// query touches, parts clipped to the query window.
func Pure[T any](v T) Pattern[T] {
	return PureSpan(v, Span{})
}

// PureSpan is Pure carrying a notation source span.
func PureSpan[T any](v T, span Span) Pattern[T] {
	return New(func(a Arc) []Hap[T] {
		var out []Hap[T]
		for _, part := range a.CycleArcs() {
			out = append(out, Hap[T]{
				Whole: Arc{Start: part.Start.Sam(), End: part.Start.NextSam()},
				Part:  part,
				Value: v,
				Span:  span,
			})
		}
		return out
	})
}

// Stack overlays patterns: every pattern is queried with the same arc
// and the results merged. Sorting is stable, so simultaneous events
// keep stacking order - deterministic for a given arc.
func Stack[T any](ps ...Pattern[T]) Pattern[T] {
	if len(ps) == 1 {
		return ps[0]
	}
	return New(func(a Arc) []Hap[T] {
		var out []Hap[T]
		for _, p := range ps {
			out = append(out, p.Query(a)...)
		}
		sortHaps(out)
		return out
	})
}

// Slowcat concatenates patterns cycle by cycle: cycle c plays
// patterns[c mod n], with time shifted so each pattern experiences its
// own consecutive cycles. This is the alternation primitive: one full
// alternative per cycle, never subdividing.
func Slowcat[T any](ps ...Pattern[T]) Pattern[T] {
	n := int64(len(ps))
	if n == 0 {
		return Silence[T]()
	}
	if n == 1 {
		return ps[0]
	}
	return New(func(a Arc) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range a.CycleArcs() {
			c := cyc.Start.Floor()
			i := ((c % n) + n) % n
			// Pattern i has played floorDiv(c, n) cycles so far;
			// shift the query so it sees that cycle number.
			offset := FromInt(c - floorDiv(c, n))
			shifted := cyc.WithTime(func(t Rat) Rat { return t.Sub(offset) })
			for _, h := range ps[i].Query(shifted) {
				out = append(out, h.WithTime(func(t Rat) Rat { return t.Add(offset) }))
			}
		}
		sortHaps(out)
		return out
	})
}

// Fastcat squeezes patterns into a single cycle: element i fills the
// slot [i/n, (i+1)/n), time-dilated to fit. Sequences and repetition
// are built from this.
func Fastcat[T any](ps ...Pattern[T]) Pattern[T] {
	return Fast(FromInt(int64(len(ps))), Slowcat(ps...))
}

// Fast speeds p up by factor: n repetitions fit where one used to.
// A factor <= 0 yields silence.
func Fast[T any](factor Rat, p Pattern[T]) Pattern[T] {
	if factor.num <= 0 {
		return Silence[T]()
	}
	if factor.Equal(FromInt(1)) {
		return p
	}
	return New(func(a Arc) []Hap[T] {
		inner := a.WithTime(func(t Rat) Rat { return t.Mul(factor) })
		haps := p.Query(inner)
		out := make([]Hap[T], 0, len(haps))
		for _, h := range haps {
			out = append(out, h.WithTime(func(t Rat) Rat { return t.Div(factor) }))
		}
		return out
	})
}

// Slow stretches p by factor: one repetition takes factor cycles.
func Slow[T any](factor Rat, p Pattern[T]) Pattern[T] {
	if factor.num <= 0 {
		return Silence[T]()
	}
	return Fast(FromInt(1).Div(factor), p)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// sortHaps orders by Part.Start, stable so overlay order survives.
func sortHaps[T any](hs []Hap[T]) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Part.Start.Less(hs[j].Part.Start)
	})
}
