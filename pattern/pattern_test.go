package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wholeCycle(c int64) Arc {
	return NewArc(FromInt(c), FromInt(c+1))
}

func starts[T any](hs []Hap[T]) []Rat {
	out := make([]Rat, len(hs))
	for i, h := range hs {
		out[i] = h.Part.Start
	}
	return out
}

func values[T any](hs []Hap[T]) []T {
	out := make([]T, len(hs))
	for i, h := range hs {
		out[i] = h.Value
	}
	return out
}

func TestPure_OnePerCycle(t *testing.T) {
	p := Pure("a")

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 1)
	assert.Equal(t, wholeCycle(0), haps[0].Whole)
	assert.Equal(t, wholeCycle(0), haps[0].Part)
	assert.True(t, haps[0].HasOnset())

	haps = p.Query(NewArc(FromInt(0), FromInt(3)))
	require.Len(t, haps, 3)
	for i, h := range haps {
		assert.Equal(t, wholeCycle(int64(i)), h.Whole)
	}
}

func TestPure_ClippedPartKeepsWhole(t *testing.T) {
	haps := Pure("a").Query(NewArc(NewRat(1, 4), NewRat(1, 2)))
	require.Len(t, haps, 1)
	assert.Equal(t, wholeCycle(0), haps[0].Whole)
	assert.Equal(t, NewArc(NewRat(1, 4), NewRat(1, 2)), haps[0].Part)
	assert.False(t, haps[0].HasOnset())
}

func TestQuery_ZeroWidthArcIsEmpty(t *testing.T) {
	assert.Empty(t, Pure("a").Query(NewArc(NewRat(1, 2), NewRat(1, 2))))
	assert.Empty(t, Pure("a").Query(NewArc(FromInt(1), FromInt(0))))
}

func TestSilence(t *testing.T) {
	assert.Empty(t, Silence[int]().Query(wholeCycle(0)))

	var zero Pattern[int]
	assert.Empty(t, zero.Query(wholeCycle(0)))
}

func TestFastcat_EqualSlices(t *testing.T) {
	p := Fastcat(Pure(1), Pure(2), Pure(3), Pure(4))

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, values(haps))
	for i, h := range haps {
		assert.Equal(t, NewRat(int64(i), 4), h.Part.Start)
		assert.Equal(t, NewRat(1, 4), h.Whole.Width())
		assert.True(t, h.HasOnset())
	}
}

func TestFastcat_NestedHalves(t *testing.T) {
	// [a b] c: a and b split the first half, c takes the second.
	p := Fastcat(Fastcat(Pure("a"), Pure("b")), Pure("c"))

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 3)
	assert.Equal(t, []string{"a", "b", "c"}, values(haps))
	assert.Equal(t, []Rat{FromInt(0), NewRat(1, 4), NewRat(1, 2)}, starts(haps))
	assert.Equal(t, NewRat(1, 4), haps[0].Whole.Width())
	assert.Equal(t, NewRat(1, 2), haps[2].Whole.Width())
}

func TestStack_UnionKeepsLayerOrder(t *testing.T) {
	p := Stack(
		Fastcat(Pure(1), Pure(2)),
		Fastcat(Pure(3), Pure(4)),
	)

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 4)
	// Simultaneous onsets keep stacking order.
	assert.Equal(t, []int{1, 3, 2, 4}, values(haps))
	assert.Equal(t, []Rat{FromInt(0), FromInt(0), NewRat(1, 2), NewRat(1, 2)}, starts(haps))
}

func TestSlowcat_AlternatesPerCycle(t *testing.T) {
	p := Slowcat(Pure("a"), Pure("b"))

	for c, want := range []string{"a", "b", "a", "b"} {
		haps := p.Query(wholeCycle(int64(c)))
		require.Len(t, haps, 1, "cycle %d", c)
		assert.Equal(t, want, haps[0].Value, "cycle %d", c)
		assert.True(t, haps[0].HasOnset())
	}

	// A multi-cycle arc yields each alternative in turn.
	haps := p.Query(NewArc(FromInt(0), FromInt(2)))
	require.Len(t, haps, 2)
	assert.Equal(t, []string{"a", "b"}, values(haps))
	assert.Equal(t, wholeCycle(0), haps[0].Whole)
	assert.Equal(t, wholeCycle(1), haps[1].Whole)
}

func TestFast_Repeats(t *testing.T) {
	p := Fast(FromInt(2), Pure("x"))

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 2)
	assert.Equal(t, []Rat{FromInt(0), NewRat(1, 2)}, starts(haps))
	for _, h := range haps {
		assert.Equal(t, NewRat(1, 2), h.Whole.Width())
		assert.True(t, h.HasOnset())
	}
}

func TestFast_NonPositiveFactorIsSilence(t *testing.T) {
	assert.Empty(t, Fast(FromInt(0), Pure(1)).Query(wholeCycle(0)))
	assert.Empty(t, Fast(FromInt(-1), Pure(1)).Query(wholeCycle(0)))
	assert.Empty(t, Slow(FromInt(0), Pure(1)).Query(wholeCycle(0)))
}

func TestSlow_StretchesAcrossCycles(t *testing.T) {
	p := Slow(FromInt(2), Pure("x"))

	haps := p.Query(wholeCycle(0))
	require.Len(t, haps, 1)
	assert.Equal(t, NewArc(FromInt(0), FromInt(2)), haps[0].Whole)
	assert.Equal(t, wholeCycle(0), haps[0].Part)
	assert.True(t, haps[0].HasOnset())

	// Cycle 1 sees the tail of the same event: no onset.
	haps = p.Query(wholeCycle(1))
	require.Len(t, haps, 1)
	assert.False(t, haps[0].HasOnset())

	// The next repetition starts at cycle 2.
	haps = p.Query(wholeCycle(2))
	require.Len(t, haps, 1)
	assert.True(t, haps[0].HasOnset())
}

func TestMixedRates_OnsetCount(t *testing.T) {
	// "1*2 2/2": the doubled atom fires twice each cycle, the halved
	// one contributes an onset only on even cycles.
	p := Fastcat(
		Fast(FromInt(2), Pure(1)),
		Slow(FromInt(2), Pure(2)),
	)

	onsets := func(haps []Hap[int]) []Hap[int] {
		var out []Hap[int]
		for _, h := range haps {
			if h.HasOnset() {
				out = append(out, h)
			}
		}
		return out
	}

	cycle0 := onsets(p.Query(wholeCycle(0)))
	require.Len(t, cycle0, 3)
	assert.Equal(t, []int{1, 1, 2}, values(cycle0))
	assert.Equal(t, []Rat{FromInt(0), NewRat(1, 4), NewRat(1, 2)}, starts(cycle0))

	cycle1 := onsets(p.Query(wholeCycle(1)))
	require.Len(t, cycle1, 2)
	assert.Equal(t, []int{1, 1}, values(cycle1))
}

func TestQuery_Deterministic(t *testing.T) {
	p := Stack(
		Fastcat(Pure(1), Fast(FromInt(3), Pure(2)), Silence[int]()),
		Slowcat(Pure(7), Pure(8)),
	)
	a := NewArc(NewRat(1, 3), NewRat(7, 2))

	first := p.Query(a)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, p.Query(a))
	}
}

func TestQuery_OrderedByPartStart(t *testing.T) {
	p := Stack(
		Fast(FromInt(3), Pure("a")),
		Fast(FromInt(2), Pure("b")),
	)
	haps := p.Query(wholeCycle(0))
	for i := 1; i < len(haps); i++ {
		assert.True(t, haps[i-1].Part.Start.LessEq(haps[i].Part.Start))
	}
}
