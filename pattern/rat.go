package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Rat is an exact rational number of cycles. All pattern time math runs
// on Rat so positions stay exact across arbitrarily many cycles - the
// scheduler derives each position from a single wall-clock division
// rather than accumulating float deltas.
//
// Invariant: den > 0 and gcd(|num|, den) == 1.
type Rat struct {
	num int64
	den int64
}

// NewRat creates a normalized rational num/den. den must be non-zero.
func NewRat(num, den int64) Rat {
	if den == 0 {
		panic("pattern: rational with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Rat{num: num, den: den}
}

// FromInt creates the rational n/1.
func FromInt(n int64) Rat {
	return Rat{num: n, den: 1}
}

// ParseRat parses a non-negative integer or decimal string ("2", "1.5")
// into a Rat.
func ParseRat(s string) (Rat, error) {
	whole, frac, found := strings.Cut(s, ".")
	if !found {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Rat{}, fmt.Errorf("not a number: %q", s)
		}
		return FromInt(n), nil
	}
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return Rat{}, fmt.Errorf("not a number: %q", s)
	}
	den := int64(1)
	for range frac {
		den *= 10
	}
	return NewRat(n, den), nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Add returns r + o.
func (r Rat) Add(o Rat) Rat {
	return NewRat(r.num*o.den+o.num*r.den, r.den*o.den)
}

// Sub returns r - o.
func (r Rat) Sub(o Rat) Rat {
	return NewRat(r.num*o.den-o.num*r.den, r.den*o.den)
}

// Mul returns r * o. Cross-reduces before multiplying to keep the
// intermediate products small.
func (r Rat) Mul(o Rat) Rat {
	g1 := gcd(abs64(r.num), o.den)
	g2 := gcd(abs64(o.num), r.den)
	return NewRat((r.num/g1)*(o.num/g2), (r.den/g2)*(o.den/g1))
}

// Div returns r / o. o must be non-zero.
func (r Rat) Div(o Rat) Rat {
	if o.num == 0 {
		panic("pattern: division by zero rational")
	}
	return r.Mul(Rat{num: o.den, den: o.num})
}

// Cmp returns -1, 0 or +1 comparing r to o. Denominators are
// cross-reduced first; pattern times share most of their factors, so
// the cross products stay small.
func (r Rat) Cmp(o Rat) int {
	if r.den == o.den {
		switch {
		case r.num < o.num:
			return -1
		case r.num > o.num:
			return 1
		}
		return 0
	}
	g := gcd(r.den, o.den)
	d := r.num*(o.den/g) - o.num*(r.den/g)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Less reports r < o.
func (r Rat) Less(o Rat) bool { return r.Cmp(o) < 0 }

// LessEq reports r <= o.
func (r Rat) LessEq(o Rat) bool { return r.Cmp(o) <= 0 }

// Equal reports r == o.
func (r Rat) Equal(o Rat) bool { return r.num == o.num && r.den == o.den }

// IsZero reports r == 0.
func (r Rat) IsZero() bool { return r.num == 0 }

// Min returns the smaller of r and o.
func (r Rat) Min(o Rat) Rat {
	if r.Less(o) {
		return r
	}
	return o
}

// Max returns the larger of r and o.
func (r Rat) Max(o Rat) Rat {
	if o.Less(r) {
		return r
	}
	return o
}

// Floor returns the largest integer <= r.
func (r Rat) Floor() int64 {
	q := r.num / r.den
	if r.num%r.den != 0 && r.num < 0 {
		q--
	}
	return q
}

// Sam returns the start of the cycle containing r (floor as a Rat).
func (r Rat) Sam() Rat {
	return FromInt(r.Floor())
}

// NextSam returns the start of the cycle after the one containing r.
func (r Rat) NextSam() Rat {
	return FromInt(r.Floor() + 1)
}

// CyclePos returns r - Sam(r), the position within r's cycle.
func (r Rat) CyclePos() Rat {
	return r.Sub(r.Sam())
}

// Float returns the nearest float64.
func (r Rat) Float() float64 {
	return float64(r.num) / float64(r.den)
}

// String renders "n" for integers and "n/d" otherwise.
func (r Rat) String() string {
	if r.den == 1 {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.den, 10)
}
