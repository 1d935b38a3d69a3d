// Package notation compiles mini-notation text ("1 2 3 4", "1*2 2/2",
// "1(3,8)", "<1 2>") into queryable patterns of control events. One
// grammar skeleton serves every context; only the atom-to-value step
// differs per entry point.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"go-cycles/control"
	"go-cycles/pattern"
)

// maxDepth bounds bracket/alternation nesting. Past this the input is
// rejected rather than recursing further.
const maxDepth = 32

// Pat is the pattern type every entry point produces.
type Pat = pattern.Pattern[control.Event]

// atomFunc turns one bare word into a single-event pattern. Each
// parsing context (gates, sounds, notes, floats) supplies its own.
type atomFunc func(word string, span pattern.Span) (Pat, error)

// ParseGates parses text where atoms are 1-based voice numbers
// (1..12), emitting Gate events.
func ParseGates(text string) (Pat, error) {
	return parse(text, gateAtom)
}

// ParseSounds parses text where atoms are sample names, emitting
// Sample events.
func ParseSounds(text string) (Pat, error) {
	return parse(text, soundAtom)
}

// ParseNotes parses text where atoms are note names (c#3, eb3, e-3)
// or raw MIDI numbers, emitting Note events.
func ParseNotes(text string) (Pat, error) {
	return parse(text, noteAtom)
}

// ParseFloats parses text where atoms are floating-point literals,
// mapped through a caller-supplied event constructor.
func ParseFloats(text string, ctor func(float64) (control.Event, error)) (Pat, error) {
	return parse(text, func(word string, span pattern.Span) (Pat, error) {
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return Pat{}, fmt.Errorf("not a number: %q", word)
		}
		ev, err := ctor(v)
		if err != nil {
			return Pat{}, err
		}
		return pattern.PureSpan(ev, span), nil
	})
}

func gateAtom(word string, span pattern.Span) (Pat, error) {
	n, err := strconv.Atoi(word)
	if err != nil {
		return Pat{}, fmt.Errorf("not a voice number: %q", word)
	}
	if n < 1 || n > control.NumVoices {
		return Pat{}, fmt.Errorf("voice %d out of range 1..%d", n, control.NumVoices)
	}
	return pattern.PureSpan(control.Gate(n-1), span), nil
}

func soundAtom(word string, span pattern.Span) (Pat, error) {
	return pattern.PureSpan(control.Sample(word), span), nil
}

func noteAtom(word string, span pattern.Span) (Pat, error) {
	midi, err := parseNoteName(word)
	if err != nil {
		return Pat{}, err
	}
	return pattern.PureSpan(control.Note(midi), span), nil
}

type parser struct {
	toks  []token
	pos   int
	atom  atomFunc
	depth int
}

// parse runs the shared grammar over text. On any error no pattern is
// returned; the caller keeps whatever it had before.
func parse(text string, atom atomFunc) (Pat, error) {
	toks := tokenize(text)
	if len(toks) == 0 {
		return Pat{}, fmt.Errorf("empty pattern")
	}

	// Transform prefixes wrap the rest of the line.
	if toks[0].kind == tokWord && (toks[0].text == "fast" || toks[0].text == "slow") {
		if len(toks) < 3 {
			return Pat{}, fmt.Errorf("%s needs a factor and a pattern", toks[0].text)
		}
		if toks[1].kind != tokWord {
			return Pat{}, fmt.Errorf("%s factor must be a number, got %q at %d", toks[0].text, toks[1].text, toks[1].begin)
		}
		factor, err := pattern.ParseRat(toks[1].text)
		if err != nil {
			return Pat{}, fmt.Errorf("%s factor: %v", toks[0].text, err)
		}
		if factor.Float() <= 0 {
			return Pat{}, fmt.Errorf("%s factor must be positive, got %q", toks[0].text, toks[1].text)
		}
		inner, err := (&parser{toks: toks[2:], atom: atom}).parseAll()
		if err != nil {
			return Pat{}, err
		}
		if toks[0].text == "fast" {
			return pattern.Fast(factor, inner), nil
		}
		return pattern.Slow(factor, inner), nil
	}

	return (&parser{toks: toks, atom: atom}).parseAll()
}

// tokNone is the "no closing token" sentinel for top-level parsing.
const tokNone tokenKind = 255

func (p *parser) parseAll() (Pat, error) {
	pat, err := p.parseStack(tokNone)
	if err != nil {
		return Pat{}, err
	}
	if p.pos < len(p.toks) {
		t := p.toks[p.pos]
		return Pat{}, fmt.Errorf("unexpected %q at %d", t.text, t.begin)
	}
	return pat, nil
}

// parseStack parses comma-separated sequences up to the closing token
// (or end of input) and overlays them.
func (p *parser) parseStack(until tokenKind) (Pat, error) {
	var layers []Pat
	for {
		seq, err := p.parseSequence(until)
		if err != nil {
			return Pat{}, err
		}
		layers = append(layers, seq)
		if p.pos < len(p.toks) && p.toks[p.pos].kind == tokComma {
			p.pos++
			continue
		}
		break
	}
	if len(layers) == 1 {
		return layers[0], nil
	}
	return pattern.Stack(layers...), nil
}

// parseSequence parses elements until a structural boundary. Each
// element gets an equal share of the enclosing span.
func (p *parser) parseSequence(until tokenKind) (Pat, error) {
	var elems []Pat
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.kind == until || t.kind == tokComma {
			break
		}
		if t.kind == tokRBracket || t.kind == tokRAngle || t.kind == tokRParen {
			return Pat{}, fmt.Errorf("unexpected %q at %d", t.text, t.begin)
		}
		elem, err := p.parseElement()
		if err != nil {
			return Pat{}, err
		}
		elems = append(elems, elem)
	}
	if len(elems) == 0 {
		return Pat{}, fmt.Errorf("empty sequence")
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return pattern.Fastcat(elems...), nil
}

// parseElement parses an atom, group or alternation, then any postfix
// modifiers bound to it.
func (p *parser) parseElement() (Pat, error) {
	t := p.toks[p.pos]
	var elem Pat
	var err error

	switch t.kind {
	case tokLBracket:
		p.pos++
		elem, err = p.parseNested(tokRBracket, "]")
	case tokLAngle:
		p.pos++
		elem, err = p.parseAlternation()
	case tokWord:
		p.pos++
		if t.text == "~" {
			elem = pattern.Silence[control.Event]()
		} else {
			elem, err = p.atom(t.text, pattern.Span{Begin: t.begin, End: t.end})
		}
	default:
		return Pat{}, fmt.Errorf("unexpected %q at %d", t.text, t.begin)
	}
	if err != nil {
		return Pat{}, err
	}

	return p.parseModifiers(elem)
}

// parseNested parses a bracketed sub-pattern, which may itself stack.
func (p *parser) parseNested(closing tokenKind, closeText string) (Pat, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return Pat{}, fmt.Errorf("nesting deeper than %d levels", maxDepth)
	}
	inner, err := p.parseStack(closing)
	if err != nil {
		return Pat{}, err
	}
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != closing {
		return Pat{}, fmt.Errorf("missing %q", closeText)
	}
	p.pos++
	return inner, nil
}

// parseAlternation parses <a b c>: one element per cycle.
func (p *parser) parseAlternation() (Pat, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return Pat{}, fmt.Errorf("nesting deeper than %d levels", maxDepth)
	}
	var elems []Pat
	for p.pos < len(p.toks) && p.toks[p.pos].kind != tokRAngle {
		elem, err := p.parseElement()
		if err != nil {
			return Pat{}, err
		}
		elems = append(elems, elem)
	}
	if p.pos >= len(p.toks) {
		return Pat{}, fmt.Errorf("missing %q", ">")
	}
	p.pos++
	if len(elems) == 0 {
		return Pat{}, fmt.Errorf("empty alternation")
	}
	return pattern.Slowcat(elems...), nil
}

// parseModifiers applies postfix *N, /N and (k,n[,rot]) in order.
func (p *parser) parseModifiers(elem Pat) (Pat, error) {
	for p.pos < len(p.toks) {
		switch p.toks[p.pos].kind {
		case tokStar:
			p.pos++
			factor, err := p.modifierNumber("*")
			if err != nil {
				return Pat{}, err
			}
			elem = pattern.Fast(factor, elem)
		case tokSlash:
			p.pos++
			factor, err := p.modifierNumber("/")
			if err != nil {
				return Pat{}, err
			}
			elem = pattern.Slow(factor, elem)
		case tokLParen:
			p.pos++
			var err error
			elem, err = p.parseEuclid(elem)
			if err != nil {
				return Pat{}, err
			}
		default:
			return elem, nil
		}
	}
	return elem, nil
}

func (p *parser) modifierNumber(op string) (pattern.Rat, error) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokWord {
		return pattern.Rat{}, fmt.Errorf("%q needs a number", op)
	}
	t := p.toks[p.pos]
	p.pos++
	factor, err := pattern.ParseRat(t.text)
	if err != nil {
		return pattern.Rat{}, fmt.Errorf("%q factor at %d: %v", op, t.begin, err)
	}
	if factor.Float() <= 0 {
		return pattern.Rat{}, fmt.Errorf("%q factor at %d must be positive", op, t.begin)
	}
	return factor, nil
}

// parseEuclid parses the tail of elem(k,n[,rot]).
func (p *parser) parseEuclid(elem Pat) (Pat, error) {
	k, err := p.euclidInt("onset count")
	if err != nil {
		return Pat{}, err
	}
	if err := p.expect(tokComma, ","); err != nil {
		return Pat{}, err
	}
	n, err := p.euclidInt("step count")
	if err != nil {
		return Pat{}, err
	}
	rot := 0
	if p.pos < len(p.toks) && p.toks[p.pos].kind == tokComma {
		p.pos++
		rot, err = p.euclidInt("rotation")
		if err != nil {
			return Pat{}, err
		}
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return Pat{}, err
	}
	if n < 1 {
		return Pat{}, fmt.Errorf("euclid step count must be >= 1, got %d", n)
	}
	if k < 0 || k > n {
		return Pat{}, fmt.Errorf("euclid onset count %d out of range 0..%d", k, n)
	}
	return pattern.Euclid(k, n, rot, elem), nil
}

func (p *parser) euclidInt(what string) (int, error) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokWord {
		return 0, fmt.Errorf("euclid %s missing", what)
	}
	t := p.toks[p.pos]
	p.pos++
	n, err := strconv.Atoi(strings.TrimSpace(t.text))
	if err != nil {
		return 0, fmt.Errorf("euclid %s at %d: not an integer: %q", what, t.begin, t.text)
	}
	return n, nil
}

func (p *parser) expect(kind tokenKind, text string) error {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != kind {
		return fmt.Errorf("missing %q", text)
	}
	p.pos++
	return nil
}
