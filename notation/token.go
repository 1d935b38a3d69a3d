package notation

type tokenKind uint8

const (
	tokWord tokenKind = iota
	tokLBracket
	tokRBracket
	tokLAngle
	tokRAngle
	tokLParen
	tokRParen
	tokComma
	tokStar
	tokSlash
)

// token is one lexical unit with its character span in the source, so
// parsed atoms can report positions in errors and carry spans for the
// highlight sink.
type token struct {
	kind  tokenKind
	text  string
	begin int
	end   int
}

var structural = map[byte]tokenKind{
	'[': tokLBracket,
	']': tokRBracket,
	'<': tokLAngle,
	'>': tokRAngle,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
	'*': tokStar,
	'/': tokSlash,
}

// tokenize splits src into structural tokens and opaque words. Words
// are runs of anything that is neither whitespace nor structural; what
// a word means is up to the per-context atom constructor.
func tokenize(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if kind, ok := structural[c]; ok {
			toks = append(toks, token{kind: kind, text: string(c), begin: i, end: i + 1})
			i++
			continue
		}
		start := i
		for i < len(src) {
			c = src[i]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
				break
			}
			if _, ok := structural[c]; ok {
				break
			}
			i++
		}
		toks = append(toks, token{kind: tokWord, text: src[start:i], begin: start, end: i})
	}
	return toks
}
