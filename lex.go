package calc

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// val is the value of a tokenNum.
	val float64
	// fn is the function of a tokenFunc.
	fn Func
	// implicit marks a multiplication that was not written in the input.
	implicit bool
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number literal.
	tokenNum
	// tokenVar is the variable x.
	tokenVar
	// tokenFunc is a function name.
	tokenFunc
	// tokenOp is an operator, including mod.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
)

//go:generate stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which are considered to be operators. The
// word operator mod is recognized separately.
const Operators = "+-*/^"

// Variable is the name of the free variable.
const Variable = "x"

// words lists every letter sequence the lexer knows, in the order in which
// they are tried. Longer names come first so that matching is greedy.
var words = func() []string {
	v := append(Funcs(), "mod", Variable)
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && len(v[j]) > len(v[j-1]); j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
	return v
}()

type lexer struct {
	src string
	// off is the byte offset of the next rune.
	off int
	// rune is the 1-based rune position of the next rune.
	rune int
	// prev is the kind of the last token scanned, used to decide
	// implicit multiplication.
	prev tokenKind
	// p is a pushed token.
	p lexToken
}

func lex(src string) *lexer {
	return &lexer{src: src, rune: 1}
}

// tokenize splits a formula into tokens, including synthesized implicit
// multiplications. The result always ends with a tokenEOF.
func tokenize(src string) ([]lexToken, error) {
	l := lex(src)
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

// push unreads a token so that it is the next token returned from next.
// Panics if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// readRune reads a rune from the source and updates position info.
func (l *lexer) readRune() (rune, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += sz
	l.rune++
	return r, true
}

// peekRune returns the next rune without consuming it.
func (l *lexer) peekRune() (rune, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return r, true
}

// next scans the next token. Once the input is exhausted, every call
// returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		l.prev = tok.kind
		return tok, nil
	}
	tok, err := l.scan()
	if err != nil {
		return tok, err
	}
	if l.prev == tokenNum && tok.kind == tokenNum {
		// Only whitespace can come between two numbers, and "1 000" is
		// ambiguous.
		return tok, &LexError{Text: tok.text, Kind: "adjacent number", Col: tok.pos}
	}
	if implies(l.prev, tok.kind) {
		l.push(tok)
		tok = lexToken{text: "*", kind: tokenOp, pos: tok.pos, implicit: true}
	}
	l.prev = tok.kind
	return tok, nil
}

// implies reports whether a token of kind cur following one of kind prev
// means a multiplication that was left out. A number never implies a
// multiplication by another number; next rejects that pair.
func implies(prev, cur tokenKind) bool {
	switch prev {
	case tokenNum, tokenVar, tokenClose:
	default:
		return false
	}
	switch cur {
	case tokenNum:
		return prev != tokenNum
	case tokenVar, tokenFunc, tokenOpen:
		return true
	}
	return false
}

func (l *lexer) scan() (lexToken, error) {
	for {
		tok := lexToken{pos: l.rune}
		r, ok := l.peekRune()
		if !ok {
			tok.kind = tokenEOF
			return tok, nil
		}
		switch {
		case unicode.IsSpace(r):
			l.readRune()
			continue
		case '0' <= r && r <= '9', r == '.':
			return l.scanNum(tok)
		case unicode.IsLetter(r):
			return l.scanWord(tok)
		case r == '(':
			l.readRune()
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			l.readRune()
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case strings.ContainsRune(Operators, r):
			l.readRune()
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			l.readRune()
			return tok, &LexError{Text: string(r), Col: tok.pos}
		}
	}
}

// scanNum scans a number literal: digits, optionally a decimal point with
// more digits, then an optional exponent.
func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	start := l.off
	var dig, dot, frac, e, ed bool
	bad := func() (lexToken, error) {
		return tok, &LexError{Text: l.src[start:l.off], Kind: "number", Col: tok.pos}
	}
scan:
	for {
		r, ok := l.peekRune()
		if !ok {
			break
		}
		switch {
		case '0' <= r && r <= '9':
			switch {
			case e:
				ed = true
			case dot:
				frac = true
			default:
				dig = true
			}
		case r == '.':
			if dot || e || !dig {
				l.readRune()
				return bad()
			}
			dot = true
		case r == 'e' || r == 'E':
			if !dig || e || dot && !frac {
				l.readRune()
				return bad()
			}
			e = true
			l.readRune()
			if s, ok := l.peekRune(); ok && (s == '+' || s == '-') {
				l.readRune()
			}
			continue
		case unicode.IsLetter(r) && e && !ed:
			l.readRune()
			return bad()
		default:
			break scan
		}
		l.readRune()
	}
	tok.text = l.src[start:l.off]
	if !dig || dot && !frac || e && !ed {
		return bad()
	}
	v, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return tok, &LiteralError{Text: tok.text, Col: tok.pos}
		}
		return bad()
	}
	tok.val = v
	tok.kind = tokenNum
	return tok, nil
}

// scanWord scans the longest known word at the current position. Letters
// that don't begin a known word are an error.
func (l *lexer) scanWord(tok lexToken) (lexToken, error) {
	rest := l.src[l.off:]
	for _, w := range words {
		if !strings.HasPrefix(rest, w) {
			continue
		}
		for range w {
			l.readRune()
		}
		tok.text = w
		switch w {
		case Variable:
			tok.kind = tokenVar
		case "mod":
			tok.kind = tokenOp
		default:
			tok.kind = tokenFunc
			tok.fn = lookupFunc(w)
		}
		return tok, nil
	}
	// Consume the whole run of letters so that it shows up in the error.
	start := l.off
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsLetter(r) {
			break
		}
		l.readRune()
	}
	return tok, &LexError{Text: l.src[start:l.off], Kind: "identifier", Col: tok.pos}
}

// LexError indicates an invalid token. It implements SyntaxError.
type LexError struct {
	// Text is the invalid token, or as much of it as the lexer scanned.
	Text string
	// Kind is the type of token the lexer was scanning. This may be
	// "number", "identifier", "adjacent number" for a number directly
	// after another, or the empty string if the rune could not begin any
	// token.
	Kind string
	// Col is the position of the start of the token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrSyntax
}

// LiteralError indicates a number literal whose magnitude is too large to
// represent. It implements SyntaxError.
type LiteralError struct {
	// Text is the literal.
	Text string
	// Col is the position of the literal.
	Col int
}

func (err *LiteralError) Error() string {
	return errpos(err.Col, "number "+err.Text+" out of range")
}

func (err *LiteralError) Pos() int {
	return err.Col
}

func (err *LiteralError) Is(target error) bool {
	return target == ErrSyntax
}
