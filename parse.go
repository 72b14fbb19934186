package calc

import (
	"strings"
)

// Expr = num | x | Call | Neg | Plus | Add | Sub | Mul | Div | Mod | Pow | '(' Expr ')'
// Call = func Arg
// Arg = '(' Expr ')' | '-' Arg | '+' Arg | Call | Atom { Atom }
// Atom = num | x
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr Expr
// Div = Expr '/' Expr
// Mod = Expr 'mod' Expr
// Pow = Expr '^' Expr

// Expr is a compiled expression. It is never modified after Compile
// returns, so it is safe to evaluate an Expr concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// src is the formula the expression was compiled from.
	src string
	// hasVar is whether the expression refers to x.
	hasVar bool
}

// parser holds the token stream during a parse.
type parser struct {
	toks []lexToken
	i    int
}

func (p *parser) next() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

// peek2 returns the token after the next one.
func (p *parser) peek2() lexToken {
	if p.i+1 < len(p.toks) {
		return p.toks[p.i+1]
	}
	return p.toks[len(p.toks)-1]
}

// Compile parses a formula. Every error it returns satisfies
// errors.Is(err, ErrSyntax); no partial expression is ever returned.
func Compile(src string) (*Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks}
	n, err := parseterm(&p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	return &Expr{n: n, src: src, hasVar: n.hasVar()}, nil
}

// MustCompile is like Compile but panics if the formula does not parse.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic("calc: Compile(" + src + "): " + err.Error())
	}
	return e
}

// parseterm parses an expression whose operators all bind more tightly
// than until. The token that ends the term is left unread.
func parseterm(p *parser, until operator) (*node, error) {
	n, err := parseunary(p)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				return n, nil
			}
			p.next()
			rhs, err := parseterm(p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenEOF:
			// End of (sub)expression. The caller decides whether it is
			// the right end.
			return n, nil
		default:
			// The lexer puts a multiplication between any two operands,
			// so nothing else can follow one.
			panic("calc: unexpected token after operand: " + tok.String())
		}
	}
}

// parseunary parses prefix operators, function calls, and a single primary.
func parseunary(p *parser) (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, val: tok.val}, nil
	case tokenVar:
		return &node{kind: nodeVar}, nil
	case tokenFunc:
		return parsecall(p, tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		rhs, err := parseunary(p)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		return parsegroup(p)
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parsegroup parses the rest of a parenthesized expression after its open
// bracket.
func parsegroup(p *parser) (*node, error) {
	n, err := parseterm(p, exprprec)
	if err != nil {
		return nil, err
	}
	end := p.next()
	if end.kind != tokenClose {
		return nil, itShouldNotHaveEndedThisWay(end)
	}
	return n, nil
}

// parsecall parses the argument of a function. A bracketed argument is
// taken whole. Signs and further functions compose, so sin-x is sin(-x).
// Otherwise the argument is a run of numbers and x joined by implicit
// multiplication, so sin2x is sin(2x) but sinx^2 is (sin x)^2.
func parsecall(p *parser, fn lexToken) (*node, error) {
	arg, err := parsearg(p)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, fn: fn.fn, left: arg}, nil
}

func parsearg(p *parser) (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenOpen:
		return parsegroup(p)
	case tokenFunc:
		return parsecall(p, tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		rhs, err := parsearg(p)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenNum, tokenVar:
		n := atom(tok)
		for {
			mul, nx := p.peek(), p.peek2()
			if !mul.implicit || nx.kind != tokenNum && nx.kind != tokenVar {
				return n, nil
			}
			p.next()
			n = &node{kind: nodeMul, left: n, right: atom(p.next())}
		}
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// atom makes a leaf node from a number or variable token.
func atom(tok lexToken) *node {
	if tok.kind == tokenVar {
		return &node{kind: nodeVar}
	}
	return &node{kind: nodeNum, val: tok.val}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an
// unexpected token at the end of a subexpression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: "(", Right: ""}
	case tokenClose:
		// A close bracket at the top level has no open bracket.
		return &BracketError{Col: tok.pos, Left: "", Right: tok.text}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// HasVar reports whether the expression refers to x. If it doesn't, every
// evaluation gives the same result and there is nothing to plot.
func (e *Expr) HasVar() bool {
	return e.hasVar
}

// Source returns the formula the expression was compiled from.
func (e *Expr) Source() string {
	return e.src
}

// String creates a fully parenthesized representation of the expression.
// Compiling the result gives an identical expression.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}

// Postfix renders the expression in reverse Polish notation. Unary signs
// appear as u- and u+.
func (e *Expr) Postfix() string {
	var b strings.Builder
	e.n.postfix(&b)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such
// binary operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "mod":
		return operator{5, false, nodeMod}
	case "^":
		return operator{10, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone. Unary operators bind
// more tightly than any binary operator, so they are parsed directly by
// parseunary rather than climbed.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{15, true, nodePlus}
	case "-":
		return operator{15, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
