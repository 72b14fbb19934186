package calc

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.val != m.val {
			return n, m
		}
	case nodeVar:
	case nodeCall:
		if n.fn != m.fn {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg, nodePlus:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
	if binop("mod").op != nodeMod {
		t.Error("no operator for mod")
	}
}

func TestUnaryMoreBindingThanBinary(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "mod", "^"} {
		for _, u := range []string{"+", "-"} {
			if !unop(u).moreBinding(binop(op)) {
				t.Errorf("unary %s binds less than binary %s", u, op)
			}
		}
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "((((x))))", "x"},

		{"plus", "+x", "(+(x))"},
		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+1", "((x)+(1))"},
		{"sub", "x-1", "((x)-(1))"},
		{"mul", "x*2", "((x)*(2))"},
		{"div", "x/2", "((x)/(2))"},
		{"mod", "x mod 2", "((x)mod(2))"},
		{"pow", "x^2", "((x)^(2))"},

		{"add4", "1+x+2+x", "((1+x)+2)+x"},
		{"sub4", "1-x-2-x", "((1-x)-2)-x"},
		{"mul4", "1*x*2*x", "((1*x)*2)*x"},
		{"div4", "1/x/2/x", "((1/x)/2)/x"},
		{"mod4", "1 mod x mod 2", "(1 mod x) mod 2"},
		{"pow4", "1^x^2^x", "1^(x^(2^x))"},
		{"muldivmod", "2*3/2modx", "((2*3)/2) mod x"},

		{"desc", "x^2*3+4", "((x^2)*3)+4"},
		{"asc", "4+3*x^2", "4+(3*(x^2))"},
		{"negpow", "-2^2", "(-2)^2"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"powneg", "x^-1", "x^(-1)"},
		{"pownegpow", "x^-x^-2", "x^((-x)^(-2))"},
		{"mixed", "-1+2*3/2modx", "(-1)+(((2*3)/2) mod x)"},

		{"implicit-num", "2x", "2*x"},
		{"implicit-var-num", "x2", "x*2"},
		{"implicit-paren", "2(x+1)", "2*(x+1)"},
		{"implicit-parens", "(x)(x)", "x*x"},
		{"implicit-func", "3sinx", "3*sin(x)"},
		{"implicit-pow", "2x^2", "2*(x^2)"},
		{"implicit-div", "1/2x", "(1/2)*x"},

		{"call-bare", "sinx", "sin(x)"},
		{"call-neg", "sin-x", "sin(-x)"},
		{"call-plus", "cos+x", "cos(+x)"},
		{"call-negneg", "sin--x", "sin(-(-x))"},
		{"call-call", "sin cos x", "sin(cos(x))"},
		{"call-negcall", "sin-cosx", "sin(-(cos(x)))"},
		{"call-pow", "sinx^2", "(sin(x))^2"},
		{"call-paren-pow", "sin(x)^2", "(sin(x))^2"},
		{"call-run", "sin2x", "sin(2*x)"},
		{"call-run-pow", "sin2x^2", "(sin(2*x))^2"},
		{"call-run-paren", "sin2(x)", "sin(2)*x"},
		{"call-mul", "sinxcosx", "sin(x)*cos(x)"},
		{"call-add", "sinx+1", "sin(x)+1"},
		{"call-num", "sqrt1", "sqrt(1)"},
		{"negcall-pow", "-sinx^2", "(-(sin(x)))^2"},
		{"all", "cos0+sin0+tan0*acos0-asin0+atan0-sqrt1+ln1-log1",
			"(((((((cos(0))+(sin(0)))+((tan(0))*(acos(0))))-(asin(0)))+(atan(0)))-(sqrt(1)))+(ln(1)))-(log(1))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := Compile(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "sin-x",
			src:  "sin-x",
			n: &node{
				kind: nodeCall,
				fn:   FuncSin,
				left: &node{
					kind: nodeNeg,
					left: &node{kind: nodeVar},
				},
			},
		},
		{
			name: "pow-right",
			src:  "2^3^2",
			n: &node{
				kind: nodePow,
				left: &node{kind: nodeNum, val: 2},
				right: &node{
					kind:  nodePow,
					left:  &node{kind: nodeNum, val: 3},
					right: &node{kind: nodeNum, val: 2},
				},
			},
		},
		{
			name: "precedence",
			src:  "2+2*2",
			n: &node{
				kind: nodeAdd,
				left: &node{kind: nodeNum, val: 2},
				right: &node{
					kind:  nodeMul,
					left:  &node{kind: nodeNum, val: 2},
					right: &node{kind: nodeNum, val: 2},
				},
			},
		},
		{
			name: "exp-literal",
			src:  "1.5e3",
			n:    &node{kind: nodeNum, val: 1500},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"plus", "+x"},
		{"neg", "-x"},
		{"negnum", "-1"},
		{"add", "x+1"},
		{"sub", "x-1"},
		{"mul", "x*2"},
		{"div", "x/2"},
		{"mod", "x mod 2"},
		{"pow", "x^2"},
		{"pow4", "1^x^2^x"},
		{"negpow", "-2^2"},
		{"implicit", "2x(x+1)"},
		{"calls", "sin-cos2x^2"},
		{"all", "cos0+sin0+tan0*acos0-asin0+atan0-sqrt1+ln1-log1"},
		{"big", "1e300*x"},
		{"small", "5e-324+x"},
		{"frac", "0.1+x/3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := Compile(s)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestPostfix(t *testing.T) {
	cases := []struct {
		src, rpn string
	}{
		{"2+2*2", "2 2 2 * +"},
		{"2^3^2", "2 3 2 ^ ^"},
		{"-x", "x u-"},
		{"+x", "x u+"},
		{"sin-x", "x u- sin"},
		{"-1+2*3/2modx", "1 u- 2 3 * 2 / x mod +"},
		{"2x", "2 x *"},
	}
	for _, c := range cases {
		a, err := Compile(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		if got := a.Postfix(); got != c.rpn {
			t.Errorf("%q: want postfix %q, got %q", c.src, c.rpn, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  SyntaxError
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"spaces", "   ", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyterm", "x()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "x*", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptycall", "sin", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"emptycallparen", "sin()", new(EmptyExpressionError), []string{`\)`}, nil},
		{"sincos", "sincos", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"left", "(1+2", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"misplaced", "1+2)(3-4)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"callopen", "sin(x", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"nonunary", "*x", new(OperatorError), []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"nonunary-mod", "mod x", new(OperatorError), []string{`(?i)\bunary\b`, `mod`}, nil},
		{"binbin", "x*/x", new(OperatorError), []string{`(?i)\bunary\b`, `/`}, nil},
		{"callop", "sin*x", new(OperatorError), []string{`(?i)\bunary\b`, `\*`}, nil},
		{"lexer", "2^sin(-$)", new(LexError), []string{`\$`}, nil},
		{"word", "1qwer", new(LexError), []string{`qwer`}, nil},
		{"overflow", "1e999", new(LiteralError), []string{`1e999`, `(?i)\brange\b`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Compile(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("%v from %q is not ErrSyntax", err, c.src)
			}
			if errors.Is(err, ErrNumeric) {
				t.Errorf("%v from %q is ErrNumeric", err, c.src)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestHasVar(t *testing.T) {
	cases := []struct {
		src string
		has bool
	}{
		{"1+2+3", false},
		{"sin0", false},
		{"x", true},
		{"2x", true},
		{"sin(cos(-x))", true},
		{"2^3^x", true},
	}
	for _, c := range cases {
		a, err := Compile(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		if a.HasVar() != c.has {
			t.Errorf("%q: want HasVar %t, got %t", c.src, c.has, a.HasVar())
		}
		if a.HasVar() != a.n.haskind(nodeVar) {
			t.Errorf("%q: HasVar disagrees with tree %v", c.src, a.n)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "x^2*3+4+5*x^6"},
		{"descasc-parens", "(((x^2)*3)+4)+5*(x^6)"},
		{"implicit", "3sinx^2 + 2x cos x"},
		{"all", "cos0+sin0+tan0*acos0-asin0+atan0-sqrt1+ln1-log1"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Compile(c.src)
			}
		})
	}
}
