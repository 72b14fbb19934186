package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// val is the value of a nodeNum.
	val float64
	// fn is the function of a nodeCall.
	fn Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // val
	nodeVar // x

	nodeCall // apply fn to left

	nodeNeg  // evaluate left, then negate
	nodePlus // evaluate left
	nodeAdd  // evaluate left, add right
	nodeSub  // evaluate left, sub right
	nodeMul  // evaluate left, mul right
	nodeDiv  // evaluate left, div by right
	nodeMod  // evaluate left, remainder by right
	nodePow  // evaluate left, exp by right
)

//go:generate stringer -type=nodeKind -trimprefix=node

// hasVar reports whether the tree rooted at n refers to the variable.
func (n *node) hasVar() bool {
	if n == nil {
		return false
	}
	if n.kind == nodeVar {
		return true
	}
	return n.left.hasVar() || n.right.hasVar()
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n fully parenthesized. The output parses back to the same
// tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(fmtnum(n.val))
	case nodeVar:
		b.WriteString(Variable)
	case nodeCall:
		b.WriteString(n.fn.String())
		n.left.fmt(b)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodePlus:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(opsym(n.kind))
		b.WriteByte(' ')
		n.right.fmt(b)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// postfix writes n in reverse Polish notation, one token per field.
func (n *node) postfix(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		field(b, fmtnum(n.val))
	case nodeVar:
		field(b, Variable)
	case nodeCall:
		n.left.postfix(b)
		field(b, n.fn.String())
	case nodeNeg:
		n.left.postfix(b)
		field(b, "u-")
	case nodePlus:
		n.left.postfix(b)
		field(b, "u+")
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		n.left.postfix(b)
		n.right.postfix(b)
		field(b, opsym(n.kind))
	default:
		panic("calc: invalid node kind " + n.kind.String())
	}
}

// field appends a space-separated field to b.
func field(b *strings.Builder, s string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(s)
}

// fmtnum formats a literal so that the lexer reads back the same value.
func fmtnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// opsym gets the operator text for a binary node kind.
func opsym(k nodeKind) string {
	switch k {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodeMod:
		return "mod"
	case nodePow:
		return "^"
	default:
		panic("calc: no operator for node kind " + k.String())
	}
}
