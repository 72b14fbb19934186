package calc

import (
	"math"
	"strconv"
)

// Eval evaluates the expression with x bound to the given value. If an
// operation has no real result, e.g. division by zero or the logarithm of a
// negative number, the error is a *DomainError. If a result overflows, the
// error is a *RangeError. Eval never returns NaN or an infinity.
//
// Eval does not allocate unless it returns an error.
func (e *Expr) Eval(x float64) (float64, error) {
	if !finite(x) {
		return 0, &RangeError{Op: Variable, X: x}
	}
	return e.n.eval(x)
}

// eval computes the node's value.
func (n *node) eval(x float64) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeVar:
		return x, nil
	case nodeCall:
		a, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		r, err := n.fn.call(a)
		if err != nil {
			return 0, err
		}
		return checked(n.fn.String(), r)
	case nodeNeg:
		a, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		return -a, nil
	case nodePlus:
		return n.left.eval(x)
	}

	l, err := n.left.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(x)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case nodeAdd:
		return checked("+", l+r)
	case nodeSub:
		return checked("-", l-r)
	case nodeMul:
		return checked("*", l*r)
	case nodeDiv:
		if r == 0 {
			return 0, &DomainError{X: r, Func: "/", Arg: 2}
		}
		return checked("/", l/r)
	case nodeMod:
		// Remainder is defined for integers only.
		switch {
		case l != math.Trunc(l):
			return 0, &DomainError{X: l, Func: "mod", Arg: 1}
		case r != math.Trunc(r), r == 0:
			return 0, &DomainError{X: r, Func: "mod", Arg: 2}
		}
		return checked("mod", math.Mod(l, r))
	case nodePow:
		v := math.Pow(l, r)
		switch {
		case math.IsNaN(v):
			// Negative base with a non-integer exponent.
			return 0, &DomainError{X: l, Func: "^", Arg: 1}
		case math.IsInf(v, 0) && l == 0:
			// Zero to a negative power.
			return 0, &DomainError{X: r, Func: "^", Arg: 2}
		}
		return checked("^", v)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// checked returns v, or a *RangeError if v is not finite.
func checked(op string, v float64) (float64, error) {
	if !finite(v) {
		return 0, &RangeError{Op: op, X: v}
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DomainError is an error returned when an operation is applied to an
// argument outside its domain. It matches ErrNumeric.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, or 0 for a function.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Is(target error) bool {
	return target == ErrNumeric
}

// RangeError is an error returned when a result is too large to represent.
// It matches ErrNumeric.
type RangeError struct {
	// Op is the operation whose result overflowed, or "x" when the input
	// itself was not finite.
	Op string
	// X is the non-finite value.
	X float64
}

func (err *RangeError) Error() string {
	if err.Op == Variable {
		return "x = " + strconv.FormatFloat(err.X, 'g', -1, 64) + " is not finite"
	}
	return "result of " + err.Op + " out of range"
}

func (err *RangeError) Is(target error) bool {
	return target == ErrNumeric
}
