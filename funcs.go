package calc

import (
	"math"
	"strconv"
)

// Func is one of the built-in functions of one real variable. The set is
// closed; names are resolved to a Func while lexing.
type Func uint8

const (
	FuncNone Func = iota
	FuncSin
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncSqrt
	FuncLn
	FuncLog
)

var funcnames = [...]string{
	FuncNone: "",
	FuncSin:  "sin",
	FuncCos:  "cos",
	FuncTan:  "tan",
	FuncAsin: "asin",
	FuncAcos: "acos",
	FuncAtan: "atan",
	FuncSqrt: "sqrt",
	FuncLn:   "ln",
	FuncLog:  "log",
}

func (f Func) String() string {
	if int(f) >= len(funcnames) || f == FuncNone {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcnames[f]
}

// Funcs returns the names of all functions, in declaration order.
func Funcs() []string {
	return append([]string(nil), funcnames[1:]...)
}

// lookupFunc finds the function with the given name.
func lookupFunc(name string) Func {
	for i, s := range funcnames {
		if i != 0 && s == name {
			return Func(i)
		}
	}
	return FuncNone
}

// call evaluates f at a. Arguments outside the function's domain result in
// a *DomainError rather than NaN.
func (f Func) call(a float64) (float64, error) {
	switch f {
	case FuncSin:
		return math.Sin(a), nil
	case FuncCos:
		return math.Cos(a), nil
	case FuncTan:
		return math.Tan(a), nil
	case FuncAsin:
		if a < -1 || a > 1 {
			return 0, &DomainError{X: a, Func: "asin"}
		}
		return math.Asin(a), nil
	case FuncAcos:
		if a < -1 || a > 1 {
			return 0, &DomainError{X: a, Func: "acos"}
		}
		return math.Acos(a), nil
	case FuncAtan:
		return math.Atan(a), nil
	case FuncSqrt:
		if a < 0 {
			return 0, &DomainError{X: a, Func: "sqrt"}
		}
		return math.Sqrt(a), nil
	case FuncLn:
		if a <= 0 {
			return 0, &DomainError{X: a, Func: "ln"}
		}
		return math.Log(a), nil
	case FuncLog:
		if a <= 0 {
			return 0, &DomainError{X: a, Func: "log"}
		}
		return math.Log10(a), nil
	default:
		panic("calc: call of invalid function " + f.String())
	}
}
