package calc

import (
	"context"
	"errors"
)

// ErrNoExpression is returned when a Calculator is evaluated before any
// formula has compiled successfully.
var ErrNoExpression = errors.New("calc: no expression")

// Calculator holds the current expression and the current value of x for
// an interactive session. A failed Compile leaves the previous expression
// in place. The zero value is ready to use, with x = 0.
//
// A Calculator is not safe to use concurrently, but the Expr it returns is.
type Calculator struct {
	e *Expr
	x float64
}

// Compile compiles a formula and makes it the current expression. On
// error, the current expression is unchanged.
func (c *Calculator) Compile(formula string) error {
	e, err := Compile(formula)
	if err != nil {
		return err
	}
	c.e = e
	return nil
}

// Expr returns the current expression, or nil if none has compiled.
func (c *Calculator) Expr() *Expr {
	return c.e
}

// HasVar reports whether the current expression refers to x.
func (c *Calculator) HasVar() bool {
	return c.e != nil && c.e.HasVar()
}

// Set sets the value of x. Returns c for chaining.
func (c *Calculator) Set(x float64) *Calculator {
	c.x = x
	return c
}

// X returns the current value of x.
func (c *Calculator) X() float64 {
	return c.x
}

// Eval evaluates the current expression at the current value of x.
func (c *Calculator) Eval() (float64, error) {
	if c.e == nil {
		return 0, ErrNoExpression
	}
	return c.e.Eval(c.x)
}

// Sample samples the current expression. See Expr.Sample.
func (c *Calculator) Sample(ctx context.Context, lo, hi float64, n, workers int) ([]Point, error) {
	if c.e == nil {
		return nil, ErrNoExpression
	}
	return c.e.Sample(ctx, lo, hi, n, workers)
}
