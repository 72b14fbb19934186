// Package calc implements a compiled calculator for formulas in one
// variable.
//
// The syntax is the one you'd type into a pocket calculator. "2x" is a
// multiplication, and so is "3sinx". A function applies to the term right
// after it, so "sinx^2" is "(sin x)^2" while "sin2x" is "sin(2x)". "-2^2"
// is "(-2)^2", and "2^3^2" is "2^(3^2)". The functions are sin, cos, tan,
// asin, acos, atan, sqrt, ln and log (base 10), and mod is the remainder
// of two integers.
//
// Compile a formula once, then evaluate it for as many values of x as you
// like. A compiled Expr is never modified, so it can be evaluated from
// several goroutines at once. Errors from Compile satisfy
// errors.Is(err, ErrSyntax); errors from evaluation satisfy
// errors.Is(err, ErrNumeric).
package calc
