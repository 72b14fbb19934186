package calc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of evaluating an expression at one point.
type Result struct {
	// Y is the value of the expression. It is zero if Err is not nil.
	Y float64
	// Err is the evaluation error at this point, if any.
	Err error
}

// Point is a successfully evaluated point on a curve.
type Point struct {
	X, Y float64
}

// chunk is the number of samples each worker evaluates at a time.
const chunk = 512

// EvalMany evaluates the expression at each of xs. A failure at one point
// is recorded in its Result and does not stop the others, so the results
// are exactly those of calling Eval for each x.
func (e *Expr) EvalMany(xs []float64) []Result {
	r := make([]Result, len(xs))
	e.evalInto(r, xs)
	return r
}

func (e *Expr) evalInto(dst []Result, xs []float64) {
	for i, x := range xs {
		y, err := e.Eval(x)
		dst[i] = Result{Y: y, Err: err}
	}
}

// EvalParallel is like EvalMany, but spreads the work across up to workers
// goroutines. If workers is not positive, it is treated as 1. The results
// are identical to EvalMany's; the only error is ctx's, if it is canceled
// before the work is done.
func (e *Expr) EvalParallel(ctx context.Context, xs []float64, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	r := make([]Result, len(xs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(xs); lo += chunk {
		hi := min(lo+chunk, len(xs))
		dst, src := r[lo:hi], xs[lo:hi]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.evalInto(dst, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// Linspace returns n evenly spaced values from lo to hi, inclusive. If n is
// 1, the result is just lo. If n is not positive, the result is nil.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	v := make([]float64, n)
	if n == 1 {
		v[0] = lo
		return v
	}
	step := (hi - lo) / float64(n-1)
	for i := range v {
		v[i] = lo + float64(i)*step
	}
	v[n-1] = hi
	return v
}

// Sample evaluates the expression at n evenly spaced points from lo to hi
// and returns the points where evaluation succeeded, in order of x. Points
// where the expression is undefined are left out, so a plotted curve has
// gaps there.
func (e *Expr) Sample(ctx context.Context, lo, hi float64, n, workers int) ([]Point, error) {
	xs := Linspace(lo, hi, n)
	rs, err := e.EvalParallel(ctx, xs, workers)
	if err != nil {
		return nil, err
	}
	pts := make([]Point, 0, len(xs))
	for i, r := range rs {
		if r.Err != nil {
			continue
		}
		pts = append(pts, Point{X: xs[i], Y: r.Y})
	}
	return pts, nil
}
