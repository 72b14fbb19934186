package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/smartcalc/calc"
)

const help = `Type a formula in x to evaluate it, e.g. 3sinx^2 + 2x cos x.
Commands:
  :x <value>            set x and evaluate
  :plot [min max [n]]   print n samples of the formula
  :tree                 print the formula fully parenthesized
  :rpn                  print the formula in postfix
  :help                 print this message
  :quit                 exit
`

// session is an interactive calculator over lines of input.
type session struct {
	calc calc.Calculator
	cfg  Config
	out  io.Writer
	// echo and rpn print the parsed formula after each compile.
	echo, rpn bool
	// autoplot prints samples over the configured interval after each
	// compile.
	autoplot bool
}

func newSession(cfg Config, out io.Writer) *session {
	s := &session{cfg: cfg, out: out}
	s.calc.Set(cfg.X)
	return s
}

// run reads lines from in until it is exhausted or the user quits. If prompt
// is not empty, it is written before each line.
func (s *session) run(ctx context.Context, in io.Reader, prompt string) error {
	sc := bufio.NewScanner(in)
	for {
		if prompt != "" {
			io.WriteString(s.out, prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if s.line(ctx, sc.Text()) {
			return nil
		}
	}
}

// line handles one line of input. It returns true if the user asked to quit.
func (s *session) line(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return false
	case strings.HasPrefix(text, ":"):
		args, err := shlex.Split(text[1:])
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		return s.command(ctx, args)
	}
	if err := s.calc.Compile(text); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		if e := s.calc.Expr(); e != nil {
			fmt.Fprintf(s.out, "keeping %s\n", e.Source())
		}
		return false
	}
	if s.echo {
		fmt.Fprintln(s.out, s.calc.Expr())
	}
	if s.rpn {
		fmt.Fprintln(s.out, s.calc.Expr().Postfix())
	}
	s.show()
	if s.autoplot {
		s.plot(ctx, nil)
	}
	return false
}

func (s *session) command(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		fmt.Fprint(s.out, help)
		return false
	}
	switch args[0] {
	case "x":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: :x <value>")
			return false
		}
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(s.out, "error: bad value %q\n", args[1])
			return false
		}
		s.calc.Set(x)
		if s.calc.Expr() != nil {
			s.show()
		}
	case "plot":
		s.plot(ctx, args[1:])
	case "tree":
		if e := s.calc.Expr(); e != nil {
			fmt.Fprintln(s.out, e)
		} else {
			fmt.Fprintf(s.out, "error: %v\n", calc.ErrNoExpression)
		}
	case "rpn":
		if e := s.calc.Expr(); e != nil {
			fmt.Fprintln(s.out, e.Postfix())
		} else {
			fmt.Fprintf(s.out, "error: %v\n", calc.ErrNoExpression)
		}
	case "help", "h", "?":
		fmt.Fprint(s.out, help)
	case "quit", "q", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q; try :help\n", args[0])
	}
	return false
}

// plot parses the optional bounds and sample count of a :plot command and
// prints the curve.
func (s *session) plot(ctx context.Context, args []string) {
	cfg := s.cfg
	var err error
	switch len(args) {
	case 0:
	case 3:
		cfg.Samples, err = strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(s.out, "error: bad sample count %q\n", args[2])
			return
		}
		fallthrough
	case 2:
		if cfg.Min, err = strconv.ParseFloat(args[0], 64); err != nil {
			fmt.Fprintf(s.out, "error: bad bound %q\n", args[0])
			return
		}
		if cfg.Max, err = strconv.ParseFloat(args[1], 64); err != nil {
			fmt.Fprintf(s.out, "error: bad bound %q\n", args[1])
			return
		}
	default:
		fmt.Fprintln(s.out, "usage: :plot [min max [n]]")
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	pts, err := s.calc.Sample(ctx, cfg.Min, cfg.Max, cfg.Samples, cfg.Workers)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	writePoints(s.out, pts, cfg.Digits)
}

// show prints the value of the current formula at the current x.
func (s *session) show() {
	y, err := s.calc.Eval()
	if err != nil {
		fmt.Fprintf(s.out, "undefined at x = %s: %v\n", fmtval(s.calc.X(), s.cfg.Digits), err)
		return
	}
	if s.calc.HasVar() {
		fmt.Fprintf(s.out, "x = %s: %s\n", fmtval(s.calc.X(), s.cfg.Digits), fmtval(y, s.cfg.Digits))
		return
	}
	fmt.Fprintf(s.out, "= %s\n", fmtval(y, s.cfg.Digits))
}

// writePoints prints one "x y" pair per line.
func writePoints(w io.Writer, pts []calc.Point, digits int) {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		bw.WriteString(fmtval(p.X, digits))
		bw.WriteByte(' ')
		bw.WriteString(fmtval(p.Y, digits))
		bw.WriteByte('\n')
	}
	bw.Flush()
}

// fmtval formats v rounded to the given number of decimal places.
func fmtval(v float64, digits int) string {
	r := round(v, digits)
	if math.Abs(r) < 1e15 {
		return strconv.FormatFloat(r, 'f', -1, 64)
	}
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// round rounds v to the given number of decimal places. Values too large to
// scale are returned unchanged.
func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	if r == 0 {
		// No negative zero.
		return 0
	}
	return r
}
