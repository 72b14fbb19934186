package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/smartcalc/calc"
)

func main() {
	log.SetFlags(0)
	var (
		cfgname         string
		plot, echo, rpn bool
		interactive     bool
	)
	fc := DefaultConfig()
	flag.StringVar(&cfgname, "config", "", "YAML config `file`")
	flag.Float64Var(&fc.X, "x", fc.X, "value of x")
	flag.BoolVar(&plot, "plot", false, "print samples of each formula instead of its value; interactively, after its value")
	flag.Float64Var(&fc.Min, "min", fc.Min, "lower bound of the plot")
	flag.Float64Var(&fc.Max, "max", fc.Max, "upper bound of the plot")
	flag.IntVar(&fc.Samples, "n", fc.Samples, "number of plot samples")
	flag.IntVar(&fc.Workers, "workers", fc.Workers, "goroutines used to sample")
	flag.IntVar(&fc.Digits, "digits", fc.Digits, "decimal places in results")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&rpn, "rpn", false, "print formulas in postfix")
	flag.BoolVar(&interactive, "i", false, "read formulas from stdin with a prompt (default if no args given)")
	flag.Parse()

	cfg := DefaultConfig()
	if cfgname != "" {
		var err error
		cfg, err = LoadConfig(cfgname, cfg)
		if err != nil {
			log.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) { cfg.set(f.Name, fc) })
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if interactive || flag.NArg() == 0 {
		s := newSession(cfg, os.Stdout)
		s.echo, s.rpn, s.autoplot = echo, rpn, plot
		prompt := ""
		if interactive {
			prompt = "> "
		}
		if err := s.run(ctx, os.Stdin, prompt); err != nil {
			log.Fatal(err)
		}
		return
	}

	failed := false
	for _, src := range flag.Args() {
		if err := evalArg(ctx, cfg, src, plot, echo, rpn); err != nil {
			log.Printf("%s: %v", src, err)
			failed = true
		}
	}
	if failed {
		stop()
		os.Exit(1)
	}
}

// evalArg compiles one formula from the command line and prints its value
// or its plot.
func evalArg(ctx context.Context, cfg Config, src string, plot, echo, rpn bool) error {
	e, err := calc.Compile(src)
	if err != nil {
		return err
	}
	if echo {
		fmt.Printf("%v : ", e)
	}
	if rpn {
		fmt.Printf("%s : ", e.Postfix())
	}
	if plot {
		if echo || rpn {
			fmt.Println()
		}
		pts, err := e.Sample(ctx, cfg.Min, cfg.Max, cfg.Samples, cfg.Workers)
		if err != nil {
			return err
		}
		writePoints(os.Stdout, pts, cfg.Digits)
		return nil
	}
	y, err := e.Eval(cfg.X)
	if err != nil {
		if echo || rpn {
			fmt.Println()
		}
		return err
	}
	fmt.Println(fmtval(y, cfg.Digits))
	return nil
}
