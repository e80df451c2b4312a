// cmd/cliph/main.go — command-line front end for the cliph engine
//
// Usage:
//   cliph [flags] [expression]
//
// The expression is read from the arguments, or from stdin when none are
// given. By default the simplified expression is printed in infix form.
//
//   cliph -diff x "x^2 + 2*x"        → (2 + (2 * x))
//   cliph -latex -format latex '\frac{1}{x}'
//   cliph -sample -range x=-3..3 "sin(x)"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pkg/errors"

	"github.com/njchilds90/cliph"
)

type options struct {
	latex   bool
	diff    string
	format  string
	rng     string
	sample  bool
	raw     bool
	verbose bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cliph: ")

	var opts options
	flag.BoolVar(&opts.latex, "latex", false, "Input is LaTeX math")
	flag.StringVar(&opts.diff, "diff", "", "Differentiate with respect to `VAR`")
	flag.StringVar(&opts.format, "format", "plain", "Output format: plain, latex or json")
	flag.StringVar(&opts.rng, "range", "x=-10..10", "Sampling range for -sample")
	flag.BoolVar(&opts.sample, "sample", false, "Print sampled curve segments as JSON")
	flag.BoolVar(&opts.raw, "raw", false, "Skip simplification")
	flag.BoolVar(&opts.verbose, "v", false, "Trace rewrite steps")
	flag.Parse()

	if opts.verbose {
		tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	}
	cliph.SetVerbose(opts.verbose)

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		text = strings.TrimSpace(string(b))
	}

	if err := run(os.Stdout, text, opts); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, text string, opts options) error {
	parse := cliph.Parse
	if opts.latex {
		parse = cliph.ParseLaTeX
	}
	e, err := parse(text)
	if err != nil {
		return err
	}
	if !opts.raw {
		e = cliph.Simplify(e)
	}
	if opts.diff != "" {
		e = cliph.Diff(e, opts.diff)
		if cliph.IsDiffUnsupported(e) {
			log.Printf("warning: derivative of part of the expression is not supported")
		}
	}

	if opts.sample {
		return sample(w, e, opts.rng)
	}

	switch opts.format {
	case "plain":
		fmt.Fprintln(w, cliph.String(e))
	case "latex":
		fmt.Fprintln(w, cliph.LaTeX(e))
	case "json":
		s, err := cliph.ToJSON(e)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	default:
		return errors.Errorf("unknown format %q", opts.format)
	}
	return nil
}

func sample(w io.Writer, e cliph.Expr, rng string) error {
	name, lo, hi, err := cliph.ParseRange(rng)
	if err != nil {
		return err
	}
	opts := cliph.DefaultSampleOptions()
	opts.Var, opts.XMin, opts.XMax = name, lo, hi
	segs, err := cliph.Sample(e, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	return errors.Wrap(enc.Encode(segs), "write samples")
}
