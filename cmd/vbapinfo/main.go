// Command vbapinfo prints the panning topology of speaker layouts.
//
// Usage:
//
//	vbapinfo [flags] [layout-name ...]
//
// Without arguments it prints the topology of every preset layout.
//
// Examples:
//
//	vbapinfo 5.0
//	vbapinfo -3d -keep-same-elevation cube
//	vbapinfo -3d -az 30 -el 20 7.0.4
//	vbapinfo -3d -coverage 4000 7.0.4 octahedron
//	vbapinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-vbap/dsp/core"
	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
	"github.com/cwbudde/algo-vbap/dsp/spatial/vbap"
)

type options struct {
	is3D     bool
	keep     bool
	noWrap   bool
	nearest  bool
	az, el   float64
	coverage int
	phantoms string
	verbose  bool
}

func main() {
	var o options

	flag.BoolVar(&o.is3D, "3d", false, "triangulate the sphere instead of pairing on the horizontal plane")
	flag.BoolVar(&o.keep, "keep-same-elevation", false, "keep 3D triangles whose speakers share one elevation")
	flag.BoolVar(&o.noWrap, "no-wrap", false, "leave out the 2D pair across the widest gap")
	flag.BoolVar(&o.nearest, "nearest", false, "use the nearest region for uncovered directions")
	flag.Float64Var(&o.az, "az", math.NaN(), "query azimuth in degrees (counter-clockwise from front)")
	flag.Float64Var(&o.el, "el", 0, "query elevation in degrees")
	flag.IntVar(&o.coverage, "coverage", 0, "estimate the covered fraction with this many probe directions")
	flag.StringVar(&o.phantoms, "phantom", "", "phantom channel mapping, e.g. 2:0,1")
	flag.BoolVar(&o.verbose, "v", false, "log topology construction to stderr")
	list := flag.Bool("list", false, "list available layout names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vbapinfo [flags] [layout-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the VBAP regions of speaker layouts.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every preset layout.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vbapinfo 5.0\n")
		fmt.Fprintf(os.Stderr, "  vbapinfo -3d -keep-same-elevation cube\n")
		fmt.Fprintf(os.Stderr, "  vbapinfo -3d -az 30 -el 20 7.0.4\n")
		fmt.Fprintf(os.Stderr, "  vbapinfo -list\n")
	}
	flag.Parse()

	if *list {
		for _, name := range speaker.PresetNames() {
			fmt.Println(name)
		}

		return
	}

	if o.verbose {
		vbap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	names := flag.Args()
	if len(names) == 0 {
		names = speaker.PresetNames()
	}

	failed := false

	for i, name := range names {
		if i > 0 {
			fmt.Println()
		}

		if err := run(os.Stdout, strings.ToLower(strings.TrimSpace(name)), o); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", name, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func run(w io.Writer, name string, o options) error {
	layout, ok := speaker.Preset(name)
	if !ok {
		return fmt.Errorf("unknown layout (use -list to see available)")
	}

	opts := []vbap.Option{
		vbap.With3D(o.is3D),
		vbap.WithKeepSameElevation(o.keep),
		vbap.WithWrapAround(!o.noWrap),
	}
	if o.nearest {
		opts = append(opts, vbap.WithFallback(vbap.FallbackNearest))
	}

	p, err := vbap.NewPanner(layout, opts...)
	if err != nil {
		return err
	}

	if o.phantoms != "" {
		ch, outputs, err := parsePhantom(o.phantoms)
		if err != nil {
			return err
		}

		if err := p.MakePhantomChannel(ch, outputs); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Layout %s\n", name)

	if err := p.Print(w); err != nil {
		return err
	}

	if !math.IsNaN(o.az) {
		if err := printGains(w, p, layout, o.az, o.el); err != nil {
			return err
		}
	}

	if o.coverage > 0 {
		frac := coverage(p, o.coverage, o.is3D)
		fmt.Fprintf(w, "\nCoverage: %.1f%% of %d directions\n", 100*frac, o.coverage)
	}

	return nil
}

func printGains(w io.Writer, p *vbap.Panner, layout speaker.Layout, az, el float64) error {
	dir := geom.FromAzEl(core.Radians(az), core.Radians(el))
	gains := make([]float64, layout.NumChannels())

	fmt.Fprintf(w, "\nSource az=%.1f el=%.1f: ", az, el)

	if !p.Gains(dir, gains) {
		_, err := fmt.Fprintln(w, "not covered")
		return err
	}

	fmt.Fprintln(w, "covered")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Channel\tGain\tdB\t")

	for ch, g := range gains {
		if g == 0 {
			continue
		}

		fmt.Fprintf(tw, "%d\t%.4f\t%.2f\t\n", ch, g, core.LinearToDB(g))
	}

	return tw.Flush()
}

// coverage returns the fraction of n probe directions the panner renders.
func coverage(p *vbap.Panner, n int, is3D bool) float64 {
	probes := circleProbes(n)
	if is3D {
		probes = geom.FibonacciSphere(n)
	}

	dst := make([]float64, p.Layout().NumChannels())
	covered := 0

	for _, dir := range probes {
		if p.Gains(dir, dst) {
			covered++
		}
	}

	return float64(covered) / float64(n)
}

func circleProbes(n int) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = geom.FromAzEl(2*math.Pi*(float64(i)+0.5)/float64(n), 0)
	}

	return out
}

// parsePhantom parses "ch:out,out,...".
func parsePhantom(s string) (int, []int, error) {
	head, tail, ok := strings.Cut(s, ":")
	if !ok {
		return 0, nil, fmt.Errorf("phantom mapping %q: want ch:out,out", s)
	}

	ch, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, nil, fmt.Errorf("phantom channel %q: %w", head, err)
	}

	var outputs []int

	for _, f := range strings.Split(tail, ",") {
		out, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return 0, nil, fmt.Errorf("phantom output %q: %w", f, err)
		}

		outputs = append(outputs, out)
	}

	return ch, outputs, nil
}
