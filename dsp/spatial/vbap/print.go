package vbap

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-vbap/dsp/core"
)

// Print writes a human-readable dump of the current topology, layout and
// phantom map to w. The format is for diagnostics and may change.
func (p *Panner) Print(w io.Writer) error {
	st := p.cur.Load()
	return st.print(w)
}

func (s *state) print(w io.Writer) error {
	t := s.topo
	cfg := t.cfg

	fmt.Fprintf(w, "VBAP %s: %d speakers, %d regions, fallback=%s",
		cfg.Mode, len(t.layout), len(t.regions), cfg.Fallback)
	if cfg.Mode == Mode3D && cfg.KeepSameElevation {
		fmt.Fprint(w, ", keep-same-elevation")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Speaker\tChannel\tAzimuth\tElevation\tTrim dB\t")
	for i, spk := range t.layout {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.2f\t\n", i, spk.Channel, spk.Azimuth, spk.Elevation, spk.TrimDB)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(t.dropped) > 0 {
		fmt.Fprintf(w, "Dropped speakers: %v\n", t.dropped)
	}

	if len(t.regions) == 0 {
		_, err := fmt.Fprintln(w, "No regions: every direction is uncovered.")
		return err
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Region\tSpeakers\tChannels\tDet\tSpan deg\t\t")

	for i, r := range t.regions {
		manual := ""
		if r.Manual {
			manual = "manual"
		}

		fmt.Fprintf(tw, "%d\t%v\t%v\t%.4f\t%.1f\t%s\t\n",
			i, r.Speakers[:r.Dim], r.Channels[:r.Dim], r.basis.Det(), core.Degrees(span(r)), manual)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.phantoms) == 0 {
		return nil
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Phantom\tOutputs\tWeights\t")

	for _, ph := range s.phantoms {
		fmt.Fprintf(tw, "%d\t%v\t%.3f\t\n", ph.channel, ph.outputs, ph.weights)
	}

	return tw.Flush()
}

// span returns the widest angle between two members of r.
func span(r Region) float64 {
	var widest float64

	for a := 0; a < r.Dim; a++ {
		for b := a + 1; b < r.Dim; b++ {
			widest = max(widest, r.dirs[a].Angle(r.dirs[b]))
		}
	}

	return widest
}
