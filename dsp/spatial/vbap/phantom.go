package vbap

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vbap/dsp/core"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

// phantom redirects everything addressed to channel onto outputs.
type phantom struct {
	channel int
	outputs []int
	weights []float64
}

type route struct {
	channel int
	weight  float64
}

// newPhantom validates a mapping against the layout and the phantoms
// already registered. A nil weights slice selects equal-power weights so
// the redistributed energy equals the original.
func newPhantom(layout speaker.Layout, others []phantom, ch int, outputs []int, weights []float64) (phantom, error) {
	if layout.IndexOfChannel(ch) < 0 {
		return phantom{}, fmt.Errorf("%w: channel %d is not a speaker channel", ErrInvalidPhantomMapping, ch)
	}

	if len(outputs) == 0 {
		return phantom{}, fmt.Errorf("%w: channel %d has no assigned outputs", ErrInvalidPhantomMapping, ch)
	}

	if weights != nil && len(weights) != len(outputs) {
		return phantom{}, fmt.Errorf("%w: %d weights for %d outputs",
			ErrInvalidPhantomMapping, len(weights), len(outputs))
	}

	for _, o := range others {
		if o.channel == ch {
			continue
		}

		for _, out := range o.outputs {
			if out == ch {
				return phantom{}, fmt.Errorf("%w: channel %d is an output of phantom channel %d",
					ErrInvalidPhantomMapping, ch, o.channel)
			}
		}
	}

	for i, out := range outputs {
		switch {
		case out == ch:
			return phantom{}, fmt.Errorf("%w: channel %d assigned to itself", ErrInvalidPhantomMapping, ch)
		case layout.IndexOfChannel(out) < 0:
			return phantom{}, fmt.Errorf("%w: output %d is not a speaker channel", ErrInvalidPhantomMapping, out)
		case isPhantom(others, out, ch):
			return phantom{}, fmt.Errorf("%w: output %d is itself a phantom channel", ErrInvalidPhantomMapping, out)
		}

		for _, prev := range outputs[:i] {
			if prev == out {
				return phantom{}, fmt.Errorf("%w: output %d listed twice", ErrInvalidPhantomMapping, out)
			}
		}
	}

	p := phantom{
		channel: ch,
		outputs: append([]int(nil), outputs...),
		weights: make([]float64, len(outputs)),
	}

	for i := range p.weights {
		if weights == nil {
			p.weights[i] = 1 / math.Sqrt(float64(len(outputs)))
			continue
		}

		w := weights[i]
		if w < 0 || !core.IsFinite(w) {
			return phantom{}, fmt.Errorf("%w: weight %d must be >= 0 and finite: %f",
				ErrInvalidPhantomMapping, i, w)
		}

		p.weights[i] = w
	}

	return p, nil
}

// isPhantom reports whether ch is registered in phantoms, ignoring the
// entry for except.
func isPhantom(phantoms []phantom, ch, except int) bool {
	for _, p := range phantoms {
		if p.channel == ch && p.channel != except {
			return true
		}
	}

	return false
}

// withPhantom returns phantoms with p inserted or replacing the entry for
// the same channel, sorted by channel.
func withPhantom(phantoms []phantom, p phantom) []phantom {
	out := make([]phantom, 0, len(phantoms)+1)
	for _, q := range phantoms {
		if q.channel != p.channel {
			out = append(out, q)
		}
	}

	out = append(out, p)
	sort.Slice(out, func(i, j int) bool { return out[i].channel < out[j].channel })

	return out
}

// revalidatePhantoms drops mappings that no longer fit layout.
func revalidatePhantoms(layout speaker.Layout, phantoms []phantom) []phantom {
	var kept []phantom

	for _, p := range phantoms {
		q, err := newPhantom(layout, kept, p.channel, p.outputs, p.weights)
		if err != nil {
			Logger().Warn("vbap: dropping phantom channel", "channel", p.channel, "err", err)
			continue
		}

		kept = append(kept, q)
	}

	return kept
}

// routeTable indexes phantom routes by channel. Direct channels map to nil.
func routeTable(phantoms []phantom) [][]route {
	n := 0
	for _, p := range phantoms {
		if p.channel+1 > n {
			n = p.channel + 1
		}
	}

	if n == 0 {
		return nil
	}

	table := make([][]route, n)
	for _, p := range phantoms {
		rs := make([]route, len(p.outputs))
		for i, out := range p.outputs {
			rs[i] = route{channel: out, weight: p.weights[i]}
		}

		table[p.channel] = rs
	}

	return table
}
