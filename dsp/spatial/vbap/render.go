package vbap

import (
	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vbap/dsp/core"
	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// Output is the multichannel buffer a Panner renders into.
// Channel returns the NumFrames samples of a channel, which the panner adds
// to, or nil for channels the buffer does not carry.
// *buffer.Multi implements Output.
type Output interface {
	NumChannels() int
	NumFrames() int
	Channel(ch int) []float64
}

// state is one immutable published configuration.
type state struct {
	topo     *Topology
	phantoms []phantom
	routes   [][]route
}

func newState(topo *Topology, phantoms []phantom) *state {
	return &state{topo: topo, phantoms: phantoms, routes: routeTable(phantoms)}
}

// targets returns the phantom routes of ch, or nil if ch is driven directly.
func (s *state) targets(ch int) []route {
	if ch < len(s.routes) {
		return s.routes[ch]
	}

	return nil
}

func (s *state) locate(dir geom.Vec3) (int, [3]float64, bool) {
	idx, g, ok := s.topo.Locate(dir)
	if ok || s.topo.cfg.Fallback != FallbackNearest {
		return idx, g, ok
	}

	return s.topo.Nearest(dir)
}

// gainCache remembers the last lookup of the render goroutine.
type gainCache struct {
	st    *state
	dir   geom.Vec3
	idx   int
	gains [3]float64
	ok    bool
}

// lookup returns cached gains unless the direction or the published state
// changed since the previous call.
func (p *Panner) lookup(st *state, dir geom.Vec3) (int, [3]float64, bool) {
	c := &p.cache
	if c.st != st || c.dir != dir {
		c.st, c.dir = st, dir
		c.idx, c.gains, c.ok = st.locate(dir)
	}

	return c.idx, c.gains, c.ok
}

// RenderSample adds sample, panned to dir, into frame of out. It reports
// false and writes nothing when dir is not covered (after the fallback
// policy) or frame is out of range.
//
// RenderSample and RenderBuffer must be called from a single goroutine.
func (p *Panner) RenderSample(out Output, dir geom.Vec3, sample float64, frame int) bool {
	if frame < 0 || frame >= out.NumFrames() {
		return false
	}

	st := p.cur.Load()

	idx, g, ok := p.lookup(st, dir)
	if !ok {
		return false
	}

	r := &st.topo.regions[idx]
	for m := 0; m < r.Dim; m++ {
		gain := g[m] * r.trims[m]
		if gain == 0 {
			continue
		}

		ch := r.Channels[m]
		if rs := st.targets(ch); rs != nil {
			for _, rt := range rs {
				addSample(out, rt.channel, frame, gain*rt.weight*sample)
			}

			continue
		}

		addSample(out, ch, frame, gain*sample)
	}

	return true
}

// RenderBuffer adds samples, panned to dir, into the first len(samples)
// frames of out (at most NumFrames). The direction is held for the whole
// block; gains are recomputed only when dir or the configuration changes.
func (p *Panner) RenderBuffer(out Output, dir geom.Vec3, samples []float64) bool {
	n := min(len(samples), out.NumFrames())
	if n == 0 {
		return false
	}

	st := p.cur.Load()

	idx, g, ok := p.lookup(st, dir)
	if !ok {
		return false
	}

	p.scratch = core.EnsureLen(p.scratch, n)
	src := samples[:n]

	r := &st.topo.regions[idx]
	for m := 0; m < r.Dim; m++ {
		gain := g[m] * r.trims[m]
		if gain == 0 {
			continue
		}

		ch := r.Channels[m]
		if rs := st.targets(ch); rs != nil {
			for _, rt := range rs {
				p.accumulate(out, rt.channel, src, gain*rt.weight)
			}

			continue
		}

		p.accumulate(out, ch, src, gain)
	}

	return true
}

// Gains writes the per-channel gains for dir into dst, indexed by output
// channel, with trims and phantom routing applied. Channels beyond len(dst)
// are skipped. dst is zeroed first; the result reports coverage.
//
// Gains does not touch the render cache and may be called from any
// goroutine.
func (p *Panner) Gains(dir geom.Vec3, dst []float64) bool {
	core.Zero(dst)

	st := p.cur.Load()

	idx, g, ok := st.locate(dir)
	if !ok {
		return false
	}

	r := &st.topo.regions[idx]
	for m := 0; m < r.Dim; m++ {
		gain := g[m] * r.trims[m]
		ch := r.Channels[m]

		if rs := st.targets(ch); rs != nil {
			for _, rt := range rs {
				if rt.channel < len(dst) {
					dst[rt.channel] += gain * rt.weight
				}
			}

			continue
		}

		if ch < len(dst) {
			dst[ch] += gain
		}
	}

	return true
}

func (p *Panner) accumulate(out Output, ch int, src []float64, gain float64) {
	dst := out.Channel(ch)
	if len(dst) < len(src) {
		return
	}

	tmp := p.scratch[:len(src)]
	vecmath.ScaleBlock(tmp, src, gain)
	vecmath.AddBlockInPlace(dst[:len(src)], tmp)
}

func addSample(out Output, ch, frame int, v float64) {
	dst := out.Channel(ch)
	if frame < len(dst) {
		dst[frame] += v
	}
}
