package vbap

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

// Panner renders mono sources onto a speaker layout with vector-based
// amplitude panning.
//
// Configuration methods (Configure, Recompute, MakeTriple, MakePair,
// MakePhantomChannel, ...) may be called from any goroutine; they build a
// complete new state and publish it with a single atomic store, so the
// render goroutine always observes either the old or the new topology.
// RenderSample and RenderBuffer take no locks and do not allocate once the
// scratch buffer covers the block size.
type Panner struct {
	mu       sync.Mutex
	cfg      Config
	layout   speaker.Layout
	manual   [][]int
	phantoms []phantom
	cur      atomic.Pointer[state]

	// Owned by the render goroutine.
	scratch []float64
	cache   gainCache
}

// NewPanner builds the topology for layout with DefaultConfig modified by
// opts. A degenerate layout is not an error: the panner is returned with an
// empty topology and a warning is logged.
func NewPanner(layout speaker.Layout, opts ...Option) (*Panner, error) {
	cfg, err := applyOptions(DefaultConfig(), opts)
	if err != nil {
		return nil, err
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}

	p := &Panner{
		cfg:     cfg,
		layout:  layout.Clone(),
		scratch: make([]float64, cfg.BlockSize),
	}

	p.mu.Lock()
	p.publish()
	p.mu.Unlock()

	return p, nil
}

// Configure replaces the layout and applies opts on top of the current
// configuration, then rebuilds the topology. Manual regions and phantom
// channels are re-applied; entries that no longer fit are dropped with a
// warning. Calling Configure twice with the same arguments yields the same
// regions in the same order.
func (p *Panner) Configure(layout speaker.Layout, opts ...Option) error {
	if err := layout.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cfg, err := applyOptions(p.cfg, opts)
	if err != nil {
		return err
	}

	p.cfg = cfg
	p.layout = layout.Clone()
	p.publish()

	return nil
}

// Recompute rebuilds the topology from the current layout and
// configuration.
func (p *Panner) Recompute() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.publish()
}

// publish builds and stores a new state. p.mu must be held.
func (p *Panner) publish() {
	topo, err := Build(p.layout, p.cfg)
	if err != nil {
		Logger().Warn("vbap: topology has no coverage", "err", err,
			"speakers", len(p.layout), "mode", p.cfg.Mode.String())
	}

	manual := p.manual[:0:0]
	for _, members := range p.manual {
		r, err := newManualRegion(p.layout, p.cfg.Mode, members)
		if err != nil {
			Logger().Warn("vbap: dropping manual region", "speakers", members, "err", err)
			continue
		}

		if hasRegion(topo.regions, r) {
			Logger().Warn("vbap: dropping manual region", "speakers", members,
				"err", "speakers already form a region")

			continue
		}

		topo.regions = append(topo.regions, r)
		manual = append(manual, members)
	}

	p.manual = manual
	p.phantoms = revalidatePhantoms(p.layout, p.phantoms)
	p.cur.Store(newState(topo, p.phantoms))

	Logger().Info("vbap: topology published", "mode", p.cfg.Mode.String(),
		"speakers", len(p.layout), "regions", topo.Len(), "manual", len(p.manual),
		"phantoms", len(p.phantoms))
}

// MakeTriple injects a region over three layout indices, bypassing
// triangulation. It is only available in 3D mode. The region is appended
// after the computed ones and kept across rebuilds.
func (p *Panner) MakeTriple(s1, s2, s3 int) error {
	return p.makeManual(Mode3D, []int{s1, s2, s3})
}

// MakePair injects a speaker pair in 2D mode.
func (p *Panner) MakePair(s1, s2 int) error {
	return p.makeManual(Mode2D, []int{s1, s2})
}

func (p *Panner) makeManual(mode Mode, members []int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cfg.Mode != mode {
		return fmt.Errorf("%w: %d-speaker region in %s mode", ErrModeMismatch, len(members), p.cfg.Mode)
	}

	r, err := newManualRegion(p.layout, mode, members)
	if err != nil {
		return err
	}

	st := p.cur.Load()
	if hasRegion(st.topo.regions, r) {
		return fmt.Errorf("%w: speakers %v already form a region", ErrInvalidManualRegion, members)
	}

	p.manual = append(p.manual, members)
	p.cur.Store(newState(st.topo.withRegion(r), p.phantoms))

	return nil
}

func hasRegion(regions []Region, r Region) bool {
	for _, existing := range regions {
		if existing.sameMembers(r) {
			return true
		}
	}

	return false
}

// ClearManualRegions removes all injected regions.
func (p *Panner) ClearManualRegions() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.manual = nil
	p.publish()
}

// MakePhantomChannel marks channel as phantom: gain addressed to it is
// split across outputs with equal-power weights 1/sqrt(len(outputs)), so
// the outputs together carry the original energy. The topology is not
// changed.
func (p *Panner) MakePhantomChannel(channel int, outputs []int) error {
	return p.MakePhantomChannelWeighted(channel, outputs, nil)
}

// MakePhantomChannelWeighted is MakePhantomChannel with explicit
// per-output weights. A nil weights slice selects equal-power weights.
func (p *Panner) MakePhantomChannelWeighted(channel int, outputs []int, weights []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ph, err := newPhantom(p.layout, p.phantoms, channel, outputs, weights)
	if err != nil {
		return err
	}

	p.phantoms = withPhantom(p.phantoms, ph)
	p.cur.Store(newState(p.cur.Load().topo, p.phantoms))

	return nil
}

// RemovePhantomChannel restores direct output for channel.
func (p *Panner) RemovePhantomChannel(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var kept []phantom
	for _, ph := range p.phantoms {
		if ph.channel != channel {
			kept = append(kept, ph)
		}
	}

	p.phantoms = kept
	p.cur.Store(newState(p.cur.Load().topo, p.phantoms))
}

// Topology returns the published topology. It must not be modified.
func (p *Panner) Topology() *Topology {
	return p.cur.Load().topo
}

// Regions returns a copy of the current regions in lookup order.
func (p *Panner) Regions() []Region {
	return p.Topology().Regions()
}

// Triplets returns the current regions; in 2D mode these are pairs.
func (p *Panner) Triplets() []Region {
	return p.Regions()
}

// PhantomChannels returns a copy of the phantom map: channel to outputs.
func (p *Panner) PhantomChannels() map[int][]int {
	st := p.cur.Load()

	out := make(map[int][]int, len(st.phantoms))
	for _, ph := range st.phantoms {
		out[ph.channel] = append([]int(nil), ph.outputs...)
	}

	return out
}

// Config returns the current configuration.
func (p *Panner) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cfg
}

// Layout returns a copy of the current layout.
func (p *Panner) Layout() speaker.Layout {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.layout.Clone()
}
