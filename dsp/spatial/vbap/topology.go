package vbap

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vbap/dsp/geom"
	"github.com/cwbudde/algo-vbap/dsp/spatial/speaker"
)

// minHorizontalLength is the shortest horizontal projection a speaker may
// have to take part in 2D panning.
const minHorizontalLength = 1e-6

// Topology is the ordered set of regions built from one speaker layout.
// A Topology is never modified after it has been published to a Panner.
type Topology struct {
	cfg     Config
	layout  speaker.Layout
	regions []Region
	dropped []int
}

// Build computes the regions of layout. It never returns a nil Topology.
// When no region can be formed the returned error wraps
// ErrDegenerateLayout and the topology is empty but usable.
func Build(layout speaker.Layout, cfg Config) (*Topology, error) {
	t := &Topology{cfg: cfg, layout: layout.Clone()}

	if err := layout.Validate(); err != nil {
		return t, fmt.Errorf("%w: %w", ErrDegenerateLayout, err)
	}

	dirs := layout.Directions()
	if cfg.Mode == Mode3D {
		t.regions, t.dropped = buildTriples(layout, dirs, cfg)
	} else {
		t.regions, t.dropped = buildPairs(layout, dirs, cfg)
	}

	if len(t.regions) == 0 {
		return t, fmt.Errorf("%w: %d speakers yield no %s regions",
			ErrDegenerateLayout, len(layout), cfg.Mode)
	}

	return t, nil
}

// Mode returns the mode the topology was built in.
func (t *Topology) Mode() Mode { return t.cfg.Mode }

// Config returns the configuration the topology was built with.
func (t *Topology) Config() Config { return t.cfg }

// Len returns the number of regions.
func (t *Topology) Len() int { return len(t.regions) }

// Empty reports whether the topology has no regions.
func (t *Topology) Empty() bool { return len(t.regions) == 0 }

// Region returns the i-th region.
func (t *Topology) Region(i int) Region { return t.regions[i] }

// Regions returns a copy of the regions in lookup order.
func (t *Topology) Regions() []Region {
	out := make([]Region, len(t.regions))
	copy(out, t.regions)

	return out
}

// Layout returns a copy of the layout the topology was built from.
func (t *Topology) Layout() speaker.Layout { return t.layout.Clone() }

// Dropped returns the layout indices left out of triangulation because
// they duplicate another speaker or, in 2D, have no horizontal component.
func (t *Topology) Dropped() []int {
	out := make([]int, len(t.dropped))
	copy(out, t.dropped)

	return out
}

// withRegion returns a copy of t with r appended.
func (t *Topology) withRegion(r Region) *Topology {
	c := *t
	c.regions = make([]Region, len(t.regions), len(t.regions)+1)
	copy(c.regions, t.regions)
	c.regions = append(c.regions, r)

	return &c
}

type ringEntry struct {
	index int
	az    float64
	dir   geom.Vec3
}

// buildPairs sorts the horizontal projections by azimuth and pairs each
// speaker with its counter-clockwise neighbor.
func buildPairs(layout speaker.Layout, dirs []geom.Vec3, cfg Config) ([]Region, []int) {
	var (
		entries []ringEntry
		dropped []int
	)

	for i, d := range dirs {
		h := d.Horizontal()
		if h.Len() < minHorizontalLength {
			Logger().Debug("vbap: speaker has no horizontal component", "speaker", i)
			dropped = append(dropped, i)

			continue
		}

		h = h.Unit()
		az, _ := h.AzEl()
		entries = append(entries, ringEntry{index: i, az: az, dir: h})
	}

	sort.SliceStable(entries, func(a, b int) bool { return entries[a].az < entries[b].az })

	kept := make([]ringEntry, 0, len(entries))
	for _, e := range entries {
		if len(kept) > 0 && e.az-kept[len(kept)-1].az < cfg.MinSeparation {
			Logger().Debug("vbap: dropping coincident speaker", "speaker", e.index,
				"duplicate_of", kept[len(kept)-1].index)
			dropped = append(dropped, e.index)

			continue
		}

		kept = append(kept, e)
	}

	if n := len(kept); n > 1 && kept[0].az+2*math.Pi-kept[n-1].az < cfg.MinSeparation {
		Logger().Debug("vbap: dropping coincident speaker", "speaker", kept[n-1].index,
			"duplicate_of", kept[0].index)
		dropped = append(dropped, kept[n-1].index)
		kept = kept[:n-1]
	}

	n := len(kept)
	if n < 2 {
		return nil, dropped
	}

	count := n
	if !cfg.WrapAround {
		kept = rotateToWidestGap(kept)
		count = n - 1
	}

	regions := make([]Region, 0, count)

	for i := 0; i < count; i++ {
		a, b := kept[i], kept[(i+1)%n]

		gap := b.az - a.az
		if gap <= 0 {
			gap += 2 * math.Pi
		}

		// A pair spanning half the circle or more cannot bracket its arc.
		if gap >= math.Pi-1e-9 {
			Logger().Debug("vbap: rejecting pair spanning half circle", "speakers", []int{a.index, b.index},
				"gap_deg", gap*180/math.Pi)

			continue
		}

		r := newRegion(layout, dirs, a.index, b.index)
		if !r.basis.Valid() {
			Logger().Debug("vbap: rejecting singular pair", "speakers", []int{a.index, b.index})
			continue
		}

		regions = append(regions, r)
	}

	return regions, dropped
}

// rotateToWidestGap reorders the azimuth-sorted ring so that the widest
// gap lies between the last and the first entry.
func rotateToWidestGap(ring []ringEntry) []ringEntry {
	n := len(ring)
	widest, start := -1.0, 0

	for i := range ring {
		next := ring[(i+1)%n]

		gap := next.az - ring[i].az
		if gap <= 0 {
			gap += 2 * math.Pi
		}

		if gap > widest {
			widest, start = gap, (i+1)%n
		}
	}

	out := make([]ringEntry, 0, n)
	out = append(out, ring[start:]...)
	out = append(out, ring[:start]...)

	return out
}
