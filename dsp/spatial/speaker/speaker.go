package speaker

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vbap/dsp/core"
	"github.com/cwbudde/algo-vbap/dsp/geom"
)

// ErrInvalidLayout is returned by Layout.Validate.
var ErrInvalidLayout = errors.New("speaker: invalid layout")

// Speaker is one loudspeaker of a layout.
//
// Angles are in degrees: azimuth counter-clockwise from the front
// (positive = left), elevation upward from the horizontal plane.
type Speaker struct {
	Channel   int     // output channel index
	Azimuth   float64 // degrees
	Elevation float64 // degrees
	Radius    float64 // meters, informational
	TrimDB    float64 // gain/distance compensation, 0 dB = unity
}

// New returns a speaker at the given position with unity trim.
func New(channel int, azimuth, elevation float64) Speaker {
	return Speaker{Channel: channel, Azimuth: azimuth, Elevation: elevation, Radius: 1}
}

// FromDirection returns a speaker pointing along dir. The length of dir
// becomes the speaker radius.
func FromDirection(channel int, dir geom.Vec3) Speaker {
	az, el := dir.AzEl()

	return Speaker{
		Channel:   channel,
		Azimuth:   core.Degrees(az),
		Elevation: core.Degrees(el),
		Radius:    dir.Len(),
	}
}

// Direction returns the unit direction vector of s.
func (s Speaker) Direction() geom.Vec3 {
	return geom.FromAzEl(core.Radians(s.Azimuth), core.Radians(s.Elevation))
}

// Trim returns the linear gain for TrimDB.
func (s Speaker) Trim() float64 {
	return core.DBToLinear(s.TrimDB)
}

// Layout is an ordered list of speakers. A speaker's identity is its
// position in the layout.
type Layout []Speaker

// Clone returns a copy of l.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}

	out := make(Layout, len(l))
	copy(out, l)

	return out
}

// Directions returns the unit direction of every speaker.
func (l Layout) Directions() []geom.Vec3 {
	out := make([]geom.Vec3, len(l))
	for i, s := range l {
		out[i] = s.Direction()
	}

	return out
}

// Channels returns the channel index of every speaker.
func (l Layout) Channels() []int {
	out := make([]int, len(l))
	for i, s := range l {
		out[i] = s.Channel
	}

	return out
}

// IndexOfChannel returns the position of the speaker driving channel ch,
// or -1.
func (l Layout) IndexOfChannel(ch int) int {
	for i, s := range l {
		if s.Channel == ch {
			return i
		}
	}

	return -1
}

// NumChannels returns one more than the highest channel index, i.e. the
// channel count an output buffer needs to receive every speaker.
func (l Layout) NumChannels() int {
	n := 0
	for _, s := range l {
		if s.Channel+1 > n {
			n = s.Channel + 1
		}
	}

	return n
}

// Validate checks that angles and trims are finite and that channel
// indices are non-negative and unique.
func (l Layout) Validate() error {
	seen := make(map[int]int, len(l))

	for i, s := range l {
		if s.Channel < 0 {
			return fmt.Errorf("%w: speaker %d has negative channel %d", ErrInvalidLayout, i, s.Channel)
		}

		if prev, ok := seen[s.Channel]; ok {
			return fmt.Errorf("%w: speakers %d and %d share channel %d", ErrInvalidLayout, prev, i, s.Channel)
		}

		seen[s.Channel] = i

		if !core.IsFinite(s.Azimuth) || !core.IsFinite(s.Elevation) || !core.IsFinite(s.TrimDB) {
			return fmt.Errorf("%w: speaker %d has non-finite position or trim", ErrInvalidLayout, i)
		}

		if math.Abs(s.Elevation) > 90 {
			return fmt.Errorf("%w: speaker %d elevation must be in [-90, 90]: %g", ErrInvalidLayout, i, s.Elevation)
		}
	}

	return nil
}
