package buffer

// Multi is a planar multichannel buffer: one Buffer per output channel,
// all of the same length. Renderers accumulate into it with add semantics.
type Multi struct {
	channels []*Buffer
	frames   int
}

// NewMulti returns a zero-filled buffer with the given channel and frame
// counts. Negative counts are treated as zero.
func NewMulti(channels, frames int) *Multi {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	m := &Multi{channels: make([]*Buffer, channels), frames: frames}
	for i := range m.channels {
		m.channels[i] = New(frames)
	}
	return m
}

// NumChannels returns the channel count.
func (m *Multi) NumChannels() int {
	return len(m.channels)
}

// NumFrames returns the number of frames per channel.
func (m *Multi) NumFrames() int {
	return m.frames
}

// Channel returns the samples of channel ch. Writes go straight into the
// buffer. Out-of-range channels return nil.
func (m *Multi) Channel(ch int) []float64 {
	if ch < 0 || ch >= len(m.channels) {
		return nil
	}
	return m.channels[ch].Samples()
}

// Buffer returns the Buffer backing channel ch, or nil.
func (m *Multi) Buffer(ch int) *Buffer {
	if ch < 0 || ch >= len(m.channels) {
		return nil
	}
	return m.channels[ch]
}

// Resize sets the frame count of every channel, zeroing new frames.
func (m *Multi) Resize(frames int) {
	if frames < 0 {
		frames = 0
	}
	for _, b := range m.channels {
		b.Resize(frames)
	}
	m.frames = frames
}

// Zero clears every channel.
func (m *Multi) Zero() {
	for _, b := range m.channels {
		b.Zero()
	}
}

// Energy returns the summed energy over all channels.
func (m *Multi) Energy() float64 {
	var e float64
	for _, b := range m.channels {
		e += b.Energy()
	}
	return e
}
