// Package speaker describes loudspeaker layouts for spatial panners.
//
// A Layout is an ordered list of speakers; panners identify a speaker by
// its position in the layout and route audio to its Channel. Common
// layouts are available through Preset.
package speaker
