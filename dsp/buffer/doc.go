// Package buffer provides reusable float64 buffers for allocation-friendly
// DSP processing. Buffer wraps a single channel; Multi holds one Buffer per
// output channel and is the accumulation target for spatial renderers.
// All DSP functions accept raw []float64 slices; the types here are an
// optional convenience for managing allocation and reuse.
package buffer
