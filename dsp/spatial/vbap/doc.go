// Package vbap implements vector-based amplitude panning (VBAP).
//
// Given a fixed speaker layout, the panner partitions the horizontal circle
// (2D mode) into adjacent speaker pairs, or the sphere (3D mode) into
// non-overlapping speaker triangles. A source direction is rendered by the
// one region that brackets it, with gains g = B⁻¹·d normalized to constant
// power, where the columns of B are the region's speaker directions.
//
// Building the topology happens at configuration time and may be slow
// (O(n³) candidates in 3D). Rendering scans the regions linearly, takes no
// locks and does not allocate.
//
// Two escape hatches handle irregular layouts without touching the
// triangulation: MakeTriple/MakePair inject regions by hand, and phantom
// channels redistribute the gain of a speaker onto other outputs.
package vbap
