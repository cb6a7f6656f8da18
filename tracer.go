// seehuhn.de/go/potrace - a raster-to-vector tracer
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package potrace traces a raster image into filled Bezier paths,
// following the potrace algorithm: luminance reduction, binarization,
// pixel-edge contour extraction, polygon decomposition, vertex adjustment
// and curve smoothing/optimization.
package potrace

import (
	"image"

	"seehuhn.de/go/potrace/internal/bitmap"
	"seehuhn.de/go/potrace/internal/curve"
	"seehuhn.de/go/potrace/internal/histogram"
	"seehuhn.de/go/potrace/internal/path"
)

// Tracer holds one loaded image plus the parameters and derived curves of
// its most recent trace. A Tracer must not be used from more than one
// goroutine at a time; distinct Tracers are independent.
type Tracer struct {
	params Params

	bm     *bitmap.Bitmap
	hist   *histogram.Histogram
	loaded bool

	curves []*curve.Curve
	traced bool

	// grows but never shrinks, reused across Load calls
	curveBuf []*curve.Curve
}

// NewTracer returns a Tracer configured with DefaultParams and no image
// loaded.
func NewTracer() *Tracer {
	return &Tracer{params: DefaultParams()}
}

// Load builds the luminance bitmap and histogram from img. It does not
// trace; tracing happens lazily on the first emitter call, and again on the
// next emitter call after SetParameters changes anything but
// Color/Background.
func (t *Tracer) Load(img *image.NRGBA) {
	t.bm = bitmap.FromNRGBA(img)
	t.hist = histogram.New(t.bm.R, t.bm.G, t.bm.B, t.bm.Lum)
	t.loaded = true
	t.traced = false
}

// Reset clears the loaded image and any traced curves, but keeps the
// internal curve-list buffer allocated for reuse by a subsequent Load.
func (t *Tracer) Reset() {
	t.bm = nil
	t.hist = nil
	t.loaded = false
	t.curveBuf = t.curveBuf[:0]
	t.curves = nil
	t.traced = false
}

// SetParameters updates the trace parameters. Changing anything but Color
// or Background invalidates the current curves, so the next emitter call
// retraces; changing only Color/Background preserves them.
func (t *Tracer) SetParameters(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	if !onlyColorOrBackgroundDiffers(t.params, p) {
		t.traced = false
	}
	t.params = p
	return nil
}

// Params returns the currently active parameters.
func (t *Tracer) Params() Params {
	return t.params
}

// Histogram returns the histogram built by Load, for use by Posterizer. It
// panics if no image has been loaded; callers that need a safe check
// should consult Loaded first.
func (t *Tracer) Histogram() *histogram.Histogram {
	if !t.loaded {
		panic("potrace: Histogram called before Load")
	}
	return t.hist
}

// Loaded reports whether an image has been supplied via Load since the
// last Reset.
func (t *Tracer) Loaded() bool {
	return t.loaded
}

// ImageSize returns the dimensions of the loaded image, or (0,0) if none
// has been loaded.
func (t *Tracer) ImageSize() (w, h int) {
	if !t.loaded {
		return 0, 0
	}
	return t.bm.W, t.bm.H
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (t *Tracer) resolveThreshold() int {
	if t.params.Threshold != AutoThreshold {
		return t.params.Threshold
	}
	th := t.hist.AutoThreshold(0, 255)
	if th <= 0 {
		return 128
	}
	return th
}

// ensureTraced runs trace() if the current curves are stale. A contour walk
// that fails to close is a bitmap-package panic; it is rethrown here as the
// package's own DegenerateContourError so callers never see an internal
// type in a recovered panic.
func (t *Tracer) ensureTraced() (err error) {
	if !t.loaded {
		return ErrImageNotLoaded
	}
	if t.traced {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if dc, ok := r.(*bitmap.DegenerateContourError); ok {
				panic(&DegenerateContourError{Seed: dc.Seed})
			}
			panic(r)
		}
	}()
	t.trace()
	t.traced = true
	return nil
}

// trace binarizes the loaded bitmap at the resolved threshold and runs
// every kept contour through the path and curve pipelines, in raster-scan
// order of seed pixels.
func (t *Tracer) trace() {
	threshold := t.resolveThreshold()
	bin := t.bm.Binarize(threshold, t.params.BlackOnWhite)

	curves := t.curveBuf[:0]
	seed := 0
	for {
		idx, ok := bin.FindNext(seed)
		if !ok {
			break
		}
		c := bin.FindPath(idx, t.params.TurnPolicy)
		bin.XorPath(c)
		seed = idx + 1

		if absInt(c.Area) <= t.params.TurdSize {
			continue
		}

		pp := path.FromContour(c)
		pp.CalcSums()
		pp.CalcLon()
		pp.BestPolygon()
		pp.AdjustVertices()

		cv := curve.New(pp.Vertex, pp.Sign)
		if pp.Sign == '-' {
			cv.Reverse()
		}
		cv.Smooth(t.params.AlphaMax)
		if t.params.OptCurve {
			cv = cv.Optimize(t.params.OptTolerance)
		}

		curves = append(curves, cv)
	}

	t.curveBuf = curves
	t.curves = curves
}

// outputSize returns the SVG viewBox dimensions: the configured Width and
// Height, defaulting to the loaded image's size when zero.
func (t *Tracer) outputSize() (w, h int) {
	w, h = t.params.Width, t.params.Height
	if w == 0 {
		w = t.bm.W
	}
	if h == 0 {
		h = t.bm.H
	}
	return w, h
}

func (t *Tracer) scale() (sx, sy float64) {
	w, h := t.outputSize()
	if t.bm.W == 0 || t.bm.H == 0 {
		return 1, 1
	}
	return float64(w) / float64(t.bm.W), float64(h) / float64(t.bm.H)
}

func (t *Tracer) resolveColor() string {
	c := t.params.Color
	if c == "" || c == ColorAuto {
		if t.params.BlackOnWhite {
			return "black"
		}
		return "white"
	}
	return c
}
