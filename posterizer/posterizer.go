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

// Package posterizer stacks multiple traces of the same image at
// different luminance thresholds, with per-layer opacities chosen so the
// composite approximates continuous tonal shading.
package posterizer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"seehuhn.de/go/potrace"
	"seehuhn.de/go/potrace/internal/histogram"
)

// FillStrategy selects how a layer's representative luminance (and hence
// its fill color) is chosen from its range.
type FillStrategy int

const (
	FillSpread FillStrategy = iota
	FillDominant
	FillMean
	FillMedian
)

// RangeDistribution selects how threshold values are spread across the
// tonal range when Steps does not supply an explicit list.
type RangeDistribution int

const (
	RangeAuto RangeDistribution = iota
	RangeEqual
)

// StepsAuto requests the automatic layer count (4 if the base threshold
// exceeds 200, else 3).
const StepsAuto = 0

// Params controls a posterization pass.
type Params struct {
	StepCount         int   // number of layers; StepsAuto for automatic
	Explicit          []int // explicit thresholds; overrides StepCount when non-nil
	FillStrategy      FillStrategy
	RangeDistribution RangeDistribution
}

// DefaultParams returns steps=StepsAuto, fillStrategy=DOMINANT,
// rangeDistribution=AUTO.
func DefaultParams() Params {
	return Params{
		StepCount:         StepsAuto,
		FillStrategy:      FillDominant,
		RangeDistribution: RangeAuto,
	}
}

// Posterizer drives a Tracer through a stack of thresholds, mutating its
// Threshold/Color parameters between calls.
type Posterizer struct {
	tracer *potrace.Tracer
	params Params
}

// New returns a Posterizer driving tracer, which must already have an
// image loaded.
func New(tracer *potrace.Tracer, params Params) *Posterizer {
	return &Posterizer{tracer: tracer, params: params}
}

type layer struct {
	lo, hi int // inclusive luminance range
	level  int // representative luminance, already clamped toward the middle
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// baseThreshold resolves the Tracer's own configured threshold the same
// way Tracer.trace does: explicit value, or AutoThreshold falling back to
// 128.
func baseThreshold(h *histogram.Histogram, p potrace.Params) int {
	if p.Threshold != potrace.AutoThreshold {
		return p.Threshold
	}
	th := h.AutoThreshold(0, 255)
	if th <= 0 {
		return 128
	}
	return th
}

func effectiveStepCount(requested, base int) int {
	if requested > 0 {
		return requested
	}
	if base > 200 {
		return 4
	}
	return 3
}

// resolveThresholds returns the binarization thresholds for each layer,
// ascending for blackOnWhite and descending otherwise.
func (z *Posterizer) resolveThresholds(h *histogram.Histogram, tp potrace.Params) []int {
	base := baseThreshold(h, tp)
	blackOnWhite := tp.BlackOnWhite

	if len(z.params.Explicit) > 0 {
		ts := append([]int(nil), z.params.Explicit...)
		for i, v := range ts {
			ts[i] = clampByte(v)
		}
		ts = append(ts, base)
		sort.Ints(ts)
		ts = dedupe(ts)
		if !blackOnWhite {
			reverseInts(ts)
		}
		return ts
	}

	k := effectiveStepCount(z.params.StepCount, base)
	if k < 1 {
		k = 1
	}

	if z.params.RangeDistribution == RangeEqual {
		var stepSize float64
		if blackOnWhite {
			stepSize = float64(base) / float64(k)
		} else {
			stepSize = float64(255-base) / float64(k)
		}
		ts := make([]int, 0, k)
		for i := 1; i <= k; i++ {
			var v int
			if blackOnWhite {
				v = clampByte(int(stepSize * float64(i)))
			} else {
				v = clampByte(255 - int(stepSize*float64(k-i)))
			}
			ts = append(ts, v)
		}
		ts = dedupe(ts)
		if !blackOnWhite {
			reverseInts(ts)
		}
		return ts
	}

	var ts []int
	if tp.Threshold == potrace.AutoThreshold {
		ts = h.MultilevelThresholding(k, 0, 255)
	} else {
		var lo, hi int
		if blackOnWhite {
			lo, hi = 0, base
		} else {
			lo, hi = base, 255
		}
		sub := h.MultilevelThresholding(k-1, lo, hi)
		ts = append(sub, base)
		sort.Ints(ts)
	}
	ts = dedupe(ts)
	if !blackOnWhite {
		reverseInts(ts)
	}
	return ts
}

func dedupe(ts []int) []int {
	sort.Ints(ts)
	out := ts[:0]
	var last int
	for i, v := range ts {
		if i == 0 || v != last {
			out = append(out, v)
		}
		last = v
	}
	return out
}

func reverseInts(ts []int) {
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}

// buildLayers turns thresholds (ascending for blackOnWhite, descending
// otherwise, as resolveThresholds returns them) into inclusive luminance
// ranges, ordered darkest-to-lightest for blackOnWhite (lightest-to-darkest
// otherwise), and applies the extra-stop heuristic.
func (z *Posterizer) buildLayers(h *histogram.Histogram, thresholds []int, blackOnWhite bool) []layer {
	n := len(thresholds)
	if n == 0 {
		return nil
	}

	layers := make([]layer, 0, n+1)
	if blackOnWhite {
		lo := 0
		for _, th := range thresholds {
			layers = append(layers, layer{lo: lo, hi: th})
			lo = th + 1
		}
	} else {
		hi := 255
		for _, th := range thresholds {
			layers = append(layers, layer{lo: th, hi: hi})
			hi = th - 1
		}
	}

	if len(layers) >= 10 {
		last := len(layers) - 1
		lo, hi := layers[last].lo, layers[last].hi
		if hi-lo > 25 {
			s := h.GetStats(lo, hi)
			var extra int
			if blackOnWhite {
				extra = clampByte(int(s.LevelsMean + s.LevelsStdDev))
				if extra > hi-25 {
					extra = hi - 25
				}
			} else {
				extra = clampByte(int(s.LevelsMean - s.LevelsStdDev))
				if extra < lo+25 {
					extra = lo + 25
				}
			}
			if extra > lo && extra < hi {
				if blackOnWhite {
					layers[last].hi = extra
					layers = append(layers, layer{lo: extra + 1, hi: hi})
				} else {
					layers[last].lo = extra
					layers = append(layers, layer{lo: lo, hi: extra - 1})
				}
			}
		}
	}

	return layers
}

// fillLevel chooses the representative luminance for a layer's range
// according to the configured FillStrategy, then (for every range but the
// first) clamps it 10% toward the range's middle.
func (z *Posterizer) fillLevel(h *histogram.Histogram, l layer, index, total int) int {
	var level int
	switch z.params.FillStrategy {
	case FillDominant:
		tol := l.hi - l.lo
		if tol < 1 {
			tol = 1
		}
		if tol > 5 {
			tol = 5
		}
		level = h.GetDominantColor(l.lo, l.hi, tol)
		if level < 0 {
			level = (l.lo + l.hi) / 2
		}
	case FillMean:
		level = int(h.GetStats(l.lo, l.hi).LevelsMean)
	case FillMedian:
		level = int(h.GetStats(l.lo, l.hi).LevelsMedian)
	default: // FillSpread
		fullRange := float64(l.hi - l.lo)
		factor := 0.0
		if total > 1 {
			factor = float64(index) / float64(total-1)
		}
		scale := fullRange / 255
		if scale < 0.5 {
			scale = 0.5
		}
		level = l.lo + int(fullRange*scale*factor)
	}
	if level < l.lo {
		level = l.lo
	}
	if level > l.hi {
		level = l.hi
	}
	level = clampByte(level)

	if index > 0 {
		mid := (l.lo + l.hi) / 2
		level = level + (mid-level)/10
	}
	return clampByte(level)
}

func intensityOf(level int, blackOnWhite bool) float64 {
	if blackOnWhite {
		return 1 - float64(level)/255
	}
	return float64(level) / 255
}

func grayHex(level int) string {
	return fmt.Sprintf("#%02x%02x%02x", level, level, level)
}

// GetSVG renders the posterized stack as a complete SVG document: one
// `<path>` per retained layer, darkest to lightest for blackOnWhite
// (lightest to darkest otherwise), each carrying its own
// fill-opacity so the stack approximates the image's tonal range.
func (z *Posterizer) GetSVG() (string, error) {
	if !z.tracer.Loaded() {
		return "", potrace.ErrImageNotLoaded
	}
	h := z.tracer.Histogram()
	basePrms := z.tracer.Params()

	thresholds := z.resolveThresholds(h, basePrms)
	layers := z.buildLayers(h, thresholds, basePrms.BlackOnWhite)

	w, hh := imageSize(z.tracer)
	if basePrms.Width != 0 {
		w = basePrms.Width
	}
	if basePrms.Height != 0 {
		hh = basePrms.Height
	}

	var paths strings.Builder
	prev := 0.0
	for i, l := range layers {
		level := z.fillLevel(h, l, i, len(layers))
		intensity := intensityOf(level, basePrms.BlackOnWhite)

		var opacity float64
		if prev == 0 || intensity == 1 {
			opacity = intensity
		} else {
			opacity = (prev - intensity) / (prev - 1)
		}
		opacity = clampUnit(opacity)
		prev = prev + (1-prev)*opacity

		if opacity <= 0 {
			continue
		}

		p := basePrms
		p.Threshold = l.hi
		if !basePrms.BlackOnWhite {
			p.Threshold = l.lo
		}
		p.Color = grayHex(level)
		if err := z.tracer.SetParameters(p); err != nil {
			return "", err
		}
		tag, err := z.tracer.GetPathTag(p.Color)
		if err != nil {
			return "", err
		}
		if strings.Contains(tag, `d=""`) {
			continue
		}
		tag = withOpacity(tag, opacity)
		paths.WriteString(tag)
	}

	var bg string
	if basePrms.Background != "" && basePrms.Background != potrace.BackgroundTransparent {
		bg = fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, hh, basePrms.Background)
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="`)
	b.WriteString(strconv.Itoa(w))
	b.WriteString(`" height="`)
	b.WriteString(strconv.Itoa(hh))
	b.WriteString(`" viewBox="0 0 `)
	b.WriteString(strconv.Itoa(w))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(hh))
	b.WriteString(`" version="1.1">`)
	b.WriteString(bg)
	b.WriteString(paths.String())
	b.WriteString(`</svg>`)
	return b.String(), nil
}

func imageSize(t *potrace.Tracer) (int, int) {
	w, h := t.ImageSize()
	return w, h
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// withOpacity inserts a fill-opacity attribute into a `<path .../>` tag
// rendered by Tracer.GetPathTag.
func withOpacity(tag string, opacity float64) string {
	insertion := fmt.Sprintf(` fill-opacity="%.3f"`, opacity)
	idx := strings.LastIndex(tag, "/>")
	if idx < 0 {
		return tag
	}
	return tag[:idx] + insertion + tag[idx:]
}
