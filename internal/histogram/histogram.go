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

// Package histogram builds per-channel and luminance distributions over a
// bitmap and provides multilevel Otsu-style thresholding, dominant-color
// lookup and range statistics used by the tracer and posterizer.
package histogram

import (
	"fmt"
	"math"
	"sort"
)

// Histogram holds 256-bin counts for R, G, B and luminance, plus ascending
// sorted-by-count index permutations and a lazily-built lookup table used
// by MultilevelThresholding.
type Histogram struct {
	R, G, B, Lum [256]int
	Pixels       int

	sortedLum [256]int // indices into Lum, ascending by count

	statsCache map[[2]int]Stats

	h      [][]float64 // Liao lookup table, built on first use
	hBuilt bool
}

// New builds a Histogram from per-channel byte slices (as produced by
// bitmap.Bitmap), all of equal length.
func New(r, g, b, lum []byte) *Histogram {
	h := &Histogram{statsCache: make(map[[2]int]Stats)}
	for _, v := range r {
		h.R[v]++
	}
	for _, v := range g {
		h.G[v]++
	}
	for _, v := range b {
		h.B[v]++
	}
	for _, v := range lum {
		h.Lum[v]++
	}
	h.Pixels = len(lum)

	for i := range h.sortedLum {
		h.sortedLum[i] = i
	}
	sort.SliceStable(h.sortedLum[:], func(i, j int) bool {
		return h.Lum[h.sortedLum[i]] < h.Lum[h.sortedLum[j]]
	})

	return h
}

// Stats summarizes the luminance distribution over an inclusive range
// [a,b].
type Stats struct {
	LevelsMean       float64
	LevelsMedian     float64
	LevelsStdDev     float64
	LevelsUnique     int
	PixelsPerLevelMean   float64
	PixelsPerLevelMedian float64
	PixelsPerLevelPeak   int
	Pixels           int
}

func clampRange(a, b int) (int, int) {
	if a < 0 {
		a = 0
	}
	if b > 255 {
		b = 255
	}
	if a > b {
		a, b = b, a
	}
	return a, b
}

// GetStats computes (and caches) Stats over the inclusive luminance range
// [a,b].
func (h *Histogram) GetStats(a, b int) Stats {
	a, b = clampRange(a, b)
	key := [2]int{a, b}
	if s, ok := h.statsCache[key]; ok {
		return s
	}

	var pixels int
	var weightedSum float64
	unique := 0
	peak := 0
	for i := a; i <= b; i++ {
		c := h.Lum[i]
		if c > 0 {
			unique++
		}
		if c > peak {
			peak = c
		}
		pixels += c
		weightedSum += float64(i) * float64(c)
	}

	var mean float64
	if pixels > 0 {
		mean = weightedSum / float64(pixels)
	}

	var sqDev float64
	for i := a; i <= b; i++ {
		d := float64(i) - mean
		sqDev += d * d * float64(h.Lum[i])
	}
	var stdDev float64
	if pixels > 0 {
		stdDev = math.Sqrt(sqDev / float64(pixels))
	}

	median := medianFromSortedIndex(h.Lum[:], a, b, pixels)

	levelCount := b - a + 1
	var pixelsPerLevelMean float64
	if levelCount > 0 {
		pixelsPerLevelMean = float64(pixels) / float64(levelCount)
	}
	pixelsPerLevelMedian := medianOfCounts(h.Lum[:], a, b)

	s := Stats{
		LevelsMean:           mean,
		LevelsMedian:         median,
		LevelsStdDev:         stdDev,
		LevelsUnique:         unique,
		PixelsPerLevelMean:   pixelsPerLevelMean,
		PixelsPerLevelMedian: pixelsPerLevelMedian,
		PixelsPerLevelPeak:   peak,
		Pixels:               pixels,
	}
	h.statsCache[key] = s
	return s
}

// medianFromSortedIndex walks bins a..b in ascending level order,
// cumulating counts until half of pixels is reached.
func medianFromSortedIndex(lum []int, a, b, pixels int) float64 {
	if pixels == 0 {
		return 0
	}
	half := pixels / 2
	acc := 0
	for i := a; i <= b; i++ {
		acc += lum[i]
		if acc > half {
			return float64(i)
		}
	}
	return float64(b)
}

func medianOfCounts(lum []int, a, b int) float64 {
	n := b - a + 1
	if n <= 0 {
		return 0
	}
	counts := make([]int, n)
	copy(counts, lum[a:b+1])
	sort.Ints(counts)
	mid := n / 2
	if n%2 == 1 {
		return float64(counts[mid])
	}
	return float64(counts[mid-1]+counts[mid]) / 2
}

// GetDominantColor returns the level in [a,b] whose window of counts
// (radius tolerance/2) is maximal, ties broken by larger single-bin count.
// Returns -1 if the range contains no pixels. tolerance defaults to 1 when
// <= 0.
func (h *Histogram) GetDominantColor(a, b, tolerance int) int {
	a, b = clampRange(a, b)
	if tolerance <= 0 {
		tolerance = 1
	}
	if a == b {
		if h.Lum[a] == 0 {
			return -1
		}
		return a
	}

	best := -1
	bestWindow := -1
	bestSingle := -1
	radius := tolerance / 2
	for i := a; i <= b; i++ {
		if h.Lum[i] == 0 {
			continue
		}
		lo := i - radius
		if lo < a {
			lo = a
		}
		hi := i + radius
		if hi > b {
			hi = b
		}
		window := 0
		for j := lo; j <= hi; j++ {
			window += h.Lum[j]
		}
		if window > bestWindow || (window == bestWindow && h.Lum[i] > bestSingle) {
			best = i
			bestWindow = window
			bestSingle = h.Lum[i]
		}
	}
	return best
}

// AutoThreshold returns the single threshold from MultilevelThresholding(1)
// restricted to [lo,hi], or -1 if none exists.
func (h *Histogram) AutoThreshold(lo, hi int) int {
	ts := h.MultilevelThresholding(1, lo, hi)
	if len(ts) == 0 {
		return -1
	}
	return ts[0]
}

// buildTable lazily constructs the Liao/Chang/Chen S^2/P lookup table used
// by MultilevelThresholding. H[c][r] = S(c,r)^2 / P(c,r), where P is the
// pixel count and S the luminance-weighted pixel sum over [c,r].
func (h *Histogram) buildTable() {
	if h.hBuilt {
		return
	}
	const n = 256
	// P[i][j], S[i][j] are cumulative sums over [i,j] built from prefix
	// sums P0, S0 for O(1) range queries.
	P0 := make([]float64, n+1)
	S0 := make([]float64, n+1)
	for i := 0; i < n; i++ {
		P0[i+1] = P0[i] + float64(h.Lum[i])
		S0[i+1] = S0[i] + float64(i)*float64(h.Lum[i])
	}

	table := make([][]float64, n)
	for c := 0; c < n; c++ {
		table[c] = make([]float64, n)
		for r := c; r < n; r++ {
			p := P0[r+1] - P0[c]
			s := S0[r+1] - S0[c]
			if p > 0 {
				table[c][r] = s * s / p
			}
		}
	}
	h.h = table
	h.hBuilt = true
}

// MultilevelThresholding returns up to k ascending threshold values in
// (levelMin, levelMax) maximizing the sum of between-class Liao scores.
// Returns fewer than k when the range is too narrow (max-min-2 < k).
func (h *Histogram) MultilevelThresholding(k, levelMin, levelMax int) []int {
	levelMin, levelMax = clampRange(levelMin, levelMax)
	if k <= 0 {
		return nil
	}
	if levelMax-levelMin-2 < k {
		k = levelMax - levelMin - 2
		if k <= 0 {
			return nil
		}
	}
	h.buildTable()

	bestScore := math.Inf(-1)
	var bestBreaks []int
	breaks := make([]int, k)

	var dfs func(pos, lastBreak int)
	dfs = func(pos, lastBreak int) {
		if pos == k {
			score := 0.0
			prev := levelMin
			for _, br := range breaks {
				score += h.h[prev][br]
				prev = br + 1
			}
			score += h.h[prev][levelMax]
			if score > bestScore {
				bestScore = score
				bestBreaks = append([]int(nil), breaks...)
			}
			return
		}
		lo := lastBreak + 1
		hi := levelMax - (k - pos)
		for v := lo; v <= hi; v++ {
			breaks[pos] = v
			dfs(pos+1, v)
		}
	}
	dfs(0, levelMin)

	return bestBreaks
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats{pixels=%d mean=%.2f median=%.2f std=%.2f}",
		s.Pixels, s.LevelsMean, s.LevelsMedian, s.LevelsStdDev)
}
