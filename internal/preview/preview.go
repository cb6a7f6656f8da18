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

// Package preview rasterizes a traced curve back into a pixel coverage
// buffer, so tests can close the loop: trace an image, render its
// path-data, rasterize that path-data, and compare the result against the
// source bitmap. It is not part of the public tracing API.
package preview

import (
	"math"

	"seehuhn.de/go/potrace/internal/curve"
	"seehuhn.de/go/potrace/internal/geom2d"
)

// edge is a line segment in device coordinates, with a precomputed dx/dy
// for x-intercept calculation during scanline accumulation.
type edge struct {
	x0, y0, x1, y1, dxdy float64
}

const horizontalEdgeThreshold = 1e-9

// Rasterizer accumulates edges from one or more curves and integrates them
// into a 0/1 coverage bitmap, using the signed-area scanline algorithm:
// each pixel tracks a "cover" (vertical extent of crossing edges) and an
// "area" (horizontal position weighting), folded into a winding-number
// coverage value one scanline at a time.
type Rasterizer struct {
	W, H  int
	edges []edge
}

// New returns a Rasterizer producing a W*H coverage bitmap.
func New(w, h int) *Rasterizer {
	return &Rasterizer{W: w, H: h}
}

func scale(p geom2d.Point, sx, sy float64) geom2d.Point {
	return geom2d.Point{X: p.X * sx, Y: p.Y * sy}
}

func (r *Rasterizer) addEdge(p0, p1 geom2d.Point) {
	dy := p1.Y - p0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y,
		dxdy: (p1.X - p0.X) / dy,
	})
}

// flattenCubic approximates a cubic Bezier by n line segments.
func flattenCubic(p0, p1, p2, p3 geom2d.Point, n int, emit func(a, b geom2d.Point)) {
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		next := geom2d.Bezier(t, p0, p1, p2, p3)
		emit(prev, next)
		prev = next
	}
}

// AddCurve flattens every segment of c, scaled by (sx,sy), into edges.
func (r *Rasterizer) AddCurve(c *curve.Curve, sx, sy float64) {
	n := c.N
	if n == 0 {
		return
	}
	cur := scale(c.C[3*(n-1)+2], sx, sy)
	for i := 0; i < n; i++ {
		switch c.Tag[i] {
		case curve.TagCurve:
			p1 := scale(c.C[3*i+0], sx, sy)
			p2 := scale(c.C[3*i+1], sx, sy)
			p3 := scale(c.C[3*i+2], sx, sy)
			flattenCubic(cur, p1, p2, p3, 16, r.addEdge)
			cur = p3
		default:
			p1 := scale(c.C[3*i+1], sx, sy)
			p2 := scale(c.C[3*i+2], sx, sy)
			r.addEdge(cur, p1)
			r.addEdge(p1, p2)
			cur = p2
		}
	}
}

// accumulateEdge adds e's contribution to one scanline's cover/area
// buffers, splitting the edge at pixel-column boundaries when it spans
// more than one column.
func accumulateEdge(e *edge, yTop, yBot float64, cover, area []float32, w int) {
	edgeYMin := math.Min(e.y0, e.y1)
	edgeYMax := math.Max(e.y0, e.y1)
	top := math.Max(yTop, edgeYMin)
	bot := math.Min(yBot, edgeYMax)
	if bot <= top {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xAtTop := e.x0 + e.dxdy*(top-e.y0)
	xAtBot := e.x0 + e.dxdy*(bot-e.y0)
	xLeft, xRight := xAtTop, xAtBot
	if xLeft > xRight {
		xLeft, xRight = xRight, xLeft
	}
	pixLeft := int(math.Floor(xLeft))
	pixRight := int(math.Floor(xRight))

	if pixRight < 0 {
		v := sign * float32(bot-top)
		cover[0] += v
		area[0] += v
		return
	}
	if pixLeft >= w {
		return
	}

	if pixLeft == pixRight {
		v := sign * float32(bot-top)
		if pixLeft < 0 {
			cover[0] += v
			area[0] += v
			return
		}
		yMid := (top + bot) / 2
		xMid := e.x0 + e.dxdy*(yMid-e.y0)
		area[pixLeft] += v * float32(1-(xMid-float64(pixLeft)))
		cover[pixLeft] += v
		return
	}

	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		yAtL := e.y0 + dydx*(float64(pix)-e.x0)
		yAtR := e.y0 + dydx*(float64(pix+1)-e.x0)
		segMin := math.Max(math.Min(yAtL, yAtR), top)
		segMax := math.Min(math.Max(yAtL, yAtR), bot)
		segDy := segMax - segMin
		if segDy <= 0 {
			continue
		}
		v := sign * float32(segDy)
		yMid := (segMin + segMax) / 2
		xMid := e.x0 + e.dxdy*(yMid-e.y0)
		xFrac := xMid - float64(pix)
		switch {
		case pix < 0:
			cover[0] += v
			area[0] += v
		case pix < w:
			cover[pix] += v
			area[pix] += v * float32(1-xFrac)
		}
	}
}

// integrateScanlineNonZero folds accumulated cover/area into per-pixel
// coverage using the nonzero winding rule, in place.
func integrateScanlineNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		cov := raw
		if cov < 0 {
			cov = -cov
		}
		if cov > 1 {
			cov = 1
		}
		cover[i] = cov
	}
}

// Rasterize integrates every accumulated edge, scanline by scanline, and
// returns a W*H buffer of 0/1 values thresholded at 0.5 coverage.
func (r *Rasterizer) Rasterize() []byte {
	out := make([]byte, r.W*r.H)
	cover := make([]float32, r.W)
	area := make([]float32, r.W)
	for y := 0; y < r.H; y++ {
		for i := range cover {
			cover[i] = 0
			area[i] = 0
		}
		yTop, yBot := float64(y), float64(y+1)
		for i := range r.edges {
			accumulateEdge(&r.edges[i], yTop, yBot, cover, area, r.W)
		}
		integrateScanlineNonZero(cover, area)
		for x := 0; x < r.W; x++ {
			if cover[x] >= 0.5 {
				out[y*r.W+x] = 1
			}
		}
	}
	return out
}
