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

// Package curve turns a polygon's adjusted vertices into a smoothed,
// optionally Bezier-consolidated curve and renders it as SVG path data.
package curve

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/potrace/internal/geom2d"
)

// cos179 is the cosine of 179 degrees; a segment of a run turning past
// this angle relative to the run's first edge is considered to reverse
// direction and stops a consolidation run.
const cos179 = -0.999847695156

// Tag marks a curve segment as a sharp corner or a smooth Bezier curve.
type Tag int

const (
	TagCorner Tag = iota
	TagCurve
)

// Curve holds n segments: per-segment tag, three control points (corners
// use only the last two), the adjusted polygon vertex, and the smoothing
// parameters alpha, alpha0 and beta.
type Curve struct {
	N      int
	Sign   byte
	Tag    []Tag
	C      []geom2d.Point // length 3*N
	Vertex []geom2d.Point // length N
	Alpha  []float64
	Alpha0 []float64
	Beta   []float64
}

// New creates an unsmoothed Curve from a polygon's adjusted vertices.
func New(vertex []geom2d.Point, sign byte) *Curve {
	n := len(vertex)
	return &Curve{
		N:      n,
		Sign:   sign,
		Tag:    make([]Tag, n),
		C:      make([]geom2d.Point, 3*n),
		Vertex: append([]geom2d.Point(nil), vertex...),
		Alpha:  make([]float64, n),
		Alpha0: make([]float64, n),
		Beta:   make([]float64, n),
	}
}

// Reverse reverses the vertex winding order in place, for negative-sign
// paths so all curves wind consistently.
func (c *Curve) Reverse() {
	for i, j := 0, c.N-1; i < j; i, j = i+1, j-1 {
		c.Vertex[i], c.Vertex[j] = c.Vertex[j], c.Vertex[i]
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Smooth tags each vertex as CORNER or CURVE based on the angle formed by
// its neighbours, and fills in control points accordingly.
func (c *Curve) Smooth(alphaMax float64) {
	n := c.N
	for j := 0; j < n; j++ {
		i := geom2d.Modulo(j-1, n)
		k := geom2d.Modulo(j+1, n)
		vi, vj, vk := c.Vertex[i], c.Vertex[j], c.Vertex[k]

		denom := geom2d.Ddenom(vi, vk)
		var alpha float64
		if denom != 0 {
			dd := geom2d.AreaOfParallelogram(vi, vj, vk) / denom
			if dd < 0 {
				dd = -dd
			}
			if dd > 1 {
				alpha = 1 - 1/dd
			} else {
				alpha = 0
			}
			alpha /= 0.75
		} else {
			alpha = 4.0 / 3.0
		}
		c.Alpha0[j] = alpha

		if alpha >= alphaMax {
			c.Tag[j] = TagCorner
			c.C[3*j+1] = vj
			c.C[3*j+2] = geom2d.Midpoint(vj, vk)
			c.Alpha[j] = alpha
		} else {
			a := clamp(alpha, 0.55, 1)
			c.Tag[j] = TagCurve
			c.C[3*j+0] = geom2d.Interval(0.5+0.5*a, vi, vj)
			c.C[3*j+1] = geom2d.Interval(0.5+0.5*a, vk, vj)
			c.C[3*j+2] = geom2d.Midpoint(vj, vk)
			c.Alpha[j] = a
		}
		c.Beta[j] = 0.5
	}
}

// Opti is an optimization candidate: two control points plus the scalars
// and accumulated penalty used to decide whether to accept it.
type Opti struct {
	C0, C1  geom2d.Point
	Alpha   float64
	S, T    float64
	Penalty float64
}

func sgnInt(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// optiPenalty evaluates replacing the run of segments (i, j] with a single
// cubic Bezier. It returns ok=false on any rejection and never writes into
// a caller-visible result in that case; res is only meaningful when ok is
// true.
func (c *Curve) optiPenalty(i, j int, opttolerance float64, convc []int, areac []float64) (res Opti, ok bool) {
	n := c.N
	if i == j {
		return Opti{}, false
	}

	i1 := geom2d.Modulo(i+1, n)
	k1 := i1
	conv := convc[k1]
	if conv == 0 {
		return Opti{}, false
	}
	d := geom2d.Distance(c.Vertex[i], c.Vertex[i1])

	for k := k1; k != j; {
		k1 = geom2d.Modulo(k+1, n)
		k2 := geom2d.Modulo(k+2, n)
		if convc[k1] != conv {
			return Opti{}, false
		}
		if sgnInt(geom2d.AreaOfParallelogram(c.Vertex[i], c.Vertex[k1], c.Vertex[k2])) != conv {
			return Opti{}, false
		}
		if geom2d.CubicInnerProduct(c.Vertex[i], c.Vertex[i1], c.Vertex[k1], c.Vertex[k2]) <
			d*geom2d.Distance(c.Vertex[k1], c.Vertex[k2])*cos179 {
			return Opti{}, false
		}
		k = k1
	}

	p0 := c.C[geom2d.Modulo(i, n)*3+2]
	p1 := c.Vertex[geom2d.Modulo(i+1, n)]
	p2 := c.Vertex[geom2d.Modulo(j, n)]
	p3 := c.C[geom2d.Modulo(j, n)*3+2]

	area := areac[j] - areac[i]
	area -= geom2d.AreaOfParallelogram(c.Vertex[0], c.C[geom2d.Modulo(i, n)*3+2], c.C[geom2d.Modulo(j, n)*3+2]) / 2
	if i >= j {
		area += areac[n]
	}

	A1 := geom2d.AreaOfParallelogram(p0, p1, p2)
	A2 := geom2d.AreaOfParallelogram(p0, p1, p3)
	A3 := geom2d.AreaOfParallelogram(p0, p2, p3)
	A4 := A1 + A3 - A2

	if A2 == A1 {
		return Opti{}, false
	}

	t := A3 / (A3 - A4)
	s := A2 / (A2 - A1)
	A := A2 * t / 2.0

	if A == 0 {
		return Opti{}, false
	}

	R := area / A
	alpha := 2 - math.Sqrt(4-R/0.3)

	q1 := geom2d.Interval(t*alpha, p0, p1)
	q2 := geom2d.Interval(s*alpha, p3, p2)

	pen := 0.0

	for k, k1 := geom2d.Modulo(i+1, n), 0; k != j; k = k1 {
		k1 = geom2d.Modulo(k+1, n)
		tt := geom2d.Tangent(p0, q1, q2, p3, c.Vertex[k], c.Vertex[k1])
		if tt < -0.5 {
			return Opti{}, false
		}
		pt := geom2d.Bezier(tt, p0, q1, q2, p3)
		dd := geom2d.Distance(c.Vertex[k], c.Vertex[k1])
		if dd == 0 {
			return Opti{}, false
		}
		d1 := geom2d.AreaOfParallelogram(c.Vertex[k], c.Vertex[k1], pt) / dd
		if absF(d1) > opttolerance {
			return Opti{}, false
		}
		if geom2d.QuadraticInnerProduct(c.Vertex[k], c.Vertex[k1], pt) < 0 ||
			geom2d.QuadraticInnerProduct(c.Vertex[k1], c.Vertex[k], pt) < 0 {
			return Opti{}, false
		}
		pen += d1 * d1
	}

	for k, k1 := i, 0; k != j; k = k1 {
		k1 = geom2d.Modulo(k+1, n)
		tt := geom2d.Tangent(p0, q1, q2, p3, c.C[k*3+2], c.C[k1*3+2])
		if tt < -0.5 {
			return Opti{}, false
		}
		pt := geom2d.Bezier(tt, p0, q1, q2, p3)
		dd := geom2d.Distance(c.C[k*3+2], c.C[k1*3+2])
		if dd == 0 {
			return Opti{}, false
		}
		d1 := geom2d.AreaOfParallelogram(c.C[k*3+2], c.C[k1*3+2], pt) / dd
		d2 := geom2d.AreaOfParallelogram(c.C[k*3+2], c.C[k1*3+2], c.Vertex[k1]) / dd
		d2 *= 0.75 * c.Alpha[k1]
		if d2 < 0 {
			d1, d2 = -d1, -d2
		}
		if d1 < d2-opttolerance {
			return Opti{}, false
		}
		if d1 < d2 {
			pen += (d1 - d2) * (d1 - d2)
		}
	}

	return Opti{C0: q1, C1: q2, Alpha: alpha, S: s, T: t, Penalty: pen}, true
}

// convexityAndArea computes, per vertex, the sign of its local turn
// (0 for corners) and a running "area under the curve" prefix used by
// optiPenalty to measure a consolidation candidate's area error.
func (c *Curve) convexityAndArea() (convc []int, areac []float64) {
	n := c.N
	convc = make([]int, n)
	for i := 0; i < n; i++ {
		if c.Tag[i] == TagCurve {
			convc[i] = sgnInt(geom2d.AreaOfParallelogram(
				c.Vertex[geom2d.Modulo(i-1, n)], c.Vertex[i], c.Vertex[geom2d.Modulo(i+1, n)]))
		}
	}

	areac = make([]float64, n+1)
	area := 0.0
	p0 := c.Vertex[0]
	for i := 0; i < n; i++ {
		i1 := geom2d.Modulo(i+1, n)
		if c.Tag[i1] == TagCurve {
			alpha := c.Alpha[i1]
			area += 0.3 * alpha * (4 - alpha) * geom2d.AreaOfParallelogram(c.C[i*3+2], c.Vertex[i1], c.C[i1*3+2]) / 2
			area += geom2d.AreaOfParallelogram(p0, c.C[i*3+2], c.C[i1*3+2]) / 2
		}
		areac[i+1] = area
	}
	return convc, areac
}

// Optimize attempts to replace runs of CURVE segments with single cubic
// Beziers wherever the approximation error stays within tol, choosing,
// among all valid replacements, the one minimizing segment count and then
// total penalty. It returns a new Curve; c itself is left untouched.
func (c *Curve) Optimize(opttolerance float64) *Curve {
	m := c.N
	if m == 0 {
		return c
	}
	convc, areac := c.convexityAndArea()

	pt := make([]int, m+1)
	pen := make([]float64, m+1)
	segLen := make([]int, m+1)
	opt := make([]Opti, m+1)

	pt[0] = -1
	for j := 1; j <= m; j++ {
		pt[j] = j - 1
		pen[j] = pen[j-1]
		segLen[j] = segLen[j-1] + 1

		for i := j - 2; i >= 0; i-- {
			o, ok := c.optiPenalty(i, geom2d.Modulo(j, m), opttolerance, convc, areac)
			if !ok {
				break
			}
			if segLen[i]+1 < segLen[j] || (segLen[i]+1 == segLen[j] && pen[i]+o.Penalty < pen[j]) {
				pt[j] = i
				pen[j] = pen[i] + o.Penalty
				segLen[j] = segLen[i] + 1
				opt[j] = o
			}
		}
	}

	om := segLen[m]
	out := New(make([]geom2d.Point, om), c.Sign)

	j := m
	for i := om - 1; i >= 0; i-- {
		src := geom2d.Modulo(j, m)
		if pt[j] == j-1 {
			out.Tag[i] = c.Tag[src]
			out.C[3*i+0] = c.C[3*src+0]
			out.C[3*i+1] = c.C[3*src+1]
			out.C[3*i+2] = c.C[3*src+2]
			out.Vertex[i] = c.Vertex[src]
			out.Alpha[i] = c.Alpha[src]
			out.Alpha0[i] = c.Alpha0[src]
			out.Beta[i] = c.Beta[src]
		} else {
			o := opt[j]
			out.Tag[i] = TagCurve
			out.C[3*i+0] = o.C0
			out.C[3*i+1] = o.C1
			out.C[3*i+2] = c.C[3*src+2]
			out.Vertex[i] = geom2d.Interval(o.S, c.C[3*src+2], c.Vertex[src])
			out.Alpha[i] = o.Alpha
			out.Alpha0[i] = o.Alpha
			if o.S+o.T != 0 {
				out.Beta[i] = o.S / (o.S + o.T)
			} else {
				out.Beta[i] = 0.5
			}
		}
		j = pt[j]
	}

	return out
}

func formatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if strings.HasSuffix(s, ".000") {
		s = s[:len(s)-4]
	}
	return s
}

func scalePoint(p geom2d.Point, sx, sy float64) geom2d.Point {
	return geom2d.Point{X: p.X * sx, Y: p.Y * sy}
}

// Render produces the SVG path-data string for the curve, scaled by
// (scaleX, scaleY). The path starts at the last segment's trailing point
// (the curve's start-of-stroke point) and is always closed implicitly by
// returning to that same point.
func (c *Curve) Render(scaleX, scaleY float64) string {
	n := c.N
	if n == 0 {
		return ""
	}
	var b strings.Builder

	origin := scalePoint(c.C[3*(n-1)+2], scaleX, scaleY)
	fmt.Fprintf(&b, "M %s %s", formatNum(origin.X), formatNum(origin.Y))

	for i := 0; i < n; i++ {
		switch c.Tag[i] {
		case TagCurve:
			p0 := scalePoint(c.C[3*i+0], scaleX, scaleY)
			p1 := scalePoint(c.C[3*i+1], scaleX, scaleY)
			p2 := scalePoint(c.C[3*i+2], scaleX, scaleY)
			fmt.Fprintf(&b, "C %s %s, %s %s, %s %s",
				formatNum(p0.X), formatNum(p0.Y),
				formatNum(p1.X), formatNum(p1.Y),
				formatNum(p2.X), formatNum(p2.Y))
		default:
			p1 := scalePoint(c.C[3*i+1], scaleX, scaleY)
			p2 := scalePoint(c.C[3*i+2], scaleX, scaleY)
			fmt.Fprintf(&b, "L %s %s %s %s",
				formatNum(p1.X), formatNum(p1.Y),
				formatNum(p2.X), formatNum(p2.Y))
		}
	}

	return b.String()
}
