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

// Package path implements the per-contour pipeline that turns a pixel-edge
// contour into an optimal polygon and its adjusted vertices: prefix sums,
// the longest-straight-line table, the penalty-minimizing polygon DP, and
// the 2x2 quadratic-form vertex fit. Each stage consumes the previous
// stage's value and produces the next; the Path type never mutates a field
// set by an earlier stage.
package path

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/potrace/internal/bitmap"
	"seehuhn.de/go/potrace/internal/geom2d"
)

// sum holds prefix sums of x, y, xy, x^2, y^2 up to (but not including) an
// index.
type sum struct {
	X, Y, XY, X2, Y2 float64
}

// Path holds a single contour through the stages of the tracing pipeline.
type Path struct {
	N                      int
	Pt                     []geom2d.Point // translated so Pt[0] == (0,0)
	X0, Y0                 float64        // original offset, added back at the end
	Area                   int
	MinX, MinY, MaxX, MaxY int
	Sign                   byte

	sums []sum // length N+1, set by CalcSums

	Lon []int // length N, set by CalcLon

	Po []int // length M, set by BestPolygon
	M  int

	Vertex []geom2d.Point // length M, set by AdjustVertices
}

// FromContour builds a Path from a bitmap.Contour, dropping the duplicated
// closing point.
func FromContour(c *bitmap.Contour) *Path {
	n := len(c.Pt) - 1
	pt := make([]geom2d.Point, n)
	x0, y0 := float64(c.Pt[0].X), float64(c.Pt[0].Y)
	for i := 0; i < n; i++ {
		pt[i] = geom2d.Point{X: float64(c.Pt[i].X) - x0, Y: float64(c.Pt[i].Y) - y0}
	}
	return &Path{
		N:    n,
		Pt:   pt,
		X0:   x0,
		Y0:   y0,
		Area: c.Area,
		MinX: c.MinX, MinY: c.MinY, MaxX: c.MaxX, MaxY: c.MaxY,
		Sign: c.Sign,
	}
}

// BoundingBox returns the contour's pixel-edge bounding box in original
// image coordinates.
func (p *Path) BoundingBox() rect.Rect {
	return rect.Rect{
		LLx: float64(p.MinX), LLy: float64(p.MinY),
		URx: float64(p.MaxX), URy: float64(p.MaxY),
	}
}

// CalcSums builds the prefix sums of x, y, xy, x^2, y^2 over the translated
// contour.
func (p *Path) CalcSums() {
	p.sums = make([]sum, p.N+1)
	p.sums[0] = sum{}
	for i := 0; i < p.N; i++ {
		x, y := p.Pt[i].X, p.Pt[i].Y
		prev := p.sums[i]
		p.sums[i+1] = sum{
			X:  prev.X + x,
			Y:  prev.Y + y,
			XY: prev.XY + x*y,
			X2: prev.X2 + x*x,
			Y2: prev.Y2 + y*y,
		}
	}
}

// CalcLon computes, for every starting index i, the farthest j such that
// pt[i..j] lies within a unit-width constraint cone and can be treated as a
// single straight edge.
func (p *Path) CalcLon() {
	n := p.N
	pt := p.Pt

	nc := make([]int, n)
	k := 0
	for i := n - 1; i >= 0; i-- {
		if pt[i].X != pt[k].X && pt[i].Y != pt[k].Y {
			k = i + 1
		}
		nc[i] = k
	}

	pivk := make([]int, n)

	dirOf := func(a, b geom2d.Point) int {
		return (3 + 3*int(geom2d.Sign(b.X-a.X)) + int(geom2d.Sign(b.Y-a.Y))) / 2
	}

	for i := n - 1; i >= 0; i-- {
		var ct [4]int
		var constraint0, constraint1 geom2d.Point

		dir := dirOf(pt[i], pt[geom2d.Modulo(i+1, n)])
		ct[dir]++

		foundK := -1
		k1 := i
		kk := nc[i]
		for {
			dir = dirOf(pt[k1], pt[kk])
			ct[dir]++

			if ct[0] != 0 && ct[1] != 0 && ct[2] != 0 && ct[3] != 0 {
				foundK = k1
				break
			}

			cur := geom2d.Sub(pt[kk], pt[i])

			if geom2d.CrossProduct(constraint0, cur) < 0 || geom2d.CrossProduct(constraint1, cur) > 0 {
				break
			}

			if !(abs1(cur.X) <= 1 && abs1(cur.Y) <= 1) {
				var off geom2d.Point
				if cur.Y >= 0 && (cur.Y > 0 || cur.X < 0) {
					off.X = cur.X + 1
				} else {
					off.X = cur.X - 1
				}
				if cur.X <= 0 && (cur.X < 0 || cur.Y < 0) {
					off.Y = cur.Y + 1
				} else {
					off.Y = cur.Y - 1
				}
				if geom2d.CrossProduct(constraint0, off) >= 0 {
					constraint0 = off
				}

				if cur.Y <= 0 && (cur.Y < 0 || cur.X < 0) {
					off.X = cur.X + 1
				} else {
					off.X = cur.X - 1
				}
				if cur.X >= 0 && (cur.X > 0 || cur.Y < 0) {
					off.Y = cur.Y + 1
				} else {
					off.Y = cur.Y - 1
				}
				if geom2d.CrossProduct(constraint1, off) <= 0 {
					constraint1 = off
				}
			}

			k1 = kk
			kk = nc[k1]
			if !geom2d.Cyclic(kk, i, k1) {
				break
			}
		}
		if foundK < 0 {
			// Find the last point on k1..kk that still satisfies both constraints.
			dk := geom2d.Point{X: geom2d.Sign(pt[kk].X - pt[k1].X), Y: geom2d.Sign(pt[kk].Y - pt[k1].Y)}
			cur := geom2d.Sub(pt[k1], pt[i])
			a, b := geom2d.CrossProduct(constraint0, cur), geom2d.CrossProduct(constraint0, dk)
			c, d := geom2d.CrossProduct(constraint1, cur), geom2d.CrossProduct(constraint1, dk)
			j := float64(n)
			if b < 0 {
				j = math.Floor(a / -b)
			}
			if d > 0 {
				j = math.Min(j, math.Floor(-c/d))
			}
			foundK = geom2d.Modulo(k1+int(j), n)
		}
		pivk[i] = foundK
	}

	lon := make([]int, n)
	j := pivk[n-1]
	lon[n-1] = j
	for i := n - 2; i >= 0; i-- {
		if geom2d.Cyclic(i+1, pivk[i], j) {
			j = pivk[i]
		}
		lon[i] = j
	}
	for i := n - 1; i >= 0 && geom2d.Cyclic(geom2d.Modulo(i+1, n), j, lon[i]); i-- {
		lon[i] = j
	}

	p.Lon = lon
}

func abs1(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// penalty3 measures the deviation of the chord i->j from the contour,
// using the prefix sums, as sqrt(e^T . Sigma . e).
func (p *Path) penalty3(i, j int) float64 {
	n := p.N
	r := 0.0
	jj := j
	if jj >= n {
		jj -= n
		r = 1
	}

	var x, y, x2, xy, y2 float64
	var k float64
	if r == 0 {
		x = p.sums[jj+1].X - p.sums[i].X
		y = p.sums[jj+1].Y - p.sums[i].Y
		x2 = p.sums[jj+1].X2 - p.sums[i].X2
		xy = p.sums[jj+1].XY - p.sums[i].XY
		y2 = p.sums[jj+1].Y2 - p.sums[i].Y2
		k = float64(jj + 1 - i)
	} else {
		x = p.sums[jj+1].X - p.sums[i].X + p.sums[n].X
		y = p.sums[jj+1].Y - p.sums[i].Y + p.sums[n].Y
		x2 = p.sums[jj+1].X2 - p.sums[i].X2 + p.sums[n].X2
		xy = p.sums[jj+1].XY - p.sums[i].XY + p.sums[n].XY
		y2 = p.sums[jj+1].Y2 - p.sums[i].Y2 + p.sums[n].Y2
		k = float64(jj + 1 - i + n)
	}

	px := (p.Pt[i].X + p.Pt[jj].X) / 2.0
	py := (p.Pt[i].Y + p.Pt[jj].Y) / 2.0
	ey := p.Pt[jj].X - p.Pt[i].X
	ex := -(p.Pt[jj].Y - p.Pt[i].Y)

	a := (x2-2*x*px)/k + px*px
	b := (xy-x*py-y*px)/k + px*py
	c := (y2-2*y*py)/k + py*py

	s := ex*ex*a + 2*ex*ey*b + ey*ey*c
	if s < 0 {
		s = 0
	}
	return math.Sqrt(s)
}

// BestPolygon selects the polygon with the fewest vertices and, among
// those, minimum total penalty, via the clip0/clip1/seg0/seg1 sweep.
func (p *Path) BestPolygon() {
	n := p.N

	clip0 := make([]int, n)
	for i := 0; i < n; i++ {
		c := geom2d.Modulo(p.Lon[geom2d.Modulo(i-1, n)]-1, n)
		if c == i {
			c = geom2d.Modulo(i+1, n)
		}
		if c < i {
			clip0[i] = n
		} else {
			clip0[i] = c
		}
	}

	clip1 := make([]int, n+1)
	j := 1
	for i := 0; i < n; i++ {
		for j <= clip0[i] {
			clip1[j] = i
			j++
		}
	}
	clip1[0] = 0

	seg0 := make([]int, n+1)
	i := 0
	m := 0
	for i < n {
		seg0[m] = i
		i = clip0[i]
		m++
	}
	seg0[m] = n

	seg1 := make([]int, n+1)
	i = n
	for j := m; j > 0; j-- {
		seg1[j] = i
		i = clip1[i]
	}
	seg1[0] = 0

	pen := make([]float64, n+1)
	prev := make([]int, n+1)
	pen[0] = 0
	for j := 1; j <= m; j++ {
		for i := seg1[j]; i <= seg0[j]; i++ {
			best := -1.0
			bestK := -1
			for k := seg0[j-1]; k >= clip1[i]; k-- {
				thisPen := p.penalty3(k, i) + pen[k]
				if best < 0 || thisPen < best {
					bestK = k
					best = thisPen
				}
			}
			pen[i] = best
			prev[i] = bestK
		}
	}

	po := make([]int, m)
	ii := n
	for j := m - 1; j >= 0; j-- {
		ii = prev[ii]
		po[j] = ii
	}

	p.M = m
	p.Po = po
}

// pointslope fits a best-fit line through contour points pt[i..j]
// (inclusive, cyclically), returning its centroid and dominant-eigenvalue
// direction.
func (p *Path) pointslope(i, j int) (ctr, dir geom2d.Point) {
	n := p.N
	r := 0.0
	for j >= n {
		j -= n
		r++
	}
	for i >= n {
		i -= n
		r--
	}
	for j < 0 {
		j += n
		r--
	}
	for i < 0 {
		i += n
		r++
	}

	x := p.sums[j+1].X - p.sums[i].X + r*p.sums[n].X
	y := p.sums[j+1].Y - p.sums[i].Y + r*p.sums[n].Y
	x2 := p.sums[j+1].X2 - p.sums[i].X2 + r*p.sums[n].X2
	xy := p.sums[j+1].XY - p.sums[i].XY + r*p.sums[n].XY
	y2 := p.sums[j+1].Y2 - p.sums[i].Y2 + r*p.sums[n].Y2
	k := float64(j+1-i) + r*float64(n)

	ctr = geom2d.Point{X: x / k, Y: y / k}

	a := (x2 - x*x/k) / k
	b := (xy - x*y/k) / k
	c := (y2 - y*y/k) / k

	// Eigen-decomposition of the symmetric 2x2 covariance [[a,b],[b,c]].
	trace := a + c
	det := a*c - b*b
	disc := trace*trace/4 - det
	if disc < 0 {
		disc = 0
	}
	root := math.Sqrt(disc)
	lambdaMax := trace/2 + root

	// Eigenvector for lambdaMax: solve (a-lambda)vx + b*vy = 0.
	var vx, vy float64
	if b != 0 {
		vx = lambdaMax - c
		vy = b
	} else if a >= c {
		vx, vy = 1, 0
	} else {
		vx, vy = 0, 1
	}
	length := math.Sqrt(vx*vx + vy*vy)
	if length == 0 {
		vx, vy = 1, 0
	} else {
		vx /= length
		vy /= length
	}
	dir = geom2d.Point{X: vx, Y: vy}
	return ctr, dir
}

// quadform is a 3x3 symmetric matrix represented by its 6 distinct entries,
// used as Q(x,y,1) = [x y 1] Q [x y 1]^T to measure squared distance from a
// best-fit line.
type quadform struct {
	m00, m01, m02, m11, m12, m22 float64
}

func quadformFromLine(ctr, dir geom2d.Point) quadform {
	d := dir.X*dir.X + dir.Y*dir.Y
	if d == 0 {
		return quadform{}
	}
	v0, v1 := dir.Y, -dir.X
	v2 := -v1*ctr.Y - v0*ctr.X
	return quadform{
		m00: v0 * v0 / d,
		m01: v0 * v1 / d,
		m02: v0 * v2 / d,
		m11: v1 * v1 / d,
		m12: v1 * v2 / d,
		m22: v2 * v2 / d,
	}
}

func (q quadform) add(o quadform) quadform {
	return quadform{
		m00: q.m00 + o.m00, m01: q.m01 + o.m01, m02: q.m02 + o.m02,
		m11: q.m11 + o.m11, m12: q.m12 + o.m12, m22: q.m22 + o.m22,
	}
}

func (q quadform) eval(x, y float64) float64 {
	return x*x*q.m00 + 2*x*y*q.m01 + 2*x*q.m02 + y*y*q.m11 + 2*y*q.m12 + q.m22
}

// AdjustVertices fits each polygon vertex to the intersection of its two
// adjacent best-fit lines, minimizing the combined quadratic form within a
// unit square centered at the raw polygon vertex when the lines do not
// intersect cleanly inside it.
func (p *Path) AdjustVertices() {
	m := p.M
	n := p.N

	ctr := make([]geom2d.Point, m)
	dir := make([]geom2d.Point, m)
	for i := 0; i < m; i++ {
		j := p.Po[geom2d.Modulo(i+1, m)]
		j = geom2d.Modulo(j-p.Po[i], n) + p.Po[i]
		ctr[i], dir[i] = p.pointslope(p.Po[i], j)
	}

	q := make([]quadform, m)
	for i := 0; i < m; i++ {
		q[i] = quadformFromLine(ctr[i], dir[i])
	}

	vertex := make([]geom2d.Point, m)
	for i := 0; i < m; i++ {
		j := geom2d.Modulo(i-1, m)
		Q := q[j].add(q[i])

		px := p.Pt[p.Po[i]].X
		py := p.Pt[p.Po[i]].Y

		det := Q.m00*Q.m11 - Q.m01*Q.m01
		if det != 0 {
			x := (-Q.m02*Q.m11 + Q.m12*Q.m01) / det
			y := (Q.m02*Q.m01 - Q.m12*Q.m00) / det
			if abs1(x-px) <= 0.5 && abs1(y-py) <= 0.5 {
				vertex[i] = geom2d.Point{X: x + p.X0, Y: y + p.Y0}
				continue
			}
		}

		// Fall back to the minimum over the unit square's edges/corners.
		best := Q.eval(px, py)
		bestX, bestY := px, py

		if Q.m00 != 0 {
			for _, dy := range []float64{-0.5, 0.5} {
				y := py + dy
				x := -(Q.m02 + Q.m01*y) / Q.m00
				if abs1(x-px) <= 0.5 {
					if v := Q.eval(x, y); v < best {
						best, bestX, bestY = v, x, y
					}
				}
			}
		}
		if Q.m11 != 0 {
			for _, dx := range []float64{-0.5, 0.5} {
				x := px + dx
				y := -(Q.m12 + Q.m01*x) / Q.m11
				if abs1(y-py) <= 0.5 {
					if v := Q.eval(x, y); v < best {
						best, bestX, bestY = v, x, y
					}
				}
			}
		}
		for _, dx := range []float64{-0.5, 0.5} {
			for _, dy := range []float64{-0.5, 0.5} {
				x, y := px+dx, py+dy
				if v := Q.eval(x, y); v < best {
					best, bestX, bestY = v, x, y
				}
			}
		}

		vertex[i] = geom2d.Point{X: bestX + p.X0, Y: bestY + p.Y0}
	}

	p.Vertex = vertex
}
