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

// Package geom2d provides the 2D point and vector arithmetic shared by the
// bitmap, path and curve stages of the tracer: cross and inner products,
// parallelogram area, cubic/quadratic helpers, Bezier evaluation and the
// tangent solver used by curve optimization.
package geom2d

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point is the tracer's 2D point type, reusing the library's vector type
// instead of introducing a parallel one.
type Point = vec.Vec2

// Sub returns p-q.
func Sub(p, q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p+q.
func Add(p, q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p scaled by s.
func Scale(p Point, s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Modulo returns a mod n with the result always in [0,n), handling negative
// a the way the cyclic contour/polygon indices require.
func Modulo(a, n int) int {
	if n == 0 {
		return 0
	}
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Cyclic reports whether b lies in the half-open range [a,c) when walking
// forward cyclically, i.e. a<=b<c<a in modular arithmetic.
func Cyclic(a, b, c int) bool {
	if a <= c {
		return a <= b && b < c
	}
	return a <= b || b < c
}

// Interval returns the point at parameter lambda on the segment p0->p1.
func Interval(lambda float64, p0, p1 Point) Point {
	return Point{
		X: p0.X + lambda*(p1.X-p0.X),
		Y: p0.Y + lambda*(p1.Y-p0.Y),
	}
}

// Midpoint returns the point halfway between p0 and p1.
func Midpoint(p0, p1 Point) Point {
	return Interval(0.5, p0, p1)
}

// DorthInfty returns a direction 90 degrees counterclockwise from p2-p0,
// restricted to one of the eight major compass directions.
func DorthInfty(p0, p2 Point) Point {
	return Point{X: -Sign(p2.Y - p0.Y), Y: Sign(p2.X - p0.X)}
}

// Ddenom has the property that the unit disc centered at p1 intersects the
// line p0-p2 iff |AreaOfParallelogram(p0,p1,p2)| <= Ddenom(p0,p2).
func Ddenom(p0, p2 Point) float64 {
	d := DorthInfty(p0, p2)
	return d.Y*(p2.X-p0.X) - d.X*(p2.Y-p0.Y)
}

// AreaOfParallelogram returns (b-a)x(c-a), the signed area of the
// parallelogram spanned by the two edges from a.
func AreaOfParallelogram(a, b, c Point) float64 {
	ux, uy := b.X-a.X, b.Y-a.Y
	vx, vy := c.X-a.X, c.Y-a.Y
	return ux*vy - vx*uy
}

// CrossProduct returns u x v.
func CrossProduct(u, v Point) float64 {
	return u.X*v.Y - u.Y*v.X
}

// CubicCrossProduct returns (p1-p0)x(p3-p2).
func CubicCrossProduct(p0, p1, p2, p3 Point) float64 {
	ux, uy := p1.X-p0.X, p1.Y-p0.Y
	vx, vy := p3.X-p2.X, p3.Y-p2.Y
	return ux*vy - uy*vx
}

// QuadraticInnerProduct returns (p1-p0).(p2-p0).
func QuadraticInnerProduct(p0, p1, p2 Point) float64 {
	ux, uy := p1.X-p0.X, p1.Y-p0.Y
	vx, vy := p2.X-p0.X, p2.Y-p0.Y
	return ux*vx + uy*vy
}

// CubicInnerProduct returns (p1-p0).(p3-p2).
func CubicInnerProduct(p0, p1, p2, p3 Point) float64 {
	ux, uy := p1.X-p0.X, p1.Y-p0.Y
	vx, vy := p3.X-p2.X, p3.Y-p2.Y
	return ux*vx + uy*vy
}

// Distance returns the Euclidean distance between u and v.
func Distance(u, v Point) float64 {
	dx, dy := u.X-v.X, u.Y-v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Bezier evaluates the cubic Bezier p0,p1,p2,p3 at parameter t.
func Bezier(t float64, p0, p1, p2, p3 Point) Point {
	s := 1 - t
	x := s*s*s*p0.X + 3*s*s*t*p1.X + 3*s*t*t*p2.X + t*t*t*p3.X
	y := s*s*s*p0.Y + 3*s*s*t*p1.Y + 3*s*t*t*p2.Y + t*t*t*p3.Y
	return Point{X: x, Y: y}
}

// Tangent finds the point t in [0,1] on the Bezier p0,p1,p2,p3 (given as
// the two cubic cross/inner products relative to a query direction q0->q1)
// at which the curve's tangent is parallel to q1-q0, returning -1 if no
// such parameter exists in range. This mirrors the "tangent" helper used by
// curve-run optimization to validate candidate consolidated Beziers.
func Tangent(p0, p1, p2, p3, q0, q1 Point) float64 {
	A := CubicCrossProduct(p0, p1, q0, q1)
	B := CubicCrossProduct(p1, p2, q0, q1)
	C := CubicCrossProduct(p2, p3, q0, q1)

	a := A - 2*B + C
	b := -2*A + 2*B
	c := A

	d := b*b - 4*a*c
	if a == 0 || d < 0 {
		return -1
	}
	s := math.Sqrt(d)

	var r1, r2 float64
	if a != 0 {
		r1 = (-b + s) / (2 * a)
		r2 = (-b - s) / (2 * a)
	}

	switch {
	case r1 >= 0 && r1 <= 1:
		return r1
	case r2 >= 0 && r2 <= 1:
		return r2
	default:
		return -1
	}
}
