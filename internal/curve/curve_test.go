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

package curve

import (
	"strings"
	"testing"

	"seehuhn.de/go/potrace/internal/geom2d"
)

func squareVertices() []geom2d.Point {
	return []geom2d.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
}

func TestReverseFullySwapsAllVertices(t *testing.T) {
	v := []geom2d.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	c := New(v, 1)
	c.Reverse()
	want := []float64{4, 3, 2, 1, 0}
	for i, p := range c.Vertex {
		if p.X != want[i] {
			t.Fatalf("Reverse: vertex[%d].X = %v, want %v (full reversal)", i, p.X, want[i])
		}
	}
}

func TestReverseEvenLength(t *testing.T) {
	v := []geom2d.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	c := New(v, 1)
	c.Reverse()
	want := []float64{3, 2, 1, 0}
	for i, p := range c.Vertex {
		if p.X != want[i] {
			t.Fatalf("Reverse(even): vertex[%d].X = %v, want %v", i, p.X, want[i])
		}
	}
}

func TestSmoothAllCornersForSquare(t *testing.T) {
	c := New(squareVertices(), 1)
	c.Smooth(1.0)
	for i, tag := range c.Tag {
		if tag != TagCorner {
			t.Errorf("segment %d tagged %v, want CORNER for an axis-aligned square with alphaMax=1.0", i, tag)
		}
	}
}

func TestSmoothLowAlphaMaxProducesCurves(t *testing.T) {
	// A smoothly turning hexagon with a very permissive
	// alphaMax should produce at least one CURVE tag.
	v := []geom2d.Point{
		{X: 0, Y: 0},
		{X: 2, Y: 1},
		{X: 2, Y: 3},
		{X: 0, Y: 4},
		{X: -2, Y: 3},
		{X: -2, Y: 1},
	}
	c := New(v, 1)
	c.Smooth(4.0 / 3.0)
	found := false
	for _, tag := range c.Tag {
		if tag == TagCurve {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one CURVE tag with a permissive alphaMax")
	}
}

func TestOptimizeNeverIncreasesSegmentCount(t *testing.T) {
	v := squareVertices()
	c := New(v, 1)
	c.Smooth(1.0)
	out := c.Optimize(0.2)
	if out.N > c.N {
		t.Fatalf("Optimize produced %d segments, want <= %d", out.N, c.N)
	}
}

func TestOptimizeOnSingleSegmentIsNoop(t *testing.T) {
	v := []geom2d.Point{{X: 0, Y: 0}}
	c := New(v, 1)
	c.Smooth(1.0)
	out := c.Optimize(0.2)
	if out.N != c.N {
		t.Fatalf("Optimize(N=%d) = %d, want unchanged", c.N, out.N)
	}
}

func TestRenderStartsWithMoveTo(t *testing.T) {
	c := New(squareVertices(), 1)
	c.Smooth(1.0)
	svg := c.Render(1, 1)
	if !strings.HasPrefix(svg, "M ") {
		t.Fatalf("Render output %q does not start with M command", svg)
	}
}

func TestRenderTrimsTrailingZeroDecimals(t *testing.T) {
	c := New(squareVertices(), 1)
	c.Smooth(1.0)
	svg := c.Render(1, 1)
	if strings.Contains(svg, ".000") {
		t.Fatalf("Render output %q should have trailing .000 trimmed", svg)
	}
}

func TestRenderUsesCommaBetweenBezierControlPoints(t *testing.T) {
	v := []geom2d.Point{
		{X: 0, Y: 0},
		{X: 2, Y: 1},
		{X: 2, Y: 3},
		{X: 0, Y: 4},
		{X: -2, Y: 3},
		{X: -2, Y: 1},
	}
	c := New(v, 1)
	c.Smooth(4.0 / 3.0)
	svg := c.Render(1, 1)
	if strings.Contains(svg, "C ") && !strings.Contains(svg, ",") {
		t.Fatalf("Render output %q has a C command but no comma separators", svg)
	}
}

func TestFormatNumTrimsExactZero(t *testing.T) {
	if got := formatNum(5.0); got != "5" {
		t.Errorf("formatNum(5.0) = %q, want \"5\"", got)
	}
	if got := formatNum(5.25); got != "5.250" {
		t.Errorf("formatNum(5.25) = %q, want \"5.250\"", got)
	}
}
