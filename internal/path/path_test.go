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

package path

import (
	"image"
	"testing"

	"seehuhn.de/go/potrace/internal/bitmap"
)

// unitSquareContour builds the 4-step closed contour of a single
// foreground pixel at (4,4): the cycle bitmap.FindPath traces for it,
// started one step later at (4,5) instead of at the seed (4,4).
func unitSquareContour() *bitmap.Contour {
	return &bitmap.Contour{
		Pt: []image.Point{
			{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 5},
		},
		Area: 1,
		MinX: 4, MinY: 4, MaxX: 5, MaxY: 5,
		Sign: '+',
	}
}

func runPipeline(c *bitmap.Contour) *Path {
	p := FromContour(c)
	p.CalcSums()
	p.CalcLon()
	p.BestPolygon()
	p.AdjustVertices()
	return p
}

func TestPipelineUnitSquareProducesClosedPolygon(t *testing.T) {
	p := runPipeline(unitSquareContour())

	if p.N != 4 {
		t.Fatalf("expected 4 contour points, got %d", p.N)
	}
	if p.M < 1 {
		t.Fatalf("expected at least one polygon vertex, got %d", p.M)
	}
	if len(p.Vertex) != p.M {
		t.Fatalf("len(Vertex) = %d, want %d", len(p.Vertex), p.M)
	}
	for _, idx := range p.Po {
		if idx < 0 || idx >= p.N {
			t.Fatalf("polygon index %d out of range [0,%d)", idx, p.N)
		}
	}
}

func TestCalcSumsMatchesBruteForce(t *testing.T) {
	p := FromContour(unitSquareContour())
	p.CalcSums()

	var wantX, wantY, wantXY, wantX2, wantY2 float64
	for i := 0; i < p.N; i++ {
		wantX += p.Pt[i].X
		wantY += p.Pt[i].Y
		wantXY += p.Pt[i].X * p.Pt[i].Y
		wantX2 += p.Pt[i].X * p.Pt[i].X
		wantY2 += p.Pt[i].Y * p.Pt[i].Y
	}
	last := p.sums[p.N]
	if last.X != wantX || last.Y != wantY || last.XY != wantXY || last.X2 != wantX2 || last.Y2 != wantY2 {
		t.Fatalf("CalcSums final entry = %+v, want sums (%v,%v,%v,%v,%v)", last, wantX, wantY, wantXY, wantX2, wantY2)
	}
}

func TestCalcLonIndicesInRange(t *testing.T) {
	p := FromContour(unitSquareContour())
	p.CalcSums()
	p.CalcLon()

	if len(p.Lon) != p.N {
		t.Fatalf("len(Lon) = %d, want %d", len(p.Lon), p.N)
	}
	for i, v := range p.Lon {
		if v < 0 || v >= 2*p.N {
			t.Fatalf("Lon[%d] = %d out of plausible range", i, v)
		}
	}
}

func TestAdjustVerticesOffsetsBackToOrigin(t *testing.T) {
	p := runPipeline(unitSquareContour())
	for _, v := range p.Vertex {
		if v.X < p.X0-1 || v.X > p.X0+float64(p.MaxX-p.MinX)+1 {
			t.Fatalf("vertex x=%v looks un-offset relative to X0=%v", v.X, p.X0)
		}
	}
}

func TestBoundingBoxMatchesContourExtent(t *testing.T) {
	p := FromContour(unitSquareContour())
	box := p.BoundingBox()
	if box.LLx != 4 || box.LLy != 4 || box.URx != 5 || box.URy != 5 {
		t.Fatalf("BoundingBox = %+v, want {4 4 5 5}", box)
	}
}
