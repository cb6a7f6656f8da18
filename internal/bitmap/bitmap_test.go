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

package bitmap

import (
	"image"
	"image/color"
	"testing"
)

func solidNRGBA(w, h int, r, g, b, a uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

func TestFromNRGBAAllWhiteIsLuminance255(t *testing.T) {
	img := solidNRGBA(4, 4, 255, 255, 255, 255)
	bm := FromNRGBA(img)
	for _, l := range bm.Lum {
		if l != 255 {
			t.Fatalf("expected luminance 255, got %d", l)
		}
	}
}

func TestFromNRGBAAllBlackIsLuminance0(t *testing.T) {
	img := solidNRGBA(4, 4, 0, 0, 0, 255)
	bm := FromNRGBA(img)
	for _, l := range bm.Lum {
		if l != 0 {
			t.Fatalf("expected luminance 0, got %d", l)
		}
	}
}

func TestBinarizeSinglePixel(t *testing.T) {
	img := solidNRGBA(10, 10, 255, 255, 255, 255)
	img.SetNRGBA(4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	bm := FromNRGBA(img)
	bin := bm.Binarize(128, true)

	count := 0
	for _, v := range bin.Data {
		if v != 0 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one foreground pixel, got %d", count)
	}
	if bin.Data[4*10+4] == 0 {
		t.Fatal("expected pixel (4,4) to be foreground")
	}
}

func TestFindPathSinglePixelArea(t *testing.T) {
	img := solidNRGBA(10, 10, 255, 255, 255, 255)
	img.SetNRGBA(4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	bm := FromNRGBA(img)
	bin := bm.Binarize(128, true)

	idx, ok := bin.FindNext(0)
	if !ok {
		t.Fatal("expected to find a foreground seed")
	}

	c := bin.FindPath(idx, TurnMinority)
	if c.Area != 1 && c.Area != -1 {
		t.Fatalf("expected |area|==1 for a single foreground pixel, got %d", c.Area)
	}
	if c.MinX != 4 || c.MaxX != 5 || c.MinY != 4 || c.MaxY != 5 {
		t.Fatalf("unexpected bbox: (%d,%d)-(%d,%d)", c.MinX, c.MinY, c.MaxX, c.MaxY)
	}
	if c.Pt[0] != c.Pt[len(c.Pt)-1] {
		t.Fatal("contour must close: pt[0] == pt[len]")
	}
	for i := 1; i < len(c.Pt); i++ {
		dx := c.Pt[i].X - c.Pt[i-1].X
		dy := c.Pt[i].Y - c.Pt[i-1].Y
		if (dx != 0) == (dy != 0) {
			t.Fatalf("step %d is not a unit step in exactly one axis: (%d,%d)", i, dx, dy)
		}
		if dx*dx+dy*dy != 1 {
			t.Fatalf("step %d is not a unit step: (%d,%d)", i, dx, dy)
		}
	}
}

func TestXorPathPreventsRediscovery(t *testing.T) {
	img := solidNRGBA(10, 10, 255, 255, 255, 255)
	img.SetNRGBA(4, 4, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	bm := FromNRGBA(img)
	bin := bm.Binarize(128, true)

	seed, ok := bin.FindNext(0)
	if !ok {
		t.Fatal("expected a seed")
	}
	c := bin.FindPath(seed, TurnMinority)
	bin.XorPath(c)

	if _, ok := bin.FindNext(seed + 1); ok {
		t.Fatal("expected no further foreground pixels after xoring the only contour")
	}
}

func TestCheckerboardContourCount(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	bm := FromNRGBA(img)
	bin := bm.Binarize(128, true)

	count := 0
	from := 0
	for {
		idx, ok := bin.FindNext(from)
		if !ok {
			break
		}
		c := bin.FindPath(idx, TurnMinority)
		bin.XorPath(c)
		count++
		from = idx + 1
	}
	if count != 50 {
		t.Fatalf("expected 50 single-pixel contours on a checkerboard, got %d", count)
	}
}
