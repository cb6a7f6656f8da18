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

package potrace

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func setBlack(img *image.NRGBA, x, y int) {
	img.SetNRGBA(x, y, color.NRGBA{A: 255})
}

func TestEmptyImageProducesEmptyPath(t *testing.T) {
	tr := NewTracer()
	tr.Load(whiteImage(10, 10))

	d, err := tr.GetPathTag("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d, `d=""`) {
		t.Errorf("path tag %q should have empty d attribute", d)
	}

	svg, err := tr.GetSVG()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `viewBox="0 0 10 10"`) {
		t.Errorf("svg %q missing expected viewBox", svg)
	}
}

func TestSingleBlackPixelTraces(t *testing.T) {
	img := whiteImage(10, 10)
	setBlack(img, 4, 4)

	tr := NewTracer()
	p := DefaultParams()
	p.TurdSize = 0
	tr.Load(img)
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}

	if err := tr.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	if len(tr.curves) != 1 {
		t.Fatalf("expected exactly 1 curve, got %d", len(tr.curves))
	}
}

func TestCheckerboardTurdSizeFiltersAllContours(t *testing.T) {
	img := whiteImage(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if (x+y)%2 == 0 {
				setBlack(img, x, y)
			}
		}
	}

	p0 := DefaultParams()
	p0.TurdSize = 0
	tr0 := NewTracer()
	tr0.Load(img)
	if err := tr0.SetParameters(p0); err != nil {
		t.Fatal(err)
	}
	if err := tr0.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	if len(tr0.curves) != 50 {
		t.Errorf("turdSize=0: expected 50 curves, got %d", len(tr0.curves))
	}

	p1 := DefaultParams()
	p1.TurdSize = 1
	tr1 := NewTracer()
	tr1.Load(img)
	if err := tr1.SetParameters(p1); err != nil {
		t.Fatal(err)
	}
	if err := tr1.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	if len(tr1.curves) != 0 {
		t.Errorf("turdSize=1: expected 0 curves, got %d", len(tr1.curves))
	}
}

func TestVerticalStripeTracesSingleCurve(t *testing.T) {
	img := whiteImage(10, 10)
	for y := 0; y < 10; y++ {
		for x := 3; x <= 6; x++ {
			setBlack(img, x, y)
		}
	}

	p := DefaultParams()
	p.TurdSize = 0
	tr := NewTracer()
	tr.Load(img)
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}
	if err := tr.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	if len(tr.curves) != 1 {
		t.Fatalf("expected 1 curve, got %d", len(tr.curves))
	}
	for _, tag := range tr.curves[0].Tag {
		if tag != 0 { // TagCorner
			t.Errorf("expected all CORNER tags at alphaMax=1.0, got %v", tag)
		}
	}

	d, err := tr.GetPathTag("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d, `d="M 6`) {
		t.Errorf("path %q should start at M 6.000...", d)
	}
}

func TestSetParametersIdempotentOutput(t *testing.T) {
	img := whiteImage(10, 10)
	setBlack(img, 4, 4)

	tr := NewTracer()
	tr.Load(img)
	p := DefaultParams()
	p.TurdSize = 0
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}

	out1, err := tr.GetPathTag("")
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}
	out2, err := tr.GetPathTag("")
	if err != nil {
		t.Fatal(err)
	}
	if out1 != out2 {
		t.Errorf("identical SetParameters calls produced different output:\n%s\nvs\n%s", out1, out2)
	}
}

func TestColorOnlyChangeDoesNotRetrace(t *testing.T) {
	img := whiteImage(10, 10)
	setBlack(img, 4, 4)

	tr := NewTracer()
	tr.Load(img)
	p := DefaultParams()
	p.TurdSize = 0
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}
	if err := tr.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	before := tr.curves

	p.Color = "red"
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}
	if !tr.traced {
		t.Error("changing only Color should not invalidate the traced curves")
	}
	if err := tr.ensureTraced(); err != nil {
		t.Fatal(err)
	}
	after := tr.curves

	if len(before) != len(after) || (len(before) > 0 && &before[0] != &after[0]) {
		t.Error("color-only change retraced instead of reusing the curve list")
	}
}

func TestGetPathTagBeforeLoadReturnsError(t *testing.T) {
	tr := NewTracer()
	_, err := tr.GetPathTag("")
	if err != ErrImageNotLoaded {
		t.Errorf("GetPathTag before Load = %v, want ErrImageNotLoaded", err)
	}
}

func TestSetParametersRejectsInvalidThreshold(t *testing.T) {
	tr := NewTracer()
	p := DefaultParams()
	p.Threshold = 300
	if err := tr.SetParameters(p); err == nil {
		t.Error("expected an error for an out-of-range threshold")
	}
}
