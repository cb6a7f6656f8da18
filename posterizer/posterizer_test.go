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

package posterizer

import (
	"image"
	"image/color"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"seehuhn.de/go/potrace"
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

func gradientImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for x := 0; x < 256; x++ {
		v := byte(x)
		img.SetNRGBA(x, 0, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	return img
}

func TestEmptyImagePosterizerHasNoNonEmptyPaths(t *testing.T) {
	tr := potrace.NewTracer()
	tr.Load(whiteImage(10, 10))

	z := New(tr, DefaultParams())
	svg, err := z.GetSVG()
	if err != nil {
		t.Fatal(err)
	}

	re := regexp.MustCompile(`<path[^>]*d="[^"]+"[^>]*/>`)
	if re.MatchString(svg) {
		t.Errorf("expected no non-empty <path> tags, got %s", svg)
	}
}

func TestGradientPosterizerThreeLayersMonotonicOpacity(t *testing.T) {
	tr := potrace.NewTracer()
	tr.Load(gradientImage())
	p := potrace.DefaultParams()
	p.TurdSize = 0
	p.BlackOnWhite = true
	if err := tr.SetParameters(p); err != nil {
		t.Fatal(err)
	}

	params := DefaultParams()
	params.StepCount = 3
	params.FillStrategy = FillMean
	z := New(tr, params)

	svg, err := z.GetSVG()
	if err != nil {
		t.Fatal(err)
	}

	re := regexp.MustCompile(`fill-opacity="([0-9.]+)"`)
	matches := re.FindAllStringSubmatch(svg, -1)
	if len(matches) == 0 {
		t.Fatalf("expected at least one fill-opacity attribute, got %s", svg)
	}

	var opacities []float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			t.Fatal(err)
		}
		if v <= 0 || v > 1 {
			t.Errorf("opacity %v out of (0,1]", v)
		}
		opacities = append(opacities, v)
	}
	for i := 1; i < len(opacities); i++ {
		if opacities[i] <= opacities[i-1] {
			t.Errorf("opacities not strictly monotonic: %v", opacities)
		}
	}
}

func TestWithOpacityInsertsAttributeBeforeSelfClose(t *testing.T) {
	tag := `<path d="M 0 0" stroke="none" fill="black" fill-rule="evenodd"/>`
	got := withOpacity(tag, 0.5)
	if !strings.Contains(got, `fill-opacity="0.500"`) {
		t.Errorf("withOpacity output %q missing fill-opacity", got)
	}
	if !strings.HasSuffix(got, "/>") {
		t.Errorf("withOpacity output %q should still self-close", got)
	}
}

func TestDedupeRemovesDuplicatesKeepsSorted(t *testing.T) {
	got := dedupe([]int{5, 1, 5, 3, 1})
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupe = %v, want %v", got, want)
		}
	}
}
