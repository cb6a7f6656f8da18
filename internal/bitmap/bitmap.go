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

// Package bitmap holds the luminance/binary raster stages of the tracer:
// alpha-over-white compositing, binarization, and contour extraction on the
// pixel-edge grid (find-next, find-path, path XOR, majority voting).
package bitmap

import (
	"image"
	"math"
	"strconv"
)

// Bitmap is a composited luminance raster plus the per-channel values the
// histogram is built from. Index is y*W+x.
type Bitmap struct {
	W, H         int
	R, G, B, Lum []byte
}

func clamp255(v float64) byte {
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return byte(math.Round(v))
}

// FromNRGBA builds a Bitmap from a non-premultiplied RGBA buffer, alpha
// compositing each pixel over opaque white before computing luminance.
func FromNRGBA(img *image.NRGBA) *Bitmap {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bm := &Bitmap{
		W:   w,
		H:   h,
		R:   make([]byte, w*h),
		G:   make([]byte, w*h),
		B:   make([]byte, w*h),
		Lum: make([]byte, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			op := float64(c.A) / 255
			r := float64(c.R)*op + 255*(1-op)
			g := float64(c.G)*op + 255*(1-op)
			b := float64(c.B)*op + 255*(1-op)
			idx := y*w + x
			bm.R[idx] = clamp255(r)
			bm.G[idx] = clamp255(g)
			bm.B[idx] = clamp255(b)
			bm.Lum[idx] = clamp255(0.2126*r + 0.7153*g + 0.0721*b)
		}
	}
	return bm
}

// Binary is a w*h grid of 0/1 values; 1 means "foreground to trace".
type Binary struct {
	W, H int
	Data []byte
}

// Binarize marks pixels as foreground according to threshold and polarity.
// The polarity flip happens here so every downstream stage only ever sees
// "foreground", regardless of blackOnWhite.
func (bm *Bitmap) Binarize(threshold int, blackOnWhite bool) *Binary {
	data := make([]byte, bm.W*bm.H)
	for i, lum := range bm.Lum {
		var fg bool
		if blackOnWhite {
			fg = int(lum) <= threshold
		} else {
			fg = int(lum) >= threshold
		}
		if fg {
			data[i] = 1
		}
	}
	return &Binary{W: bm.W, H: bm.H, Data: data}
}

// at returns the pixel value at (x,y), or 0 ("no pixel") when out of range.
func (b *Binary) at(x, y int) byte {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return 0
	}
	return b.Data[y*b.W+x]
}

// FindNext returns the index of the next foreground cell in row-major order
// starting at from, or ok=false if none remains.
func (b *Binary) FindNext(from int) (idx int, ok bool) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(b.Data); i++ {
		if b.Data[i] != 0 {
			return i, true
		}
	}
	return 0, false
}

// TurnPolicy selects the tie-breaker used by FindPath when both diagonal
// neighbours at a step are equally valid turns.
type TurnPolicy int

const (
	TurnBlack TurnPolicy = iota
	TurnWhite
	TurnLeft
	TurnRight
	TurnMinority
	TurnMajority
)

// Contour is a closed pixel-edge path: pt[0]==pt[len-1], every consecutive
// pair differs by exactly one unit step in x or y.
type Contour struct {
	Pt                     []image.Point
	Area                   int
	MinX, MinY, MaxX, MaxY int
	Sign                   byte // '+' or '-'
}

// DegenerateContourError is panicked by FindPath when a contour walk does
// not return to its seed within a bound proportional to the bitmap size.
// On a well-formed binary bitmap this never triggers; hitting it means the
// bitmap was corrupted between construction and tracing.
type DegenerateContourError struct {
	Seed int
}

func (e *DegenerateContourError) Error() string {
	return "bitmap: contour walk starting at seed " + strconv.Itoa(e.Seed) + " failed to close"
}

func sgn(v byte) int {
	if v != 0 {
		return 1
	}
	return -1
}

// Majority is a weighted vote over increasing square rings around (x,y),
// used to resolve ambiguous turns under the minority/majority policies.
// Ties within a ring fall through to the next ring, up to radius 4, and
// default to false if every ring ties.
func (b *Binary) Majority(x, y int) bool {
	for i := 1; i <= 4; i++ {
		ct := 0
		for a := -i + 1; a <= i-1; a++ {
			ct += sgn(b.at(x+a, y+i))
			ct += sgn(b.at(x+i, y+a-1))
			ct += sgn(b.at(x+a-1, y-i-1))
			ct += sgn(b.at(x-i-1, y+a))
		}
		if ct > 0 {
			return true
		}
		if ct < 0 {
			return false
		}
	}
	return false
}

// resolveTurn decides, for an ambiguous step, whether to turn right (true)
// or left (false), as a pure function of policy, the contour's sign and the
// majority predicate at the current corner.
func resolveTurn(policy TurnPolicy, sign byte, b *Binary, x, y int) bool {
	switch policy {
	case TurnBlack:
		return sign == '+'
	case TurnWhite:
		return sign != '+'
	case TurnLeft:
		return false
	case TurnRight:
		return true
	case TurnMinority:
		return !b.Majority(x, y)
	case TurnMajority:
		return b.Majority(x, y)
	default:
		return true
	}
}

// FindPath walks the pixel-edge grid from seed (a flat row-major index that
// must be the upper-left corner of a foreground region) and returns the
// closed contour it traces.
func (b *Binary) FindPath(seed int, policy TurnPolicy) *Contour {
	seedX := seed % b.W
	seedY := seed / b.W

	sign := byte('-')
	if b.at(seedX, seedY) != 0 {
		sign = '+'
	}

	x, y := seedX, seedY
	dx, dy := 0, 1

	c := &Contour{
		MinX: x, MaxX: x,
		MinY: y, MaxY: y,
		Sign: sign,
	}

	maxSteps := 4*b.W*b.H + 16
	steps := 0

	for {
		steps++
		if steps > maxSteps {
			panic(&DegenerateContourError{Seed: seed})
		}
		c.Pt = append(c.Pt, image.Pt(x, y))
		if x < c.MinX {
			c.MinX = x
		}
		if x > c.MaxX {
			c.MaxX = x
		}
		if y < c.MinY {
			c.MinY = y
		}
		if y > c.MaxY {
			c.MaxY = y
		}

		leftX := x + (dx+dy-1)/2
		leftY := y + (dy-dx-1)/2
		rightX := x + (dx-dy-1)/2
		rightY := y + (dy+dx-1)/2
		left := b.at(leftX, leftY) != 0
		right := b.at(rightX, rightY) != 0

		// The walker keeps foreground on its left: both cells ahead set
		// turns right, neither set turns left, only the left one set goes
		// straight, and only the right one set is the ambiguous diagonal.
		switch {
		case right && !left:
			if resolveTurn(policy, sign, b, x, y) {
				dx, dy = -dy, dx
			} else {
				dx, dy = dy, -dx
			}
		case right:
			dx, dy = -dy, dx
		case !left:
			dx, dy = dy, -dx
		}

		c.Area -= x * dy

		x += dx
		y += dy
		if x == seedX && y == seedY {
			c.Pt = append(c.Pt, image.Pt(x, y))
			break
		}
	}

	return c
}

// XorPath flips foreground bits along horizontal spans interior to c, so
// that a subsequent FindNext will not rediscover the same region.
func (b *Binary) XorPath(c *Contour) {
	for i := 1; i < len(c.Pt); i++ {
		y0 := c.Pt[i-1].Y
		y1 := c.Pt[i].Y
		if y1 == y0 {
			continue
		}
		y := y0
		if y1 < y0 {
			y = y1
		}
		for x := c.Pt[i].X; x < c.MaxX; x++ {
			idx := y*b.W + x
			b.Data[idx] ^= 1
		}
	}
}
