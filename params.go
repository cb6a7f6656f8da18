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

import "seehuhn.de/go/potrace/internal/bitmap"

// TurnPolicy selects the tie-breaker used during contour extraction when
// both diagonal neighbours at a step are equally valid turns.
type TurnPolicy = bitmap.TurnPolicy

const (
	TurnBlack    = bitmap.TurnBlack
	TurnWhite    = bitmap.TurnWhite
	TurnLeft     = bitmap.TurnLeft
	TurnRight    = bitmap.TurnRight
	TurnMinority = bitmap.TurnMinority
	TurnMajority = bitmap.TurnMajority
)

// AutoThreshold requests that Params.Threshold be computed from the
// histogram rather than supplied explicitly.
const AutoThreshold = -1

// ColorAuto requests that Params.Color map to black or white depending on
// BlackOnWhite.
const ColorAuto = "AUTO"

// BackgroundTransparent requests no background rectangle in the SVG.
const BackgroundTransparent = "TRANSPARENT"

// Params controls a single trace. The zero value is not valid; use
// DefaultParams as a starting point.
type Params struct {
	TurnPolicy   TurnPolicy
	TurdSize     int
	AlphaMax     float64
	OptCurve     bool
	OptTolerance float64
	Threshold    int // 0..255, or AutoThreshold
	BlackOnWhite bool
	Color        string // "" or ColorAuto means automatic
	Background   string // "" or BackgroundTransparent means no rect
	Width        int    // 0 means "use the loaded image's width"
	Height       int    // 0 means "use the loaded image's height"
}

// DefaultParams returns the parameter set documented as potrace's defaults.
func DefaultParams() Params {
	return Params{
		TurnPolicy:   TurnMinority,
		TurdSize:     2,
		AlphaMax:     1.0,
		OptCurve:     true,
		OptTolerance: 0.2,
		Threshold:    AutoThreshold,
		BlackOnWhite: true,
		Color:        ColorAuto,
		Background:   BackgroundTransparent,
	}
}

// validate reports the first InvalidParameterError found in p, or nil.
func (p Params) validate() error {
	if p.TurdSize < 0 {
		return &InvalidParameterError{Name: "TurdSize", Reason: "must be >= 0"}
	}
	if p.AlphaMax < 0 || p.AlphaMax > 4.0/3.0 {
		return &InvalidParameterError{Name: "AlphaMax", Reason: "must be in [0, 4/3]"}
	}
	if p.OptTolerance <= 0 {
		return &InvalidParameterError{Name: "OptTolerance", Reason: "must be > 0"}
	}
	if p.Threshold != AutoThreshold && (p.Threshold < 0 || p.Threshold > 255) {
		return &InvalidParameterError{Name: "Threshold", Reason: "must be in [0,255] or AutoThreshold"}
	}
	if p.Width < 0 {
		return &InvalidParameterError{Name: "Width", Reason: "must be >= 0"}
	}
	if p.Height < 0 {
		return &InvalidParameterError{Name: "Height", Reason: "must be >= 0"}
	}
	return nil
}

// onlyColorOrBackgroundDiffers reports whether b differs from a in at most
// the Color and Background fields. setParameters uses this to decide
// whether a retrace is required.
func onlyColorOrBackgroundDiffers(a, b Params) bool {
	a.Color, b.Color = "", ""
	a.Background, b.Background = "", ""
	return a == b
}
