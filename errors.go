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
	"errors"
	"fmt"
)

// ErrImageNotLoaded is returned by any trace emitter invoked before Load.
var ErrImageNotLoaded = errors.New("potrace: no image loaded")

// InvalidParameterError reports a Params field outside its valid range.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("potrace: invalid parameter %s: %s", e.Name, e.Reason)
}

// DegenerateContourError is the panic value raised when a contour walk
// fails to close within a bound proportional to the image size. It
// indicates a malformed binary bitmap (a programmer error, not a caller
// input the library can sanitize), so it is fatal rather than a returned
// error.
type DegenerateContourError struct {
	Seed int
}

func (e *DegenerateContourError) Error() string {
	return fmt.Sprintf("potrace: contour seeded at %d failed to close", e.Seed)
}
