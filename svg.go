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
	"fmt"
	"strconv"
	"strings"
)

// pathData concatenates every traced curve's rendered path-data into one
// string, scaled to the output size. Nested contours rely on the
// fill-rule="evenodd" on the containing <path> to render holes correctly.
func (t *Tracer) pathData() string {
	sx, sy := t.scale()
	parts := make([]string, 0, len(t.curves))
	for _, cv := range t.curves {
		d := cv.Render(sx, sy)
		if d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}

// GetPathTag returns a single `<path>` element covering every contour
// traced from the loaded image. An empty fillColor uses the parameters'
// resolved color.
func (t *Tracer) GetPathTag(fillColor string) (string, error) {
	if err := t.ensureTraced(); err != nil {
		return "", err
	}
	color := fillColor
	if color == "" {
		color = t.resolveColor()
	}
	d := t.pathData()
	return fmt.Sprintf(`<path d="%s" stroke="none" fill="%s" fill-rule="evenodd"/>`, d, color), nil
}

// GetSymbol returns a `<symbol>` element wrapping the traced path, with the
// given id and a viewBox matching the output size.
func (t *Tracer) GetSymbol(id string) (string, error) {
	pathTag, err := t.GetPathTag("")
	if err != nil {
		return "", err
	}
	w, h := t.outputSize()
	return fmt.Sprintf(`<symbol viewBox="0 0 %d %d" id="%s">%s</symbol>`, w, h, id, pathTag), nil
}

// GetSVG returns a complete standalone SVG document containing the traced
// path and, if configured, a background rectangle.
func (t *Tracer) GetSVG() (string, error) {
	pathTag, err := t.GetPathTag("")
	if err != nil {
		return "", err
	}
	w, h := t.outputSize()

	var bg string
	if bgColor := t.params.Background; bgColor != "" && bgColor != BackgroundTransparent {
		bg = fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, w, h, bgColor)
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="`)
	b.WriteString(strconv.Itoa(w))
	b.WriteString(`" height="`)
	b.WriteString(strconv.Itoa(h))
	b.WriteString(`" viewBox="0 0 `)
	b.WriteString(strconv.Itoa(w))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(h))
	b.WriteString(`" version="1.1">`)
	b.WriteString(bg)
	b.WriteString(pathTag)
	b.WriteString(`</svg>`)
	return b.String(), nil
}
