// Package fonts provides the typeface used for raster exports.
//
// Labels are drawn with Go Regular, which ships inside golang.org/x/image,
// so exports look the same on every machine without a system font lookup.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is the CSS font stack used by vector exports.
const Family = "Go, Helvetica, Arial, sans-serif"

// Parsed once on first access.
var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse go regular: %w", regularErr)
		}
	})
	return regular, regularErr
}

// Face returns a Go Regular face at the given point size.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull}), nil
}
