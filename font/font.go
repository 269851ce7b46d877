// Package font provides the fonts used by all renderers.
package font

import (
	"sync"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	once       sync.Once
	collection []font.FontFace
)

// Collection returns the faces for Gio's text shaper.
func Collection() []font.FontFace {
	once.Do(func() {
		c := gofont.Collection()
		n := len(c)
		collection = c[:n:n]
	})
	return collection
}

// RegularTTF returns the TrueType data of the regular face, for renderers that parse fonts themselves.
func RegularTTF() []byte { return goregular.TTF }

// BoldTTF is like RegularTTF, but for the bold face.
func BoldTTF() []byte { return gobold.TTF }
