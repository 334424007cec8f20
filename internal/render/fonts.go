package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Text sizes in logical units, shared across renderers.
const (
	fontSizeTitle    = 64.0
	fontSizeSubtitle = 36.0
	fontSizeLabel    = 28.0
	fontSizeStat     = 44.0
	fontSizeStatName = 26.0
	fontSizeAxis     = 30.0
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// fonts returns the shared font source. Parsing the embedded TTF happens
// once per process; the source is safe to share across renders.
func fonts() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("%w: %v", ErrFontUnavailable, fontErr)
		}
	})
	return fontSource, fontErr
}
