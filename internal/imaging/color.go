package imaging

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// namedColors are the highlight colors accepted by name.
var namedColors = map[string]pipeline.RGB{
	"red":     {R: 255},
	"green":   {G: 255},
	"blue":    {B: 255},
	"yellow":  {R: 255, G: 255},
	"cyan":    {G: 255, B: 255},
	"magenta": {R: 255, B: 255},
	"white":   {R: 255, G: 255, B: 255},
	"black":   {},
}

// ParseColor parses a highlight color. It accepts the names listed in
// namedColors and hex strings of the form "#RRGGBB" or "#RGB"; the leading
// '#' is optional.
func ParseColor(s string) (pipeline.RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if s == "" {
		return pipeline.RGB{}, fmt.Errorf("%w: empty color", pipeline.ErrInvalidParameter)
	}
	if s[0] != '#' {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return pipeline.RGB{}, fmt.Errorf("%w: invalid color %q", pipeline.ErrInvalidParameter, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return pipeline.RGB{}, fmt.Errorf("%w: invalid color %q: %v", pipeline.ErrInvalidParameter, s, err)
	}
	r, g, b := c.RGB255()
	return pipeline.RGB{R: r, G: g, B: b}, nil
}

// ColorHex formats c as "#rrggbb".
func ColorHex(c pipeline.RGB) string {
	cc, _ := colorful.MakeColor(ToColor(c))
	return cc.Hex()
}
