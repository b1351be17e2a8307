package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// Panel layout constants, in pixels.
const (
	panelMargin   = 8
	panelTitleBar = 18
	panelColumns  = 3
	panelRows     = 2

	// DefaultTileWidth caps the width of each tile in the overview panel.
	DefaultTileWidth = 400
)

// PanelTitles are the tile captions in row-major order.
var PanelTitles = []string{"Original", "Blurred", "Equalized", "Thresholded", "Closed", "Final Output"}

// Panel renders the five grayscale stages and the overlay as a 2x3 grid of
// captioned tiles on a white background.
//
// Tiles wider than tileWidth are downscaled with their aspect ratio kept;
// a non-positive tileWidth keeps the original size.
func Panel(res *pipeline.Result, tileWidth int) (*image.NRGBA, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nil result", pipeline.ErrInvalidParameter)
	}

	tiles := make([]image.Image, 0, len(PanelTitles))
	for _, name := range pipeline.StageNames {
		buf, _ := res.Stage(name)
		if err := buf.Validate(); err != nil {
			return nil, fmt.Errorf("stage %s: %w", name, err)
		}
		tiles = append(tiles, ToGray(buf))
	}
	if res.Overlay == nil {
		return nil, fmt.Errorf("stage %s: %w: missing overlay", pipeline.StageOverlay, pipeline.ErrInvalidDimension)
	}
	tiles = append(tiles, ToRGBA(res.Overlay))

	w, h := res.Original.Width, res.Original.Height
	if tileWidth > 0 && w > tileWidth {
		h = max(1, h*tileWidth/w)
		w = tileWidth
		for i, t := range tiles {
			tiles[i] = imaging.Resize(t, w, h, imaging.Lanczos)
		}
	}

	cellW := w + panelMargin
	cellH := h + panelTitleBar + panelMargin
	dst := imaging.New(panelColumns*cellW+panelMargin, panelRows*cellH+panelMargin, color.White)

	for i, t := range tiles {
		x := panelMargin + (i%panelColumns)*cellW
		y := panelMargin + (i/panelColumns)*cellH
		drawTitle(dst, x, y+panelTitleBar-5, PanelTitles[i])
		dst = imaging.Paste(dst, t, image.Pt(x, y+panelTitleBar))
	}
	return dst, nil
}

// drawTitle writes text with its baseline at (x, y).
func drawTitle(img *image.NRGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
