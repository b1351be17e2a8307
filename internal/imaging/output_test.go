package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// testResult runs the default pipeline over a dark square on a light
// background.
func testResult(t *testing.T, w, h int) (*pipeline.Result, pipeline.Config) {
	t.Helper()
	buf, err := pipeline.NewPixelBuffer(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(200 + (x*7+y*13)%20)
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				v = 40
			}
			buf.Set(x, y, v)
		}
	}
	cfg := pipeline.DefaultConfig()
	p, err := pipeline.New(cfg)
	require.NoError(t, err)
	res, err := p.Run(buf)
	require.NoError(t, err)
	return res, cfg
}

func decodeEncoded(t *testing.T, e *EncodedImage) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(e.ImageBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestFromImage_SubImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range g.Pix {
		g.Pix[i] = uint8(i)
	}
	sub := g.SubImage(image.Rect(2, 3, 5, 5)).(*image.Gray)

	buf, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, []uint8{20, 21, 22, 26, 27, 28}, buf.Pix)
}

func TestFromImage_Empty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 5)))
	require.ErrorIs(t, err, pipeline.ErrInvalidDimension)
}

func TestToGrayAndRGBA(t *testing.T) {
	buf, err := pipeline.NewPixelBufferFrom(2, 1, []uint8{10, 250})
	require.NoError(t, err)
	g := ToGray(buf)
	assert.Equal(t, color.Gray{Y: 250}, g.GrayAt(1, 0))

	cb, err := pipeline.GrayToColor(buf)
	require.NoError(t, err)
	cb.Set(0, 0, pipeline.RGB{R: 1, G: 2, B: 3})
	rgba := ToRGBA(cb)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 250, G: 250, B: 250, A: 255}, rgba.RGBAAt(1, 0))
}

func TestEncodeStage(t *testing.T) {
	res, _ := testResult(t, 24, 16)

	for _, name := range append(append([]string{}, pipeline.StageNames...), pipeline.StageOverlay) {
		t.Run(name, func(t *testing.T) {
			enc, err := EncodeStage(res, name)
			require.NoError(t, err)
			assert.Equal(t, "image/png", enc.MimeType)
			assert.Equal(t, 24, enc.Width)
			assert.Equal(t, 16, enc.Height)

			img := decodeEncoded(t, enc)
			assert.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())
		})
	}

	enc, err := EncodeStage(res, pipeline.StageThresholded)
	require.NoError(t, err)
	back, err := FromImage(decodeEncoded(t, enc))
	require.NoError(t, err)
	assert.Equal(t, res.Thresholded.Pix, back.Pix)

	_, err = EncodeStage(res, "histogram")
	require.ErrorIs(t, err, pipeline.ErrInvalidParameter)
}

func TestEncodeColor_Nil(t *testing.T) {
	_, err := EncodeColor(nil)
	require.ErrorIs(t, err, pipeline.ErrInvalidDimension)
}

func TestPanel(t *testing.T) {
	res, _ := testResult(t, 40, 30)

	panel, err := Panel(res, DefaultTileWidth)
	require.NoError(t, err)
	wantW := panelColumns*(40+panelMargin) + panelMargin
	wantH := panelRows*(30+panelTitleBar+panelMargin) + panelMargin
	assert.Equal(t, image.Rect(0, 0, wantW, wantH), panel.Bounds())

	// The top-left tile holds the original image.
	x0, y0 := panelMargin, panelMargin+panelTitleBar
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			v := res.Original.At(x, y)
			require.Equal(t, color.NRGBA{R: v, G: v, B: v, A: 255}, panel.NRGBAAt(x0+x, y0+y))
		}
	}

	// The bottom-right tile holds the overlay.
	x5, y5 := panelMargin+2*(40+panelMargin), panelMargin+(30+panelTitleBar+panelMargin)+panelTitleBar
	pt := res.Contours[0][0]
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, panel.NRGBAAt(x5+pt.X, y5+pt.Y))
}

func TestPanel_Downscales(t *testing.T) {
	res, _ := testResult(t, 80, 40)

	panel, err := Panel(res, 20)
	require.NoError(t, err)
	wantW := panelColumns*(20+panelMargin) + panelMargin
	wantH := panelRows*(10+panelTitleBar+panelMargin) + panelMargin
	assert.Equal(t, image.Rect(0, 0, wantW, wantH), panel.Bounds())
}

func TestPanel_Invalid(t *testing.T) {
	_, err := Panel(nil, 0)
	require.ErrorIs(t, err, pipeline.ErrInvalidParameter)

	res, _ := testResult(t, 10, 10)
	res.Overlay = nil
	_, err = Panel(res, 0)
	require.ErrorIs(t, err, pipeline.ErrInvalidDimension)
}

func TestSaveResult(t *testing.T) {
	res, cfg := testResult(t, 32, 24)
	dir := filepath.Join(t.TempDir(), "nested", "output")

	report, err := SaveResult(dir, res, cfg, "scan.png")
	require.NoError(t, err)
	assert.Equal(t, dir, report.Dir)
	assert.Equal(t, len(res.Contours), report.ContourCount)

	names := []string{FileOriginal, FileBlurred, FileEqualized, FileThresholded, FileClosed, FileOverlay, FilePanel, FileContours}
	require.Len(t, report.Files, len(names))
	for i, name := range names {
		assert.Equal(t, filepath.Join(dir, name), report.Files[i])
		assert.FileExists(t, report.Files[i])
	}

	loaded, err := LoadGray(filepath.Join(dir, FileClosed))
	require.NoError(t, err)
	assert.Equal(t, res.Closed.Pix, loaded.Pix)

	data, err := os.ReadFile(filepath.Join(dir, FileContours))
	require.NoError(t, err)
	var doc ContourReport
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "scan.png", doc.Source)
	assert.Equal(t, 32, doc.Width)
	assert.Equal(t, 24, doc.Height)
	assert.Equal(t, cfg, doc.Config)
	assert.Equal(t, len(res.Contours), doc.Count)
	assert.Equal(t, res.Contours, doc.Contours)
}

func TestSaveResult_Overwrites(t *testing.T) {
	res, cfg := testResult(t, 16, 16)
	dir := t.TempDir()

	_, err := SaveResult(dir, res, cfg, "")
	require.NoError(t, err)
	_, err = SaveResult(dir, res, cfg, "")
	require.NoError(t, err)
}

func TestSaveResult_BadDir(t *testing.T) {
	res, cfg := testResult(t, 8, 8)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := SaveResult(filepath.Join(file, "sub"), res, cfg, "")
	require.Error(t, err)
}
