package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// EncodedImage is an image encoded as base64 PNG, ready to embed in a JSON
// response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode PNG-encodes img and returns it as base64.
func Encode(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// EncodeGray encodes a grayscale pipeline buffer.
func EncodeGray(buf *pipeline.PixelBuffer) (*EncodedImage, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return Encode(ToGray(buf))
}

// EncodeColor encodes a color pipeline buffer.
func EncodeColor(buf *pipeline.ColorPixelBuffer) (*EncodedImage, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return nil, fmt.Errorf("%w: empty color buffer", pipeline.ErrInvalidDimension)
	}
	return Encode(ToRGBA(buf))
}

// EncodeStage encodes one named stage of a result. StageOverlay selects the
// color overlay; the other names select grayscale buffers.
func EncodeStage(res *pipeline.Result, name string) (*EncodedImage, error) {
	if name == pipeline.StageOverlay {
		return EncodeColor(res.Overlay)
	}
	buf, ok := res.Stage(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", pipeline.ErrInvalidParameter, name)
	}
	return EncodeGray(buf)
}
