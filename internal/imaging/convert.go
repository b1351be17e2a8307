package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// FromImage converts any image to an 8-bit grayscale buffer. Gray images
// are copied directly; everything else goes through imaging.Grayscale.
// Alpha is ignored.
func FromImage(img image.Image) (*pipeline.PixelBuffer, error) {
	b := img.Bounds()
	buf, err := pipeline.NewPixelBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < buf.Height; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(buf.Pix[y*buf.Width:(y+1)*buf.Width], g.Pix[off:off+buf.Width])
		}
		return buf, nil
	}

	gray := imaging.Grayscale(img)
	for y := 0; y < buf.Height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < buf.Width; x++ {
			buf.Pix[y*buf.Width+x] = row[4*x]
		}
	}
	return buf, nil
}

// ToGray wraps a grayscale buffer as an *image.Gray. The pixels are copied.
func ToGray(buf *pipeline.PixelBuffer) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	copy(img.Pix, buf.Pix)
	return img
}

// ToRGBA converts a color buffer to an opaque *image.RGBA.
func ToRGBA(buf *pipeline.ColorPixelBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for i, j := 0, 0; i < len(buf.Pix); i, j = i+3, j+4 {
		img.Pix[j] = buf.Pix[i]
		img.Pix[j+1] = buf.Pix[i+1]
		img.Pix[j+2] = buf.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// ToColor converts a pipeline color to a standard library color.
func ToColor(c pipeline.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
