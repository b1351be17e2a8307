package pipeline

import "fmt"

// MorphBorder selects how erosion and dilation treat neighborhood samples
// that fall outside the image.
type MorphBorder int

const (
	// BorderBackground treats out-of-bounds samples as background. Erosion
	// therefore clears foreground pixels on the image frame.
	BorderBackground MorphBorder = iota

	// BorderIgnore skips out-of-bounds samples, so the image frame neither
	// grows nor erodes foreground.
	BorderIgnore
)

// String returns the configuration name of the policy.
func (m MorphBorder) String() string {
	switch m {
	case BorderBackground:
		return "background"
	case BorderIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("MorphBorder(%d)", int(m))
	}
}

// Dilate returns a mask where a pixel is foreground if any pixel under se,
// centered on it, is foreground in src.
func Dilate(src *PixelBuffer, se *StructuringElement, border MorphBorder) (*PixelBuffer, error) {
	return morph(src, se, border, true)
}

// Erode returns a mask where a pixel is foreground only if every pixel under
// se, centered on it, is foreground in src.
func Erode(src *PixelBuffer, se *StructuringElement, border MorphBorder) (*PixelBuffer, error) {
	return morph(src, se, border, false)
}

// Close performs a morphological closing (dilation followed by erosion) of
// the binary mask src with a size×size all-ones structuring element. Small
// background gaps enclosed by foreground are filled. The result is a new
// mask; closing it again yields the same mask.
func Close(src *PixelBuffer, size int, border MorphBorder) (*PixelBuffer, error) {
	se, err := NewRectElement(size)
	if err != nil {
		return nil, err
	}
	dilated, err := Dilate(src, se, border)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, se, border)
}

func morph(src *PixelBuffer, se *StructuringElement, border MorphBorder, dilate bool) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if se == nil {
		return nil, fmt.Errorf("%w: nil structuring element", ErrInvalidParameter)
	}
	if err := checkOddSize("structuring element size", se.Size); err != nil {
		return nil, err
	}
	if len(se.Mask) != se.Size*se.Size {
		return nil, fmt.Errorf("%w: structuring element mask has %d cells, want %d",
			ErrInvalidParameter, len(se.Mask), se.Size*se.Size)
	}
	if border != BorderBackground && border != BorderIgnore {
		return nil, fmt.Errorf("%w: unknown morph border %d", ErrInvalidParameter, int(border))
	}

	w, h := src.Width, src.Height
	half := se.Size / 2
	dst := &PixelBuffer{Width: w, Height: h, Pix: make([]uint8, w*h)}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Dilation looks for any foreground hit, erosion for any miss.
			hit := !dilate
			for ky := 0; ky < se.Size && hit == !dilate; ky++ {
				for kx := 0; kx < se.Size; kx++ {
					if !se.Mask[ky*se.Size+kx] {
						continue
					}
					px, py := x+kx-half, y+ky-half
					var fg bool
					if src.InBounds(px, py) {
						fg = src.Pix[py*w+px] != Background
					} else if border == BorderIgnore {
						continue
					}
					if dilate && fg {
						hit = true
						break
					}
					if !dilate && !fg {
						hit = false
						break
					}
				}
			}
			if hit {
				dst.Pix[y*w+x] = Foreground
			}
		}
	}
	return dst, nil
}
