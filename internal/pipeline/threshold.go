package pipeline

const (
	// Foreground is the mask value of a foreground pixel.
	Foreground uint8 = 255
	// Background is the mask value of a background pixel.
	Background uint8 = 0
)

// AdaptiveThreshold binarizes src against a per-pixel threshold.
//
// The threshold at (x, y) is the Gaussian-weighted mean of the
// blockSize×blockSize neighborhood centered there, rounded to 8 bits, minus
// c. The output is inverted: a pixel brighter than its threshold becomes
// Background (0), every other pixel becomes Foreground (255). Neighborhood
// samples outside the image replicate the nearest edge sample.
//
// # Errors
//
//   - ErrInvalidDimension if src is empty or inconsistent
//   - ErrInvalidParameter if blockSize is not odd and positive
func AdaptiveThreshold(src *PixelBuffer, blockSize, c int) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	k, err := NewGaussianKernel(blockSize, 0)
	if err != nil {
		return nil, err
	}

	mean := k.convolve(src, BorderReplicate)

	dst := &PixelBuffer{Width: src.Width, Height: src.Height, Pix: make([]uint8, len(src.Pix))}
	for i, v := range src.Pix {
		if int(v) > int(mean.Pix[i])-c {
			dst.Pix[i] = Background
		} else {
			dst.Pix[i] = Foreground
		}
	}
	return dst, nil
}

// IsBinary reports whether every sample of b is Background or Foreground.
func IsBinary(b *PixelBuffer) bool {
	for _, v := range b.Pix {
		if v != Background && v != Foreground {
			return false
		}
	}
	return true
}
