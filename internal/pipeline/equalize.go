package pipeline

// Histogram counts the occurrences of each intensity in b.
func Histogram(b *PixelBuffer) [256]int {
	var hist [256]int
	for _, v := range b.Pix {
		hist[v]++
	}
	return hist
}

// EqualizeHistogram spreads the intensities of src over the full 0-255
// range so that the cumulative distribution of the output is as uniform as
// possible.
//
// Each intensity v maps to
//
//	round((cdf(v) - cdfMin) / (total - cdfMin) * 255)
//
// where cdfMin is the count of the lowest occupied intensity. An image with
// a single intensity has cdfMin == total and is returned as an unchanged
// copy.
func EqualizeHistogram(src *PixelBuffer) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	hist := Histogram(src)
	total := len(src.Pix)

	first := 0
	for hist[first] == 0 {
		first++
	}
	cdfMin := hist[first]
	if cdfMin == total {
		return src.Clone(), nil
	}

	var lut [256]uint8
	scale := 255.0 / float64(total-cdfMin)
	cdf := 0
	for v := first; v < 256; v++ {
		cdf += hist[v]
		lut[v] = roundToByte(float64(cdf-cdfMin) * scale)
	}

	dst := &PixelBuffer{Width: src.Width, Height: src.Height, Pix: make([]uint8, len(src.Pix))}
	for i, v := range src.Pix {
		dst.Pix[i] = lut[v]
	}
	return dst, nil
}
