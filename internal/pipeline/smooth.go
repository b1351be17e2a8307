package pipeline

// GaussianBlur smooths src with a size×size Gaussian kernel and returns a new
// buffer of the same dimensions.
//
// sigma <= 0 lets the kernel size pick the shape (see NewGaussianKernel).
// Samples outside the image are mirrored with BorderReflect101, so the
// output never shrinks.
//
// # Errors
//
//   - ErrInvalidDimension if src is empty or inconsistent
//   - ErrInvalidParameter if size is not odd and positive
func GaussianBlur(src *PixelBuffer, size int, sigma float64) (*PixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	k, err := NewGaussianKernel(size, sigma)
	if err != nil {
		return nil, err
	}
	return k.convolve(src, BorderReflect101), nil
}
