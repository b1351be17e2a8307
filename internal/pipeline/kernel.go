package pipeline

import (
	"fmt"
	"math"
)

// BorderMode selects how neighborhood samples outside the image are
// synthesized by the convolution stages.
type BorderMode int

const (
	// BorderReflect101 mirrors around the edge sample without repeating it:
	// gfedcb|abcdefgh|gfedcba.
	BorderReflect101 BorderMode = iota

	// BorderReplicate repeats the edge sample: aaaaaa|abcdefgh|hhhhhhh.
	BorderReplicate
)

// index maps a possibly out-of-range coordinate onto [0, n).
func (m BorderMode) index(i, n int) int {
	if i >= 0 && i < n {
		return i
	}
	if n == 1 {
		return 0
	}
	if m == BorderReplicate {
		return clamp(i, 0, n-1)
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// Kernel is a separable, normalized Gaussian kernel. The 2-D weight at
// (kx, ky) is Weights[kx]*Weights[ky]; Weights sums to 1.
//
// Kernels are immutable once built and may be shared between goroutines.
type Kernel struct {
	Size    int
	Sigma   float64
	Weights []float64
}

// Binomial tables used when no sigma is given for the small kernel sizes.
var smallGaussianTables = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// NewGaussianKernel builds a Gaussian kernel of the given odd size.
//
// When sigma <= 0 the kernel shape is derived from its size: sizes 1, 3, 5
// and 7 use fixed binomial weights, larger sizes use
// sigma = 0.3*((size-1)*0.5 - 1) + 0.8.
func NewGaussianKernel(size int, sigma float64) (*Kernel, error) {
	if err := checkOddSize("kernel size", size); err != nil {
		return nil, err
	}

	if sigma <= 0 {
		if table, ok := smallGaussianTables[size]; ok {
			w := make([]float64, size)
			copy(w, table)
			return &Kernel{Size: size, Sigma: defaultSigma(size), Weights: w}, nil
		}
		sigma = defaultSigma(size)
	}

	w := make([]float64, size)
	half := size / 2
	var sum float64
	for i := range w {
		d := float64(i - half)
		w[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return &Kernel{Size: size, Sigma: sigma, Weights: w}, nil
}

func defaultSigma(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// convolve applies k separably to src and returns a new rounded buffer.
func (k *Kernel) convolve(src *PixelBuffer, border BorderMode) *PixelBuffer {
	w, h := src.Width, src.Height
	half := k.Size / 2

	// Horizontal pass.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float64
			for i, wt := range k.Weights {
				sum += wt * float64(row[border.index(x+i-half, w)])
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass.
	dst := &PixelBuffer{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, wt := range k.Weights {
				sum += wt * tmp[border.index(y+i-half, h)*w+x]
			}
			dst.Pix[y*w+x] = roundToByte(sum)
		}
	}
	return dst
}

// StructuringElement is a square mask of odd size defining a morphological
// neighborhood. Mask is row-major; true marks a member of the neighborhood.
type StructuringElement struct {
	Size int
	Mask []bool
}

// NewRectElement returns an all-ones square structuring element.
func NewRectElement(size int) (*StructuringElement, error) {
	if err := checkOddSize("structuring element size", size); err != nil {
		return nil, err
	}
	mask := make([]bool, size*size)
	for i := range mask {
		mask[i] = true
	}
	return &StructuringElement{Size: size, Mask: mask}, nil
}

// checkOddSize rejects sizes that are not odd and positive.
func checkOddSize(what string, size int) error {
	if size <= 0 || size%2 == 0 {
		return fmt.Errorf("%w: %s must be odd and positive, got %d", ErrInvalidParameter, what, size)
	}
	return nil
}

// clamp constrains an integer value to the range [lo, hi].
// Used for border replication in convolution.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// roundToByte rounds half away from zero and saturates to [0, 255].
func roundToByte(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
