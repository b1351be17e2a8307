package pipeline

import "fmt"

// PixelBuffer is a single-channel 8-bit image stored row-major.
//
// The sample at (x, y) lives at Pix[y*Width+x]. Every stage allocates a new
// PixelBuffer for its output and never writes to its input, so a buffer is
// owned by whoever received it last.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}, nil
}

// NewPixelBufferFrom wraps an existing row-major sample slice. The slice is
// copied so the caller keeps ownership of pix.
func NewPixelBufferFrom(width, height int, pix []uint8) (*PixelBuffer, error) {
	b, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d buffer", ErrInvalidDimension, len(pix), width, height)
	}
	copy(b.Pix, pix)
	return b, nil
}

// Validate checks that the buffer is non-empty and internally consistent.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimension)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("%w: %d samples for %dx%d buffer", ErrInvalidDimension, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// At returns the sample at (x, y). No bounds checking is performed.
func (b *PixelBuffer) At(x, y int) uint8 {
	return b.Pix[y*b.Width+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (b *PixelBuffer) Set(x, y int, v uint8) {
	b.Pix[y*b.Width+x] = v
}

// InBounds reports whether (x, y) addresses a sample of the buffer.
func (b *PixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// SameSize reports whether b and o have identical dimensions.
func (b *PixelBuffer) SameSize(o *PixelBuffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// RGB is an 8-bit color triple in red, green, blue order.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ColorPixelBuffer is a three-channel 8-bit image stored row-major as
// consecutive R, G, B samples.
type ColorPixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewColorPixelBuffer allocates a black buffer of the given size.
func NewColorPixelBuffer(width, height int) (*ColorPixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &ColorPixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}, nil
}

// At returns the color at (x, y). No bounds checking is performed.
func (c *ColorPixelBuffer) At(x, y int) RGB {
	i := 3 * (y*c.Width + x)
	return RGB{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2]}
}

// Set stores col at (x, y). No bounds checking is performed.
func (c *ColorPixelBuffer) Set(x, y int, col RGB) {
	i := 3 * (y*c.Width + x)
	c.Pix[i] = col.R
	c.Pix[i+1] = col.G
	c.Pix[i+2] = col.B
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (c *ColorPixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}
