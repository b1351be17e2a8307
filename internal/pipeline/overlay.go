package pipeline

import "fmt"

// Red is the default highlight color.
var Red = RGB{R: 255, G: 0, B: 0}

// GrayToColor replicates each intensity of src into the three channels of a
// new color buffer.
func GrayToColor(src *PixelBuffer) (*ColorPixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := &ColorPixelBuffer{Width: src.Width, Height: src.Height, Pix: make([]uint8, 3*len(src.Pix))}
	for i, v := range src.Pix {
		dst.Pix[3*i] = v
		dst.Pix[3*i+1] = v
		dst.Pix[3*i+2] = v
	}
	return dst, nil
}

// DrawContours renders contours onto a color copy of src with a 1-pixel,
// non-antialiased stroke of the given color.
//
// Consecutive points, including the last and the first, are joined by
// straight segments, so compressed contours render the same as full ones.
//
// # Errors
//
//   - ErrInvalidDimension if src is empty or inconsistent
//   - ErrCoordinateOutOfBounds if any contour point lies outside src; the
//     check runs before anything is drawn
func DrawContours(src *PixelBuffer, contours []Contour, col RGB) (*ColorPixelBuffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	for ci, c := range contours {
		for _, p := range c {
			if !src.InBounds(p.X, p.Y) {
				return nil, fmt.Errorf("%w: contour %d point (%d,%d) outside %dx%d image",
					ErrCoordinateOutOfBounds, ci, p.X, p.Y, src.Width, src.Height)
			}
		}
	}

	dst, err := GrayToColor(src)
	if err != nil {
		return nil, err
	}
	for _, c := range contours {
		for k := range c {
			drawLine(dst, c[k], c[(k+1)%len(c)], col)
		}
	}
	return dst, nil
}

// drawLine plots the segment a-b with Bresenham's algorithm.
func drawLine(dst *ColorPixelBuffer, a, b Point, col RGB) {
	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	dy := -(b.Y - a.Y)
	if dy > 0 {
		dy = -dy
	}
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy

	x, y := a.X, a.Y
	for {
		dst.Set(x, y, col)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}
