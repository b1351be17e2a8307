package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayToColor(t *testing.T) {
	src, err := NewPixelBufferFrom(2, 1, []uint8{7, 200})
	require.NoError(t, err)
	out, err := GrayToColor(src)
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 7, 7, 200, 200, 200}, out.Pix)
}

func TestDrawContours(t *testing.T) {
	src := newTestBuffer(t, 5, 5, func(x, y int) uint8 { return 100 })
	mask := newMask(t,
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)
	contours, err := FindContours(mask, RetrieveAll, ApproxNone)
	require.NoError(t, err)

	out, err := DrawContours(src, contours, Red)
	require.NoError(t, err)
	require.Equal(t, 5, out.Width)
	require.Equal(t, 5, out.Height)

	gray := RGB{R: 100, G: 100, B: 100}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			onBorder := x >= 1 && x <= 3 && y >= 1 && y <= 3 && !(x == 2 && y == 2)
			if onBorder {
				assert.Equal(t, Red, out.At(x, y), "(%d,%d)", x, y)
			} else {
				assert.Equal(t, gray, out.At(x, y), "(%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, uint8(100), src.At(1, 1), "input must not be modified")
}

func TestDrawContours_SimpleMatchesFull(t *testing.T) {
	src := randomImage(t, 31, 23, 4)
	mask := randomMask(t, 31, 23, 4, 0.35)

	full, err := FindContours(mask, RetrieveAll, ApproxNone)
	require.NoError(t, err)
	simple, err := FindContours(mask, RetrieveAll, ApproxSimple)
	require.NoError(t, err)

	a, err := DrawContours(src, full, Red)
	require.NoError(t, err)
	b, err := DrawContours(src, simple, Red)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDrawContours_OutOfBounds(t *testing.T) {
	src := newTestBuffer(t, 3, 3, func(x, y int) uint8 { return 0 })
	for _, p := range []Point{{-1, 0}, {0, 3}, {3, 1}} {
		_, err := DrawContours(src, []Contour{{{0, 0}, p}}, Red)
		require.ErrorIs(t, err, ErrCoordinateOutOfBounds, "point %v", p)
	}
}

func TestDrawContours_NoContours(t *testing.T) {
	src := randomImage(t, 4, 4, 2)
	out, err := DrawContours(src, nil, Red)
	require.NoError(t, err)
	want, err := GrayToColor(src)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, out.Pix)
}

func TestDrawLine(t *testing.T) {
	dst, err := NewColorPixelBuffer(5, 5)
	require.NoError(t, err)
	drawLine(dst, Point{0, 0}, Point{4, 4}, Red)
	for i := 0; i < 5; i++ {
		assert.Equal(t, Red, dst.At(i, i))
	}
	assert.Equal(t, RGB{}, dst.At(1, 0))

	drawLine(dst, Point{4, 0}, Point{0, 0}, Red)
	for x := 0; x < 5; x++ {
		assert.Equal(t, Red, dst.At(x, 0))
	}
}
