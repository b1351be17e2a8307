package pipeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestBuffer builds a buffer whose sample at (x, y) is fn(x, y).
func newTestBuffer(t *testing.T, width, height int, fn func(x, y int) uint8) *PixelBuffer {
	t.Helper()

	b, err := NewPixelBuffer(width, height)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(x, y, fn(x, y))
		}
	}
	return b
}

// newMask builds a binary mask from rows of '#' (foreground) and '.'.
func newMask(t *testing.T, rows ...string) *PixelBuffer {
	t.Helper()

	return newTestBuffer(t, len(rows[0]), len(rows), func(x, y int) uint8 {
		if rows[y][x] == '#' {
			return Foreground
		}
		return Background
	})
}

// randomMask returns a deterministic noisy binary mask.
func randomMask(t *testing.T, width, height int, seed int64, density float64) *PixelBuffer {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	return newTestBuffer(t, width, height, func(x, y int) uint8 {
		if rng.Float64() < density {
			return Foreground
		}
		return Background
	})
}

// randomImage returns a deterministic noisy grayscale image.
func randomImage(t *testing.T, width, height int, seed int64) *PixelBuffer {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	return newTestBuffer(t, width, height, func(x, y int) uint8 {
		return uint8(rng.Intn(256))
	})
}

// radiograph draws a dark disk and a dark bar on a bright, noisy background.
func radiograph(t *testing.T, width, height int) *PixelBuffer {
	t.Helper()

	rng := rand.New(rand.NewSource(7))
	cx, cy, r := width/3, height/2, height/4
	return newTestBuffer(t, width, height, func(x, y int) uint8 {
		v := 190 + rng.Intn(20)
		dx, dy := x-cx, y-cy
		if dx*dx+dy*dy <= r*r {
			v = 40 + rng.Intn(20)
		}
		if x > width*2/3 && x < width*2/3+6 && y > height/5 && y < height*4/5 {
			v = 60 + rng.Intn(10)
		}
		return uint8(v)
	})
}

// components counts 8-connected foreground components with a flood fill.
func components(mask *PixelBuffer) int {
	seen := make([]bool, len(mask.Pix))
	count := 0
	for i, v := range mask.Pix {
		if v == Background || seen[i] {
			continue
		}
		count++
		stack := []int{i}
		seen[i] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%mask.Width, p/mask.Width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if !mask.InBounds(nx, ny) {
						continue
					}
					n := ny*mask.Width + nx
					if mask.Pix[n] != Background && !seen[n] {
						seen[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return count
}
