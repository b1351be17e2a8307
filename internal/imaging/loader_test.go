package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG encodes img into a temporary PNG file and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// createTestImage writes a solid-color RGBA PNG and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// createGradient writes a horizontal gray ramp and returns its path.
func createGradient(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (width - 1))})
		}
	}
	return writePNG(t, img)
}

func TestImageCache_Load(t *testing.T) {
	path := createGradient(t, 16, 4)
	cache := NewImageCache()

	buf, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, buf.Width)
	assert.Equal(t, 4, buf.Height)
	assert.Equal(t, uint8(0), buf.At(0, 0))
	assert.Equal(t, uint8(255), buf.At(15, 3))
	assert.Equal(t, 1, cache.Len())

	again, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, buf, again, "second load should hit the cache")
}

func TestImageCache_LoadColorUsesLuminance(t *testing.T) {
	path := createTestImage(t, 4, 4, color.RGBA{R: 255, A: 255})
	buf, err := NewImageCache().Load(path)
	require.NoError(t, err)

	// 0.299 * 255
	assert.InDelta(t, 76, int(buf.At(2, 2)), 1)
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	bogus := filepath.Join(t.TempDir(), "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o644))
	_, err = cache.Load(bogus)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_EvictAndClear(t *testing.T) {
	a := createTestImage(t, 2, 2, color.White)
	b := createTestImage(t, 3, 3, color.Black)
	cache := NewImageCache()

	_, err := cache.Load(a)
	require.NoError(t, err)
	_, err = cache.Load(b)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	cache.Evict(a)
	assert.Equal(t, 1, cache.Len())
	cache.Evict("never-loaded")
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_Concurrent(t *testing.T) {
	path := createGradient(t, 32, 32)
	cache := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := cache.Load(path)
			assert.NoError(t, err)
			assert.Equal(t, 32, buf.Width)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()

	gray := createGradient(t, 20, 10)
	info, err := LoadImageInfo(cache, gray)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Width)
	assert.Equal(t, 10, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "8-bit", info.ColorDepth)
	assert.True(t, info.Grayscale)
	assert.Positive(t, info.FileSizeBytes)

	rgba := createTestImage(t, 5, 6, color.RGBA{B: 200, A: 255})
	info, err = LoadImageInfo(cache, rgba)
	require.NoError(t, err)
	assert.False(t, info.Grayscale)

	img16 := image.NewGray16(image.Rect(0, 0, 4, 4))
	info, err = LoadImageInfo(cache, writePNG(t, img16))
	require.NoError(t, err)
	assert.Equal(t, "16-bit", info.ColorDepth)
	assert.True(t, info.Grayscale)
}

func TestLoadImageInfo_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	require.NoError(t, f.Close())

	info, err := LoadImageInfo(NewImageCache(), path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
	assert.Equal(t, 8, info.Width)
}
