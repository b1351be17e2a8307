package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// ImageCache provides thread-safe caching of decoded grayscale images.
//
// The cache stores one *pipeline.PixelBuffer per file path. Once an image is
// loaded, subsequent Load calls for the same path return the cached buffer
// without disk I/O. Callers must treat returned buffers as read-only; the
// pipeline never writes to its input.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	buf, err := cache.Load("/path/to/scan.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := p.Run(buf)
//	cache.Evict("/path/to/scan.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*pipeline.PixelBuffer
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*pipeline.PixelBuffer),
	}
}

// Load retrieves a grayscale buffer from the cache or loads it from disk.
//
// The file is decoded with EXIF orientation applied and converted to 8-bit
// luminance (0.299R + 0.587G + 0.114B). Supported formats are PNG, JPEG,
// GIF, BMP and TIFF.
//
// The image is cached using the exact path string provided. Different paths
// to the same file result in separate cache entries.
func (c *ImageCache) Load(path string) (*pipeline.PixelBuffer, error) {
	c.mu.RLock()
	if buf, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	buf, err := LoadGray(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*pipeline.PixelBuffer)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadGray reads the image at path and returns it as a grayscale buffer,
// bypassing any cache.
func LoadGray(path string) (*pipeline.PixelBuffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	return buf, nil
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels, after orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, after orientation is applied.
	Height int `json:"height"`

	// Format is the format detected from the file extension: "png", "jpeg",
	// "gif", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// Grayscale is true when the file itself stores a single channel.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and reports its metadata.
//
// Dimensions come from the decoded buffer. Color depth and channel layout
// come from the file header, since the cached buffer is always 8-bit gray.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	info := &ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        format,
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	switch cfg.ColorModel {
	case color.GrayModel:
		info.Grayscale = true
	case color.Gray16Model:
		info.Grayscale = true
		info.ColorDepth = "16-bit"
	case color.RGBA64Model, color.NRGBA64Model:
		info.ColorDepth = "16-bit"
	}

	return info, nil
}
