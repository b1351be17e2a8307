// Package imaging moves radiographs between files, standard library images
// and the pipeline's pixel buffers.
//
// It covers everything around the pipeline that touches a file format:
// loading and caching decoded grayscale images, converting buffers to and
// from image.Image, encoding results as base64 PNG for the MCP server,
// rendering the 2x3 overview panel and writing a run's results to disk.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward, matching the pipeline.
//
// # Loading
//
// Images are decoded with EXIF orientation applied and converted to 8-bit
// luminance using the ITU-R 601 weights (0.299, 0.587, 0.114). Alpha is
// ignored. PNG, JPEG, GIF, BMP and TIFF are supported.
//
// # Output Files
//
// SaveResult writes, in order:
//
//	01_original.png
//	02_blurred.png
//	03_equalized.png
//	04_thresholded.png
//	05_closed.png
//	06_output_with_contours.png
//	07_all_steps.png
//	contours.json
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached buffers are shared and must
// not be modified; the pipeline never writes to its input. The remaining
// functions are stateless.
package imaging
