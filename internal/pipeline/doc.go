// Package pipeline turns a grayscale radiograph into traced region
// boundaries.
//
// A Pipeline runs five pixel stages in a fixed order, each producing a new
// buffer from the previous one:
//
//  1. GaussianBlur: 5×5 Gaussian smoothing with mirrored borders
//  2. EqualizeHistogram: spreads intensities over 0-255
//  3. AdaptiveThreshold: inverted binarization against an 11×11
//     Gaussian-weighted local mean minus a constant
//  4. Close: 3×3 dilation followed by erosion
//  5. FindContours: outer borders of the 8-connected foreground components
//
// DrawContours then paints the contours onto a color copy of the original
// image. Every stage is also exported on its own.
//
// # Buffers and Ownership
//
// PixelBuffer and ColorPixelBuffer are plain row-major sample slices. No
// stage writes to its input; each allocates its output, so the buffers of a
// Result form a chain that can be inspected or persisted independently.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward.
//
// # Error Handling
//
// Malformed input is rejected at stage entry with ErrInvalidDimension,
// ErrInvalidParameter or ErrCoordinateOutOfBounds, wrapped with details.
// Degenerate but valid input is not an error: a single-intensity image
// passes equalization unchanged and an empty mask has no contours.
//
// # Determinism
//
// Nothing in the package is random or order-dependent on map iteration;
// equal input and configuration produce identical output.
package pipeline
