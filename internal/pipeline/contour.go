package pipeline

import "fmt"

// Point is an integer pixel coordinate. (0,0) is the top-left pixel.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Contour is the closed outer boundary of one 8-connected foreground
// component, in tracing order. The last point connects back to the first.
// Contours are traced counter-clockwise as displayed (y grows downward).
type Contour []Point

// RetrievalMode selects which outer borders FindContours reports.
type RetrievalMode int

const (
	// RetrieveAll reports the outer border of every 8-connected component,
	// including components that sit inside a hole of another component.
	RetrieveAll RetrievalMode = iota

	// RetrieveExternal reports only components that are not enclosed by a
	// hole of another component.
	RetrieveExternal
)

// String returns the configuration name of the mode.
func (m RetrievalMode) String() string {
	switch m {
	case RetrieveAll:
		return "all"
	case RetrieveExternal:
		return "external"
	default:
		return fmt.Sprintf("RetrievalMode(%d)", int(m))
	}
}

// Approximation selects how many boundary pixels are kept per contour.
type Approximation int

const (
	// ApproxNone keeps every boundary pixel; consecutive points are
	// 8-adjacent.
	ApproxNone Approximation = iota

	// ApproxSimple keeps only the end points of straight horizontal,
	// vertical and diagonal runs.
	ApproxSimple
)

// String returns the configuration name of the approximation.
func (a Approximation) String() string {
	switch a {
	case ApproxNone:
		return "none"
	case ApproxSimple:
		return "simple"
	default:
		return fmt.Sprintf("Approximation(%d)", int(a))
	}
}

// direction is one of the 8 compass neighbors. Values increase
// counter-clockwise as displayed, so d+1 turns left and d-1 turns right.
type direction int

const (
	dirE direction = iota
	dirNE
	dirN
	dirNW
	dirW
	dirSW
	dirS
	dirSE
)

var dirDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
var dirDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}

func (d direction) ccw() direction     { return (d + 1) & 7 }
func (d direction) cw() direction      { return (d + 7) & 7 }
func (d direction) reverse() direction { return (d + 4) & 7 }

// border records the Suzuki-Abe bookkeeping for one traced border.
type border struct {
	hole   bool
	parent int
}

// frameLabel is the label of the virtual frame around the image. The frame
// counts as a hole border that contains everything.
const frameLabel = 1

// labelGrid is the mask padded with a one-pixel background frame. Cells hold
// 0 (background), 1 (untraced foreground), +n (pixel on border n) or -n
// (pixel on border n whose right neighbor is background).
type labelGrid struct {
	stride int
	cells  []int32
	offset [8]int
}

func newLabelGrid(mask *PixelBuffer) *labelGrid {
	stride := mask.Width + 2
	g := &labelGrid{
		stride: stride,
		cells:  make([]int32, stride*(mask.Height+2)),
	}
	for y := 0; y < mask.Height; y++ {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		base := (y+1)*stride + 1
		for x, v := range row {
			if v != Background {
				g.cells[base+x] = 1
			}
		}
	}
	for d := range g.offset {
		g.offset[d] = dirDX[d] + dirDY[d]*stride
	}
	return g
}

// point converts a padded cell index back to image coordinates.
func (g *labelGrid) point(i int) Point {
	return Point{X: i%g.stride - 1, Y: i/g.stride - 1}
}

// FindContours traces the outer boundary of the foreground components of a
// binary mask. Any non-zero sample counts as foreground.
//
// The mask is scanned in raster order. A foreground pixel whose left
// neighbor is background and that no earlier trace has claimed starts a new
// outer border; the border is followed with a fixed neighbor order and every
// pixel on it is labeled so the scan never restarts from it. Hole borders
// are followed the same way so nested components can be told apart, but are
// never reported. Contours are returned in the order their start pixel is
// met, which makes the output deterministic.
//
// Pixels on the image edge are ordinary boundary pixels; everything outside
// the image is background. An empty mask yields an empty, non-nil slice.
//
// # Algorithm
//
// This is the border following of Suzuki and Abe (1985):
//
//  1. From the start pixel, search clockwise beginning at the background
//     pixel the scan came from. No foreground neighbor means an isolated
//     pixel and a one-point contour.
//  2. Otherwise walk: around the current pixel, search counter-clockwise
//     starting just after the previous pixel. The first foreground pixel
//     found is the next boundary pixel.
//  3. Stop when the walk is about to re-enter the start pixel from the
//     first neighbor found in step 1.
//
// Each step is O(1), so a component is traced in time linear in its border
// length with constant stack.
func FindContours(mask *PixelBuffer, mode RetrievalMode, approx Approximation) ([]Contour, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	if mode != RetrieveAll && mode != RetrieveExternal {
		return nil, fmt.Errorf("%w: unknown retrieval mode %d", ErrInvalidParameter, int(mode))
	}
	if approx != ApproxNone && approx != ApproxSimple {
		return nil, fmt.Errorf("%w: unknown approximation %d", ErrInvalidParameter, int(approx))
	}

	g := newLabelGrid(mask)
	borders := []border{{}, {hole: true}}
	contours := make([]Contour, 0)

	for y := 1; y <= mask.Height; y++ {
		lnbd := frameLabel
		for x := 1; x <= mask.Width; x++ {
			i := y*g.stride + x
			v := g.cells[i]
			if v == 0 {
				continue
			}

			var from direction
			var hole, start bool
			switch {
			case v == 1 && g.cells[i-1] == 0:
				start, from = true, dirW
			case v >= 1 && g.cells[i+1] == 0:
				start, from, hole = true, dirE, true
				if v > 1 {
					lnbd = int(v)
				}
			}

			if start {
				nbd := len(borders)
				parent := lnbd
				if hole == borders[lnbd].hole {
					parent = borders[lnbd].parent
				}
				borders = append(borders, border{hole: hole, parent: parent})

				path := g.follow(i, from, int32(nbd))
				if !hole && (mode == RetrieveAll || parent == frameLabel) {
					c := make(Contour, len(path))
					for k, idx := range path {
						c[k] = g.point(idx)
					}
					if approx == ApproxSimple {
						c = simplify(c)
					}
					contours = append(contours, c)
				}
			}

			if lv := g.cells[i]; lv != 1 {
				if lv < 0 {
					lv = -lv
				}
				lnbd = int(lv)
			}
		}
	}
	return contours, nil
}

// follow traces one border starting at cell start, entered from the
// neighbor in direction from, labels it nbd and returns the visited cells.
func (g *labelGrid) follow(start int, from direction, nbd int32) []int {
	// Step 1: clockwise search for the first neighbor.
	first := -1
	var d1 direction
	for k, d := 0, from; k < 8; k, d = k+1, d.cw() {
		if g.cells[start+g.offset[d]] != 0 {
			first, d1 = start+g.offset[d], d
			break
		}
	}
	if first < 0 {
		g.cells[start] = -nbd
		return []int{start}
	}

	path := make([]int, 0, 16)
	cur := start
	back := d1 // direction from cur to the previous boundary pixel
	for {
		// Step 2: counter-clockwise search starting after the previous pixel.
		eastClear := false
		next := back
		for d := back.ccw(); ; d = d.ccw() {
			if g.cells[cur+g.offset[d]] != 0 {
				next = d
				break
			}
			if d == dirE {
				eastClear = true
			}
		}

		if eastClear {
			g.cells[cur] = -nbd
		} else if g.cells[cur] == 1 {
			g.cells[cur] = nbd
		}
		path = append(path, cur)

		nextCell := cur + g.offset[next]
		if nextCell == start && cur == first {
			return path
		}
		cur, back = nextCell, next.reverse()
	}
}

// simplify drops every point that lies in the middle of a straight run, so
// each remaining point is a corner of the polyline. The start point is
// always kept.
func simplify(c Contour) Contour {
	n := len(c)
	if n <= 2 {
		return c
	}
	out := make(Contour, 0, n)
	for k := range c {
		prev, cur, next := c[(k+n-1)%n], c[k], c[(k+1)%n]
		if k == 0 || !collinearStep(prev, cur, next) {
			out = append(out, cur)
		}
	}
	return out
}

// collinearStep reports whether prev→cur and cur→next move in the same
// direction.
func collinearStep(prev, cur, next Point) bool {
	return sign(cur.X-prev.X) == sign(next.X-cur.X) && sign(cur.Y-prev.Y) == sign(next.Y-cur.Y)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
