package viz

import (
	"math"
	"strings"

	"github.com/san-kum/orbsim/internal/dynamo"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel grid. Width and Height are in terminal cells;
// pixel coordinates span (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the pixel at (x, y). Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps scene coordinates onto a canvas, looking down the y axis
// so the equatorial x-z plane fills the view. Extent is the scene distance
// from the center to the nearest canvas edge.
type Viewport struct {
	Canvas *Canvas
	CX, CZ float64
	Extent float64
}

func (v Viewport) scale() float64 {
	half := math.Min(float64(v.Canvas.Width*2), float64(v.Canvas.Height*4)) / 2
	if v.Extent <= 0 {
		return half
	}
	return half / v.Extent
}

// Project returns the pixel for scene point (x, z).
func (v Viewport) Project(x, z float64) (int, int) {
	s := v.scale()
	px := float64(v.Canvas.Width*2)/2 + (x-v.CX)*s
	py := float64(v.Canvas.Height*4)/2 - (z-v.CZ)*s
	return int(math.Round(px)), int(math.Round(py))
}

// Pixels converts a scene length to pixels.
func (v Viewport) Pixels(d float64) int {
	return int(math.Round(d * v.scale()))
}

func (v Viewport) Plot(x, z float64) {
	px, py := v.Project(x, z)
	v.Canvas.Set(px, py)
}

// Polyline joins consecutive scene points.
func (v Viewport) Polyline(points []dynamo.Vector3) {
	for i := 1; i < len(points); i++ {
		x0, y0 := v.Project(points[i-1].X, points[i-1].Z)
		x1, y1 := v.Project(points[i].X, points[i].Z)
		v.Canvas.DrawLine(x0, y0, x1, y1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
