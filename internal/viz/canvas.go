package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Dot bits of a Braille cell, indexed [row][col].
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells, each holding 2x4 dots. Dot
// coordinates run from (0, 0) at the top left to (DotsX()-1, DotsY()-1).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return
	}
	c.Grid[y/4][x/2] |= brailleDots[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return false
	}
	return c.Grid[y/4][x/2]&brailleDots[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DashedHLine sets every other dot of row y.
func (c *Canvas) DashedHLine(y int) {
	for x := 0; x < c.DotsX(); x += 2 {
		c.Set(x, y)
	}
}

// VLine draws a full height vertical line at column x.
func (c *Canvas) VLine(x int) {
	c.DrawLine(x, 0, x, c.DotsY()-1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// viewport maps axial position z and height y onto canvas dots.
type viewport struct {
	z0, z1 float64
	y0, y1 float64
	w, h   int
}

func newViewport(c *Canvas, z0, z1, yMax float64) viewport {
	if !(z1 > z0) {
		z1 = z0 + 1
	}
	if !(yMax > 0) || math.IsInf(yMax, 0) {
		yMax = 1
	}
	return viewport{z0: z0, z1: z1, y0: -yMax, y1: yMax, w: c.DotsX(), h: c.DotsY()}
}

func (v viewport) dot(z, y float64) (int, int) {
	x := (z - v.z0) / (v.z1 - v.z0) * float64(v.w-1)
	row := (v.y1 - y) / (v.y1 - v.y0) * float64(v.h-1)
	return int(math.Round(x)), int(math.Round(row))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
