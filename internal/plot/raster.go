package plot

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// inkThreshold is how far from white a pixel must be to count as drawn.
const inkThreshold = 96

const noInk = -1

// Cell is one terminal character covering two vertically stacked samples.
// Top and Bottom hold a palette index, or -1 when nothing is drawn there.
type Cell struct {
	Top    int
	Bottom int
}

// Cells is a rasterised chart, indexed [row][col].
type Cells [][]Cell

// Raster downsamples img to cols x rows terminal cells. Each half cell keeps
// the most strongly inked pixel in its block, snapped to the nearest palette
// colour, so thin lines survive the reduction.
func Raster(img image.Image, cols, rows int) Cells {
	if cols <= 0 || rows <= 0 {
		return nil
	}

	palette := make([]drawing.Color, len(Palette))
	for i, hex := range Palette {
		palette[i] = drawing.ColorFromHex(hex)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	samples := rows * 2

	cells := make(Cells, rows)
	for row := range cells {
		cells[row] = make([]Cell, cols)
		for col := range cells[row] {
			x0 := bounds.Min.X + col*width/cols
			x1 := bounds.Min.X + (col+1)*width/cols
			top := sample(img, palette, x0, x1,
				bounds.Min.Y+(row*2)*height/samples,
				bounds.Min.Y+(row*2+1)*height/samples)
			bottom := sample(img, palette, x0, x1,
				bounds.Min.Y+(row*2+1)*height/samples,
				bounds.Min.Y+(row*2+2)*height/samples)
			cells[row][col] = Cell{Top: top, Bottom: bottom}
		}
	}
	return cells
}

func sample(img image.Image, palette []drawing.Color, x0, x1, y0, y1 int) int {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	best, bestInk := color.RGBA{}, 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := rgbaAt(img, x, y)
			if ink := 3*255 - int(c.R) - int(c.G) - int(c.B); ink > bestInk {
				best, bestInk = c, ink
			}
		}
	}
	if bestInk < inkThreshold {
		return noInk
	}
	return nearest(palette, best)
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba.RGBAAt(x, y)
	}
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func nearest(palette []drawing.Color, c color.RGBA) int {
	best, bestDist := 0, -1
	for i, p := range palette {
		dr := int(p.R) - int(c.R)
		dg := int(p.G) - int(c.G)
		db := int(p.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// String renders the cells with half-block glyphs coloured by palette.
func (c Cells) String() string {
	lines := make([]string, len(c))
	for i, row := range c {
		lines[i] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// run is a stretch of identical glyphs sharing one style.
type run struct {
	glyph string
	fg    int
	bg    int
	n     int
}

func renderRow(row []Cell) string {
	var (
		b    strings.Builder
		cur  run
		open bool
	)
	flush := func() {
		if !open {
			return
		}
		text := strings.Repeat(cur.glyph, cur.n)
		if cur.fg == noInk {
			b.WriteString(text)
			return
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(SeriesColor(cur.fg)))
		if cur.bg != noInk {
			style = style.Background(lipgloss.Color(SeriesColor(cur.bg)))
		}
		b.WriteString(style.Render(text))
	}

	for _, cell := range row {
		next := glyphFor(cell)
		if open && next.glyph == cur.glyph && next.fg == cur.fg && next.bg == cur.bg {
			cur.n++
			continue
		}
		flush()
		cur, open = next, true
	}
	flush()
	return b.String()
}

func glyphFor(cell Cell) run {
	switch {
	case cell.Top == noInk && cell.Bottom == noInk:
		return run{glyph: " ", fg: noInk, bg: noInk, n: 1}
	case cell.Bottom == noInk:
		return run{glyph: "▀", fg: cell.Top, bg: noInk, n: 1}
	case cell.Top == noInk:
		return run{glyph: "▄", fg: cell.Bottom, bg: noInk, n: 1}
	case cell.Top == cell.Bottom || lipgloss.ColorProfile() == termenv.Ascii:
		return run{glyph: "█", fg: cell.Top, bg: noInk, n: 1}
	default:
		return run{glyph: "▀", fg: cell.Top, bg: cell.Bottom, n: 1}
	}
}
