package httpapi

import (
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/grid"
)

// Board image geometry in pixels.
const (
	tileSize   = 100
	tileGap    = 10
	tileRadius = 6
	boardColor = "#bbada0"

	// MaxRenderWidth caps the requested output width.
	MaxRenderWidth = 2048
)

// RenderBoard draws the grid as a PNG-ready image. When width is positive
// the image is resized to that width, keeping the aspect ratio.
func RenderBoard(g *grid.Grid, theme config.ThemeConfig, width int) image.Image {
	n := g.Size()
	side := n*tileSize + (n+1)*tileGap

	dc := gg.NewContext(side, side)
	dc.SetHexColor(boardColor)
	dc.Clear()

	for row := range n {
		for col := range n {
			v := g.At(row, col)
			x := float64(tileGap + col*(tileSize+tileGap))
			y := float64(tileGap + row*(tileSize+tileGap))

			dc.SetHexColor(theme.TileColor(v))
			dc.DrawRoundedRectangle(x, y, tileSize, tileSize, tileRadius)
			dc.Fill()

			if v == 0 {
				continue
			}
			drawLabel(dc, strconv.FormatUint(uint64(v), 10), theme.TextColor(v), x+tileSize/2, y+tileSize/2)
		}
	}

	img := dc.Image()
	if width > 0 && width != side {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	return img
}

// drawLabel writes text centered at (cx, cy), scaled to fit the tile.
// The default gg face is a small bitmap font, so labels are scaled up.
func drawLabel(dc *gg.Context, text, color string, cx, cy float64) {
	w, _ := dc.MeasureString(text)
	scale := 4.0
	if maxScale := (tileSize - 16) / w; maxScale < scale {
		scale = maxScale
	}

	dc.Push()
	dc.SetHexColor(color)
	dc.ScaleAbout(scale, scale, cx, cy)
	dc.DrawStringAnchored(text, cx, cy, 0.5, 0.5)
	dc.Pop()
}
