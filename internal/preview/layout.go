// pattern: Functional Core

package preview

import (
	"math"

	"devframe/internal/config"
	"devframe/internal/dom"
)

// Scale maps logical pixels to terminal cells.
type Scale struct {
	PxPerCol int
	PxPerRow int
}

// ScaleFromConfig falls back to 8×16 for unset values.
func ScaleFromConfig(cfg config.PreviewConfig) Scale {
	s := Scale{PxPerCol: cfg.PxPerCol, PxPerRow: cfg.PxPerRow}
	if s.PxPerCol <= 0 {
		s.PxPerCol = 8
	}
	if s.PxPerRow <= 0 {
		s.PxPerRow = 16
	}
	return s
}

// Viewport is the logical size of a terminal of cols × rows.
func (s Scale) Viewport(cols, rows int) dom.Size {
	return dom.Size{Width: max(cols, 0) * s.PxPerCol, Height: max(rows, 0) * s.PxPerRow}
}

// Cols is the number of whole cells px covers horizontally.
func (s Scale) Cols(px int) int {
	return max(px, 0) / s.PxPerCol
}

// Rows is the number of whole cells px covers vertically.
func (s Scale) Rows(px int) int {
	return max(px, 0) / s.PxPerRow
}

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Toolbar Region // Mode buttons (1 line)
	Frame   Region // Device frame box including its border
	Status  Region // Fit summary (1 line)
	Log     Region // Latest log entry (1 line)
	Help    Region // Key help (dynamic)
}

// Fixed heights for chrome elements
const (
	toolbarHeight   = 1
	statusBarHeight = 1
	logLineHeight   = 1
	minFrameCols    = 4
	minFrameRows    = 3
)

// ComputeLayout places the chrome rows and the frame box. The frame box is
// frameCols × frameRows cells, clamped to what the terminal has left, and
// centred horizontally.
func ComputeLayout(width, height, frameCols, frameRows, helpHeight int) Layout {
	avail := height - toolbarHeight - statusBarHeight - logLineHeight - helpHeight
	avail = max(avail, minFrameRows)

	fw := clamp(frameCols, minFrameCols, width)
	fh := clamp(frameRows, minFrameRows, avail)

	y := 0
	toolbar := Region{X: 0, Y: y, Width: width, Height: toolbarHeight}
	y += toolbarHeight

	frame := Region{X: max((width-fw)/2, 0), Y: y, Width: fw, Height: fh}
	y += fh

	status := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}
	y += statusBarHeight

	log := Region{X: 0, Y: y, Width: width, Height: logLineHeight}
	y += logLineHeight

	help := Region{X: 0, Y: y, Width: width, Height: helpHeight}

	return Layout{
		Toolbar: toolbar,
		Frame:   frame,
		Status:  status,
		Log:     log,
		Help:    help,
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return max(hi, 0)
	}
	return max(lo, min(hi, v))
}

// gridMarks reports for each of n cells of pxPer pixels whether a grid line
// at a multiple of cell falls inside it.
func gridMarks(n, pxPer int, cell float64) []bool {
	marks := make([]bool, max(n, 0))
	if cell <= 0 || pxPer <= 0 {
		return marks
	}
	for i := range marks {
		start := float64(i * pxPer)
		next := math.Ceil(start/cell) * cell
		marks[i] = next < start+float64(pxPer)
	}
	return marks
}

// iconGlyph draws the game icon at its rotation.
func iconGlyph(rotation int) string {
	if rotation == 90 {
		return "▶"
	}
	return "▲"
}
