// pattern: Functional Core

// Package layout holds the arithmetic of a fit pass. Every function here is
// pure; measuring and writing the document is the fit package's job.
package layout

import "math"

// Limits are the floors and constants of a fit pass.
type Limits struct {
	MinFrameHeight     int
	MinWorkspaceHeight int
	Fudge              int
	GridCell           int
}

// DefaultLimits match the stylesheet the preview page is built with.
func DefaultLimits() Limits {
	return Limits{
		MinFrameHeight:     320,
		MinWorkspaceHeight: 200,
		Fudge:              1,
		GridCell:           32,
	}
}

// EditorFrame measures the inputs of the editor-mode frame height.
type EditorFrame struct {
	ViewportHeight float64
	FrameTop       float64
	Gutter         float64
}

// Gutter is the space kept free below the frame in editor mode: the
// frame's bottom margin, a safety buffer, and the toolbar when it is
// docked below the frame.
func Gutter(marginBottom, safety, toolbarHeight float64, toolbarBelow bool) float64 {
	g := marginBottom + safety
	if toolbarBelow {
		g += toolbarHeight
	}
	return g
}

// EditorFrameHeight is max(floor, round(viewport - top - gutter)).
func EditorFrameHeight(in EditorFrame, lim Limits) int {
	desired := int(math.Round(in.ViewportHeight - in.FrameTop - in.Gutter))
	return max(lim.MinFrameHeight, desired)
}

// LiveFrame measures the inputs of the live-mode frame height.
type LiveFrame struct {
	ViewportHeight float64
	BodyPadTop     float64
	BodyPadBottom  float64
	ToolbarHeight  float64 // zero when the toolbar is hidden
}

// LiveFrameHeight fills the viewport minus body padding and any visible
// toolbar, floored like the editor height.
func LiveFrameHeight(in LiveFrame, lim Limits) int {
	h := int(math.Round(in.ViewportHeight - in.BodyPadTop - in.BodyPadBottom - in.ToolbarHeight))
	return max(lim.MinFrameHeight, h)
}

// Workspace measures the inputs of the workspace height.
type Workspace struct {
	FrameClientHeight int
	HeaderHeight      int
	PadTop            float64
	PadBottom         float64
}

// WorkspaceHeight subtracts the header, the grid padding and the fudge
// pixel from the frame's client height, floored at MinWorkspaceHeight.
func WorkspaceHeight(in Workspace, lim Limits) int {
	raw := float64(in.FrameClientHeight-in.HeaderHeight) - in.PadTop - in.PadBottom - float64(lim.Fudge)
	return max(lim.MinWorkspaceHeight, int(math.Floor(raw)))
}

// GridCell returns the cell size that divides width into a whole number of
// cells closest to target. A non-positive width or target returns target.
func GridCell(width, target float64) float64 {
	if width <= 0 || target <= 0 {
		return target
	}
	cols := math.Round(width / target)
	if cols < 1 {
		cols = 1
	}
	return width / cols
}

// GridColumns is the number of cells GridCell fits into width.
func GridColumns(width, target float64) int {
	if width <= 0 || target <= 0 {
		return 0
	}
	return max(1, int(math.Round(width/target)))
}

// IconRotation is 90 for a workspace taller than wide and 0 otherwise.
func IconRotation(width, height int) int {
	if height > width {
		return 90
	}
	return 0
}
