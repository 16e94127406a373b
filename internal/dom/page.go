// pattern: Imperative Shell

package dom

// Anchors names the elements of the preview page.
type Anchors struct {
	Frame   string
	Header  string
	Grid    string
	Tile    string
	Canvas  string
	Toolbar string
}

// Class names the layout code reads and writes.
const (
	ClassLive         = "view-live"
	ClassGame         = "template-game"
	ClassWorkspace    = "has-workspace"
	ClassRotateBlock  = "rotate-blocked"
	ClassNativeMobile = "is-native-mobile"
)

// Stylesheet defaults for the preview page.
const (
	BodyPadding       = 8
	ToolbarHeight     = 48
	ToolbarMargin     = 8
	FrameMargin       = 8
	HeaderHeight      = 56
	GridPadding       = 12
	TileInitialHeight = 240
)

// NewPreviewPage builds the standard editor page:
//
//	body
//	├── toolbar
//	└── frame
//	    ├── header
//	    └── grid
//	        └── tile
//	            └── canvas
func NewPreviewPage(viewport Size, a Anchors) *Document {
	d := New(viewport)
	d.Body.Box = Box{
		PaddingTop:    BodyPadding,
		PaddingBottom: BodyPadding,
		PaddingLeft:   BodyPadding,
		PaddingRight:  BodyPadding,
	}

	toolbar := d.CreateElement(a.Toolbar)
	toolbar.IntrinsicHeight = ToolbarHeight
	toolbar.Box.MarginBottom = ToolbarMargin
	toolbar.Text = "Mobile  Desktop  Live"

	frame := d.CreateElement(a.Frame)
	frame.Box.MarginBottom = FrameMargin
	frame.SetStyle("position", "relative")

	header := d.CreateElement(a.Header)
	header.IntrinsicHeight = HeaderHeight
	header.Text = "Preview"

	grid := d.CreateElement(a.Grid)
	grid.Box = Box{
		PaddingTop:    GridPadding,
		PaddingBottom: GridPadding,
		PaddingLeft:   GridPadding,
		PaddingRight:  GridPadding,
	}

	tile := d.CreateElement(a.Tile)
	tile.IntrinsicHeight = TileInitialHeight

	canvas := d.CreateElement(a.Canvas)
	canvas.SetAttr("tabindex", "0")

	tile.AppendChild(canvas)
	grid.AppendChild(tile)
	frame.AppendChild(header)
	frame.AppendChild(grid)
	d.Body.AppendChild(toolbar)
	d.Body.AppendChild(frame)
	return d
}
