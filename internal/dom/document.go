// pattern: Imperative Shell

// Package dom is a small in-memory document: a body with class state, a
// viewport, elements addressable by id with inline styles and block-flow
// geometry, and the raw environment events the layout code listens to.
package dom

// Raw environment event kinds.
const (
	EventResize            = "resize"
	EventOrientationChange = "orientationchange"
)

// Size is a viewport size in logical pixels.
type Size struct {
	Width  int
	Height int
}

// Portrait reports whether the size is taller than wide.
func (s Size) Portrait() bool {
	return s.Height > s.Width
}

// Document owns the element tree and the viewport. It is not safe for
// concurrent use.
type Document struct {
	Body *Element

	viewport  Size
	byID      map[string]*Element
	listeners map[string][]func()
}

// New creates an empty document with the given viewport.
func New(viewport Size) *Document {
	d := &Document{
		viewport:  viewport,
		byID:      make(map[string]*Element),
		listeners: make(map[string][]func()),
	}
	d.Body = newElement(d, "body")
	return d
}

// Viewport returns the current viewport size.
func (d *Document) Viewport() Size {
	return d.viewport
}

// SetViewport resizes the viewport. A change dispatches "resize"; a
// change that flips portrait/landscape also dispatches
// "orientationchange" afterwards.
func (d *Document) SetViewport(s Size) {
	if s == d.viewport {
		return
	}
	flipped := s.Portrait() != d.viewport.Portrait()
	d.viewport = s
	d.Dispatch(EventResize)
	if flipped {
		d.Dispatch(EventOrientationChange)
	}
}

// CreateElement returns a detached element. It becomes reachable through
// ByID once appended under the body.
func (d *Document) CreateElement(id string) *Element {
	return newElement(d, id)
}

// ByID returns the attached element with the given id, or nil.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.byID[id]
}

// AddEventListener registers fn for kind. Listeners run in registration
// order.
func (d *Document) AddEventListener(kind string, fn func()) {
	if fn == nil {
		return
	}
	d.listeners[kind] = append(d.listeners[kind], fn)
}

// Dispatch runs the listeners registered for kind.
func (d *Document) Dispatch(kind string) {
	ls := d.listeners[kind]
	for _, fn := range ls[:len(ls):len(ls)] {
		fn()
	}
}

// ListenerCount reports how many listeners kind has.
func (d *Document) ListenerCount(kind string) int {
	return len(d.listeners[kind])
}

func (d *Document) register(e *Element) {
	if e.ID != "" {
		d.byID[e.ID] = e
	}
	for _, c := range e.children {
		d.register(c)
	}
}

func (d *Document) unregister(e *Element) {
	if e.ID != "" && d.byID[e.ID] == e {
		delete(d.byID, e.ID)
	}
	for _, c := range e.children {
		d.unregister(c)
	}
}
