// pattern: Imperative Shell

package dom

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Box holds the parts of the computed style the layout code measures.
type Box struct {
	PaddingTop    float64
	PaddingBottom float64
	PaddingLeft   float64
	PaddingRight  float64
	MarginBottom  float64
}

// Element is a node in the document. Geometry is resolved on read from
// inline styles, the box and the element's position in its parent.
type Element struct {
	ID  string
	Box Box

	// Intrinsic size used when no inline width/height is set. Zero means
	// "size to content" for height and "fill the parent" for width.
	IntrinsicWidth  float64
	IntrinsicHeight float64

	// Text is opaque content rendered by the preview.
	Text string

	doc       *Document
	parent    *Element
	children  []*Element
	classes   []string
	style     map[string]string
	attrs     map[string]string
	scrollTop float64
}

func newElement(doc *Document, id string) *Element {
	return &Element{
		ID:    id,
		doc:   doc,
		style: make(map[string]string),
		attrs: make(map[string]string),
	}
}

// Style returns the inline style value for prop, or "".
func (e *Element) Style(prop string) string {
	return e.style[prop]
}

// SetStyle writes an inline style. An empty value removes the property.
func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		delete(e.style, prop)
		return
	}
	e.style[prop] = value
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// SetAttr writes an attribute.
func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.classes, c)
}

// AddClass adds c if absent.
func (e *Element) AddClass(c string) {
	if !e.HasClass(c) {
		e.classes = append(e.classes, c)
	}
}

// RemoveClass removes c if present.
func (e *Element) RemoveClass(c string) {
	e.classes = slices.DeleteFunc(e.classes, func(s string) bool { return s == c })
}

// ToggleClass flips c and reports whether it is now present.
func (e *Element) ToggleClass(c string) bool {
	if e.HasClass(c) {
		e.RemoveClass(c)
		return false
	}
	e.AddClass(c)
	return true
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// Parent returns the parent element, nil when detached or for the body.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child list. Callers must not modify it.
func (e *Element) Children() []*Element {
	return e.children
}

// AppendChild attaches child as the last child of e, detaching it from any
// previous parent first.
func (e *Element) AppendChild(child *Element) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	if e.doc != nil && e.attached() {
		e.doc.register(child)
	}
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child *Element) {
	idx := slices.Index(e.children, child)
	if idx < 0 {
		return
	}
	e.children = slices.Delete(e.children, idx, idx+1)
	child.parent = nil
	if e.doc != nil {
		e.doc.unregister(child)
	}
}

func (e *Element) attached() bool {
	for n := e; n != nil; n = n.parent {
		if e.doc != nil && n == e.doc.Body {
			return true
		}
	}
	return false
}

// Hidden reports display:none.
func (e *Element) Hidden() bool {
	return e.style["display"] == "none"
}

func (e *Element) inFlow() bool {
	return !e.Hidden() && e.style["position"] != "absolute"
}

// ClientHeight is the rounded inner height including padding.
func (e *Element) ClientHeight() int {
	if e.Hidden() {
		return 0
	}
	return int(math.Round(e.height()))
}

// OffsetHeight is the rounded layout height. Elements have no borders, so
// it equals ClientHeight.
func (e *Element) OffsetHeight() int {
	return e.ClientHeight()
}

// ClientWidth is the rounded inner width including padding.
func (e *Element) ClientWidth() int {
	if e.Hidden() {
		return 0
	}
	return int(math.Round(e.width()))
}

// ScrollHeight is the larger of the client height and the flow content
// height.
func (e *Element) ScrollHeight() int {
	content := int(math.Round(e.contentHeight()))
	return max(content, e.ClientHeight())
}

// ScrollTop returns the vertical scroll offset.
func (e *Element) ScrollTop() float64 {
	return e.scrollTop
}

// SetScrollTop sets the vertical scroll offset, clamped at zero.
func (e *Element) SetScrollTop(v float64) {
	e.scrollTop = max(v, 0)
}

// BoundingTop is the distance from the viewport top to the element's top
// edge, following normal block flow.
func (e *Element) BoundingTop() float64 {
	p := e.parent
	if p == nil {
		return 0
	}
	top := p.BoundingTop() + p.Box.PaddingTop - p.scrollTop
	if e.style["position"] == "absolute" {
		return p.BoundingTop()
	}
	for _, sib := range p.children {
		if sib == e {
			break
		}
		if sib.inFlow() {
			top += sib.height() + sib.Box.MarginBottom
		}
	}
	return top
}

func (e *Element) height() float64 {
	if e.doc != nil && e == e.doc.Body {
		return float64(e.doc.viewport.Height)
	}
	if v, ok := e.resolveLength(e.style["height"], true); ok {
		return v
	}
	if e.style["position"] == "absolute" && e.style["inset"] == "0" && e.parent != nil {
		return e.parent.height()
	}
	if e.IntrinsicHeight > 0 {
		return e.IntrinsicHeight
	}
	return e.contentHeight()
}

func (e *Element) width() float64 {
	if e.doc != nil && e == e.doc.Body {
		return float64(e.doc.viewport.Width)
	}
	if v, ok := e.resolveLength(e.style["width"], false); ok {
		return v
	}
	if e.IntrinsicWidth > 0 {
		return e.IntrinsicWidth
	}
	if e.parent != nil {
		return e.parent.contentWidth()
	}
	if e.doc != nil {
		return float64(e.doc.viewport.Width)
	}
	return 0
}

// definiteHeight reports whether the height does not depend on children,
// which is what percent heights of children need.
func (e *Element) definiteHeight() bool {
	if e.doc != nil && e == e.doc.Body {
		return true
	}
	if _, ok := e.resolveLength(e.style["height"], true); ok {
		return true
	}
	return e.IntrinsicHeight > 0
}

func (e *Element) contentHeight() float64 {
	h := e.Box.PaddingTop + e.Box.PaddingBottom
	for _, c := range e.children {
		if c.inFlow() {
			h += c.height() + c.Box.MarginBottom
		}
	}
	return h
}

func (e *Element) contentWidth() float64 {
	return max(e.width()-e.Box.PaddingLeft-e.Box.PaddingRight, 0)
}

// resolveLength understands "Npx", "Nvh", "Nvw" and "N%". Percent heights
// resolve against the parent's content box.
func (e *Element) resolveLength(v string, vertical bool) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return 0, false
	}
	n := NumPx(v)
	switch {
	case strings.HasSuffix(v, "vh"):
		if e.doc == nil {
			return 0, false
		}
		return n * float64(e.doc.viewport.Height) / 100, true
	case strings.HasSuffix(v, "vw"):
		if e.doc == nil {
			return 0, false
		}
		return n * float64(e.doc.viewport.Width) / 100, true
	case strings.HasSuffix(v, "%"):
		if e.parent == nil {
			return 0, false
		}
		var base float64
		if vertical {
			p := e.parent
			if !p.definiteHeight() {
				return 0, false
			}
			base = p.height() - p.Box.PaddingTop - p.Box.PaddingBottom
		} else {
			base = e.parent.contentWidth()
		}
		return n * base / 100, true
	default:
		return n, true
	}
}

// NumPx parses the leading number of a CSS length ("12.5px" → 12.5).
// Anything unparsable or non-finite is 0.
func NumPx(v string) float64 {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) {
		c := v[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			// Stop at an exponent marker not followed by a digit ("3em").
			if (c == 'e' || c == 'E') && (end+1 >= len(v) || !isDigitOrSign(v[end+1])) {
				break
			}
			end++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(v[:end], 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

func isDigitOrSign(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+'
}

// Px formats a pixel length.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
