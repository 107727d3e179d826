/*
Package widget implements floating user interface elements placed over a
document, like the adder button offering to annotate a selection.

A widget is rendered from an HTML template and attached to some container
of the document, by default the document's body. It is hidden by the CSS
class "annotator-hide". When shown at a position close to the edge of the
visible area, the classes "annotator-invert-x" and "annotator-invert-y" tell
the style sheet to flip the widget to the other side of the position.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package widget

import (
	"errors"
	"fmt"

	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'hilite.widget'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.widget")
}

// CSS classes set on widgets.
const (
	ClassHide    = "annotator-hide"
	ClassInvertX = "annotator-invert-x"
	ClassInvertY = "annotator-invert-y"
)

// ErrNoContainer is returned if a widget cannot find the element to attach to.
var ErrNoContainer = errors.New("widget container not found")

// Viewport is the visible area of a page, in page coordinates.
type Viewport struct {
	Top, Left     float64
	Width, Height float64
}

// Options configure a widget.
type Options struct {
	// AppendTo is the container the widget is attached to: a CSS selector
	// string or an *html.Node. Default is the document's body.
	AppendTo any
	// Viewport is consulted to decide about the widget's orientation.
	// Without a viewport, widgets are never inverted.
	Viewport *Viewport
	// Width and Height are the extent of the rendered widget.
	Width, Height float64
}

// Widget is an element floating over a document.
type Widget struct {
	doc      *dom.Document
	element  *html.Node
	options  Options
	position dom.Point
}

// New renders template, which must have a single top level element, into a
// new widget for doc. The widget is hidden and not yet attached.
func New(doc *dom.Document, template string, options Options) (*Widget, error) {
	if doc == nil {
		return nil, dom.ErrNoDocument
	}
	element, err := doc.ParseFragment(template)
	if err != nil {
		return nil, fmt.Errorf("widget template: %w", err)
	}
	dom.AddClass(element, ClassHide)
	return &Widget{doc: doc, element: element, options: options}, nil
}

// Attach appends the widget to its container.
func (w *Widget) Attach() error {
	container, err := w.container()
	if err != nil {
		return err
	}
	if w.element.Parent != nil {
		w.element.Parent.RemoveChild(w.element)
	}
	container.AppendChild(w.element)
	tracer().Debugf("widget attached to %s", dom.Describe(container))
	return nil
}

func (w *Widget) container() (*html.Node, error) {
	switch c := w.options.AppendTo.(type) {
	case nil:
		return w.doc.Body(), nil
	case *html.Node:
		if c == nil || dom.OwnerDocument(c) != w.doc {
			return nil, ErrNoContainer
		}
		return c, nil
	case string:
		n, err := dom.Query(w.doc.Root(), c)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoContainer, c)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as container", ErrNoContainer, w.options.AppendTo)
}

// Element returns the top level element of the widget.
func (w *Widget) Element() *html.Node {
	return w.element
}

// Document returns the document the widget belongs to.
func (w *Widget) Document() *dom.Document {
	return w.doc
}

// Show makes the widget visible and adapts its orientation to the viewport.
func (w *Widget) Show() {
	dom.RemoveClass(w.element, ClassHide)
	w.checkOrientation()
}

// Hide makes the widget invisible.
func (w *Widget) Hide() {
	dom.AddClass(w.element, ClassHide)
}

// IsShown is true if the widget is visible.
func (w *Widget) IsShown() bool {
	return !dom.HasClass(w.element, ClassHide)
}

// SetPosition moves the widget to a position on the page.
func (w *Widget) SetPosition(p dom.Point) {
	w.position = p
	dom.SetAttr(w.element, "style", fmt.Sprintf("top: %gpx; left: %gpx", p.Y, p.X))
}

// Position returns the position last set.
func (w *Widget) Position() dom.Point {
	return w.position
}

func (w *Widget) checkOrientation() {
	dom.RemoveClass(w.element, ClassInvertX)
	dom.RemoveClass(w.element, ClassInvertY)
	vp := w.options.Viewport
	if vp == nil {
		return
	}
	if w.position.Y-w.options.Height < vp.Top {
		dom.AddClass(w.element, ClassInvertY)
	}
	if w.position.X+w.options.Width > vp.Left+vp.Width {
		dom.AddClass(w.element, ClassInvertX)
	}
}

// IsInvertedX is true if the widget is flipped horizontally.
func (w *Widget) IsInvertedX() bool {
	return dom.HasClass(w.element, ClassInvertX)
}

// IsInvertedY is true if the widget is flipped vertically.
func (w *Widget) IsInvertedY() bool {
	return dom.HasClass(w.element, ClassInvertY)
}

// Destroy removes the widget from the document.
func (w *Widget) Destroy() {
	if w.element.Parent != nil {
		w.element.Parent.RemoveChild(w.element)
	}
}
