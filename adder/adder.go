/*
Package adder implements the button offered to the user after selecting text,
which turns the selection into a new annotation.

The adder is a small state machine:

    Hidden ──Load──▶ Shown ──mousedown──▶ Suppressing
      ▲                │ ◀──────mouseup─────── │
      └───click/Hide───┴──────click/Hide───────┘

Pressing the mouse on the adder's button would end the user's selection: the
document's text selector sees the mouse-up and reports an empty selection
before the click is registered. Therefore, after a mouse-down on the button,
the adder swallows the next mouse-up, wherever it happens, and then awaits
the click again. Its mouse-up listener is registered on the document body
with PriorityAdder and runs before the listener of the text selector.

Only events of the primary mouse button are considered.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package adder

import (
	"github.com/npillmayer/hilite/annotation"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/widget"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'hilite.adder'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.adder")
}

// State is the state of an adder.
type State int8

// States of an adder.
const (
	Hidden State = iota
	Shown
	Suppressing
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Shown:
		return "shown"
	case Suppressing:
		return "suppressing"
	}
	return "unknown"
}

// PriorityAdder is the priority of the adder's mouse-up listener. It is lower
// than dom.PriorityDefault, making it run before default listeners.
const PriorityAdder = dom.PriorityDefault - 10

// Template is the HTML of the adder widget.
const Template = `<div class="annotator-adder annotator-hide"><button type="button" title="Annotate">Annotate</button></div>`

// CreateHandler receives the annotation recorded for a selection once the
// user clicks the adder.
type CreateHandler func(ann *annotation.Annotation, ev *dom.Event)

// Options configure an adder.
type Options struct {
	widget.Options
	OnCreate CreateHandler
}

// Adder offers to annotate the current selection.
type Adder struct {
	widget   *widget.Widget
	button   *html.Node
	state    State
	ann      *annotation.Annotation
	onCreate CreateHandler
	subs     []*dom.Subscription
}

// New creates an adder for doc and attaches it.
func New(doc *dom.Document, options Options) (*Adder, error) {
	w, err := widget.New(doc, Template, options.Options)
	if err != nil {
		return nil, err
	}
	if err = w.Attach(); err != nil {
		return nil, err
	}
	a := &Adder{widget: w, onCreate: options.OnCreate}
	a.button = w.Element()
	if b, _ := dom.Query(w.Element(), "button"); b != nil {
		a.button = b
	}
	events := doc.Events()
	a.subs = append(a.subs,
		events.Listen(a.button, dom.Click, dom.PriorityDefault, a.onClick),
		events.Listen(a.button, dom.MouseDown, dom.PriorityDefault, a.onMouseDown),
		events.Listen(doc.Body(), dom.MouseUp, PriorityAdder, a.onMouseUp),
	)
	return a, nil
}

// State returns the current state.
func (a *Adder) State() State {
	return a.state
}

// Annotation returns the annotation recorded for the current selection.
func (a *Adder) Annotation() *annotation.Annotation {
	return a.ann
}

// Button returns the element the user clicks.
func (a *Adder) Button() *html.Node {
	return a.button
}

// Widget returns the widget displaying the adder.
func (a *Adder) Widget() *widget.Widget {
	return a.widget
}

// Load records an annotation for the current selection and shows the adder
// at position pos.
func (a *Adder) Load(ann *annotation.Annotation, pos dom.Point) {
	a.ann = ann
	a.Show(pos)
}

// Show shows the adder at position pos.
func (a *Adder) Show(pos dom.Point) {
	a.widget.SetPosition(pos)
	a.widget.Show()
	if a.state == Hidden {
		a.state = Shown
	}
	tracer().Debugf("adder %s at (%g,%g)", a.state, pos.X, pos.Y)
}

// Hide hides the adder and forgets the recorded annotation.
func (a *Adder) Hide() {
	a.widget.Hide()
	a.ann = nil
	a.state = Hidden
}

func (a *Adder) onMouseDown(ev *dom.Event) {
	if !ev.IsPrimary() || a.state == Hidden {
		return
	}
	ev.PreventDefault()
	a.state = Suppressing
}

func (a *Adder) onMouseUp(ev *dom.Event) {
	if !ev.IsPrimary() || a.state != Suppressing {
		return
	}
	tracer().Debugf("adder swallows mouse-up")
	ev.StopImmediatePropagation()
	a.state = Shown // only the release following the press is swallowed
}

func (a *Adder) onClick(ev *dom.Event) {
	if !ev.IsPrimary() {
		return
	}
	ev.PreventDefault()
	ann := a.ann
	a.Hide()
	if a.onCreate != nil && ann != nil {
		a.onCreate(ann, ev)
	}
}

// Destroy removes the adder and its listeners. It may be called more than once.
func (a *Adder) Destroy() {
	if len(a.subs) > 0 {
		a.widget.Document().Events().Unsubscribe(a.subs...)
		a.subs = nil
	}
	a.widget.Destroy()
	a.ann, a.state = nil, Hidden
}
