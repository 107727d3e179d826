/*
Package textselector watches a document for text selections made by the user.

A TextSelector listens for mouse-up events on the body of the document owning
its element. After each of these it captures the document's selection,
clips it to the element and reports the result to a callback. Selections
made within the user interface of this module (elements with a CSS class
starting with "annotator-") are reported as empty.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package textselector

import (
	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/xrange"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'hilite.selector'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.selector")
}

// systemUI matches elements belonging to the user interface of this module.
var systemUI = cascadia.MustCompile(`[class^="annotator-"], [class*=" annotator-"]`)

// SelectionHandler receives the ranges of a finished selection together with
// the event which ended it. An empty slice signals that nothing eligible is
// selected.
type SelectionHandler func(ranges []*xrange.Normalized, ev *dom.Event)

// Config configures a TextSelector.
type Config struct {
	OnSelection    SelectionHandler
	HighlightClass string // class of highlight markers, defaults to "annotator-hl"
}

// TextSelector captures selections within an element.
type TextSelector struct {
	element *html.Node
	doc     *dom.Document
	config  Config
	subs    []*dom.Subscription
}

// New creates a selector for element. If element does not belong to a
// document, the selector stays inert: it listens to nothing and captures
// nothing.
func New(element *html.Node, config Config) *TextSelector {
	if config.HighlightClass == "" {
		config.HighlightClass = xrange.DefaultIgnoreClass
	}
	ts := &TextSelector{element: element, config: config}
	ts.doc = dom.OwnerDocument(element)
	if ts.doc == nil {
		tracer().Errorf("text selector created for %s, which has no owning document; selector will not work",
			dom.Describe(element))
		return ts
	}
	sub := ts.doc.Events().Listen(ts.doc.Body(), dom.MouseUp, dom.PriorityDefault, ts.checkForEndSelection)
	ts.subs = append(ts.subs, sub)
	return ts
}

// Element returns the element selections are clipped to.
func (ts *TextSelector) Element() *html.Node {
	return ts.element
}

// IsInert is true if the selector does not listen for selections.
func (ts *TextSelector) IsInert() bool {
	return len(ts.subs) == 0
}

// CaptureSelection returns the ranges of the document's selection lying within
// the selector's element, normalized and clipped to the element.
//
// CaptureSelection changes the document's selection: clipped ranges replace
// the original ones, in boundary form. Ranges completely outside of the
// element are put back unchanged.
func (ts *TextSelector) CaptureSelection() []*xrange.Normalized {
	if ts.doc == nil {
		return nil
	}
	selection := ts.doc.Selection()
	if selection.IsCollapsed() {
		return nil
	}
	var ranges []*xrange.Normalized
	var untouched []*dom.Range
	for _, r := range selection.Ranges() {
		nr, err := xrange.NewBrowser(r).Normalize(ts.element)
		if err != nil {
			if !xrange.IsRangeError(err) {
				tracer().Errorf("cannot normalize selected range %s: %v", r, err)
			}
			untouched = append(untouched, r)
			continue
		}
		if limited := nr.Limit(ts.element); limited != nil {
			ranges = append(ranges, limited)
		} else {
			untouched = append(untouched, r)
		}
	}
	selection.RemoveAllRanges()
	for _, r := range untouched {
		selection.AddRange(r)
	}
	for _, nr := range ranges {
		selection.AddRange(nr.ToRange())
	}
	tracer().Debugf("captured %d range(s), left %d range(s) alone", len(ranges), len(untouched))
	return ranges
}

func (ts *TextSelector) checkForEndSelection(ev *dom.Event) {
	ranges := ts.CaptureSelection()
	if len(ranges) == 0 {
		ts.emit(nil, ev)
		return
	}
	for _, r := range ranges {
		container := r.CommonAncestor
		for container != nil && dom.HasClass(container, ts.config.HighlightClass) {
			container = container.Parent
		}
		if isSystemUI(container) {
			tracer().Debugf("selection within %s ignored", dom.Describe(container))
			ts.emit(nil, ev)
			return
		}
	}
	ts.emit(ranges, ev)
}

func (ts *TextSelector) emit(ranges []*xrange.Normalized, ev *dom.Event) {
	if ts.config.OnSelection != nil {
		ts.config.OnSelection(ranges, ev)
	}
}

// isSystemUI is true if n or one of its ancestors is part of the user
// interface of this module.
func isSystemUI(n *html.Node) bool {
	return dom.ClosestWith(n, systemUI) != nil
}

// Destroy stops listening for selections. It may be called more than once.
func (ts *TextSelector) Destroy() {
	if ts.doc == nil || len(ts.subs) == 0 {
		return
	}
	ts.doc.Events().Unsubscribe(ts.subs...)
	ts.subs = nil
}
