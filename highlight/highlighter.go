package highlight

import (
	"context"
	"sync"

	"github.com/npillmayer/hilite/annotation"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/xrange"
	"golang.org/x/net/html"
)

// Highlighter draws annotations below a root element.
//
// A Highlighter is not safe for concurrent use. All calls are expected to
// happen on the goroutine owning the document, usually an event loop.
type Highlighter struct {
	props
	root   *html.Node
	owners map[*html.Node]*annotation.Annotation
}

// Promise is a future for the result of DrawAll. Calling it blocks until
// all chunks have been drawn, then returns the markers of all annotations
// in input order.
type Promise func() ([]*html.Node, error)

// New creates a highlighter for the subtree at root.
func New(root *html.Node, opts ...Option) *Highlighter {
	h := &Highlighter{
		props:  defaultProps(),
		root:   root,
		owners: make(map[*html.Node]*annotation.Annotation),
	}
	for _, option := range opts {
		h.props = option.config(h.props)
	}
	return h
}

// Root returns the element the highlighter draws into.
func (h *Highlighter) Root() *html.Node {
	return h.root
}

// Class returns the CSS class of markers.
func (h *Highlighter) Class() string {
	return h.class
}

// Draw highlights the ranges of ann. Ranges which cannot be resolved
// against the current document are skipped; other errors are returned.
// The new markers are appended to ann.Highlights. Draw returns the markers
// created by this call.
func (h *Highlighter) Draw(ann *annotation.Annotation) (drawn []*html.Node, err error) {
	defer func() {
		ann.Highlights = append(ann.Highlights, drawn...)
	}()
	for i, stored := range ann.Ranges {
		r, err := xrange.Sniff(stored)
		if err != nil {
			return drawn, err
		}
		if s, ok := r.(*xrange.Serialized); ok {
			s.IgnoreClass = h.class
		}
		nr, err := r.Normalize(h.root)
		if err != nil {
			if xrange.IsRangeError(err) {
				tracer().Debugf("skipping range #%d of %s: %v", i, ann, err)
				continue
			}
			return drawn, err
		}
		drawn = append(drawn, h.highlightRange(nr, ann)...)
	}
	tracer().Debugf("drew %d markers for %s", len(drawn), ann)
	return drawn, nil
}

func (h *Highlighter) highlightRange(nr *xrange.Normalized, ann *annotation.Annotation) []*html.Node {
	var markers []*html.Node
	for _, text := range nr.TextNodes() {
		if dom.IsWhitespace(text.Data) {
			continue
		}
		marker := dom.CreateElement("span")
		dom.AddClass(marker, h.class)
		if ann.HasID() {
			dom.SetAttr(marker, IDAttr, ann.ID)
		}
		if err := dom.Wrap(text, marker); err != nil {
			tracer().Errorf("cannot wrap %s: %v", dom.Describe(text), err)
			continue
		}
		h.owners[marker] = ann
		markers = append(markers, marker)
	}
	return markers
}

// Undraw removes the highlights of ann from the document and clears
// ann.Highlights.
func (h *Highlighter) Undraw(ann *annotation.Annotation) {
	for _, marker := range ann.Highlights {
		delete(h.owners, marker)
		if marker.Parent == nil {
			continue
		}
		if err := dom.ReplaceWithChildren(marker); err != nil {
			tracer().Errorf("cannot dissolve %s: %v", dom.Describe(marker), err)
		}
	}
	ann.Highlights = nil
}

// Redraw undraws ann and draws it again, e.g. after its ranges changed.
func (h *Highlighter) Redraw(ann *annotation.Annotation) ([]*html.Node, error) {
	h.Undraw(ann)
	return h.Draw(ann)
}

// DrawAll draws a batch of annotations in chunks. The first chunk is drawn
// before DrawAll returns; each further chunk is scheduled after the
// configured delay. Drawing stops at the first error or when ctx is done.
// If the scheduler drops a continuation, for example because the event loop
// stopped, the Promise resolves with the scheduler's error.
//
// If the highlighter runs with an event loop, DrawAll has to be called on
// the loop and the Promise must not be called from a task of that loop.
// Without a loop, chunks are drawn on the calling goroutine, which sleeps
// for the chunk delay in between. DrawAll then returns only after the last
// chunk and nothing else gets to run meanwhile.
func (h *Highlighter) DrawAll(ctx context.Context, anns []*annotation.Annotation) Promise {
	var markers []*html.Node
	var lasterror error
	done := make(chan struct{})
	var once sync.Once
	finish := func(err error) {
		once.Do(func() {
			lasterror = err
			close(done)
		})
	}
	var chunk func(from int)
	chunk = func(from int) {
		if err := ctx.Err(); err != nil {
			tracer().Infof("drawing annotations cancelled after %d of %d", from, len(anns))
			finish(err)
			return
		}
		to := min(from+h.chunkSize, len(anns))
		for _, ann := range anns[from:to] {
			drawn, err := h.Draw(ann)
			markers = append(markers, drawn...)
			if err != nil {
				finish(err)
				return
			}
		}
		if to == len(anns) {
			tracer().Debugf("drew %d annotations, %d markers", len(anns), len(markers))
			finish(nil)
			return
		}
		h.scheduler.AfterFunc(h.chunkDelay, func() { chunk(to) }, func(err error) {
			tracer().Errorf("drawing annotations abandoned after %d of %d: %v", to, len(anns), err)
			finish(err)
		})
	}
	chunk(0)
	return func() ([]*html.Node, error) {
		<-done
		return markers, lasterror
	}
}

// AnnotationFor returns the annotation a marker element belongs to,
// or nil if marker is not a marker drawn by h.
func (h *Highlighter) AnnotationFor(marker *html.Node) *annotation.Annotation {
	return h.owners[marker]
}

// Destroy removes every marker below the root, including markers of other
// highlighters using the same class.
func (h *Highlighter) Destroy() {
	markers, err := dom.QueryAll(h.root, "."+h.class)
	if err != nil { // class is not a valid CSS identifier
		markers = dom.Collect(h.root, dom.NodeHasClass(h.class))
	}
	for _, marker := range markers {
		if marker.Parent != nil {
			_ = dom.ReplaceWithChildren(marker)
		}
	}
	for _, ann := range h.owners {
		ann.Highlights = nil
	}
	clear(h.owners)
	tracer().Infof("removed %d markers", len(markers))
}

// --- Annotation lifecycle --------------------------------------------------

// OnLoaded draws annotations loaded from storage.
func (h *Highlighter) OnLoaded(ctx context.Context, anns []*annotation.Annotation) Promise {
	return h.DrawAll(ctx, anns)
}

// OnCreated draws a newly created annotation.
func (h *Highlighter) OnCreated(ann *annotation.Annotation) ([]*html.Node, error) {
	return h.Draw(ann)
}

// OnUpdated redraws an annotation whose ranges changed.
func (h *Highlighter) OnUpdated(ann *annotation.Annotation) ([]*html.Node, error) {
	return h.Redraw(ann)
}

// OnDeleted removes the highlights of a deleted annotation.
func (h *Highlighter) OnDeleted(ann *annotation.Annotation) {
	h.Undraw(ann)
}
