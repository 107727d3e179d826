package hilite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/hilite/adder"
	"github.com/npillmayer/hilite/annotation"
	"github.com/npillmayer/hilite/config"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/eventloop"
	"github.com/npillmayer/hilite/highlight"
	"github.com/npillmayer/hilite/textselector"
	"github.com/npillmayer/hilite/widget"
	"github.com/npillmayer/hilite/xrange"
	"golang.org/x/net/html"
)

// ErrNoRoot is returned if the element to highlight within cannot be found.
var ErrNoRoot = errors.New("root element not found")

// Option is a functional option for configuring an App.
type Option func(*App)

// WithConfig sets the options read from a configuration file.
func WithConfig(opts config.Options) Option {
	return func(app *App) {
		app.options = opts
	}
}

// WithCreator sets the collaborator receiving new annotations.
func WithCreator(c annotation.Creator) Option {
	return func(app *App) {
		app.creator = c
	}
}

// WithLoop lets batch drawing yield to an event loop.
func WithLoop(loop *eventloop.Loop) Option {
	return func(app *App) {
		app.loop = loop
	}
}

// WithViewport sets the visible area of the page, used to orient the adder.
func WithViewport(vp *widget.Viewport) Option {
	return func(app *App) {
		app.viewport = vp
	}
}

// App lets users annotate a document. It shows the adder for text selected
// within its root element, hands new annotations to a Creator and keeps the
// highlights of annotations in sync.
type App struct {
	ctx         context.Context
	doc         *dom.Document
	root        *html.Node
	options     config.Options
	creator     annotation.Creator
	loop        *eventloop.Loop
	viewport    *widget.Viewport
	highlighter *highlight.Highlighter
	selector    *textselector.TextSelector
	adder       *adder.Adder
}

// New creates an app for doc. ctx is handed to the Creator for every
// new annotation.
func New(ctx context.Context, doc *dom.Document, opts ...Option) (*App, error) {
	if doc == nil {
		return nil, dom.ErrNoDocument
	}
	app := &App{ctx: ctx, doc: doc, options: config.Default()}
	for _, opt := range opts {
		opt(app)
	}
	if err := app.options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	root, err := dom.Query(doc.Root(), app.options.Root)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRoot, app.options.Root)
	}
	app.root = root
	app.highlighter = highlight.New(root,
		highlight.HighlightClass(app.options.HighlightClass),
		highlight.ChunkSize(app.options.ChunkSize),
		highlight.ChunkDelay(app.options.Delay()),
		highlight.WithLoop(app.loop),
	)
	var appendTo any
	if app.options.AppendTo != "" {
		appendTo = app.options.AppendTo
	}
	app.adder, err = adder.New(doc, adder.Options{
		Options:  widget.Options{AppendTo: appendTo, Viewport: app.viewport},
		OnCreate: app.onCreate,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create adder: %w", err)
	}
	app.selector = textselector.New(root, textselector.Config{
		OnSelection:    app.onSelection,
		HighlightClass: app.options.HighlightClass,
	})
	tracer().Infof("annotating %s", dom.Describe(root))
	return app, nil
}

func (app *App) onSelection(ranges []*xrange.Normalized, ev *dom.Event) {
	if len(ranges) == 0 {
		app.adder.Hide()
		return
	}
	ann, err := MakeAnnotation(ranges, app.root, app.options.HighlightClass)
	if err != nil {
		tracer().Errorf("cannot create annotation from selection: %v", err)
		app.adder.Hide()
		return
	}
	app.adder.Load(ann, ev.Page)
}

func (app *App) onCreate(ann *annotation.Annotation, _ *dom.Event) {
	if app.creator != nil {
		if err := app.creator.Create(app.ctx, ann); err != nil {
			tracer().Errorf("annotation not created: %v", err)
			return
		}
	}
	if _, err := app.highlighter.OnCreated(ann); err != nil {
		tracer().Errorf("cannot draw new %s: %v", ann, err)
	}
}

// MakeAnnotation creates an annotation for selected ranges. Its quote is the
// text of the ranges, joined by " / ", and its ranges are serialized relative
// to root. Elements of class ignoreClass do not count for serialization.
func MakeAnnotation(ranges []*xrange.Normalized, root *html.Node, ignoreClass string) (*annotation.Annotation, error) {
	ann := &annotation.Annotation{}
	quotes := make([]string, 0, len(ranges))
	for _, r := range ranges {
		s, err := r.Serialize(root, ignoreClass)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, strings.TrimSpace(r.Text()))
		ann.Ranges = append(ann.Ranges, s)
	}
	ann.Quote = strings.Join(quotes, " / ")
	return ann, nil
}

// Load draws annotations read from storage.
func (app *App) Load(ctx context.Context, anns []*annotation.Annotation) highlight.Promise {
	return app.highlighter.OnLoaded(ctx, anns)
}

// Update redraws an annotation after its ranges changed.
func (app *App) Update(ann *annotation.Annotation) ([]*html.Node, error) {
	return app.highlighter.OnUpdated(ann)
}

// Delete removes the highlights of an annotation.
func (app *App) Delete(ann *annotation.Annotation) {
	app.highlighter.OnDeleted(ann)
}

// Root returns the element annotations are made within.
func (app *App) Root() *html.Node {
	return app.root
}

// Highlighter returns the app's highlighter.
func (app *App) Highlighter() *highlight.Highlighter {
	return app.highlighter
}

// Adder returns the app's adder.
func (app *App) Adder() *adder.Adder {
	return app.adder
}

// Destroy stops listening to the document and removes all highlights and
// the adder from it.
func (app *App) Destroy() {
	app.selector.Destroy()
	app.adder.Destroy()
	app.highlighter.Destroy()
	tracer().Infof("app destroyed")
}
