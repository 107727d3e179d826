package dom

import (
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned for nodes which are not attached to a Document.
var ErrNoDocument = errors.New("node has no owning document")

// Document is a parsed HTML document together with its live selection and
// its event dispatcher.
type Document struct {
	root      *html.Node
	selection *Selection
	events    *Dispatcher
}

// documents maps root nodes to documents, making OwnerDocument possible.
var documents = struct {
	sync.RWMutex
	byRoot map[*html.Node]*Document
}{byRoot: make(map[*html.Node]*Document)}

// NewDocument creates a document for a parse tree. If root is not the top of
// its tree, the top is used instead. Creating a document twice for the same
// tree returns the existing one.
func NewDocument(root *html.Node) *Document {
	root = TopMost(root)
	documents.Lock()
	defer documents.Unlock()
	if doc, ok := documents.byRoot[root]; ok {
		return doc
	}
	doc := &Document{
		root:      root,
		selection: &Selection{},
		events:    NewDispatcher(),
	}
	documents.byRoot[root] = doc
	tracer().Debugf("new document for %s", Describe(root))
	return doc
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(root), nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// OwnerDocument returns the document n is attached to, or nil if the tree
// containing n has never been opened as a Document or has been released.
func OwnerDocument(n *html.Node) *Document {
	if n == nil {
		return nil
	}
	root := TopMost(n)
	documents.RLock()
	defer documents.RUnlock()
	return documents.byRoot[root]
}

// Release detaches the document from its tree. Afterwards, nodes of the
// tree no longer have an owning document.
func (doc *Document) Release() {
	documents.Lock()
	defer documents.Unlock()
	delete(documents.byRoot, doc.root)
}

// Root returns the document node.
func (doc *Document) Root() *html.Node {
	return doc.root
}

// Body returns the <body> element, or the root if there is none.
func (doc *Document) Body() *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			return n
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if b := find(ch); b != nil {
				return b
			}
		}
		return nil
	}
	if body := find(doc.root); body != nil {
		return body
	}
	return doc.root
}

// Selection returns the live selection of the document.
func (doc *Document) Selection() *Selection {
	return doc.selection
}

// Events returns the event dispatcher of the document.
func (doc *Document) Events() *Dispatcher {
	return doc.events
}

// Render writes the document as HTML.
func (doc *Document) Render(w io.Writer) error {
	return html.Render(w, doc.root)
}

// String renders the document to a string.
func (doc *Document) String() string {
	var b strings.Builder
	if err := doc.Render(&b); err != nil {
		tracer().Errorf("cannot render document: %v", err)
	}
	return b.String()
}

// ParseFragment parses a snippet of HTML in the context of the document's
// body and returns the first element of it.
func (doc *Document) ParseFragment(snippet string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(snippet), doc.Body())
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n, nil
		}
	}
	return nil, errors.New("fragment contains no element")
}
