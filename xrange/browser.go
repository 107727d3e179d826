package xrange

import (
	"fmt"

	"github.com/npillmayer/hilite/dom"
	"golang.org/x/net/html"
)

// Range is anything which can be resolved to a normalized range.
type Range interface {
	Normalize(root *html.Node) (*Normalized, error)
}

// Browser is a raw range, as found in a document's selection.
type Browser struct {
	dom.Range
	tainted bool
}

// NewBrowser wraps a copy of a live DOM range.
func NewBrowser(r *dom.Range) *Browser {
	return &Browser{Range: *r}
}

// Normalize resolves the boundary points of b to text nodes, splitting text
// nodes where a boundary point lies in the middle of one. Afterwards the
// range starts at the beginning of a text node and ends at the end of a text
// node. root is not needed for browser ranges.
//
// Normalize changes the DOM and may be called only once.
func (b *Browser) Normalize(root *html.Node) (*Normalized, error) {
	if b.tainted {
		return nil, ErrTainted
	}
	if b.StartContainer == nil || b.EndContainer == nil {
		return nil, &RangeError{Kind: "start", Message: "range has no boundary containers"}
	}
	b.tainted = true
	ca := b.CommonAncestorContainer()
	if ca == nil {
		return nil, &RangeError{Kind: "start", Message: "range boundaries belong to different trees"}
	}
	start, startOffset, err := b.startPoint()
	if err != nil {
		return nil, err
	}
	end, endOffset, err := b.endPoint()
	if err != nil {
		return nil, err
	}
	tracer().Debugf("normalize %s:%d … %s:%d", dom.Describe(start), startOffset, dom.Describe(end), endOffset)
	//
	// now slice the boundary text nodes
	var rstart, rend *html.Node
	switch {
	case startOffset <= 0:
		rstart = start
	case startOffset < dom.RuneLen(start):
		if rstart, err = dom.SplitText(start, startOffset); err != nil {
			return nil, err
		}
	default: // avoid splitting off zero-length pieces
		rstart = dom.FollowingTextNode(start)
	}
	if rstart == nil {
		return nil, &RangeError{Kind: "start", Message: "no text after start of range"}
	}
	if start == end { // range lies within a single text node
		length := endOffset - startOffset
		if length <= 0 {
			return nil, &RangeError{Kind: "empty", Message: "range does not span any text"}
		}
		if dom.RuneLen(rstart) > length {
			if _, err = dom.SplitText(rstart, length); err != nil {
				return nil, err
			}
		}
		rend = rstart
	} else if endOffset <= 0 {
		rend = dom.PrecedingTextNode(end)
	} else {
		if dom.RuneLen(end) > endOffset {
			if _, err = dom.SplitText(end, endOffset); err != nil {
				return nil, err
			}
		}
		rend = end
	}
	if !dom.Contains(ca, rstart) || !dom.Contains(ca, rend) {
		ca = dom.CommonAncestor(rstart, rend)
	}
	for ca != nil && ca.Type != html.ElementNode {
		ca = ca.Parent
	}
	if rend == nil || ca == nil || !inOrder(ca, rstart, rend) {
		return nil, &RangeError{Kind: "empty", Message: "range does not span any text"}
	}
	return &Normalized{CommonAncestor: ca, Start: rstart, End: rend}, nil
}

func (b *Browser) startPoint() (*html.Node, int, error) {
	c, offset := b.StartContainer, b.StartOffset
	if c.Type == html.TextNode {
		return c, offset, nil
	}
	var n *html.Node
	if child := dom.ChildAt(c, offset); child != nil {
		n = dom.FirstTextNodeNotBefore(child)
	} else {
		n = dom.FollowingTextNode(c)
	}
	if n == nil {
		return nil, 0, &RangeError{Kind: "start",
			Message: fmt.Sprintf("no text node at or after %s:%d", dom.Describe(c), offset)}
	}
	return n, 0, nil
}

func (b *Browser) endPoint() (*html.Node, int, error) {
	c, offset := b.EndContainer, b.EndOffset
	if c.Type == html.TextNode {
		return c, offset, nil
	}
	var n *html.Node
	if offset > 0 {
		if child := dom.ChildAt(c, offset-1); child != nil {
			n = dom.LastTextNodeUpTo(child)
		} else {
			n = dom.LastTextNodeUpTo(c)
		}
	} else {
		n = dom.PrecedingTextNode(c)
	}
	if n == nil {
		return nil, 0, &RangeError{Kind: "end",
			Message: fmt.Sprintf("no text node up to %s:%d", dom.Describe(c), offset)}
	}
	return n, dom.RuneLen(n), nil
}

// inOrder is true if text node a does not come after text node b within ca.
func inOrder(ca, a, b *html.Node) bool {
	if a == b {
		return true
	}
	for _, t := range dom.TextNodes(ca) {
		switch t {
		case a:
			return true
		case b:
			return false
		}
	}
	return false
}
