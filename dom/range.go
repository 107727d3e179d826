package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Range is a live DOM range, i.e. a span of a document delimited by two
// boundary points. A boundary point is a container node and an offset:
// for text containers the offset counts runes, for all other containers
// it counts children.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange creates a range from two boundary points.
func NewRange(startContainer *html.Node, startOffset int, endContainer *html.Node, endOffset int) *Range {
	return &Range{
		StartContainer: startContainer,
		StartOffset:    startOffset,
		EndContainer:   endContainer,
		EndOffset:      endOffset,
	}
}

// SelectNodeContents creates a range spanning all the children of n.
func SelectNodeContents(n *html.Node) *Range {
	if n.Type == html.TextNode {
		return NewRange(n, 0, n, RuneLen(n))
	}
	return NewRange(n, 0, n, ChildCount(n))
}

// Collapsed is true if start and end are the same point.
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// SetStartBefore sets the start of the range to the position immediately before n.
func (r *Range) SetStartBefore(n *html.Node) {
	r.StartContainer = n.Parent
	r.StartOffset = IndexOfChild(n)
}

// SetEndAfter sets the end of the range to the position immediately after n.
func (r *Range) SetEndAfter(n *html.Node) {
	r.EndContainer = n.Parent
	r.EndOffset = IndexOfChild(n) + 1
}

// CommonAncestorContainer returns the deepest node containing both containers.
func (r *Range) CommonAncestorContainer() *html.Node {
	return CommonAncestor(r.StartContainer, r.EndContainer)
}

func (r *Range) String() string {
	return fmt.Sprintf("[%s:%d … %s:%d]", Describe(r.StartContainer), r.StartOffset,
		Describe(r.EndContainer), r.EndOffset)
}
