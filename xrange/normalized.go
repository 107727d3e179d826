package xrange

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/hilite/dom"
	"golang.org/x/net/html"
)

// ErrNotUnderRoot is returned when serializing a range which does not lie
// within the root element given.
var ErrNotUnderRoot = errors.New("range is not located under root element")

// Normalized is a range starting at the beginning of text node Start and
// ending at the end of text node End. CommonAncestor is an element
// containing both.
type Normalized struct {
	CommonAncestor *html.Node
	Start          *html.Node
	End            *html.Node
}

// Normalize returns nr itself.
func (nr *Normalized) Normalize(*html.Node) (*Normalized, error) {
	return nr, nil
}

// TextNodes returns the text nodes spanned by the range, in document order.
func (nr *Normalized) TextNodes() []*html.Node {
	all := dom.TextNodes(nr.CommonAncestor)
	from, to := -1, -1
	for i, t := range all {
		if t == nr.Start {
			from = i
		}
		if t == nr.End {
			to = i
			break
		}
	}
	if from < 0 {
		return nil
	}
	if to < from {
		return all[from:]
	}
	return all[from : to+1]
}

// Limit clips the range to the text nodes located within bounds.
// It returns nil if no text node of the range lies within bounds.
func (nr *Normalized) Limit(bounds *html.Node) *Normalized {
	var nodes []*html.Node
	for _, t := range nr.TextNodes() {
		if dom.Contains(bounds, t.Parent) {
			nodes = append(nodes, t)
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	limited := &Normalized{Start: nodes[0], End: nodes[len(nodes)-1]}
	for p := limited.Start.Parent; p != nil; p = p.Parent {
		if dom.Contains(p, limited.End) {
			limited.CommonAncestor = p
			break
		}
	}
	return limited
}

// Text returns the concatenated text of the range.
func (nr *Normalized) Text() string {
	var b strings.Builder
	for _, t := range nr.TextNodes() {
		b.WriteString(t.Data)
	}
	return b.String()
}

// ToRange converts nr into a live DOM range with element boundaries,
// i.e. starting before Start and ending after End.
func (nr *Normalized) ToRange() *dom.Range {
	r := &dom.Range{}
	r.SetStartBefore(nr.Start)
	r.SetEndAfter(nr.End)
	return r
}

// Serialize creates a storable description of nr, relative to root.
// Elements carrying class ignoreClass are transparent for the description.
func (nr *Normalized) Serialize(root *html.Node, ignoreClass string) (*Serialized, error) {
	start, startOffset, err := serialization(root, nr.Start, ignoreClass, false)
	if err != nil {
		return nil, err
	}
	end, endOffset, err := serialization(root, nr.End, ignoreClass, true)
	if err != nil {
		return nil, err
	}
	return &Serialized{
		Start:       start,
		StartOffset: startOffset,
		End:         end,
		EndOffset:   endOffset,
		IgnoreClass: ignoreClass,
	}, nil
}

func serialization(root, text *html.Node, ignoreClass string, isEnd bool) (string, int, error) {
	parent := text.Parent
	for parent != nil && ignoreClass != "" && dom.HasClass(parent, ignoreClass) {
		parent = parent.Parent
	}
	if parent == nil || !dom.Contains(root, parent) {
		return "", 0, fmt.Errorf("%s: %w", dom.Describe(text), ErrNotUnderRoot)
	}
	path, err := pathFromNode(parent, root, ignoreClass)
	if err != nil {
		return "", 0, err
	}
	offset := 0
	for _, t := range dom.TextNodes(parent) {
		if t == text {
			break
		}
		offset += dom.RuneLen(t)
	}
	if isEnd {
		offset += dom.RuneLen(text)
	}
	return path, offset, nil
}

func (nr *Normalized) String() string {
	return fmt.Sprintf("[%s … %s]", dom.Describe(nr.Start), dom.Describe(nr.End))
}
