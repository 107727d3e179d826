package xrange

import (
	"fmt"

	"github.com/npillmayer/hilite/dom"
	"golang.org/x/net/html"
)

// Serialized is the storable form of a range. Start and End are paths to
// elements, relative to some root element; the offsets count characters
// within the text content of these elements.
type Serialized struct {
	Start       string `json:"start" yaml:"start"`
	StartOffset int    `json:"startOffset" yaml:"startOffset"`
	End         string `json:"end" yaml:"end"`
	EndOffset   int    `json:"endOffset" yaml:"endOffset"`
	// IgnoreClass is the class of elements to skip when following paths.
	// If empty, DefaultIgnoreClass is used.
	IgnoreClass string `json:"-" yaml:"-"`
}

func (s *Serialized) ignoreClass() string {
	if s.IgnoreClass == "" {
		return DefaultIgnoreClass
	}
	return s.IgnoreClass
}

// Normalize resolves s against the DOM below root. If the elements or
// offsets described by s cannot be found, a *RangeError is returned.
func (s *Serialized) Normalize(root *html.Node) (*Normalized, error) {
	type part struct {
		name   string
		path   string
		offset int
	}
	var containers [2]*html.Node
	var offsets [2]int
	for i, p := range []part{{"start", s.Start, s.StartOffset}, {"end", s.End, s.EndOffset}} {
		node, err := nodeFromPath(root, p.path, s.ignoreClass())
		if err != nil {
			return nil, &RangeError{
				Kind:    p.name,
				Message: fmt.Sprintf("error while finding %s node %q: %v", p.name, p.path, err),
				Parent:  err,
			}
		}
		if node == nil {
			return nil, &RangeError{
				Kind:    p.name,
				Message: fmt.Sprintf("couldn't find %s node %q", p.name, p.path),
			}
		}
		// an end offset denotes the position after the last character
		target := p.offset
		if p.name == "end" {
			target--
		}
		length, found := 0, false
		for _, t := range dom.TextNodes(node) {
			l := dom.RuneLen(t)
			if length+l > target {
				containers[i], offsets[i] = t, p.offset-length
				found = true
				break
			}
			length += l
		}
		if !found {
			return nil, &RangeError{
				Kind:    p.name + "offset",
				Message: fmt.Sprintf("couldn't find offset %d in element %q", p.offset, p.path),
			}
		}
	}
	tracer().Debugf("serialized range resolves to %s:%d … %s:%d", dom.Describe(containers[0]), offsets[0],
		dom.Describe(containers[1]), offsets[1])
	b := NewBrowser(dom.NewRange(containers[0], offsets[0], containers[1], offsets[1]))
	return b.Normalize(root)
}

func (s *Serialized) String() string {
	return fmt.Sprintf("%s:%d … %s:%d", s.Start, s.StartOffset, s.End, s.EndOffset)
}
