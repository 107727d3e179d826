package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Selection represents the user's selection of text in a document.
// Other than most browsers we support selections made up of several
// disjoint ranges.
type Selection struct {
	ranges []*Range
}

// IsCollapsed is true if the selection is empty or all of its ranges are collapsed.
func (s *Selection) IsCollapsed() bool {
	for _, r := range s.ranges {
		if !r.Collapsed() {
			return false
		}
	}
	return true
}

// RangeCount returns the number of ranges in the selection.
func (s *Selection) RangeCount() int {
	return len(s.ranges)
}

// RangeAt returns the range at the given index.
func (s *Selection) RangeAt(index int) (*Range, error) {
	if index < 0 || index >= len(s.ranges) {
		return nil, fmt.Errorf("range %d of %d: %w", index, len(s.ranges), ErrIndexSize)
	}
	return s.ranges[index], nil
}

// Ranges returns a copy of the list of ranges.
func (s *Selection) Ranges() []*Range {
	rs := make([]*Range, len(s.ranges))
	copy(rs, s.ranges)
	return rs
}

// AddRange adds a range to the selection. Adding the same range twice is a no-op.
func (s *Selection) AddRange(r *Range) {
	if r == nil {
		return
	}
	for _, existing := range s.ranges {
		if existing == r {
			return
		}
	}
	s.ranges = append(s.ranges, r)
}

// RemoveAllRanges empties the selection.
func (s *Selection) RemoveAllRanges() {
	s.ranges = s.ranges[:0]
}

// adjustForSplit keeps boundary points valid after text node n has been
// split at offset, with the tail moved to node tail. As in the W3C DOM,
// boundaries after n within n's parent move past the new node.
func (s *Selection) adjustForSplit(n, tail *html.Node, offset int) {
	after := IndexOfChild(n) + 1
	for _, r := range s.ranges {
		if r.StartContainer == n && r.StartOffset > offset {
			r.StartContainer = tail
			r.StartOffset -= offset
		} else if after > 0 && r.StartContainer == n.Parent && r.StartOffset >= after {
			r.StartOffset++
		}
		if r.EndContainer == n && r.EndOffset > offset {
			r.EndContainer = tail
			r.EndOffset -= offset
		} else if after > 0 && r.EndContainer == n.Parent && r.EndOffset >= after {
			r.EndOffset++
		}
	}
}
