package dom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Matches is true if n matches a compiled CSS selector.
func Matches(n *html.Node, sel cascadia.Selector) bool {
	return n != nil && n.Type == html.ElementNode && sel.Match(n)
}

// QueryAll returns all descendents of n matching a CSS selector, in document order.
// n itself is not included.
func QueryAll(n *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return Collect(n, func(ch *html.Node) bool {
		return Matches(ch, sel)
	}), nil
}

// Query returns the first descendent of n matching a CSS selector, or nil.
func Query(n *html.Node, selector string) (*html.Node, error) {
	matches, err := QueryAll(n, selector)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// ClosestWith returns n or its nearest ancestor matching a selector.
func ClosestWith(n *html.Node, sel cascadia.Selector) *html.Node {
	for ; n != nil; n = n.Parent {
		if Matches(n, sel) {
			return n
		}
	}
	return nil
}
