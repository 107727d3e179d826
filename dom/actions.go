package dom

import (
	"golang.org/x/net/html"
)

// Predicate is a function type to match against nodes of a DOM.
type Predicate func(n *html.Node) bool

// NodeIsText is a predicate to match text-nodes of a DOM.
var NodeIsText Predicate = func(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// NodeIsElement is a predicate to match element-nodes of a DOM.
var NodeIsElement Predicate = func(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// NodeHasClass returns a predicate matching elements carrying a CSS class.
func NodeHasClass(class string) Predicate {
	return func(n *html.Node) bool {
		return HasClass(n, class)
	}
}

// Collect walks the sub-tree below n in document order and returns all
// descendents matching a predicate. n itself is not included.
func Collect(n *html.Node, pred Predicate) []*html.Node {
	if n == nil || pred == nil {
		return nil
	}
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for ch := node.FirstChild; ch != nil; ch = ch.NextSibling {
			if pred(ch) {
				matches = append(matches, ch)
			}
			walk(ch)
		}
	}
	walk(n)
	return matches
}

// TextNodes returns all text nodes of a sub-tree in document order.
// If n is a text node itself, the result consists of n only.
func TextNodes(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.TextNode {
		return []*html.Node{n}
	}
	return Collect(n, NodeIsText)
}
