package xrange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/npillmayer/hilite/dom"
	"golang.org/x/net/html"
)

// pathFromNode creates a path like "/div[1]/p[2]" leading from root to node.
// Elements carrying ignoreClass are not counted.
func pathFromNode(node, root *html.Node, ignoreClass string) (string, error) {
	var steps []string
	for n := node; n != root; n = n.Parent {
		if n == nil {
			return "", fmt.Errorf("%s: %w", dom.Describe(node), ErrNotUnderRoot)
		}
		if n.Type != html.ElementNode {
			return "", fmt.Errorf("cannot create path step for %s", dom.Describe(n))
		}
		pos := 1
		for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == n.Data &&
				(ignoreClass == "" || !dom.HasClass(sib, ignoreClass)) {
				pos++
			}
		}
		steps = append(steps, fmt.Sprintf("%s[%d]", strings.ToLower(n.Data), pos))
	}
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(steps[i])
	}
	return b.String(), nil
}

var pathStep = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*)(?:\[([1-9][0-9]*)\])?$`)

// xpathFromPath translates a serialized path into an XPath expression
// relative to the context node.
func xpathFromPath(path, ignoreClass string) (string, error) {
	var b strings.Builder
	b.WriteByte('.')
	for _, step := range strings.Split(path, "/") {
		if step == "" {
			continue
		}
		m := pathStep.FindStringSubmatch(step)
		if m == nil {
			return "", fmt.Errorf("malformed path step %q", step)
		}
		pos := 1
		if m[2] != "" {
			pos, _ = strconv.Atoi(m[2])
		}
		b.WriteByte('/')
		b.WriteString(strings.ToLower(m[1]))
		if ignoreClass != "" {
			fmt.Fprintf(&b, "[not(contains(concat(' ', normalize-space(@class), ' '), ' %s '))]", ignoreClass)
		}
		fmt.Fprintf(&b, "[%d]", pos)
	}
	return b.String(), nil
}

// nodeFromPath finds the element a path leads to, starting from root.
// It returns nil if there is no such element.
func nodeFromPath(root *html.Node, path, ignoreClass string) (*html.Node, error) {
	expr, err := xpathFromPath(path, ignoreClass)
	if err != nil {
		return nil, err
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return htmlquery.QuerySelector(root, compiled), nil
}
