package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrIndexSize is returned if an offset lies outside of a node's content.
var ErrIndexSize = errors.New("offset out of range")

// ErrNotAttached is returned for operations on nodes which need a parent, but don't have one.
var ErrNotAttached = errors.New("node is not attached to a parent")

// --- Attributes and classes ------------------------------------------------

// Attr returns the value of an attribute, or "" if n does not carry it.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr checks for existence of an attribute.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, replacing a previous value.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes an attribute from n, if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// Classes returns the class list of an element.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// HasClass is true if n is an element carrying CSS class `class`.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a CSS class to an element.
func AddClass(n *html.Node, class string) {
	if n == nil || n.Type != html.ElementNode || HasClass(n, class) {
		return
	}
	if classes := Attr(n, "class"); classes != "" {
		SetAttr(n, "class", classes+" "+class)
		return
	}
	SetAttr(n, "class", class)
}

// RemoveClass removes a CSS class from an element. If the class list
// becomes empty, the class attribute is dropped.
func RemoveClass(n *html.Node, class string) {
	if !HasClass(n, class) {
		return
	}
	var keep []string
	for _, c := range Classes(n) {
		if c != class {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

// --- Node creation ---------------------------------------------------------

// CreateElement creates a detached element node.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateTextNode creates a detached text node.
func CreateTextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// --- Tree relations --------------------------------------------------------

// Contains is true if b is a or a descendent of a.
func Contains(a, b *html.Node) bool {
	if a == nil {
		return false
	}
	for n := b; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

// Ancestors returns the ancestors of n, nearest first. n is not included.
func Ancestors(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var anc []*html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		anc = append(anc, p)
	}
	return anc
}

// CommonAncestor returns the nearest node containing both a and b, or nil
// if a and b do not belong to the same tree.
func CommonAncestor(a, b *html.Node) *html.Node {
	for n := a; n != nil; n = n.Parent {
		if Contains(n, b) {
			return n
		}
	}
	return nil
}

// TopMost returns the root of the tree n belongs to.
func TopMost(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// ChildCount returns the number of children-nodes of n.
func ChildCount(n *html.Node) int {
	cnt := 0
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		cnt++
	}
	return cnt
}

// ChildAt returns the child at position i, or nil.
func ChildAt(n *html.Node, i int) *html.Node {
	if n == nil || i < 0 {
		return nil
	}
	ch := n.FirstChild
	for ; ch != nil && i > 0; i-- {
		ch = ch.NextSibling
	}
	return ch
}

// IndexOfChild returns the position of n within the children of its parent,
// or -1 for unattached nodes.
func IndexOfChild(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	i := 0
	for ch := n.Parent.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch == n {
			return i
		}
		i++
	}
	return -1
}

// --- Document order --------------------------------------------------------

// following returns the first node after the sub-tree of n in document order.
func following(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// preceding returns the last node before n in document order which is not an ancestor of n.
func preceding(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.PrevSibling != nil {
			return n.PrevSibling
		}
	}
	return nil
}

func firstTextWithin(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if t := firstTextWithin(ch); t != nil {
			return t
		}
	}
	return nil
}

func lastTextWithin(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for ch := n.LastChild; ch != nil; ch = ch.PrevSibling {
		if t := lastTextWithin(ch); t != nil {
			return t
		}
	}
	return nil
}

// FirstTextNodeNotBefore returns n if it is a text node, the first text node
// within n, or the first text node following n in document order.
func FirstTextNodeNotBefore(n *html.Node) *html.Node {
	for n != nil {
		if t := firstTextWithin(n); t != nil {
			return t
		}
		n = following(n)
	}
	return nil
}

// FollowingTextNode returns the first text node after the sub-tree of n.
func FollowingTextNode(n *html.Node) *html.Node {
	return FirstTextNodeNotBefore(following(n))
}

// LastTextNodeUpTo returns n if it is a text node, the last text node
// within n, or the last text node preceding n in document order.
func LastTextNodeUpTo(n *html.Node) *html.Node {
	for n != nil {
		if t := lastTextWithin(n); t != nil {
			return t
		}
		n = preceding(n)
	}
	return nil
}

// PrecedingTextNode returns the last text node before n in document order,
// not counting text nodes within n.
func PrecedingTextNode(n *html.Node) *html.Node {
	return LastTextNodeUpTo(preceding(n))
}

// --- Text ------------------------------------------------------------------

// TextContent returns the concatenated text of all text nodes below n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	for _, t := range TextNodes(n) {
		b.WriteString(t.Data)
	}
	return b.String()
}

// RuneLen returns the length of a text node's content, counted in runes.
func RuneLen(n *html.Node) int {
	if n == nil {
		return 0
	}
	return utf8.RuneCountInString(n.Data)
}

// IsWhitespace is true if s is empty or consists of whitespace only.
func IsWhitespace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// SplitText breaks a text node into two at rune offset `offset`. n keeps the
// text before offset, the new node holds the rest and is inserted as the next
// sibling of n. The new node is returned.
//
// Ranges of the owning document's selection with a boundary inside the
// split-off part are moved to the new node.
func SplitText(n *html.Node, offset int) (*html.Node, error) {
	if n == nil || n.Type != html.TextNode {
		return nil, fmt.Errorf("cannot split non-text node")
	}
	runes := []rune(n.Data)
	if offset < 0 || offset > len(runes) {
		return nil, fmt.Errorf("split at %d of %d: %w", offset, len(runes), ErrIndexSize)
	}
	tail := CreateTextNode(string(runes[offset:]))
	n.Data = string(runes[:offset])
	if n.Parent != nil {
		n.Parent.InsertBefore(tail, n.NextSibling)
	}
	if doc := OwnerDocument(n); doc != nil {
		doc.Selection().adjustForSplit(n, tail, offset)
	}
	return tail, nil
}

// Wrap replaces n by wrapper and makes n the last child of wrapper.
// wrapper must be detached.
func Wrap(n, wrapper *html.Node) error {
	if n == nil || n.Parent == nil {
		return ErrNotAttached
	}
	n.Parent.InsertBefore(wrapper, n)
	n.Parent.RemoveChild(n)
	wrapper.AppendChild(n)
	return nil
}

// ReplaceWithChildren dissolves n: its children are moved to n's position
// within n's parent, in order, and n is removed from the tree.
func ReplaceWithChildren(n *html.Node) error {
	if n == nil || n.Parent == nil {
		return ErrNotAttached
	}
	parent := n.Parent
	for ch := n.FirstChild; ch != nil; ch = n.FirstChild {
		n.RemoveChild(ch)
		parent.InsertBefore(ch, n)
	}
	parent.RemoveChild(n)
	return nil
}

// Describe returns a short human readable description of a node, for tracing.
func Describe(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.TextNode:
		s := n.Data
		if utf8.RuneCountInString(s) > 16 {
			s = string([]rune(s)[:16]) + "…"
		}
		return fmt.Sprintf("#text %q", s)
	case html.ElementNode:
		if c := Attr(n, "class"); c != "" {
			return fmt.Sprintf("<%s class=%q>", n.Data, c)
		}
		return fmt.Sprintf("<%s>", n.Data)
	case html.DocumentNode:
		return "#document"
	}
	return fmt.Sprintf("node(type=%d)", n.Type)
}
