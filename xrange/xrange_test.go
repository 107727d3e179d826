package xrange

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/dom/domdbg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<html><body>
<div id="outside"><p>Not in root.</p></div>
<div id="root"><p>Hello brave new world</p><p>Second <em>para</em>graph.</p></div>
</body></html>`

func setup(t *testing.T) (*dom.Document, *html.Node) {
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	t.Cleanup(doc.Release)
	root, err := dom.Query(doc.Root(), "#root")
	require.NoError(t, err)
	require.NotNil(t, root)
	return doc, root
}

func TestBrowserNormalizeWithinTextNode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.xrange")
	defer teardown()
	//
	_, root := setup(t)
	p, _ := dom.Query(root, "p")
	text := p.FirstChild
	nr, err := NewBrowser(dom.NewRange(text, 6, text, 11)).Normalize(root)
	require.NoError(t, err)
	t.Logf("DOM after normalize:\n%s", domdbg.Print(p, ""))
	assert.Equal(t, "brave", nr.Text())
	assert.Equal(t, nr.Start, nr.End)
	assert.Equal(t, p, nr.CommonAncestor)
	assert.Equal(t, "Hello brave new world", dom.TextContent(p))
	assert.Len(t, dom.TextNodes(p), 3)
}

func TestBrowserNormalizeTwiceFails(t *testing.T) {
	_, root := setup(t)
	p, _ := dom.Query(root, "p")
	b := NewBrowser(dom.SelectNodeContents(p))
	_, err := b.Normalize(root)
	require.NoError(t, err)
	_, err = b.Normalize(root)
	assert.True(t, errors.Is(err, ErrTainted))
}

func TestBrowserNormalizeElementBoundaries(t *testing.T) {
	_, root := setup(t)
	paras, _ := dom.QueryAll(root, "p")
	require.Len(t, paras, 2)
	// from inside "brave" up to the end of <em>
	first := paras[0].FirstChild
	em, _ := dom.Query(paras[1], "em")
	nr, err := NewBrowser(dom.NewRange(first, 12, em, 1)).Normalize(root)
	require.NoError(t, err)
	assert.Equal(t, "new worldSecond para", nr.Text())
	assert.Equal(t, root, nr.CommonAncestor)
}

func TestBrowserNormalizeCollapsedIsRangeError(t *testing.T) {
	_, root := setup(t)
	p, _ := dom.Query(root, "p")
	_, err := NewBrowser(dom.NewRange(p.FirstChild, 3, p.FirstChild, 3)).Normalize(root)
	require.Error(t, err)
	assert.True(t, IsRangeError(err))
}

func TestLimit(t *testing.T) {
	doc, root := setup(t)
	outside, _ := dom.Query(doc.Root(), "#outside p")
	paras, _ := dom.QueryAll(root, "p")
	nr, err := NewBrowser(dom.NewRange(outside.FirstChild, 4, paras[0].FirstChild, 5)).Normalize(root)
	require.NoError(t, err)
	limited := nr.Limit(root)
	require.NotNil(t, limited)
	assert.Equal(t, "Hello", limited.Text())
	assert.Equal(t, paras[0], limited.CommonAncestor)
	//
	other, err := NewBrowser(dom.SelectNodeContents(outside)).Normalize(root)
	require.NoError(t, err)
	assert.Nil(t, other.Limit(root))
}

func TestSerializeAndResolve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.xrange")
	defer teardown()
	//
	_, root := setup(t)
	paras, _ := dom.QueryAll(root, "p")
	em, _ := dom.Query(paras[1], "em")
	nr, err := NewBrowser(dom.NewRange(paras[0].FirstChild, 6, em.FirstChild, 2)).Normalize(root)
	require.NoError(t, err)
	s, err := nr.Serialize(root, DefaultIgnoreClass)
	require.NoError(t, err)
	assert.Equal(t, "/p[1]", s.Start)
	assert.Equal(t, 6, s.StartOffset)
	assert.Equal(t, "/p[2]/em[1]", s.End)
	assert.Equal(t, 2, s.EndOffset)
	//
	_, fresh := setup(t)
	resolved, err := s.Normalize(fresh)
	require.NoError(t, err)
	assert.Equal(t, nr.Text(), resolved.Text())
}

func TestResolveIgnoresHighlights(t *testing.T) {
	_, root := setup(t)
	paras, _ := dom.QueryAll(root, "p")
	// wrap "Second " into a highlight marker; it must not disturb paths
	marker := dom.CreateElement("em")
	dom.AddClass(marker, DefaultIgnoreClass)
	require.NoError(t, dom.Wrap(paras[1].FirstChild, marker))
	s := &Serialized{Start: "/p[2]/em[1]", StartOffset: 0, End: "/p[2]", EndOffset: 17}
	nr, err := s.Normalize(root)
	require.NoError(t, err)
	assert.Equal(t, "paragraph", nr.Text())
}

func TestResolveFailures(t *testing.T) {
	_, root := setup(t)
	for _, s := range []*Serialized{
		{Start: "/p[7]", End: "/p[7]", EndOffset: 1},
		{Start: "/p[1]", StartOffset: 100, End: "/p[1]", EndOffset: 101},
		{Start: "/p[1", End: "/p[1]", EndOffset: 1},
	} {
		_, err := s.Normalize(root)
		if assert.Error(t, err, "for %s", s) {
			assert.True(t, IsRangeError(err), "expected range error for %s, got %v", s, err)
		}
	}
}

func TestSniff(t *testing.T) {
	_, root := setup(t)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"start":"/p[1]","startOffset":0,"end":"/p[1]","endOffset":5}`), &m))
	r, err := Sniff(m)
	require.NoError(t, err)
	nr, err := r.Normalize(root)
	require.NoError(t, err)
	assert.Equal(t, "Hello", nr.Text())
	//
	r, err = Sniff(json.RawMessage(`{"start":"/p[2]","startOffset":7,"end":"/p[2]","endOffset":11}`))
	require.NoError(t, err)
	nr, err = r.Normalize(root)
	require.NoError(t, err)
	assert.Equal(t, "para", nr.Text())
	//
	stored := &Serialized{Start: "/p[1]", End: "/p[1]", EndOffset: 1}
	r, err = Sniff(stored)
	require.NoError(t, err)
	r.(*Serialized).IgnoreClass = "other"
	assert.Empty(t, stored.IgnoreClass, "expected sniffing to copy serialized ranges")
	//
	_, err = Sniff(42)
	assert.True(t, errors.Is(err, ErrNotSniffable))
	assert.False(t, IsRangeError(err))
}
