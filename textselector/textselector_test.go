package textselector

import (
	"testing"

	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/xrange"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<html><body>
<div id="outside"><p>Somewhere else <b>bold</b>.</p></div>
<div id="root"><p>Hello <span class="annotator-hl">brave</span> new world</p>
<div class="annotator-adder"><button>Annotate</button></div></div>
</body></html>`

type fixture struct {
	doc     *dom.Document
	root    *html.Node
	calls   int
	results [][]*xrange.Normalized
}

func setup(t *testing.T) (*fixture, *TextSelector) {
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	t.Cleanup(doc.Release)
	f := &fixture{doc: doc}
	f.root, _ = dom.Query(doc.Root(), "#root")
	require.NotNil(t, f.root)
	ts := New(f.root, Config{OnSelection: func(ranges []*xrange.Normalized, ev *dom.Event) {
		f.calls++
		f.results = append(f.results, ranges)
	}})
	t.Cleanup(ts.Destroy)
	return f, ts
}

func (f *fixture) find(t *testing.T, selector string) *html.Node {
	n, err := dom.Query(f.doc.Root(), selector)
	require.NoError(t, err)
	require.NotNil(t, n, "no match for %s", selector)
	return n
}

func (f *fixture) mouseUp() {
	f.doc.Events().Dispatch(dom.NewMouseEvent(dom.MouseUp, f.doc.Body(), dom.ButtonPrimary, dom.Point{X: 10, Y: 20}))
}

func TestCollapsedSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.selector")
	defer teardown()
	//
	f, ts := setup(t)
	assert.Empty(t, ts.CaptureSelection())
	text := f.find(t, "#root p").FirstChild
	f.doc.Selection().AddRange(dom.NewRange(text, 2, text, 2))
	if ranges := ts.CaptureSelection(); len(ranges) != 0 {
		t.Errorf("expected collapsed selection to capture nothing, have %d ranges", len(ranges))
	}
	f.mouseUp()
	require.Equal(t, 1, f.calls)
	assert.Empty(t, f.results[0])
}

func TestCaptureWithinRoot(t *testing.T) {
	f, ts := setup(t)
	text := f.find(t, "#root p").FirstChild
	f.doc.Selection().AddRange(dom.NewRange(text, 0, text, 5))
	ranges := ts.CaptureSelection()
	require.Len(t, ranges, 1)
	assert.Equal(t, "Hello", ranges[0].Text())
	// the live selection now holds the range in boundary form
	sel := f.doc.Selection()
	require.Equal(t, 1, sel.RangeCount())
	r, err := sel.RangeAt(0)
	require.NoError(t, err)
	assert.Equal(t, ranges[0].Start.Parent, r.StartContainer)
	assert.False(t, r.Collapsed())
}

func TestSelectionAcrossHighlight(t *testing.T) {
	f, _ := setup(t)
	marker := f.find(t, "#root .annotator-hl")
	f.doc.Selection().AddRange(dom.NewRange(marker.FirstChild, 1, marker.FirstChild, 4))
	f.mouseUp()
	require.Equal(t, 1, f.calls)
	require.Len(t, f.results[0], 1)
	assert.Equal(t, "rav", f.results[0][0].Text())
}

func TestSelectionInSystemUIIsExcluded(t *testing.T) {
	f, _ := setup(t)
	button := f.find(t, "#root button")
	f.doc.Selection().AddRange(dom.NewRange(button.FirstChild, 0, button.FirstChild, 8))
	f.mouseUp()
	require.Equal(t, 1, f.calls)
	if len(f.results[0]) != 0 {
		t.Errorf("expected selection within adder to be reported empty, have %v", f.results[0])
	}
}

func TestOutOfRootClipping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.selector")
	defer teardown()
	//
	f, ts := setup(t)
	outside := f.find(t, "#outside p")
	inside := f.find(t, "#root p").FirstChild
	straddling := dom.NewRange(outside.FirstChild, 10, inside, 5)
	elsewhere := dom.SelectNodeContents(outside)
	f.doc.Selection().AddRange(straddling)
	f.doc.Selection().AddRange(elsewhere)
	//
	ranges := ts.CaptureSelection()
	require.Len(t, ranges, 1)
	assert.Equal(t, "Hello", ranges[0].Text())
	assert.True(t, dom.Contains(f.root, ranges[0].CommonAncestor))
	//
	sel := f.doc.Selection()
	require.Equal(t, 2, sel.RangeCount())
	restored, _ := sel.RangeAt(0)
	assert.Same(t, elsewhere, restored)
	// normalizing split the paragraph's text; the range still spans all of it
	require.Equal(t, 4, dom.ChildCount(outside))
	assert.Equal(t, outside, restored.StartContainer)
	assert.Equal(t, 0, restored.StartOffset)
	assert.Equal(t, outside, restored.EndContainer)
	if restored.EndOffset != dom.ChildCount(outside) {
		t.Errorf("expected restored range to end after the last child, is %s", restored)
	}
	bold := f.find(t, "#outside b")
	if i := dom.IndexOfChild(bold); i >= restored.EndOffset {
		t.Errorf("expected <b> (child %d) to stay selected, range is %s", i, restored)
	}
	assert.Equal(t, "Somewhere else bold.", dom.TextContent(outside))
}

func TestDetachedElementIsInert(t *testing.T) {
	calls := 0
	ts := New(dom.CreateElement("div"), Config{OnSelection: func([]*xrange.Normalized, *dom.Event) {
		calls++
	}})
	assert.True(t, ts.IsInert())
	assert.Nil(t, ts.CaptureSelection())
	ts.Destroy()
	assert.Zero(t, calls)
}

func TestDestroyIsIdempotent(t *testing.T) {
	f, ts := setup(t)
	body := f.doc.Body()
	assert.Equal(t, 1, f.doc.Events().ListenerCount(body, dom.MouseUp))
	ts.Destroy()
	ts.Destroy()
	assert.Zero(t, f.doc.Events().ListenerCount(body, dom.MouseUp))
	f.mouseUp()
	assert.Zero(t, f.calls)
}
