package adder

import (
	"testing"

	"github.com/npillmayer/hilite/annotation"
	"github.com/npillmayer/hilite/dom"
	"github.com/npillmayer/hilite/textselector"
	"github.com/npillmayer/hilite/xrange"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHTML = `<html><body><div id="content"><p>Select some of this text.</p></div></body></html>`

type fixture struct {
	doc      *dom.Document
	adder    *Adder
	captures int // calls of the text selector's callback
	created  []*annotation.Annotation
}

// setup wires an adder and a text selector the way an application would.
func setup(t *testing.T) *fixture {
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	t.Cleanup(doc.Release)
	f := &fixture{doc: doc}
	f.adder, err = New(doc, Options{OnCreate: func(ann *annotation.Annotation, ev *dom.Event) {
		f.created = append(f.created, ann)
	}})
	require.NoError(t, err)
	t.Cleanup(f.adder.Destroy)
	content, _ := dom.Query(doc.Root(), "#content")
	ts := textselector.New(content, textselector.Config{
		OnSelection: func(ranges []*xrange.Normalized, ev *dom.Event) {
			f.captures++
			if len(ranges) == 0 {
				f.adder.Hide()
				return
			}
			f.adder.Load(&annotation.Annotation{Quote: ranges[0].Text()}, ev.Page)
		},
	})
	t.Cleanup(ts.Destroy)
	return f
}

func (f *fixture) selectText(t *testing.T) {
	p, _ := dom.Query(f.doc.Root(), "p")
	require.NotNil(t, p)
	f.doc.Selection().AddRange(dom.NewRange(p.FirstChild, 7, p.FirstChild, 11))
}

func (f *fixture) mouse(typ dom.EventType, button dom.Button) *dom.Event {
	ev := dom.NewMouseEvent(typ, f.adder.Button(), button, dom.Point{X: 50, Y: 60})
	f.doc.Events().Dispatch(ev)
	return ev
}

func (f *fixture) mouseUpOnText() {
	p, _ := dom.Query(f.doc.Root(), "p")
	f.doc.Events().Dispatch(dom.NewMouseEvent(dom.MouseUp, p, dom.ButtonPrimary, dom.Point{X: 100, Y: 200}))
}

func TestShowAndHideOnSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.adder")
	defer teardown()
	//
	f := setup(t)
	assert.Equal(t, Hidden, f.adder.State())
	f.selectText(t)
	f.mouseUpOnText()
	require.Equal(t, 1, f.captures)
	if f.adder.State() != Shown {
		t.Errorf("expected adder to be shown after selection, is %s", f.adder.State())
	}
	assert.True(t, f.adder.Widget().IsShown())
	assert.Equal(t, dom.Point{X: 100, Y: 200}, f.adder.Widget().Position())
	assert.Equal(t, "some", f.adder.Annotation().Quote)
	//
	f.doc.Selection().RemoveAllRanges()
	f.mouseUpOnText()
	assert.Equal(t, Hidden, f.adder.State())
	assert.Nil(t, f.adder.Annotation())
	assert.False(t, f.adder.Widget().IsShown())
}

func TestSuppressionOfMouseUp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hilite.adder")
	defer teardown()
	//
	f := setup(t)
	f.selectText(t)
	f.mouseUpOnText()
	require.Equal(t, 1, f.captures)
	//
	down := f.mouse(dom.MouseDown, dom.ButtonPrimary)
	assert.True(t, down.DefaultPrevented())
	assert.Equal(t, Suppressing, f.adder.State())
	f.mouse(dom.MouseUp, dom.ButtonPrimary)
	assert.Equal(t, Shown, f.adder.State())
	if f.captures != 1 {
		t.Errorf("expected mouse-up after pressing the adder not to reach the text selector, captured %d times", f.captures)
	}
	f.mouse(dom.Click, dom.ButtonPrimary)
	require.Len(t, f.created, 1)
	assert.Equal(t, "some", f.created[0].Quote)
	assert.Equal(t, Hidden, f.adder.State())
	assert.False(t, f.adder.Widget().IsShown())
	// suppression is over
	f.mouseUpOnText()
	assert.Equal(t, 2, f.captures)
}

func TestReleaseOutsideSwallowsOneMouseUp(t *testing.T) {
	f := setup(t)
	f.selectText(t)
	f.mouseUpOnText()
	require.Equal(t, 1, f.captures)
	// press on the adder, release somewhere else, no click
	f.mouse(dom.MouseDown, dom.ButtonPrimary)
	f.mouseUpOnText()
	assert.Equal(t, 1, f.captures)
	if f.adder.State() != Shown {
		t.Errorf("expected adder to await a click again, is %s", f.adder.State())
	}
	// the next release reaches the text selector
	f.doc.Selection().RemoveAllRanges()
	f.mouseUpOnText()
	assert.Equal(t, 2, f.captures)
	assert.Equal(t, Hidden, f.adder.State())
	assert.Empty(t, f.created)
}

func TestNonPrimaryButtonsAreIgnored(t *testing.T) {
	f := setup(t)
	f.selectText(t)
	f.mouseUpOnText()
	require.Equal(t, Shown, f.adder.State())
	for _, b := range []dom.Button{dom.ButtonMiddle, dom.ButtonSecondary} {
		down := f.mouse(dom.MouseDown, b)
		assert.False(t, down.DefaultPrevented())
		assert.Equal(t, Shown, f.adder.State())
		f.mouse(dom.Click, b)
		assert.Equal(t, Shown, f.adder.State())
	}
	assert.Empty(t, f.created)
}

func TestMouseDownWhileHidden(t *testing.T) {
	f := setup(t)
	down := f.mouse(dom.MouseDown, dom.ButtonPrimary)
	assert.False(t, down.DefaultPrevented())
	assert.Equal(t, Hidden, f.adder.State())
	f.mouseUpOnText()
	assert.Equal(t, 1, f.captures)
}

func TestDestroy(t *testing.T) {
	f := setup(t)
	body := f.doc.Body()
	assert.Equal(t, 2, f.doc.Events().ListenerCount(body, dom.MouseUp))
	f.adder.Destroy()
	f.adder.Destroy()
	assert.Equal(t, 1, f.doc.Events().ListenerCount(body, dom.MouseUp))
	assert.Nil(t, f.adder.Widget().Element().Parent)
}
