package dom

import (
	"errors"
	"testing"
)

func TestSelectionCollapsed(t *testing.T) {
	doc := parseTestDoc(t)
	sel := doc.Selection()
	if !sel.IsCollapsed() {
		t.Error("expected empty selection to be collapsed")
	}
	b, _ := Query(doc.Root(), "b")
	sel.AddRange(NewRange(b.FirstChild, 2, b.FirstChild, 2))
	if !sel.IsCollapsed() {
		t.Error("expected caret selection to be collapsed")
	}
	sel.AddRange(SelectNodeContents(b))
	if sel.IsCollapsed() {
		t.Error("expected selection with a non-empty range not to be collapsed")
	}
	if sel.RangeCount() != 2 {
		t.Errorf("expected 2 ranges, have %d", sel.RangeCount())
	}
	if _, err := sel.RangeAt(2); !errors.Is(err, ErrIndexSize) {
		t.Errorf("expected index error for RangeAt(2), got %v", err)
	}
	sel.RemoveAllRanges()
	if sel.RangeCount() != 0 {
		t.Errorf("expected selection to be empty, has %d ranges", sel.RangeCount())
	}
}

func TestRangeBoundaryForm(t *testing.T) {
	doc := parseTestDoc(t)
	b, _ := Query(doc.Root(), "b")
	r := &Range{}
	r.SetStartBefore(b)
	r.SetEndAfter(b)
	if r.StartContainer != b.Parent || r.StartOffset != 1 || r.EndOffset != 2 {
		t.Errorf("expected range [p:1 … p:2], is %s", r)
	}
	if r.CommonAncestorContainer() != b.Parent {
		t.Errorf("expected common ancestor <p>, is %s", Describe(r.CommonAncestorContainer()))
	}
}

func TestSplitTextKeepsElementBoundaries(t *testing.T) {
	doc := parseTestDoc(t)
	b, _ := Query(doc.Root(), "b")
	r := SelectNodeContents(b)
	doc.Selection().AddRange(r)
	if _, err := SplitText(b.FirstChild, 3); err != nil {
		t.Fatal(err)
	}
	if r.StartOffset != 0 || r.EndOffset != 2 {
		t.Errorf("expected range to grow with the split to [b:0 … b:2], is %s", r)
	}
}

func TestSplitTextShiftsLaterBoundaries(t *testing.T) {
	doc := parseTestDoc(t)
	p, _ := Query(doc.Root(), "p")
	whole := SelectNodeContents(p)
	tail := NewRange(p, 2, p, 3) // " world"
	doc.Selection().AddRange(whole)
	doc.Selection().AddRange(tail)
	if _, err := SplitText(p.FirstChild, 2); err != nil {
		t.Fatal(err)
	}
	if ChildCount(p) != 4 {
		t.Fatalf("expected split paragraph to have 4 children, has %d", ChildCount(p))
	}
	if whole.StartOffset != 0 || whole.EndOffset != 4 {
		t.Errorf("expected range to span [p:0 … p:4], is %s", whole)
	}
	if tail.StartOffset != 3 || tail.EndOffset != 4 {
		t.Errorf("expected range to follow the text to [p:3 … p:4], is %s", tail)
	}
	if ChildAt(p, tail.StartOffset).Data != " world" {
		t.Errorf("expected range to start before %q, is %q", " world", ChildAt(p, tail.StartOffset).Data)
	}
}
