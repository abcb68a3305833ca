package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionSelect)
	f.Click(3, 4)
	if !f.Has(ActionSelect) || f.Has(ActionQuit) {
		t.Error("Has() should only report set actions")
	}

	clone := f.Clone()
	f.Clear()

	if !f.Empty() {
		t.Error("Clear should drop actions and clicks")
	}
	if !clone.Has(ActionSelect) || len(clone.Clicks) != 1 || clone.Clicks[0] != (Point{X: 3, Y: 4}) {
		t.Errorf("clone should be independent, got %+v", clone)
	}

	var zero InputFrame
	if zero.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}
	zero.Set(ActionUp)
	if !zero.Has(ActionUp) {
		t.Error("Set on a zero frame should allocate")
	}
}

func TestActionString(t *testing.T) {
	if ActionChoice3.String() != "Choice3" {
		t.Errorf("ActionChoice3 = %q", ActionChoice3.String())
	}
	if Action(99).String() != "Unknown" {
		t.Error("out of range action should be Unknown")
	}
	if len(ChoiceActions()) != 4 {
		t.Error("expected four choice actions")
	}
}
