package sparsemap

import "testing"

func TestHoleTrackerDefault(t *testing.T) {
	var tr holeTracker
	if _, _, ok := tr.Range(); ok {
		t.Fatal("expected no range")
	}
}

func TestHoleTrackerSingleRange(t *testing.T) {
	var tr holeTracker
	tr.update(0, 1)
	start, end, ok := tr.Range()
	if !ok || start != 0 || end != 1 {
		t.Fatalf("got (%d,%d,%v), want (0,1,true)", start, end, ok)
	}
}

func TestHoleTrackerMultipleRanges(t *testing.T) {
	var tr holeTracker
	tr.update(0, 1)
	tr.update(2, 3)
	start, end, ok := tr.Range()
	if !ok || start != 0 || end != 3 {
		t.Fatalf("got (%d,%d,%v), want (0,3,true)", start, end, ok)
	}
}
