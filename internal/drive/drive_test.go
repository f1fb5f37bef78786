package drive

import (
	"testing"
	"time"
)

func TestPairFilesUsesSortOrderNotNames(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	// The back cover is photographed last, so it carries the newer
	// timestamp even though its name says "back".
	files := []ImageFile{
		{ID: "older", Name: "front.jpg", Modified: t1},
		{ID: "newer", Name: "back.jpg", Modified: t2},
	}

	pairs := PairFiles(files)
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Front.ID != "newer" {
		t.Errorf("Expected newest file as front, got %q", pairs[0].Front.ID)
	}
	if pairs[0].Back == nil || pairs[0].Back.ID != "older" {
		t.Errorf("Expected older file as back, got %+v", pairs[0].Back)
	}
}

func TestPairFilesOddItemBecomesFrontOnly(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	files := []ImageFile{
		{ID: "a", Modified: base.Add(4 * time.Minute)},
		{ID: "b", Modified: base.Add(3 * time.Minute)},
		{ID: "c", Modified: base.Add(2 * time.Minute)},
	}

	pairs := PairFiles(files)
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Front.ID != "a" || pairs[0].Back == nil || pairs[0].Back.ID != "b" {
		t.Errorf("Unexpected first pair: %+v", pairs[0])
	}
	if pairs[1].Front.ID != "c" {
		t.Errorf("Expected c as odd front, got %q", pairs[1].Front.ID)
	}
	if pairs[1].Back != nil {
		t.Errorf("Expected odd item to have no back, got %+v", pairs[1].Back)
	}
}

func TestPairFilesEmpty(t *testing.T) {
	if pairs := PairFiles(nil); len(pairs) != 0 {
		t.Errorf("Expected no pairs, got %d", len(pairs))
	}
}
