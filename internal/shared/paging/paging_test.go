package paging

import "testing"

func TestParseDefaults(t *testing.T) {
	page, size := Parse("", "", 20, 100)
	if page != 1 || size != 20 {
		t.Fatalf("expected defaults, got page=%d size=%d", page, size)
	}
}

func TestParseClamps(t *testing.T) {
	page, size := Parse("0", "500", 20, 100)
	if page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", page)
	}
	if size != 100 {
		t.Fatalf("expected size clamped to 100, got %d", size)
	}

	page, size = Parse("-3", "junk", 10, 50)
	if page != 1 || size != 10 {
		t.Fatalf("expected fallbacks, got page=%d size=%d", page, size)
	}
}

func TestParseValues(t *testing.T) {
	page, size := Parse("3", "25", 20, 100)
	if page != 3 || size != 25 {
		t.Fatalf("unexpected page=%d size=%d", page, size)
	}
}

func TestOffset(t *testing.T) {
	if Offset(1, 20) != 0 {
		t.Fatalf("expected zero offset for first page")
	}
	if Offset(3, 10) != 20 {
		t.Fatalf("expected offset 20")
	}
}

func TestHasMore(t *testing.T) {
	if !HasMore(1, 10, 11) {
		t.Fatalf("expected more pages")
	}
	if HasMore(2, 10, 20) {
		t.Fatalf("expected no more pages")
	}
}
