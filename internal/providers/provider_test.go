package providers

import "testing"

func TestQueryNormalizeDefaults(t *testing.T) {
	q := Query{Page: 0, PerPage: -3, Search: "james"}.Normalize()
	if q.Page != 1 || q.PerPage != DefaultPerPage || q.Search != "james" {
		t.Fatalf("unexpected normalized query %+v", q)
	}
	kept := Query{Page: 3, PerPage: 25}.Normalize()
	if kept.Page != 3 || kept.PerPage != 25 {
		t.Fatalf("expected explicit paging kept, got %+v", kept)
	}
}

func TestQueryNormalizeCapsPageSize(t *testing.T) {
	q := Query{Page: 1, PerPage: 5000}.Normalize()
	if q.PerPage != MaxPerPage {
		t.Fatalf("expected per page capped at %d, got %d", MaxPerPage, q.PerPage)
	}
}

func TestQueryKeyDistinguishesFields(t *testing.T) {
	a := Query{Page: 1, PerPage: 10, Search: "a"}.Key()
	b := Query{Page: 1, PerPage: 10, Search: "b"}.Key()
	c := Query{Page: 2, PerPage: 10, Search: "a"}.Key()
	if a == b || a == c {
		t.Fatalf("expected distinct keys, got %q %q %q", a, b, c)
	}
}

func TestCursorHelper(t *testing.T) {
	if c := Cursor(3); c == nil || *c != 3 {
		t.Fatalf("expected cursor 3, got %v", c)
	}
}
