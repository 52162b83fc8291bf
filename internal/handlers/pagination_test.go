package handlers

import "testing"

func TestParsePaginationDefaults(t *testing.T) {
	page, perPage, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || perPage != 20 {
		t.Fatalf("defaults = (%d, %d), want (1, 20)", page, perPage)
	}
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	cases := [][2]string{
		{"zero", ""},
		{"0", ""},
		{"-1", ""},
		{"", "nope"},
		{"", "0"},
	}
	for _, tc := range cases {
		if _, _, err := parsePaginationParams(tc[0], tc[1]); err == nil {
			t.Fatalf("expected error for page=%q per_page=%q", tc[0], tc[1])
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.perPage); got != tc.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}
