package model

import "testing"

func TestPageCount(t *testing.T) {
	cases := []struct {
		total, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{23, 0, 0},
	}
	for _, tc := range cases {
		if got := PageCount(tc.total, tc.pageSize); got != tc.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}

func TestPageBounds(t *testing.T) {
	// 23 items in pages of 10 split 10/10/3.
	cases := []struct {
		page       int
		start, end int
		ok         bool
	}{
		{1, 0, 10, true},
		{2, 10, 20, true},
		{3, 20, 23, true},
		{0, 0, 0, false},
		{4, 0, 0, false},
		{-1, 0, 0, false},
	}
	for _, tc := range cases {
		start, end, ok := PageBounds(23, tc.page, 10)
		if start != tc.start || end != tc.end || ok != tc.ok {
			t.Errorf("PageBounds(23, %d, 10) = (%d, %d, %v), want (%d, %d, %v)",
				tc.page, start, end, ok, tc.start, tc.end, tc.ok)
		}
	}
}

func TestPageBoundsEmpty(t *testing.T) {
	if _, _, ok := PageBounds(0, 1, 10); ok {
		t.Fatal("PageBounds(0, 1, 10) ok = true, want false (no pages without items)")
	}
}
