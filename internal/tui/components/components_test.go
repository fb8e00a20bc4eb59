package components

import "testing"

func TestSplitWidthsSumExactly(t *testing.T) {
	for _, total := range []int{100, 101, 102, 7} {
		widths := SplitWidths(total, 3)
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != total {
			t.Errorf("SplitWidths(%d, 3) sums to %d", total, sum)
		}
	}
	if SplitWidths(100, 0) != nil {
		t.Error("SplitWidths(100, 0) != nil")
	}
}

func TestTabIdxByKey(t *testing.T) {
	cases := []struct {
		key  rune
		want int
	}{
		{'d', 0},
		{'e', 1},
		{'p', 2},
		{'x', -1},
	}
	for _, tc := range cases {
		if got := TabIdxByKey(tc.key); got != tc.want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestTabIdxByName(t *testing.T) {
	if got := TabIdxByName("expenses"); got != 1 {
		t.Errorf("TabIdxByName(expenses) = %d, want 1", got)
	}
	if got := TabIdxByName("Profile"); got != 2 {
		t.Errorf("TabIdxByName(Profile) = %d, want 2", got)
	}
	if got := TabIdxByName("settings"); got != -1 {
		t.Errorf("TabIdxByName(settings) = %d, want -1", got)
	}
}
