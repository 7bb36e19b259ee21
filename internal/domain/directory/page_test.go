package directory

import "testing"

func TestSlicePage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	cases := []struct {
		name   string
		number int
		size   int
		want   []int
	}{
		{"first page", 1, 3, []int{1, 2, 3}},
		{"middle page", 2, 3, []int{4, 5, 6}},
		{"short last page", 3, 3, []int{7}},
		{"page beyond data", 4, 3, nil},
		{"size larger than data", 1, 20, items},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slicePage(items, tc.number, tc.size)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d items got %d", len(tc.want), len(got))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("position %d: expected %d got %d", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestSlicePageEmptyInput(t *testing.T) {
	if got := slicePage([]int(nil), 1, 20); len(got) != 0 {
		t.Fatalf("expected empty page got %v", got)
	}
}
