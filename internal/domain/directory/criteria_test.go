package directory

import "testing"

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func TestCriteriaNormalized(t *testing.T) {
	cases := []struct {
		name     string
		in       Criteria
		page     int
		size     int
		hasPoint bool
	}{
		{"zero value gets defaults", Criteria{}, 1, DefaultPageSize, false},
		{"negative page clamps to one", Criteria{Page: -3, PageSize: 10}, 1, 10, false},
		{"oversized page size clamps", Criteria{Page: 2, PageSize: 500}, 2, MaxPageSize, false},
		{"both coordinates kept", Criteria{Lat: f64(6.5), Lng: f64(3.4)}, 1, DefaultPageSize, true},
		{"lone latitude dropped", Criteria{Lat: f64(6.5)}, 1, DefaultPageSize, false},
		{"lone longitude dropped", Criteria{Lng: f64(3.4)}, 1, DefaultPageSize, false},
		{"latitude out of range dropped", Criteria{Lat: f64(91), Lng: f64(3.4)}, 1, DefaultPageSize, false},
		{"longitude out of range dropped", Criteria{Lat: f64(6.5), Lng: f64(-181)}, 1, DefaultPageSize, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalized()
			if got.Page != tc.page {
				t.Fatalf("page: expected %d got %d", tc.page, got.Page)
			}
			if got.PageSize != tc.size {
				t.Fatalf("page size: expected %d got %d", tc.size, got.PageSize)
			}
			if _, ok := got.Point(); ok != tc.hasPoint {
				t.Fatalf("point presence: expected %v got %v", tc.hasPoint, ok)
			}
		})
	}
}

func TestCriteriaNormalizedKeepsFilters(t *testing.T) {
	c := Criteria{OwnerID: i64(7), ParticipantID: i64(9)}.Normalized()
	filter := c.Filter()
	if filter.OwnerID == nil || *filter.OwnerID != 7 {
		t.Fatalf("owner filter lost in normalization")
	}
	if filter.ParticipantID == nil || *filter.ParticipantID != 9 {
		t.Fatalf("participant filter lost in normalization")
	}
}
