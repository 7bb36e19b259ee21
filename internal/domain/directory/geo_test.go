package directory

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	cases := []struct {
		name string
		a    Point
		b    Point
		want float64
	}{
		{"same point", Point{6.5, 3.4}, Point{6.5, 3.4}, 0},
		{"one degree longitude at equator", Point{0, 0}, Point{0, 1}, 111.195},
		{"paris to london", Point{48.8566, 2.3522}, Point{51.5074, -0.1278}, 343.556},
		{"query point to cotonou", Point{7.934327726169804, 1.975135952890811}, Point{6.370246273189285, 2.3930874928228523}, 179.927},
		{"query point to parakou", Point{7.934327726169804, 1.975135952890811}, Point{9.329142401738267, 2.633971881784387}, 171.174},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 0.01 {
				t.Fatalf("expected %.3f km got %.3f km", tc.want, got)
			}
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{40.7128, -74.0060}
	b := Point{34.0522, -118.2437}
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}
