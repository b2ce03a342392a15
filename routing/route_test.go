package routing

import "testing"

func TestRoute_String(t *testing.T) {
	testCases := []struct {
		desc  string
		route *Route
		want  string
	}{
		{
			desc:  "single router",
			route: &Route{Nodes: []int{3}, Compressed: -1},
			want:  "3",
		},
		{
			desc:  "no compression",
			route: &Route{Nodes: []int{0, 4, 3, 1}, Compressed: -1},
			want:  "0 -> 4 -> 3 -> 1",
		},
		{
			desc:  "compression at source",
			route: &Route{Nodes: []int{0, 4, 3}, Compressed: 0},
			want:  "0* -> 4 -> 3",
		},
		{
			desc:  "compression in the middle",
			route: &Route{Nodes: []int{0, 4, 3, 1}, Compressed: 2},
			want:  "0 -> 4 -> 3* -> 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if got := tc.route.String(); got != tc.want {
				t.Errorf("String(): want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRoute_Format(t *testing.T) {
	n := NewNetwork(nil, []string{"paris", "lyon", "nice"})
	r := &Route{Nodes: []int{0, 1, 2}, Compressed: 1}

	if got, want := r.Format(n), "paris -> lyon* -> nice"; got != want {
		t.Errorf("Format(): want %q, got %q", want, got)
	}
	if got, want := r.CompressedAt(n), "lyon"; got != want {
		t.Errorf("CompressedAt(): want %q, got %q", want, got)
	}
}
