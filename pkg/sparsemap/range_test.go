package sparsemap

import "testing"

func TestLtIntersecting(t *testing.T) {
	cases := []struct {
		ab, cd [2]int
		want   bool
	}{
		{[2]int{0, 1}, [2]int{1, 2}, false},
		{[2]int{0, 1}, [2]int{2, 3}, false},
		{[2]int{0, 2}, [2]int{1, 3}, true},
		{[2]int{0, 4}, [2]int{1, 3}, true},
		{[2]int{0, 1}, [2]int{0, 2}, false},
		{[2]int{1, 2}, [2]int{0, 1}, false},
	}
	for _, c := range cases {
		got := ltIntersecting(c.ab[0], c.ab[1], c.cd[0], c.cd[1])
		if got != c.want {
			t.Errorf("ltIntersecting(%v, %v) = %v, want %v", c.ab, c.cd, got, c.want)
		}
	}
}

func TestGteIntersecting(t *testing.T) {
	cases := []struct {
		ab, cd [2]int
		want   bool
	}{
		{[2]int{0, 1}, [2]int{1, 2}, false},
		{[2]int{0, 1}, [2]int{2, 3}, false},
		{[2]int{0, 2}, [2]int{1, 3}, false},
		{[2]int{0, 1}, [2]int{0, 1}, true},
		{[2]int{0, 4}, [2]int{1, 3}, false},
		{[2]int{0, 4}, [2]int{0, 3}, true},
		{[2]int{2, 3}, [2]int{1, 3}, true},
		{[2]int{2, 3}, [2]int{1, 2}, false},
	}
	for _, c := range cases {
		got := gteIntersecting(c.ab[0], c.ab[1], c.cd[0], c.cd[1])
		if got != c.want {
			t.Errorf("gteIntersecting(%v, %v) = %v, want %v", c.ab, c.cd, got, c.want)
		}
	}
}
