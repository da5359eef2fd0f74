package core

import "testing"

func TestSpecOrdering(t *testing.T) {
	ordered := []Spec{
		Frontier, Homestead, TangerineWhistle, SpuriousDragon, Byzantium,
		Constantinople, Petersburg, Istanbul, MuirGlacier, Berlin, London,
		ArrowGlacier, GrayGlacier, Merge, Shanghai, Cancun,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] <= ordered[i-1] {
			t.Fatalf("%v not ordered after %v", ordered[i], ordered[i-1])
		}
	}
}

func TestSpecAtLeast(t *testing.T) {
	cases := []struct {
		spec, other Spec
		want        bool
	}{
		{London, London, true},
		{Shanghai, London, true},
		{Shanghai, Merge, true},
		{Berlin, London, false},
		{Merge, Shanghai, false},
		{Cancun, Frontier, true},
	}
	for _, c := range cases {
		if got := c.spec.AtLeast(c.other); got != c.want {
			t.Errorf("%v.AtLeast(%v): got %v, want %v", c.spec, c.other, got, c.want)
		}
	}
}

func TestSpecString(t *testing.T) {
	if Shanghai.String() != "Shanghai" {
		t.Fatalf("Shanghai.String() = %q", Shanghai.String())
	}
	if Spec(99).String() != "Spec(99)" {
		t.Fatalf("unknown spec string: %q", Spec(99).String())
	}
}
