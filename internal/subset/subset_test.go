package subset

import "testing"

func TestFullAndLen(t *testing.T) {
	s := Full(5)
	if s.Len() != 5 {
		t.Fatalf("expected 5 elements, got %d", s.Len())
	}
	if Full(0) != 0 {
		t.Fatal("Full(0) should be empty")
	}
}

func TestElementsAscending(t *testing.T) {
	s := Of(4, 0, 2)
	got := s.Elements()
	want := []int{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if s.String() != "{0,2,4}" {
		t.Fatalf("unexpected string %q", s.String())
	}
}

func TestSubsets(t *testing.T) {
	s := Of(1, 3, 4)
	subs := s.Subsets()
	if len(subs) != 7 {
		t.Fatalf("expected 7 non-empty subsets, got %d", len(subs))
	}
	for i := 1; i < len(subs); i++ {
		if subs[i] <= subs[i-1] {
			t.Fatalf("subsets not ascending at %d: %v", i, subs)
		}
		if !subs[i].SubsetOf(s) {
			t.Fatalf("%v not a subset of %v", subs[i], s)
		}
	}
}

func TestSpreadGatherRoundTrip(t *testing.T) {
	s := Of(1, 3, 4)
	for c := uint32(0); c < 8; c++ {
		x := s.Spread(c)
		if !x.SubsetOf(s) {
			t.Fatalf("spread %d escaped set: %v", c, x)
		}
		if got := s.Gather(x); got != c {
			t.Fatalf("gather(spread(%d)) = %d", c, got)
		}
	}
}

func TestPosition(t *testing.T) {
	s := Of(1, 3, 4)
	if s.Position(3) != 1 || s.Position(4) != 2 || s.Position(0) != -1 {
		t.Fatalf("unexpected positions: %d %d %d", s.Position(3), s.Position(4), s.Position(0))
	}
}
