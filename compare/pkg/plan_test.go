package compare

import (
	"errors"
	"testing"

	"github.com/jgbaldwinbrown/iter"
)

func TestChoose(t *testing.T) {
	for n := 0; n <= 200; n++ {
		got, e := PairCount(n)
		if e != nil {
			t.Fatal(e)
		}
		want := int64(n * (n - 1) / 2)
		if got != want {
			t.Errorf("PairCount(%v) %v != %v", n, got, want)
		}
	}

	got, e := PairCount(56)
	if e != nil || got != 1540 {
		t.Errorf("PairCount(56) = %v, %v; want 1540", got, e)
	}

	if got, _ := Choose(10, 3); got != 120 {
		t.Errorf("Choose(10, 3) %v != 120", got)
	}
	if got, _ := Choose(3, 5); got != 0 {
		t.Errorf("Choose(3, 5) %v != 0", got)
	}
}

func TestChooseNegative(t *testing.T) {
	_, e := PairCount(-1)
	var ie *InvalidInputError
	if !errors.As(e, &ie) {
		t.Fatalf("PairCount(-1) error %v is not an InvalidInputError", e)
	}
	if ie.Value != -1 {
		t.Errorf("InvalidInputError.Value %v != -1", ie.Value)
	}
}

func TestChooseLarge(t *testing.T) {
	cases := []struct {
		n, k int
		want int64
	}{
		{62, 31, 465428353255261088},
		{66, 33, 7219428434016265740},
		{66, 2, 2145},
	}
	for _, c := range cases {
		got, e := Choose(c.n, c.k)
		if e != nil || got != c.want {
			t.Errorf("Choose(%v, %v) = %v, %v; want %v", c.n, c.k, got, e, c.want)
		}
	}

	for _, c := range [][2]int{{67, 33}, {68, 34}, {70, 35}, {1000, 500}} {
		got, e := Choose(c[0], c[1])
		var oe *OverflowError
		if !errors.As(e, &oe) {
			t.Errorf("Choose(%v, %v) = %v, %v; want an OverflowError", c[0], c[1], got, e)
		}
	}
}

func TestPlanOrder(t *testing.T) {
	ids := []EntityID{"1ABC", "2XYZ", "3DEF"}
	n, pairs := Plan(ids)
	if n != 3 {
		t.Errorf("n %v != 3", n)
	}

	got, e := iter.Collect[PairKey](pairs)
	if e != nil {
		t.Fatal(e)
	}
	want := []string{"1ABC-2XYZ", "1ABC-3DEF", "2XYZ-3DEF"}
	if len(got) != len(want) {
		t.Fatalf("got %v pairs, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("pair %v: %v != %v", i, got[i], want[i])
		}
	}
}

func TestPlanSmall(t *testing.T) {
	for _, ids := range [][]EntityID{nil, {"1ABC"}} {
		n, pairs := Plan(ids)
		got, e := iter.Collect[PairKey](pairs)
		if e != nil {
			t.Fatal(e)
		}
		if n != 0 || len(got) != 0 {
			t.Errorf("Plan(%v) = %v, %v; want no pairs", ids, n, got)
		}
	}
}

func TestPairKey(t *testing.T) {
	k, e := ParsePairKey("1abc-2XYZ")
	if e != nil {
		t.Fatal(e)
	}
	if !k.Equal(PairKey{"2xyz", "1ABC"}) {
		t.Errorf("%v should equal 2xyz-1ABC", k)
	}
	if k.Swap().String() != "2XYZ-1abc" {
		t.Errorf("Swap %v != 2XYZ-1abc", k.Swap())
	}
	if k.Fold() != (PairKey{"2XYZ", "1ABC"}).Fold() {
		t.Errorf("Fold differs across orientation")
	}

	for _, bad := range []string{"1ABC", "1ABC-", "-2XYZ", "1A-BC-2XYZ", ""} {
		if _, e := ParsePairKey(bad); e == nil {
			t.Errorf("ParsePairKey(%q) succeeded", bad)
		}
	}
}
