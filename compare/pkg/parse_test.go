package compare

import (
	"reflect"
	"testing"
)

const clickIn = `NAME,RMSD,SO,ALIGNED
1ABC-2XYZ,1.2,95,40
1ABC-3DEF,2.5,60,33
2XYZ-3DEF,0.8
`

const pairwiseIn = `PAIR,LENGTH,GAPS,IDENTITY,SCORE,SIMILARITY
2XYZ-1ABC,120,3,88.5,210,0.91
PAIRS SEEN,3
1ABC-3DEF,98,abc,40.1,77,0.5
2XYZ-3DEF,101,0,71.0,180,0.8
`

func TestParseClick(t *testing.T) {
	tab, e := ParseString(clickIn, ClickSchema)
	if e != nil {
		t.Fatal(e)
	}

	if !reflect.DeepEqual(tab.Keys, []string{"1ABC-2XYZ", "1ABC-3DEF"}) {
		t.Errorf("keys %v", tab.Keys)
	}
	if got := tab.Rows["1ABC-2XYZ"].String(); got != "1.2,95" {
		t.Errorf("row %v != 1.2,95", got)
	}
	if len(tab.Failures) != 1 || tab.Failures[0].Line != 4 {
		t.Errorf("failures %v, want one on line 4", tab.Failures)
	}
}

func TestParsePairwise(t *testing.T) {
	tab, e := ParseString(pairwiseIn, PairwiseSchema)
	if e != nil {
		t.Fatal(e)
	}

	if !reflect.DeepEqual(tab.Keys, []string{"2XYZ-1ABC", "2XYZ-3DEF"}) {
		t.Errorf("keys %v", tab.Keys)
	}
	if v, _ := tab.Rows["2XYZ-1ABC"].Get("IDENTITY"); v != "88.5" {
		t.Errorf("IDENTITY %v != 88.5", v)
	}
	if len(tab.Failures) != 1 || tab.Failures[0].Line != 4 {
		t.Errorf("failures %v, want the non-numeric GAPS row", tab.Failures)
	}
}

func TestParseRepeatedKey(t *testing.T) {
	tab, e := ParseString("A-B,1,2\nC-D,3,4\nA-B,5,6\n", ClickSchema)
	if e != nil {
		t.Fatal(e)
	}
	if !reflect.DeepEqual(tab.Keys, []string{"A-B", "C-D"}) {
		t.Errorf("keys %v", tab.Keys)
	}
	if got := tab.Rows["A-B"].String(); got != "5,6" {
		t.Errorf("A-B %v != 5,6", got)
	}
}

func TestParseEmpty(t *testing.T) {
	tab, e := ParseString("", PairwiseSchema)
	if e != nil {
		t.Fatal(e)
	}
	if tab.Len() != 0 || len(tab.Failures) != 0 {
		t.Errorf("empty input gave %v rows, %v failures", tab.Len(), len(tab.Failures))
	}
}

func TestParseStrayQuote(t *testing.T) {
	in := "NAME,RMSD,SO\n" +
		"\"1ABC-2XYZ,1.2,95\n" +
		"1ABC-3DEF,2.5,60\n" +
		"2XYZ-3DEF,0.8,70\n" +
		"4AAA-5BBB,1.0,10\n"
	tab, e := ParseString(in, ClickSchema)
	if e != nil {
		t.Fatal(e)
	}
	want := []string{"1ABC-2XYZ", "1ABC-3DEF", "2XYZ-3DEF", "4AAA-5BBB"}
	if !reflect.DeepEqual(tab.Keys, want) {
		t.Errorf("keys %v != %v", tab.Keys, want)
	}
	if len(tab.Failures) != 0 {
		t.Errorf("failures %v", tab.Failures)
	}
}

func TestParseBadRowDoesNotSpread(t *testing.T) {
	in := "PAIR,LENGTH,GAPS,IDENTITY,SCORE,SIMILARITY\r\n" +
		"A-B,10,0,90,20,0.5\r\n" +
		"A-C,10,0,\"70,20\r\n" +
		"B-C,10,0,50,20,0.5\r\n"
	tab, e := ParseString(in, PairwiseSchema)
	if e != nil {
		t.Fatal(e)
	}
	if !reflect.DeepEqual(tab.Keys, []string{"A-B", "B-C"}) {
		t.Errorf("keys %v", tab.Keys)
	}
	if len(tab.Failures) != 1 || tab.Failures[0].Line != 3 {
		t.Errorf("failures %v, want one on line 3", tab.Failures)
	}
	if v, _ := tab.Rows["B-C"].Get("SIMILARITY"); v != "0.5" {
		t.Errorf("SIMILARITY %q != 0.5", v)
	}
}
