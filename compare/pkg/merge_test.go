package compare

import (
	"io"
	"log"
	"strings"
	"testing"
)

var quiet = MergeOptions{Log: log.New(io.Discard, "", 0)}

func mustParse(t *testing.T, raw string, s Schema) *Table {
	t.Helper()
	tab, e := ParseString(raw, s)
	if e != nil {
		t.Fatal(e)
	}
	return tab
}

func mergedCSV(t *testing.T, m *Merged) string {
	t.Helper()
	var b strings.Builder
	if e := WriteCSV(&b, m); e != nil {
		t.Fatal(e)
	}
	return b.String()
}

func TestMergeSameOrientation(t *testing.T) {
	click := mustParse(t, "1ABC-2XYZ,1.2,95\n", ClickSchema)
	pw := mustParse(t, "1ABC-2XYZ,120,3,88.5,210,0.91\n", PairwiseSchema)

	out := mergedCSV(t, MergeWith(quiet, pw, click))
	expect := "PDBID-PAIR,RMSD,SO,LENGTH,GAPS,IDENTITY,SCORE,SIMILARITY\n" +
		"1ABC-2XYZ,1.2,95,120,3,88.5,210,0.91\n"
	if out != expect {
		t.Errorf("out %q != expect %q", out, expect)
	}
}

func TestMergeReversed(t *testing.T) {
	click := mustParse(t, "1ABC-2XYZ,1.2,95\n", ClickSchema)
	pw := mustParse(t, "2XYZ-1ABC,120,3,88.5,210,0.91\n", PairwiseSchema)

	m := MergeWith(quiet, pw, click)
	if m.Len() != 1 || m.Keys[0] != "2XYZ-1ABC" {
		t.Fatalf("keys %v, want [2XYZ-1ABC]", m.Keys)
	}
	if got := m.Rows["2XYZ-1ABC"].String(); got != "1.2,95,120,3,88.5,210,0.91" {
		t.Errorf("row %v", got)
	}
}

func TestMergeSwappedSources(t *testing.T) {
	click := mustParse(t, "2XYZ-1ABC,1.2,95\n", ClickSchema)
	pw := mustParse(t, "1ABC-2XYZ,120,3,88.5,210,0.91\n", PairwiseSchema)

	m := MergeWith(quiet, click, pw)
	if m.Len() != 1 || m.Keys[0] != "2XYZ-1ABC" {
		t.Fatalf("keys %v, want [2XYZ-1ABC]", m.Keys)
	}
	if got := m.Rows["2XYZ-1ABC"].String(); got != "120,3,88.5,210,0.91,1.2,95" {
		t.Errorf("row %v", got)
	}
}

func TestMergeUnmatched(t *testing.T) {
	click := mustParse(t, "NAME,RMSD,SO\n1ABC-2XYZ,1.2,95\n4AAA-5BBB,3.0,20\n", ClickSchema)
	pw := mustParse(t, "PAIR,LENGTH,GAPS,IDENTITY,SCORE,SIMILARITY\n"+
		"2XYZ-1ABC,120,3,88.5,210,0.91\n"+
		"9NOP-1ABC,80,1,20.0,33,0.2\n", PairwiseSchema)

	m := MergeWith(quiet, pw, click)
	if m.Len() != 1 {
		t.Fatalf("merged %v rows, want 1: %v", m.Len(), m.Keys)
	}
	if _, ok := m.Rows["9NOP-1ABC"]; ok {
		t.Errorf("pair with no structural counterpart was merged")
	}
	for _, key := range m.Keys {
		if strings.Contains(key, "4AAA") {
			t.Errorf("structural-only pair %v was merged", key)
		}
	}
}

func TestMergeMalformed(t *testing.T) {
	click := mustParse(t, "A-B-C,1,2\nA-B,1,2\n", ClickSchema)
	pw := mustParse(t, "A-B-C,1,0,1,1,1\nB-A,1,0,1,1,1\n", PairwiseSchema)

	m := MergeWith(quiet, pw, click)
	if m.Len() != 1 || m.Keys[0] != "B-A" {
		t.Errorf("keys %v, want [B-A]", m.Keys)
	}
}

func TestMergeCaseInsensitive(t *testing.T) {
	click := mustParse(t, "1abc-2xyz,1.2,95\n", ClickSchema)
	pw := mustParse(t, "2XYZ-1ABC,120,3,88.5,210,0.91\n", PairwiseSchema)

	_, match := Resolve(click, "2XYZ-1ABC")
	if match != Folded {
		t.Errorf("match %v != folded", match)
	}
	if m := MergeWith(quiet, pw, click); m.Len() != 1 {
		t.Errorf("merged %v rows, want 1", m.Len())
	}
}

func TestResolve(t *testing.T) {
	click := mustParse(t, "1ABC-2XYZ,1.2,95\n", ClickSchema)
	cases := []struct {
		key  string
		want Match
	}{
		{"1ABC-2XYZ", Direct},
		{"2XYZ-1ABC", Swapped},
		{"1ABC-3DEF", NotFound},
		{"1ABC", Malformed},
		{"1ABC-2XYZ-3DEF", Malformed},
	}
	for _, c := range cases {
		if _, got := Resolve(click, c.key); got != c.want {
			t.Errorf("Resolve(%q) %v != %v", c.key, got, c.want)
		}
	}
}

func TestMergeThreeSources(t *testing.T) {
	click := mustParse(t, "A-B,1.0,90\nA-C,2.0,50\n", ClickSchema)
	extra := Schema{Tool: "tm", Sentinel: "ID", KeyColumn: "PDBID-PAIR", Fields: []Field{{"TM", Float}}}
	tm := mustParse(t, "B-A,0.8\n", extra)
	pw := mustParse(t, "A-B,10,0,50,20,0.5\nC-A,10,0,50,20,0.5\n", PairwiseSchema)

	m := MergeWith(quiet, pw, click, tm)
	expect := "PDBID-PAIR,RMSD,SO,TM,LENGTH,GAPS,IDENTITY,SCORE,SIMILARITY\n" +
		"A-B,1.0,90,0.8,10,0,50,20,0.5\n"
	if out := mergedCSV(t, m); out != expect {
		t.Errorf("out %q != expect %q", out, expect)
	}
}

func TestMergeBothOrientations(t *testing.T) {
	click := mustParse(t, "1ABC-2XYZ,1.2,95\n", ClickSchema)
	pw := mustParse(t, "1ABC-2XYZ,120,3,88.5,210,0.91\n"+
		"2xyz-1abc,99,9,10.0,10,0.1\n"+
		"2XYZ-1ABC,99,9,10.0,10,0.1\n", PairwiseSchema)

	m := MergeWith(quiet, pw, click)
	if m.Len() != 1 || m.Keys[0] != "1ABC-2XYZ" {
		t.Fatalf("keys %v, want [1ABC-2XYZ]", m.Keys)
	}
	if got := m.Rows["1ABC-2XYZ"].String(); got != "1.2,95,120,3,88.5,210,0.91" {
		t.Errorf("row %v", got)
	}
}
