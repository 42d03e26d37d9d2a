package compare

import (
	"bufio"
	"io"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/lscan/pkg"
)

var commaSplit = lscan.ByByte(',')

func splitRow(buf []string, text string) []string {
	buf = lscan.SplitByFunc(buf, strings.TrimRight(text, "\r"), commaSplit)
	for i, f := range buf {
		buf[i] = strings.Trim(f, `"`)
	}
	return buf
}

// Parse reads one tool's CSV output line by line. Header rows, recognized by
// the schema's sentinel, are skipped. Rows that are too short or whose values
// do not fit the schema are dropped and recorded in Table.Failures; a bad row
// never affects the rows after it. Only read errors stop the parse.
func Parse(r io.Reader, s Schema) (*Table, error) {
	h := handle("Parse: %w")
	t := NewTable(s)

	sc := bufio.NewScanner(r)
	sc.Buffer([]byte{}, 1e12)
	var line []string
	for lnum := 1; sc.Scan(); lnum++ {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		line = splitRow(line, sc.Text())
		if strings.HasPrefix(line[0], s.Sentinel) {
			continue
		}

		if len(line) < s.Width() {
			t.Failures = append(t.Failures, &ParseError{s.Tool, lnum, "too few fields: " + strings.Join(line, ",")})
			continue
		}
		if line[0] == "" {
			t.Failures = append(t.Failures, &ParseError{s.Tool, lnum, "empty pair key"})
			continue
		}

		b, e := s.Bundle(line[1:])
		if e != nil {
			t.Failures = append(t.Failures, &ParseError{s.Tool, lnum, e.Error()})
			continue
		}
		t.Put(line[0], b)
	}
	if e := sc.Err(); e != nil {
		return t, h(e)
	}

	return t, nil
}

func ParseString(raw string, s Schema) (*Table, error) {
	return Parse(strings.NewReader(raw), s)
}

func ParsePath(path string, s Schema) (*Table, error) {
	h := handle("ParsePath: %w")
	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return nil, h(e)
	}
	defer r.Close()

	return Parse(r, s)
}
