package compare

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
)

// Merged holds one row per reconciled pair, keyed by the driving source's
// literal key.
type Merged struct {
	Header []string
	Keys   []string
	Rows   map[string]Bundle
}

func (m *Merged) Len() int {
	return len(m.Keys)
}

// Column returns the values of the named column in row order.
func (m *Merged) Column(name string) []string {
	out := make([]string, 0, len(m.Keys))
	for _, key := range m.Keys {
		if v, ok := m.Rows[key].Get(name); ok {
			out = append(out, v)
		}
	}
	return out
}

type MergeOptions struct {
	Log *log.Logger
}

// Merge joins tables pair by pair. Iteration is driven by secondary: a row is
// emitted for a secondary key only if every primary has the same pair in
// either orientation. Pairs missing from secondary never appear, even when
// every primary has them. Each row holds the primaries' metrics in argument
// order followed by secondary's, under secondary's key. A pair that secondary
// lists in both orientations is emitted once, under the first one seen.
func Merge(secondary *Table, primaries ...*Table) *Merged {
	return MergeWith(MergeOptions{}, secondary, primaries...)
}

func MergeWith(o MergeOptions, secondary *Table, primaries ...*Table) *Merged {
	logger := o.Log
	if logger == nil {
		logger = log.Default()
	}

	m := &Merged{
		Header: header(secondary, primaries...),
		Rows:   make(map[string]Bundle, secondary.Len()),
	}

	recs := make([]*Reconciler, 0, len(primaries))
	for _, p := range primaries {
		recs = append(recs, NewReconciler(p))
	}

	seen := make(map[string]string, secondary.Len())
	malformed, missing, dups := 0, 0, 0
rows:
	for _, key := range secondary.Keys {
		if k, e := ParsePairKey(key); e == nil {
			if first, ok := seen[k.Fold()]; ok {
				logger.Printf("Merge: skipping %q, already merged as %q", key, first)
				dups++
				continue
			}
			seen[k.Fold()] = key
		}

		var b Bundle
		for i, rec := range recs {
			pb, match := rec.Resolve(key)
			switch {
			case match == Malformed:
				logger.Printf("Merge: skipping malformed pair key %q", key)
				malformed++
				continue rows
			case !match.Found():
				logger.Printf("Merge: pair %q from %v not found in %v", key, secondary.Schema.Tool, primaries[i].Schema.Tool)
				missing++
				continue rows
			}
			b = append(b, pb...)
		}
		b = append(b, secondary.Rows[key]...)
		m.Keys = append(m.Keys, key)
		m.Rows[key] = b
	}

	if malformed > 0 || missing > 0 || dups > 0 {
		logger.Printf("Merge: merged %v of %v pairs (%v malformed, %v unmatched, %v repeated)", m.Len(), secondary.Len(), malformed, missing, dups)
	}
	return m
}

func header(secondary *Table, primaries ...*Table) []string {
	key := secondary.Schema.KeyColumn
	if key == "" {
		key = "PAIR"
	}
	out := []string{key}
	for _, p := range primaries {
		out = append(out, p.Schema.Names()...)
	}
	return append(out, secondary.Schema.Names()...)
}

// WriteCSV writes the header and then one comma-joined row per pair, pair key
// first.
func WriteCSV(w io.Writer, m *Merged) error {
	h := handle("WriteCSV: %w")
	if _, e := fmt.Fprintln(w, strings.Join(m.Header, ",")); e != nil {
		return h(e)
	}
	for _, key := range m.Keys {
		if _, e := fmt.Fprintf(w, "%v,%v\n", key, m.Rows[key]); e != nil {
			return h(e)
		}
	}
	return nil
}

func WriteCSVPath(path string, m *Merged) (err error) {
	w, e := csvh.CreateMaybeGz(path)
	if e != nil {
		return fmt.Errorf("WriteCSVPath: %w", e)
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()
	bw := bufio.NewWriter(w)
	defer func() { csvh.DeferE(&err, bw.Flush()) }()

	return WriteCSV(bw, m)
}
