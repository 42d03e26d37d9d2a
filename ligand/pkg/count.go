package ligand

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jgbaldwinbrown/csvh"
)

// Counts maps each distinct ligand to the number of times it was seen. Keys
// holds the ligands in the order they were first seen.
type Counts struct {
	Keys []Key
	N    map[Key]int
}

func Count(records []Record) *Counts {
	c := &Counts{N: map[Key]int{}}
	for _, r := range records {
		for _, l := range r.Ligands {
			k := l.Key()
			if _, ok := c.N[k]; !ok {
				c.Keys = append(c.Keys, k)
			}
			c.N[k]++
		}
	}
	return c
}

// WriteCounts writes one "<chemical id>\t<count>" line per distinct ligand,
// with no header.
func WriteCounts(w io.Writer, c *Counts) error {
	for _, k := range c.Keys {
		if _, e := fmt.Fprintf(w, "%v\t%v\n", k.ChemicalID, c.N[k]); e != nil {
			return fmt.Errorf("WriteCounts: %w", e)
		}
	}
	return nil
}

func WriteCountsPath(path string, c *Counts) (err error) {
	w, e := csvh.CreateMaybeGz(path)
	if e != nil {
		return fmt.Errorf("WriteCountsPath: %w", e)
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()
	bw := bufio.NewWriter(w)
	defer func() { csvh.DeferE(&err, bw.Flush()) }()

	return WriteCounts(bw, c)
}
