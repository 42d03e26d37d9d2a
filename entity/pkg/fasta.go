package entity

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fastats/pkg"
	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

// FastaID extracts the entity ID from an RCSB FASTA header such as
// "1ABC_1|Chains A|...|" or "1ABC:A|PDBID|CHAIN|SEQUENCE".
func FastaID(header string) string {
	id := header
	if i := strings.IndexAny(id, ":|_ \t"); i >= 0 {
		id = id[:i]
	}
	return strings.ToUpper(strings.TrimSpace(id))
}

func writeFasta(path string, fa []fastats.FaEntry) (err error) {
	w, e := csvh.CreateMaybeGz(path)
	if e != nil {
		return e
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()
	bw := bufio.NewWriter(w)
	defer func() { csvh.DeferE(&err, bw.Flush()) }()

	return fastats.WriteFaEntries(bw, fa...)
}

// SplitFasta writes one <ID>.fasta per entity in a concatenated FASTA
// download, keeping every chain of an entity in its file. It returns the
// written entries in first-seen order.
func SplitFasta(r io.Reader, outdir string) ([]Entry, error) {
	h := handle("SplitFasta: %w")
	if e := RequireWritable(outdir); e != nil {
		return nil, h(e)
	}

	var order []string
	byID := map[string][]fastats.FaEntry{}
	e := fastats.ParseFasta(r).Iterate(func(fa fastats.FaEntry) error {
		id := FastaID(fa.Header)
		if id == "" {
			return fmt.Errorf("entry %q has no ID", fa.Header)
		}
		if _, ok := byID[id]; !ok {
			order = append(order, id)
		}
		byID[id] = append(byID[id], fa)
		return nil
	})
	if e != nil {
		return nil, h(e)
	}

	out := make([]Entry, 0, len(order))
	for _, id := range order {
		path := filepath.Join(outdir, id+".fasta")
		if e := writeFasta(path, byID[id]); e != nil {
			return nil, h(e)
		}
		out = append(out, Entry{ID: compare.EntityID(id), Path: path})
	}
	return out, nil
}
