package ligand

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

const (
	LigandsResource = "ligands.csv"
	CcToPDBResource = "cc-to-pdb.tdd"
)

// Entry is one dictionary ligand and the structures it appears in.
type Entry struct {
	Ligand
	ChEBI  string
	PDBIDs []string
}

// Dictionary is the Ligand Expo chemical component table. Build it once per
// run with LoadDictionary and share it by pointer; it is not modified after
// loading.
type Dictionary struct {
	Entries []*Entry
	byID    map[string]*Entry
	byPDB   map[string][]*Entry
}

func loadErr(resource string, e error) error {
	return &compare.ResourceLoadError{Resource: resource, Err: e}
}

func readLigands(r io.Reader) ([]*Entry, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var out []*Entry
	for line, e := cr.Read(); e != io.EOF; line, e = cr.Read() {
		if e != nil {
			return nil, e
		}
		if len(line) == 0 || line[0] == "Chemical Id" {
			continue
		}
		if len(line) < 9 {
			lnum, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %v: %v fields, want 9", lnum, len(line))
		}

		var en Entry
		var isLigand, skip, ion string
		_, e := csvh.Scan(line,
			&en.ChemicalID, &en.Name, &en.Type, &en.Weight,
			&en.Formula, &en.ChEBI, &isLigand, &skip, &ion,
		)
		if e != nil {
			lnum, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %v: %w", lnum, e)
		}
		if !strings.EqualFold(isLigand, "y") {
			continue
		}
		en.IsIon = ion == "*"
		out = append(out, &en)
	}
	return out, nil
}

func (d *Dictionary) readCcToPDB(r io.Reader) error {
	cr := csvh.CsvIn(r)
	for line, e := cr.Read(); e != io.EOF; line, e = cr.Read() {
		if e != nil {
			return e
		}
		if len(line) < 2 {
			continue
		}
		en, ok := d.byID[strings.ToUpper(strings.TrimSpace(line[0]))]
		if !ok {
			continue
		}
		for _, id := range strings.Fields(line[1]) {
			id = strings.ToLower(id)
			en.PDBIDs = append(en.PDBIDs, id)
			d.byPDB[id] = append(d.byPDB[id], en)
		}
	}
	return nil
}

// LoadDictionary reads the ligand table and the ligand-to-structure map. A
// table that cannot be read, has a malformed row, or holds no ligands is an
// error.
func LoadDictionary(ligandsCSV, ccToPDB io.Reader) (*Dictionary, error) {
	entries, e := readLigands(ligandsCSV)
	if e != nil {
		return nil, loadErr(LigandsResource, e)
	}
	if len(entries) == 0 {
		return nil, loadErr(LigandsResource, errors.New("no ligands"))
	}

	d := &Dictionary{
		Entries: entries,
		byID:    make(map[string]*Entry, len(entries)),
		byPDB:   map[string][]*Entry{},
	}
	for _, en := range entries {
		d.byID[strings.ToUpper(en.ChemicalID)] = en
	}

	if e := d.readCcToPDB(ccToPDB); e != nil {
		return nil, loadErr(CcToPDBResource, e)
	}
	return d, nil
}

func LoadDictionaryPaths(ligandsPath, ccToPDBPath string) (*Dictionary, error) {
	lr, e := csvh.OpenMaybeGz(ligandsPath)
	if e != nil {
		return nil, loadErr(ligandsPath, e)
	}
	defer lr.Close()

	cr, e := csvh.OpenMaybeGz(ccToPDBPath)
	if e != nil {
		return nil, loadErr(ccToPDBPath, e)
	}
	defer cr.Close()

	return LoadDictionary(lr, cr)
}

func (d *Dictionary) Contains(chemicalID string) bool {
	_, ok := d.byID[strings.ToUpper(chemicalID)]
	return ok
}

func (d *Dictionary) Lookup(chemicalID string) (*Entry, bool) {
	en, ok := d.byID[strings.ToUpper(chemicalID)]
	return en, ok
}

// FindByPDB returns the dictionary ligands that the map lists for pdbID.
func (d *Dictionary) FindByPDB(pdbID string) []*Entry {
	return d.byPDB[strings.ToLower(pdbID)]
}

// Filter keeps only ligands that are in the dictionary, optionally dropping
// ions too. Records left with no ligands are kept.
func (d *Dictionary) Filter(records []Record, dropIons bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		nr := Record{PDBID: r.PDBID}
		for _, l := range r.Ligands {
			en, ok := d.Lookup(l.ChemicalID)
			if !ok {
				continue
			}
			if dropIons && (l.IsIon || en.IsIon) {
				continue
			}
			nr.Ligands = append(nr.Ligands, l)
		}
		out = append(out, nr)
	}
	return out
}
