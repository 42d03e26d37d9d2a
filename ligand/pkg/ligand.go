package ligand

import (
	"fmt"
	"strings"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

// Ligand is a small molecule bound in a structure, as described by the
// Ligand Expo chemical component dictionary.
type Ligand struct {
	PDBID      string
	ChemicalID string
	Type       string
	Weight     float64
	Name       string
	Formula    string
	InChIKey   string
	InChI      string
	SMILES     string
	IsIon      bool
}

// Key is the identity used when counting ligands. Two ligands with the same
// chemical ID but a different name, formula or weight are different keys.
type Key struct {
	ChemicalID string
	Name       string
	Formula    string
	Weight     float64
}

func (l Ligand) Key() Key {
	return Key{l.ChemicalID, l.Name, l.Formula, l.Weight}
}

// Record is one retrieved structure and the ligands found in it.
type Record struct {
	PDBID   string
	Ligands []Ligand
}

// Normalize trims and upper-cases the identity fields so that ligands that
// differ only in formatting count as one. Records are copied, not modified.
func Normalize(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		nr := Record{PDBID: r.PDBID, Ligands: make([]Ligand, 0, len(r.Ligands))}
		for _, l := range r.Ligands {
			l.ChemicalID = strings.ToUpper(strings.TrimSpace(l.ChemicalID))
			l.Formula = strings.ToUpper(strings.TrimSpace(l.Formula))
			l.Name = strings.TrimSpace(l.Name)
			nr.Ligands = append(nr.Ligands, l)
		}
		out = append(out, nr)
	}
	return out
}
