package ligand

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fasttsv"
)

// ReportHeader is the first line of a ligand report.
const ReportHeader = "PDBID\tCHEMICAL ID\tCHEMICAL NAME\tTYPE\tMW\tFORMULA\tSMILES"

func parseReportLine(line []string) (Ligand, error) {
	var l Ligand
	if len(line) < 7 {
		return l, fmt.Errorf("%v fields, want 7", len(line))
	}
	w, e := strconv.ParseFloat(line[4], 64)
	if e != nil {
		return l, e
	}
	l.PDBID = line[0]
	l.ChemicalID = line[1]
	l.Name = line[2]
	l.Type = line[3]
	l.Weight = w
	l.Formula = line[5]
	l.SMILES = line[6]
	return l, nil
}

// ReadReport reads a tab-separated ligand report, one ligand per line, and
// groups the ligands into records by PDB ID in the order the IDs appear.
func ReadReport(r io.Reader) ([]Record, error) {
	h := handle("ReadReport: line %v: %w")
	var records []Record
	index := map[string]int{}

	s := fasttsv.NewScanner(r)
	for lnum := 1; s.Scan(); lnum++ {
		line := s.Line()
		if len(line) == 0 || (len(line) == 1 && line[0] == "") || line[0] == "PDBID" {
			continue
		}
		l, e := parseReportLine(line)
		if e != nil {
			return nil, h(lnum, e)
		}

		i, ok := index[l.PDBID]
		if !ok {
			i = len(records)
			index[l.PDBID] = i
			records = append(records, Record{PDBID: l.PDBID})
		}
		records[i].Ligands = append(records[i].Ligands, l)
	}
	return records, nil
}

func ReadReportPath(path string) ([]Record, error) {
	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return nil, fmt.Errorf("ReadReportPath: %w", e)
	}
	defer r.Close()
	return ReadReport(r)
}

// WriteReport writes records in the format ReadReport reads.
func WriteReport(w io.Writer, records []Record) error {
	if _, e := fmt.Fprintln(w, ReportHeader); e != nil {
		return e
	}
	for _, r := range records {
		for _, l := range r.Ligands {
			_, e := fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\t%v\n",
				r.PDBID, l.ChemicalID, strings.ReplaceAll(l.Name, ",", ""), l.Type,
				l.Weight, l.Formula, l.SMILES)
			if e != nil {
				return e
			}
		}
	}
	return nil
}
