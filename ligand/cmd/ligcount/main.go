package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/jgbaldwinbrown/pdbpair/ligand/pkg"
)

type Flags struct {
	Dictionary string
	CcToPDB    string
	DropIons   bool
	Normalize  bool
}

func main() {
	var f Flags
	flag.StringVar(&f.Dictionary, "d", "", "Ligand Expo ligands.csv; keep only ligands listed there")
	flag.StringVar(&f.CcToPDB, "m", "", "cc-to-pdb.tdd ligand-to-structure map (required with -d)")
	flag.BoolVar(&f.DropIons, "i", false, "Drop ions (requires -d)")
	flag.BoolVar(&f.Normalize, "n", false, "Normalize ligand IDs and formulas before counting")
	flag.Parse()

	records, e := ligand.ReadReport(bufio.NewReader(os.Stdin))
	if e != nil {
		log.Fatal(e)
	}

	if f.Dictionary != "" {
		d, e := ligand.LoadDictionaryPaths(f.Dictionary, f.CcToPDB)
		if e != nil {
			log.Fatal(e)
		}
		records = d.Filter(records, f.DropIons)
	}
	if f.Normalize {
		records = ligand.Normalize(records)
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()
	if e := ligand.WriteCounts(stdout, ligand.Count(records)); e != nil {
		log.Fatal(e)
	}
}
