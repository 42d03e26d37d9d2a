package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jgbaldwinbrown/csvh"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

type Flags struct {
	Click    string
	Pairwise string
	Out      string
	Summary  string
	X        string
	Y        string
}

func parseFlags() Flags {
	var f Flags
	flag.StringVar(&f.Click, "c", "", "Structural (Click) summary CSV")
	flag.StringVar(&f.Pairwise, "p", "", "Pairwise sequence alignment CSV")
	flag.StringVar(&f.Out, "o", "", "Merged CSV output (default stdout)")
	flag.StringVar(&f.Summary, "s", "", "Also write a column summary to this path")
	flag.StringVar(&f.X, "x", "IDENTITY", "Summary x column")
	flag.StringVar(&f.Y, "y", "RMSD", "Summary y column")
	flag.Parse()
	return f
}

// run merges the two tool outputs. Merged rows sent to stdout are flushed
// before run returns, even when the summary fails.
func run(f Flags, stdout io.Writer) (err error) {
	if f.Click == "" || f.Pairwise == "" {
		return fmt.Errorf("mergecmp: -c and -p are required")
	}

	click, e := compare.ParsePath(f.Click, compare.ClickSchema)
	if e != nil {
		return e
	}
	pw, e := compare.ParsePath(f.Pairwise, compare.PairwiseSchema)
	if e != nil {
		return e
	}
	for _, pe := range append(click.Failures, pw.Failures...) {
		log.Printf("dropped row: %v", pe)
	}

	m := compare.Merge(pw, click)
	if f.Out == "" {
		bw := bufio.NewWriter(stdout)
		defer func() { csvh.DeferE(&err, bw.Flush()) }()
		if e := compare.WriteCSV(bw, m); e != nil {
			return e
		}
	} else if e := compare.WriteCSVPath(f.Out, m); e != nil {
		return e
	}

	if f.Summary != "" {
		s, e := compare.Summarize(m, f.X, f.Y)
		if e != nil {
			return e
		}
		if e := compare.WriteSummaryPath(f.Summary, "", s); e != nil {
			return e
		}
	}
	return nil
}

func main() {
	if e := run(parseFlags(), os.Stdout); e != nil {
		log.Fatal(e)
	}
}
