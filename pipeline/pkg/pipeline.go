package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jgbaldwinbrown/iter"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
	"github.com/jgbaldwinbrown/pdbpair/config/pkg"
	"github.com/jgbaldwinbrown/pdbpair/entity/pkg"
	"github.com/jgbaldwinbrown/pdbpair/ligand/pkg"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

type Options struct {
	Log   *log.Logger
	RunID string
}

type Report struct {
	RunID       string
	Entities    int
	Pairs       int64
	Sources     []SourceReport
	Merged      int
	MergedPath  string
	Summary     *compare.Summary
	SummaryPath string
	Ligands     int
	CountsPath  string
}

// Run plans the comparisons over the configured entity directory, runs both
// tools, merges their tables into one CSV and writes the optional summary and
// ligand counts. Configuration and directory problems are reported before any
// tool starts. Ligand counting does not depend on the tools and runs whether
// or not they succeed.
func Run(ctx context.Context, cfg *config.Config, o Options) (*Report, error) {
	h := handle("pipeline.Run: %w")
	logger := o.Log
	if logger == nil {
		logger = log.Default()
	}

	if e := cfg.Validate(); e != nil {
		return nil, h(e)
	}
	timeout, e := cfg.TimeoutDuration()
	if e != nil {
		return nil, h(e)
	}

	rep := &Report{RunID: o.RunID}
	if rep.RunID == "" {
		rep.RunID = uuid.New().String()
	}
	logger.Printf("run %v", rep.RunID)

	entries, e := entity.List(cfg.Entities.Dir, cfg.Entities.Ext)
	if e != nil {
		return nil, h(e)
	}
	rep.Entities = len(entries)
	n, planned := compare.Plan(entity.IDs(entries))
	rep.Pairs = n
	logger.Printf("%v entities, %v pairs", rep.Entities, rep.Pairs)

	srcs := sources(cfg, timeout)
	for _, s := range srcs {
		if e := s.prepare(); e != nil {
			return nil, h(e)
		}
	}

	pairs, e := iter.Collect[compare.PairKey](planned)
	if e != nil {
		return nil, h(e)
	}

	tables, reports := runSources(ctx, logger, cfg.Threads, srcs, pairs)
	rep.Sources = reports
	ce := ctx.Err()
	if ce == nil {
		ce = mergeSources(logger, rep, cfg, tables)
	}

	var le error
	if cfg.Ligands.Report != "" {
		le = countLigands(logger, rep, cfg)
		if le != nil {
			logger.Printf("ligand counts failed: %v", le)
		}
	}

	if e := errors.Join(ce, le); e != nil {
		return rep, h(e)
	}
	return rep, nil
}

// mergeSources applies the partial-failure policy to the tool results, then
// writes the merged CSV and the optional summary.
func mergeSources(logger *log.Logger, rep *Report, cfg *config.Config, tables []*compare.Table) error {
	var ok []*compare.Table
	for i, r := range rep.Sources {
		if r.Err == nil {
			ok = append(ok, tables[i])
			continue
		}
		logger.Printf("%v failed: %v", r.Name, r.Err)
		if !cfg.AllowPartial {
			return r.Err
		}
	}
	if len(ok) == 0 {
		return fmt.Errorf("every comparison tool failed")
	}

	merged := mergeTables(logger, ok)
	rep.Merged = merged.Len()
	rep.MergedPath = cfg.Output.Merged
	if e := writeMerged(cfg.Output.Merged, merged); e != nil {
		return e
	}
	logger.Printf("wrote %v merged pairs to %v", rep.Merged, rep.MergedPath)

	if cfg.Output.Summary != "" {
		return summarize(logger, rep, cfg, merged)
	}
	return nil
}

// mergeTables joins the structural table into the sequence table's rows when
// both succeeded, which gives the PDBID-PAIR,RMSD,SO,LENGTH,... layout.
func mergeTables(logger *log.Logger, tables []*compare.Table) *compare.Merged {
	opts := compare.MergeOptions{Log: logger}
	if len(tables) == 1 {
		return compare.MergeWith(opts, tables[0])
	}
	return compare.MergeWith(opts, tables[len(tables)-1], tables[:len(tables)-1]...)
}

func mkParent(path string) error {
	dir := filepath.Dir(path)
	if e := os.MkdirAll(dir, 0755); e != nil {
		return &compare.PreconditionError{Path: dir, Reason: e.Error()}
	}
	return nil
}

func writeMerged(path string, m *compare.Merged) error {
	if e := mkParent(path); e != nil {
		return e
	}
	return compare.WriteCSVPath(path, m)
}

func summarize(logger *log.Logger, rep *Report, cfg *config.Config, m *compare.Merged) error {
	s, e := compare.Summarize(m, cfg.Output.SummaryX, cfg.Output.SummaryY)
	if e != nil {
		logger.Printf("skipping summary: %v", e)
		return nil
	}
	if e := mkParent(cfg.Output.Summary); e != nil {
		return e
	}
	if e := compare.WriteSummaryPath(cfg.Output.Summary, rep.RunID, s); e != nil {
		return e
	}
	rep.Summary = &s
	rep.SummaryPath = cfg.Output.Summary
	return nil
}

func countLigands(logger *log.Logger, rep *Report, cfg *config.Config) error {
	records, e := ligand.ReadReportPath(cfg.Ligands.Report)
	if e != nil {
		return e
	}

	if cfg.Ligands.Dictionary != "" {
		d, e := ligand.LoadDictionaryPaths(cfg.Ligands.Dictionary, cfg.Ligands.CcToPDB)
		if e != nil {
			return e
		}
		logger.Printf("loaded %v dictionary ligands", len(d.Entries))
		records = d.Filter(records, cfg.Ligands.DropIons)
	}
	if cfg.Ligands.Normalize {
		records = ligand.Normalize(records)
	}

	c := ligand.Count(records)
	if e := mkParent(cfg.Ligands.Counts); e != nil {
		return e
	}
	if e := ligand.WriteCountsPath(cfg.Ligands.Counts, c); e != nil {
		return e
	}
	rep.Ligands = len(c.Keys)
	rep.CountsPath = cfg.Ligands.Counts
	logger.Printf("wrote %v distinct ligands from %v records to %v", rep.Ligands, len(records), rep.CountsPath)
	return nil
}

// WriteReport prints a short human-readable account of a run.
func WriteReport(w io.Writer, rep *Report) error {
	_, e := fmt.Fprintf(w, "run\t%v\nentities\t%v\npairs\t%v\n", rep.RunID, rep.Entities, rep.Pairs)
	if e != nil {
		return e
	}
	for _, s := range rep.Sources {
		status := "ok"
		if s.Err != nil {
			status = "failed"
		}
		_, e := fmt.Fprintf(w, "%v\t%v\trows=%v\tdropped=%v\tpair_failures=%v\n",
			s.Name, status, s.Rows, len(s.ParseErrors), len(s.PairFailures))
		if e != nil {
			return e
		}
	}
	_, e = fmt.Fprintf(w, "merged\t%v\n", rep.Merged)
	return e
}
