package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jgbaldwinbrown/iter"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
	"github.com/jgbaldwinbrown/pdbpair/config/pkg"
	"github.com/jgbaldwinbrown/pdbpair/runner/pkg"
)

// source is one comparison tool as configured for a run. Exactly one of job
// and pairJob is used, depending on whether the tool runs per pair.
type source struct {
	name    string
	kind    runner.ToolKind
	perPair bool
	job     runner.Job
	pairJob runner.PairJob
}

type SourceReport struct {
	Name         string
	Rows         int
	ParseErrors  []*compare.ParseError
	PairFailures []runner.PairFailure
	Err          error
}

func buildTool(kind runner.ToolKind, tc config.ToolConfig) runner.Tool {
	t := runner.DefaultTool(kind)
	if tc.Binary != "" {
		t.Binary = tc.Binary
	}
	if len(tc.Args) > 0 {
		t.Args = tc.Args
	} else if tc.PerPair {
		t.Args = runner.DefaultPairArgs(kind)
	}
	return t
}

func newSource(kind runner.ToolKind, tc config.ToolConfig, inputDir, ext string, gapOpen, gapExtend *float64, timeout time.Duration) source {
	t := buildTool(kind, tc)
	s := source{name: kind.String(), kind: kind, perPair: tc.PerPair}
	if tc.PerPair {
		s.pairJob = runner.PairJob{
			Name:      t.Binary,
			Kind:      kind,
			Tool:      t,
			InputDir:  inputDir,
			Ext:       ext,
			GapOpen:   gapOpen,
			GapExtend: gapExtend,
			Timeout:   timeout,
		}
		return s
	}
	s.job = runner.Job{
		Name:               t.Binary,
		Kind:               kind,
		Tool:               t,
		InputDir:           inputDir,
		OutputDir:          tc.OutputDir,
		Summary:            tc.Summary,
		GapOpen:            gapOpen,
		GapExtend:          gapExtend,
		Timeout:            timeout,
		RequireEmptyOutput: tc.RequireEmptyOutput,
	}
	return s
}

func sources(cfg *config.Config, timeout time.Duration) []source {
	seqExt := cfg.Entities.Ext
	if cfg.Sequence.InputDir != "" || cfg.Entities.FastaDir != "" {
		seqExt = cfg.Entities.FastaExt
	}
	return []source{
		newSource(runner.Structural, cfg.Structural, cfg.StructuralInputDir(), cfg.Entities.Ext, nil, nil, timeout),
		newSource(runner.Sequence, cfg.Sequence.Tool(), cfg.SequenceInputDir(), seqExt,
			cfg.Sequence.GapOpen, cfg.Sequence.GapExtend, timeout),
	}
}

func (s source) prepare() error {
	if s.perPair {
		return s.pairJob.Validate()
	}
	if s.job.OutputDir != "" {
		if e := os.MkdirAll(s.job.OutputDir, 0755); e != nil {
			return &compare.PreconditionError{Path: s.job.OutputDir, Reason: e.Error()}
		}
	}
	if dir := filepath.Dir(s.job.SummaryPath()); s.job.Summary != "" && dir != "" {
		if e := os.MkdirAll(dir, 0755); e != nil {
			return &compare.PreconditionError{Path: dir, Reason: e.Error()}
		}
	}
	return s.job.Validate()
}

func (s source) commandLine() string {
	if s.perPair {
		return s.pairJob.Tool.CommandLine(s.pairJob.Bindings(compare.PairKey{First: "{a}", Second: "{b}"}))
	}
	return s.job.Tool.CommandLine(s.job.Bindings())
}

func logParseErrors(logger *log.Logger, t *compare.Table) {
	for _, pe := range t.Failures {
		logger.Printf("dropped row: %v", pe)
	}
}

// runSources runs every whole-directory source together, then every per-pair
// source, and parses each source's output with its tool's schema.
func runSources(ctx context.Context, logger *log.Logger, threads int, srcs []source, pairs []compare.PairKey) ([]*compare.Table, []SourceReport) {
	tables := make([]*compare.Table, len(srcs))
	reports := make([]SourceReport, len(srcs))

	var jobs []runner.Job
	var jobIdx []int
	for i, s := range srcs {
		reports[i].Name = s.name
		logger.Printf("%v: %v", s.name, s.commandLine())
		if !s.perPair {
			jobs = append(jobs, s.job)
			jobIdx = append(jobIdx, i)
		}
	}

	for k, res := range runner.RunMulti(ctx, threads, jobs...) {
		i := jobIdx[k]
		if res.Err != nil {
			reports[i].Err = res.Err
			continue
		}
		t, e := compare.ParseString(res.Output, res.Job.Tool.Schema)
		if e != nil {
			reports[i].Err = fmt.Errorf("parsing %v output: %w", srcs[i].name, e)
			continue
		}
		tables[i] = t
	}

	for i, s := range srcs {
		if !s.perPair {
			continue
		}
		res, e := runner.RunPairs(ctx, s.pairJob, iter.SliceIter[compare.PairKey](pairs), threads)
		if e != nil {
			reports[i].Err = e
			continue
		}
		for _, pf := range res.Failures {
			logger.Printf("%v: pair %v failed: %v", s.name, pf.Pair, pf.Err)
		}
		reports[i].PairFailures = res.Failures
		if len(pairs) > 0 && len(res.Failures) == len(pairs) {
			reports[i].Err = res.Failures[0].Err
			continue
		}
		tables[i] = res.Table
	}

	for i, t := range tables {
		if t == nil {
			continue
		}
		logParseErrors(logger, t)
		reports[i].Rows = t.Len()
		reports[i].ParseErrors = t.Failures
	}
	return tables, reports
}
