package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jgbaldwinbrown/csvh"
	"golang.org/x/sync/errgroup"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
	"github.com/jgbaldwinbrown/pdbpair/entity/pkg"
)

// Job is one invocation of a whole-directory tool: the tool compares every
// entity in InputDir against every other and writes a summary CSV.
type Job struct {
	Name               string
	Kind               ToolKind
	Tool               Tool
	InputDir           string
	OutputDir          string
	Summary            string
	GapOpen            *float64
	GapExtend          *float64
	Timeout            time.Duration
	RequireEmptyOutput bool
}

func (j Job) ToolName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Tool.Binary
}

// SummaryPath resolves a relative summary name against the output
// directory.
func (j Job) SummaryPath() string {
	if j.Summary == "" || filepath.IsAbs(j.Summary) || j.OutputDir == "" {
		return j.Summary
	}
	return filepath.Join(j.OutputDir, j.Summary)
}

func (j Job) Bindings() map[string]string {
	b := map[string]string{"input": j.InputDir}
	if j.OutputDir != "" {
		b["output"] = j.OutputDir
	}
	if s := j.SummaryPath(); s != "" {
		b["summary"] = s
	}
	if j.Kind == Sequence {
		if v, ok := FormatPenalty(j.GapOpen); ok {
			b["gapopen"] = v
		}
		if v, ok := FormatPenalty(j.GapExtend); ok {
			b["gapextend"] = v
		}
	}
	return b
}

// CheckPenalties fails unless gap-open and gap-extend are both set.
func CheckPenalties(gapOpen, gapExtend *float64) error {
	if gapOpen == nil {
		return &compare.ConfigurationError{Option: "gap_open", Reason: "required together with gap_extend"}
	}
	if gapExtend == nil {
		return &compare.ConfigurationError{Option: "gap_extend", Reason: "required together with gap_open"}
	}
	return nil
}

// Validate checks options and directories. Nothing is started if it fails.
func (j Job) Validate() error {
	if j.Tool.Binary == "" {
		return &compare.ConfigurationError{Option: "binary", Reason: "no tool binary for job " + j.Name}
	}
	if j.Kind == Sequence {
		if e := CheckPenalties(j.GapOpen, j.GapExtend); e != nil {
			return e
		}
	}
	if e := entity.RequireDir(j.InputDir); e != nil {
		return e
	}
	if j.OutputDir == "" {
		return nil
	}
	if j.RequireEmptyOutput {
		if e := entity.RequireEmpty(j.OutputDir); e != nil {
			return e
		}
	}
	return entity.RequireWritable(j.OutputDir)
}

// waitDelay bounds how long a killed tool's children may hold its output
// pipes open.
const waitDelay = 2 * time.Second

func execute(ctx context.Context, name string, timeout time.Duration, bin string, args []string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	e := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &compare.ToolInvocationError{
			Tool:   name,
			Output: stderr.String(),
			Err:    fmt.Errorf("timed out after %v: %w", timeout, ctx.Err()),
		}
	}
	if e != nil && ctx.Err() != nil {
		return "", &compare.ToolInvocationError{Tool: name, Output: stderr.String(), Err: fmt.Errorf("%w: %v", ctx.Err(), e)}
	}
	if e != nil {
		return "", &compare.ToolInvocationError{Tool: name, Output: stderr.String() + stdout.String(), Err: e}
	}
	return stdout.String(), nil
}

func readSummary(path string) (string, error) {
	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return "", e
	}
	defer r.Close()
	b, e := io.ReadAll(r)
	return string(b), e
}

// Run spawns the job's tool once and returns its summary CSV text, or its
// standard output when the job names no summary file.
func Run(ctx context.Context, j Job) (string, error) {
	if e := j.Validate(); e != nil {
		return "", e
	}

	out, e := execute(ctx, j.ToolName(), j.Timeout, j.Tool.Binary, j.Tool.Expand(j.Bindings()))
	if e != nil {
		return "", e
	}
	if j.Summary == "" {
		return out, nil
	}

	text, e := readSummary(j.SummaryPath())
	if e != nil {
		return "", &compare.ToolInvocationError{Tool: j.ToolName(), Output: out, Err: fmt.Errorf("reading summary: %w", e)}
	}
	return text, nil
}

type Result struct {
	Job    Job
	Output string
	Err    error
}

// Limit is the number of tools run at once for a threads setting: threads
// itself, or one per CPU when threads <= 0.
func Limit(threads int) int {
	if threads > 0 {
		return threads
	}
	return runtime.NumCPU()
}

// RunMulti runs jobs concurrently, at most Limit(threads) at a time. A failing
// job does not stop the others; results are in job order.
func RunMulti(ctx context.Context, threads int, jobs ...Job) []Result {
	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(Limit(threads))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			out, e := Run(ctx, job)
			results[i] = Result{Job: job, Output: out, Err: e}
			return nil
		})
	}
	g.Wait()
	return results
}

// LoadJobs decodes a stream of JSON jobs. Jobs without a binary get the
// default tool for their kind.
func LoadJobs(r io.Reader) ([]Job, error) {
	h := handle("LoadJobs: %w")
	dec := json.NewDecoder(r)
	var jobs []Job
	for {
		var j Job
		e := dec.Decode(&j)
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, h(e)
		}
		if j.Tool.Binary == "" {
			j.Tool = DefaultTool(j.Kind)
		}
		j.Tool.Schema = SchemaFor(j.Kind)
		jobs = append(jobs, j)
	}
	return jobs, nil
}
