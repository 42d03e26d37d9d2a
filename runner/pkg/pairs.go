package runner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/jgbaldwinbrown/iter"
	"golang.org/x/sync/errgroup"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
	"github.com/jgbaldwinbrown/pdbpair/entity/pkg"
)

// PairJob runs a tool once per planned pair, binding {a} and {b} to the two
// entity files <InputDir>/<id>.<Ext>.
type PairJob struct {
	Name      string
	Kind      ToolKind
	Tool      Tool
	InputDir  string
	Ext       string
	GapOpen   *float64
	GapExtend *float64
	Timeout   time.Duration
}

type PairFailure struct {
	Pair compare.PairKey
	Err  error
}

type PairsResult struct {
	Table    *compare.Table
	Failures []PairFailure
}

type pairOut struct {
	index int
	pair  compare.PairKey
	out   string
	err   error
}

func (pj PairJob) ToolName() string {
	if pj.Name != "" {
		return pj.Name
	}
	return pj.Tool.Binary
}

func (pj PairJob) Validate() error {
	if pj.Tool.Binary == "" {
		return &compare.ConfigurationError{Option: "binary", Reason: "no tool binary for job " + pj.Name}
	}
	if pj.Kind == Sequence {
		if e := CheckPenalties(pj.GapOpen, pj.GapExtend); e != nil {
			return e
		}
	}
	return entity.RequireDir(pj.InputDir)
}

func (pj PairJob) entityPath(id compare.EntityID) string {
	name := string(id)
	if pj.Ext != "" {
		name += "." + strings.TrimPrefix(pj.Ext, ".")
	}
	return filepath.Join(pj.InputDir, name)
}

func (pj PairJob) Bindings(p compare.PairKey) map[string]string {
	b := map[string]string{
		"input": pj.InputDir,
		"a":     pj.entityPath(p.First),
		"b":     pj.entityPath(p.Second),
	}
	if pj.Kind == Sequence {
		if v, ok := FormatPenalty(pj.GapOpen); ok {
			b["gapopen"] = v
		}
		if v, ok := FormatPenalty(pj.GapExtend); ok {
			b["gapextend"] = v
		}
	}
	return b
}

func runPair(ctx context.Context, pj PairJob, p compare.PairKey) (string, error) {
	return execute(ctx, pj.ToolName()+" "+p.String(), pj.Timeout, pj.Tool.Binary, pj.Tool.Expand(pj.Bindings(p)))
}

// RunPairs spawns one process per pair, at most Limit(threads) at a time.
// Workers hand their output to a single collector; the outputs are then parsed
// in plan order, so the table does not depend on completion order. Failed
// pairs are returned in the result, not as the error.
func RunPairs(ctx context.Context, pj PairJob, pairs iter.Iter[compare.PairKey], threads int) (*PairsResult, error) {
	h := handle("RunPairs: %w")
	if e := pj.Validate(); e != nil {
		return nil, h(e)
	}

	outc := make(chan pairOut)
	collected := map[int]pairOut{}
	done := make(chan struct{})
	go func() {
		for po := range outc {
			collected[po.index] = po
		}
		close(done)
	}()

	var g errgroup.Group
	g.SetLimit(Limit(threads))
	n := 0
	err := pairs.Iterate(func(p compare.PairKey) error {
		if e := ctx.Err(); e != nil {
			return e
		}
		i := n
		n++
		g.Go(func() error {
			out, e := runPair(ctx, pj, p)
			outc <- pairOut{index: i, pair: p, out: out, err: e}
			return nil
		})
		return nil
	})
	g.Wait()
	close(outc)
	<-done
	if err != nil {
		return nil, h(err)
	}

	res := &PairsResult{}
	var b strings.Builder
	for i := 0; i < n; i++ {
		po := collected[i]
		if po.err != nil {
			res.Failures = append(res.Failures, PairFailure{Pair: po.pair, Err: po.err})
			continue
		}
		b.WriteString(po.out)
		if po.out != "" && !strings.HasSuffix(po.out, "\n") {
			b.WriteByte('\n')
		}
	}

	schema := pj.Tool.Schema
	if schema.Tool == "" {
		schema = SchemaFor(pj.Kind)
	}
	t, e := compare.ParseString(b.String(), schema)
	if e != nil {
		return nil, h(e)
	}
	res.Table = t
	return res, nil
}
