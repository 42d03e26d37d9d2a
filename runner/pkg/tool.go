package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/pdbpair/compare/pkg"
)

func handle(format string) func(...any) error {
	return func(args ...any) error {
		return fmt.Errorf(format, args...)
	}
}

type ToolKind int

const (
	Structural ToolKind = iota
	Sequence
)

func (k ToolKind) String() string {
	if k == Sequence {
		return "sequence"
	}
	return "structural"
}

func ParseToolKind(s string) (ToolKind, error) {
	switch strings.ToLower(s) {
	case "structural", "click":
		return Structural, nil
	case "sequence", "pairwise":
		return Sequence, nil
	}
	return Structural, &compare.ConfigurationError{Option: "kind", Reason: fmt.Sprintf("unknown tool kind %q", s)}
}

func (k ToolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ToolKind) UnmarshalText(text []byte) error {
	kind, e := ParseToolKind(string(text))
	if e != nil {
		return e
	}
	*k = kind
	return nil
}

// Tool is an external comparison program. Args may hold the placeholders
// {input}, {output}, {summary}, {gapopen}, {gapextend}, {a} and {b}.
type Tool struct {
	Binary string
	Args   []string
	Schema compare.Schema `json:"-"`
}

var DefaultStructural = Tool{
	Binary: "click",
	Args:   []string{"-d", "{input}", "-o", "{output}", "-s", "{summary}"},
	Schema: compare.ClickSchema,
}

var DefaultSequence = Tool{
	Binary: "pairwise_align",
	Args: []string{
		"-d", "{input}", "-o", "{output}", "-s", "{summary}",
		"-gapopen", "{gapopen}", "-gapextend", "{gapextend}",
	},
	Schema: compare.PairwiseSchema,
}

func DefaultTool(k ToolKind) Tool {
	if k == Sequence {
		return DefaultSequence
	}
	return DefaultStructural
}

// DefaultPairArgs is the argument template for tools run once per pair.
func DefaultPairArgs(k ToolKind) []string {
	if k == Sequence {
		return []string{"{a}", "{b}", "-gapopen", "{gapopen}", "-gapextend", "{gapextend}"}
	}
	return []string{"{a}", "{b}"}
}

func SchemaFor(k ToolKind) compare.Schema {
	return DefaultTool(k).Schema
}

func FormatPenalty(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatFloat(*p, 'g', -1, 64), true
}

var placeholders = []string{"input", "output", "summary", "gapopen", "gapextend", "a", "b"}

func unbound(arg string, bindings map[string]string) bool {
	for _, p := range placeholders {
		if _, ok := bindings[p]; ok {
			continue
		}
		if strings.Contains(arg, "{"+p+"}") {
			return true
		}
	}
	return false
}

// Expand fills the argument template. An argument that names an unbound
// placeholder is dropped together with the flag right before it.
func (t Tool) Expand(bindings map[string]string) []string {
	out := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		if unbound(arg, bindings) {
			if len(out) > 0 && strings.HasPrefix(out[len(out)-1], "-") {
				out = out[:len(out)-1]
			}
			continue
		}
		for k, v := range bindings {
			arg = strings.ReplaceAll(arg, "{"+k+"}", v)
		}
		out = append(out, arg)
	}
	return out
}

func (t Tool) CommandLine(bindings map[string]string) string {
	return strings.Join(append([]string{t.Binary}, t.Expand(bindings)...), " ")
}
