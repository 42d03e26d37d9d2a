package compare

import (
	"fmt"

	"github.com/jgbaldwinbrown/csvh"
)

type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "string"
	}
}

type Field struct {
	Name string
	Kind Kind
}

// Schema declares the columns one tool reports for one pair. The key column
// is implied and always comes first in the tool's output.
type Schema struct {
	Tool      string
	Sentinel  string
	KeyColumn string
	Fields    []Field
}

// ClickSchema describes the structural aligner's summary CSV.
var ClickSchema = Schema{
	Tool:      "click",
	Sentinel:  "NAME",
	KeyColumn: "PDBID-PAIR",
	Fields: []Field{
		{"RMSD", Float},
		{"SO", Float},
	},
}

// PairwiseSchema describes the all-against-all sequence aligner's CSV.
var PairwiseSchema = Schema{
	Tool:      "pairwise",
	Sentinel:  "PAIR",
	KeyColumn: "PDBID-PAIR",
	Fields: []Field{
		{"LENGTH", Int},
		{"GAPS", Int},
		{"IDENTITY", Float},
		{"SCORE", Float},
		{"SIMILARITY", Float},
	},
}

func (s Schema) Width() int {
	return len(s.Fields) + 1
}

func (s Schema) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

func scanTarget(k Kind) any {
	switch k {
	case Int:
		return new(int64)
	case Float:
		return new(float64)
	default:
		return new(string)
	}
}

// Bundle checks that values match the schema's field kinds and pairs each
// value with its field name. Values are kept verbatim.
func (s Schema) Bundle(values []string) (Bundle, error) {
	if len(values) < len(s.Fields) {
		return nil, fmt.Errorf("%v fields, want %v", len(values)+1, s.Width())
	}
	values = values[:len(s.Fields)]

	targets := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		targets = append(targets, scanTarget(f.Kind))
	}
	if _, e := csvh.Scan(values, targets...); e != nil {
		return nil, fmt.Errorf("values %v do not match %v: %w", values, s.kinds(), e)
	}

	b := make(Bundle, 0, len(s.Fields))
	for i, f := range s.Fields {
		b = append(b, Metric{f.Name, values[i]})
	}
	return b, nil
}

func (s Schema) kinds() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name+":"+f.Kind.String())
	}
	return out
}
