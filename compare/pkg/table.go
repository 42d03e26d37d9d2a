package compare

import (
	"strings"
)

// Metric is one named value reported by a tool.
type Metric struct {
	Name  string
	Value string
}

// Bundle is the ordered set of metrics one tool reports for one pair.
type Bundle []Metric

func (b Bundle) Values() []string {
	out := make([]string, 0, len(b))
	for _, m := range b {
		out = append(out, m.Value)
	}
	return out
}

func (b Bundle) Get(name string) (string, bool) {
	for _, m := range b {
		if m.Name == name {
			return m.Value, true
		}
	}
	return "", false
}

func (b Bundle) String() string {
	return strings.Join(b.Values(), ",")
}

// Table is one tool's parsed output, keyed by the tool's literal pair key.
type Table struct {
	Schema   Schema
	Keys     []string
	Rows     map[string]Bundle
	Failures []*ParseError
}

func NewTable(s Schema) *Table {
	return &Table{Schema: s, Rows: map[string]Bundle{}}
}

// Put stores b under key. A repeated key replaces the earlier row but keeps
// the earlier position.
func (t *Table) Put(key string, b Bundle) {
	if _, ok := t.Rows[key]; !ok {
		t.Keys = append(t.Keys, key)
	}
	t.Rows[key] = b
}

func (t *Table) Len() int {
	return len(t.Keys)
}
