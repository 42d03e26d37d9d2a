package compare

import (
	"fmt"
	"strings"
)

const Sep = "-"

// EntityID is a structure accession code. Matching ignores case; display
// keeps whatever case the ID arrived in.
type EntityID string

func (a EntityID) Equal(b EntityID) bool {
	return strings.EqualFold(string(a), string(b))
}

// PairKey is an unordered pair of entities. First and Second record the
// orientation in which the pair was first seen, which is the orientation used
// when the key is printed.
type PairKey struct {
	First  EntityID
	Second EntityID
}

func (k PairKey) String() string {
	return string(k.First) + Sep + string(k.Second)
}

func (k PairKey) Swap() PairKey {
	return PairKey{k.Second, k.First}
}

func (k PairKey) Equal(o PairKey) bool {
	return (k.First.Equal(o.First) && k.Second.Equal(o.Second)) ||
		(k.First.Equal(o.Second) && k.Second.Equal(o.First))
}

// Fold returns a string that is identical for any two keys that are Equal.
func (k PairKey) Fold() string {
	a := strings.ToUpper(string(k.First))
	b := strings.ToUpper(string(k.Second))
	if b < a {
		a, b = b, a
	}
	return a + Sep + b
}

// ParsePairKey splits a tool's key string. Keys that are not exactly two
// non-empty IDs around the separator are rejected; IDs containing the
// separator are not supported.
func ParsePairKey(s string) (PairKey, error) {
	parts := strings.Split(s, Sep)
	if len(parts) != 2 {
		return PairKey{}, fmt.Errorf("ParsePairKey: %q has %v parts, want 2", s, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return PairKey{}, fmt.Errorf("ParsePairKey: %q has an empty ID", s)
	}
	return PairKey{EntityID(parts[0]), EntityID(parts[1])}, nil
}
