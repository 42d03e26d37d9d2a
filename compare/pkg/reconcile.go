package compare

type Match int

const (
	NotFound Match = iota
	Direct
	Swapped
	Folded
	Malformed
)

func (m Match) String() string {
	switch m {
	case Direct:
		return "direct"
	case Swapped:
		return "swapped"
	case Folded:
		return "folded"
	case Malformed:
		return "malformed"
	default:
		return "not found"
	}
}

func (m Match) Found() bool {
	return m == Direct || m == Swapped || m == Folded
}

// Reconciler finds a pair in one tool's table no matter which orientation, or
// which letter case, the other tool used for the same pair.
type Reconciler struct {
	primary *Table
	folded  map[string]string
}

func NewReconciler(primary *Table) *Reconciler {
	r := &Reconciler{primary: primary, folded: make(map[string]string, primary.Len())}
	for _, key := range primary.Keys {
		k, e := ParsePairKey(key)
		if e != nil {
			continue
		}
		if _, ok := r.folded[k.Fold()]; !ok {
			r.folded[k.Fold()] = key
		}
	}
	return r
}

// Resolve looks up key as given, then swapped, then ignoring case and order.
// Keys that are not two IDs around the separator are never looked up.
func (r *Reconciler) Resolve(key string) (Bundle, Match) {
	k, e := ParsePairKey(key)
	if e != nil {
		return nil, Malformed
	}
	if b, ok := r.primary.Rows[key]; ok {
		return b, Direct
	}
	if b, ok := r.primary.Rows[k.Swap().String()]; ok {
		return b, Swapped
	}
	if pkey, ok := r.folded[k.Fold()]; ok {
		return r.primary.Rows[pkey], Folded
	}
	return nil, NotFound
}

// Resolve is a one-shot Reconciler lookup.
func Resolve(primary *Table, key string) (Bundle, Match) {
	return NewReconciler(primary).Resolve(key)
}
