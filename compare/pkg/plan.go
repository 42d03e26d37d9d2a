package compare

import (
	"math"
	"math/bits"

	"github.com/jgbaldwinbrown/iter"
)

// Choose computes n choose k with the multiplicative formula, so no factorial
// is ever formed. Each partial product is itself a binomial coefficient, so
// the division is always exact. Products are taken in 128 bits; a result that
// does not fit in an int64 is an *OverflowError.
func Choose(n, k int) (int64, error) {
	if n < 0 {
		return 0, &InvalidInputError{"n", n}
	}
	if k < 0 {
		return 0, &InvalidInputError{"k", k}
	}
	if k > n {
		return 0, nil
	}
	if n-k < k {
		k = n - k
	}

	var out uint64 = 1
	for i := 1; i <= k; i++ {
		hi, lo := bits.Mul64(out, uint64(n+1-i))
		if hi >= uint64(i) {
			return 0, &OverflowError{n, k}
		}
		out, _ = bits.Div64(hi, lo, uint64(i))
		if out > math.MaxInt64 {
			return 0, &OverflowError{n, k}
		}
	}
	return int64(out), nil
}

// PairCount is the number of unordered pairs among n entities.
func PairCount(n int) (int64, error) {
	return Choose(n, 2)
}

// Pairs lazily yields every pair (ids[i], ids[j]) with i < j, in input order.
func Pairs(ids []EntityID) *iter.Iterator[PairKey] {
	return &iter.Iterator[PairKey]{Iteratef: func(yield func(PairKey) error) error {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if e := yield(PairKey{ids[i], ids[j]}); e != nil {
					return e
				}
			}
		}
		return nil
	}}
}

// Plan sizes the comparison work for ids and returns the pairs to compare.
func Plan(ids []EntityID) (int64, *iter.Iterator[PairKey]) {
	// PairCount fails only for negative n or billions of IDs.
	n, _ := PairCount(len(ids))
	return n, Pairs(ids)
}
