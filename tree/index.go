package tree

import (
	"fmt"
	"math/big"
)

// Index is a non-negative arbitrary precision integer used for tree
// positions and point counts. The node count of a complete octree passes
// 2^64 a little beyond depth 21, so all position arithmetic is done in this
// type and narrowed to a machine word only once a value has been bounded by
// a chunk's capacity.
//
// Index values are immutable. Every operation returns a fresh value and the
// zero value is a usable zero, so Index fields and locals need no
// initialisation ceremony.
//
// In the interests of simplicity and efficiency the operations place a
// burden of knowledge on the caller: Sub of a larger value, Div by zero and
// Uint64 of an oversized value are not guarded here. Callers in this module
// only subtract within proven ranges and only narrow values already bounded
// by a chunk capacity.
type Index struct {
	i *big.Int
}

// NewIndex returns the Index holding v.
func NewIndex(v uint64) Index {
	return Index{i: new(big.Int).SetUint64(v)}
}

// ParseIndex parses a base 10 string into an Index.
func ParseIndex(s string) (Index, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok || i.Sign() < 0 {
		return Index{}, fmt.Errorf("invalid index %q", s)
	}
	return Index{i: i}, nil
}

// view returns the underlying integer, treating the zero value as 0. The
// result is never written through.
func (x Index) view() *big.Int {
	if x.i == nil {
		return new(big.Int)
	}
	return x.i
}

func (x Index) Add(y Index) Index {
	return Index{i: new(big.Int).Add(x.view(), y.view())}
}

func (x Index) AddUint64(v uint64) Index {
	return x.Add(NewIndex(v))
}

func (x Index) Sub(y Index) Index {
	return Index{i: new(big.Int).Sub(x.view(), y.view())}
}

func (x Index) Mul(y Index) Index {
	return Index{i: new(big.Int).Mul(x.view(), y.view())}
}

func (x Index) MulUint64(v uint64) Index {
	return x.Mul(NewIndex(v))
}

func (x Index) Div(y Index) Index {
	return Index{i: new(big.Int).Quo(x.view(), y.view())}
}

func (x Index) Mod(y Index) Index {
	return Index{i: new(big.Int).Rem(x.view(), y.view())}
}

// DivMod returns the quotient and remainder of x/y in a single operation.
func (x Index) DivMod(y Index) (Index, Index) {
	q, r := new(big.Int).QuoRem(x.view(), y.view(), new(big.Int))
	return Index{i: q}, Index{i: r}
}

// Lsh returns x shifted left by n bits.
func (x Index) Lsh(n uint) Index {
	return Index{i: new(big.Int).Lsh(x.view(), n)}
}

// Cmp returns -1, 0 or 1 as x is less than, equal to or greater than y.
func (x Index) Cmp(y Index) int {
	return x.view().Cmp(y.view())
}

func (x Index) Equal(y Index) bool {
	return x.Cmp(y) == 0
}

func (x Index) IsZero() bool {
	return x.view().Sign() == 0
}

// BitLen returns the length of x in bits; the bit length of 0 is 0.
func (x Index) BitLen() int {
	return x.view().BitLen()
}

// Uint64 narrows x to a machine word. The caller must have proven the value
// fits, typically by bounding it with a chunk's point capacity.
func (x Index) Uint64() uint64 {
	return x.view().Uint64()
}

// String renders x in base 10, which is also the canonical chunk token form.
func (x Index) String() string {
	return x.view().String()
}
