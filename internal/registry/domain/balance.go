package domain

import (
	"errors"
	"math/big"
	"strings"
)

var ErrInvalidBalance = errors.New("invalid balance: must be a base-10 signed 128-bit integer")

var (
	minBalance = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	twoTo128   = new(big.Int).Lsh(big.NewInt(1), 128)
	low64Mask  = new(big.Int).SetUint64(^uint64(0))
)

// Balance is a signed 128-bit integer held as two's complement halves. The
// zero value is 0 and values compare with ==.
type Balance struct {
	hi int64
	lo uint64
}

// NewBalance widens v to a Balance.
func NewBalance(v int64) Balance {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Balance{hi: hi, lo: uint64(v)}
}

// ParseBalance parses a base-10 integer in [-2^127, 2^127-1].
func ParseBalance(s string) (Balance, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Balance{}, ErrInvalidBalance
	}
	return BalanceFromBig(n)
}

// BalanceFromBig converts n, failing when it does not fit in 128 bits.
func BalanceFromBig(n *big.Int) (Balance, error) {
	if n == nil || n.Cmp(minBalance) < 0 || n.Cmp(maxBalance) > 0 {
		return Balance{}, ErrInvalidBalance
	}

	u := new(big.Int).Set(n)
	if u.Sign() < 0 {
		u.Add(u, twoTo128)
	}
	lo := new(big.Int).And(u, low64Mask).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()

	return Balance{hi: int64(hi), lo: lo}, nil
}

// Big returns the balance as a fresh big.Int.
func (b Balance) Big() *big.Int {
	n := new(big.Int).Lsh(big.NewInt(b.hi), 64)
	return n.Add(n, new(big.Int).SetUint64(b.lo))
}

func (b Balance) String() string { return b.Big().String() }

func (b Balance) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Balance) UnmarshalText(text []byte) error {
	v, err := ParseBalance(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
