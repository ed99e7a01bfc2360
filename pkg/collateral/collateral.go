// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package collateral holds the fixed-point arithmetic the Manager uses to turn
// an RSV amount into per-token collateral amounts.
package collateral

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/rsvctl/pkg/constants"
)

// ErrOverflow is returned when a value or an intermediate product leaves the
// uint256 range the contracts compute in.
var ErrOverflow = errors.New("uint256 overflow")

var (
	bps         = uint256.NewInt(constants.BPSFactor)
	weightScale = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(constants.WeightShift))
)

type Rounding int

const (
	Down Rounding = iota
	Up
)

func toU256(x *big.Int) (*uint256.Int, error) {
	if x.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", ErrOverflow, x)
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrOverflow, x)
	}
	return u, nil
}

// Weighted returns amount*weight/1e36 rounded as requested.
func Weighted(amount, weight *big.Int, rounding Rounding) (*big.Int, error) {
	a, err := toU256(amount)
	if err != nil {
		return nil, err
	}
	w, err := toU256(weight)
	if err != nil {
		return nil, err
	}
	num, overflow := new(uint256.Int).MulOverflow(a, w)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", ErrOverflow, amount, weight)
	}
	q, r := new(uint256.Int).DivMod(num, weightScale, new(uint256.Int))
	// q <= (2^256-1)/1e36, so the increment cannot wrap
	if rounding == Up && !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q.ToBig(), nil
}

// WithSeigniorage returns amount*(10000+seigniorage)/10000, rounded down.
func WithSeigniorage(amount, seigniorage *big.Int) (*big.Int, error) {
	a, err := toU256(amount)
	if err != nil {
		return nil, err
	}
	s, err := toU256(seigniorage)
	if err != nil {
		return nil, err
	}
	mult, overflow := new(uint256.Int).AddOverflow(bps, s)
	if overflow {
		return nil, fmt.Errorf("%w: seigniorage %s", ErrOverflow, seigniorage)
	}
	out, overflow := new(uint256.Int).MulOverflow(a, mult)
	if overflow {
		return nil, fmt.Errorf("%w: %s with seigniorage %s", ErrOverflow, amount, seigniorage)
	}
	return out.Div(out, bps).ToBig(), nil
}

// IssueAmount is the quantity of one basket token pulled from the issuer for
// amount RSV. It rounds in favour of the vault.
func IssueAmount(amount, seigniorage, weight *big.Int) (*big.Int, error) {
	gross, err := WithSeigniorage(amount, seigniorage)
	if err != nil {
		return nil, err
	}
	return Weighted(gross, weight, Up)
}

// RedeemAmount is the quantity of one basket token paid out for amount RSV.
func RedeemAmount(amount, weight *big.Int) (*big.Int, error) {
	return Weighted(amount, weight, Down)
}

// IssueAmounts applies IssueAmount to every weight, in order.
func IssueAmounts(amount, seigniorage *big.Int, weights []*big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, len(weights))
	for i, w := range weights {
		n, err := IssueAmount(amount, seigniorage, w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// RedeemAmounts applies RedeemAmount to every weight, in order.
func RedeemAmounts(amount *big.Int, weights []*big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, len(weights))
	for i, w := range weights {
		n, err := RedeemAmount(amount, w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// ParseAmount parses a base-10 integer amount.
func ParseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// MustParse is ParseAmount for compile-time constants.
func MustParse(s string) *big.Int {
	n, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return n
}

// BasketWeights returns the default basket weights.
func BasketWeights() []*big.Int {
	out := make([]*big.Int, len(constants.BasketWeights))
	for i, w := range constants.BasketWeights {
		out[i] = MustParse(w)
	}
	return out
}
