// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// basket is immutable once deployed.
type basket struct {
	tokens  []common.Address
	weights map[common.Address]*big.Int
}

func newBasket(e *env, args []any) (contract, error) {
	prev, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	tokens, err := argAddresses(args, 1)
	if err != nil {
		return nil, err
	}
	weights, err := argUints(args, 2)
	if err != nil {
		return nil, err
	}
	if err := ensure(len(tokens) == len(weights), "unequal array lengths"); err != nil {
		return nil, err
	}
	b := &basket{weights: map[common.Address]*big.Int{}}
	if prev != (common.Address{}) {
		old, err := lookup[*basket](e.st, prev)
		if err != nil {
			return nil, err
		}
		b.tokens = append(b.tokens, old.tokens...)
		for t, w := range old.weights {
			b.weights[t] = new(big.Int).Set(w)
		}
	}
	for i, t := range tokens {
		if _, seen := b.weights[t]; !seen {
			b.tokens = append(b.tokens, t)
		}
		b.weights[t] = weights[i]
	}
	return b, nil
}

func (*basket) kind() chain.Kind { return chain.KindBasket }

func (b *basket) clone() contract {
	return &basket{
		tokens:  append([]common.Address(nil), b.tokens...),
		weights: cloneAmounts(b.weights),
	}
}

func (b *basket) view(_ *state, method string, args []any) ([]any, error) {
	switch method {
	case "getTokens":
		return []any{append([]common.Address(nil), b.tokens...)}, nil
	case "size":
		return []any{big.NewInt(int64(len(b.tokens)))}, nil
	case "weights":
		token, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(amountOf(b.weights, token))}, nil
	}
	return nil, noMethod(b.kind(), method)
}

func (b *basket) exec(_ *env, method string, _ []any) error {
	return noMethod(b.kind(), method)
}
