// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// InitialTokenSupply is minted to the deployer of every BasicERC20.
var InitialTokenSupply = new(big.Int).Exp(big.NewInt(10), big.NewInt(36), nil)

type basicToken struct {
	supply     *big.Int
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func newBasicToken(e *env, _ []any) (contract, error) {
	return &basicToken{
		supply:     new(big.Int).Set(InitialTokenSupply),
		balances:   map[common.Address]*big.Int{e.sender: new(big.Int).Set(InitialTokenSupply)},
		allowances: map[common.Address]map[common.Address]*big.Int{},
	}, nil
}

func (*basicToken) kind() chain.Kind { return chain.KindERC20 }

func (t *basicToken) clone() contract {
	return &basicToken{
		supply:     new(big.Int).Set(t.supply),
		balances:   cloneAmounts(t.balances),
		allowances: cloneAllowances(t.allowances),
	}
}

func (t *basicToken) view(_ *state, method string, args []any) ([]any, error) {
	switch method {
	case "totalSupply":
		return []any{new(big.Int).Set(t.supply)}, nil
	case "decimals":
		return []any{uint8(18)}, nil
	case "balanceOf":
		holder, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(amountOf(t.balances, holder))}, nil
	case "allowance":
		holder, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		spender, err := argAddress(args, 1)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(allowanceOf(t.allowances, holder, spender))}, nil
	}
	return nil, noMethod(t.kind(), method)
}

func (t *basicToken) exec(e *env, method string, args []any) error {
	switch method {
	case "approve":
		spender, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		amount, err := argUint(args, 1)
		if err != nil {
			return err
		}
		setAllowance(t.allowances, e.sender, spender, amount)
		return nil
	case "transfer":
		to, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		amount, err := argUint(args, 1)
		if err != nil {
			return err
		}
		return t.move(e.sender, to, amount)
	case "transferFrom":
		from, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		to, err := argAddress(args, 1)
		if err != nil {
			return err
		}
		amount, err := argUint(args, 2)
		if err != nil {
			return err
		}
		allowed := allowanceOf(t.allowances, from, e.sender)
		if err := ensure(allowed.Cmp(amount) >= 0, "transfer amount exceeds allowance"); err != nil {
			return err
		}
		setAllowance(t.allowances, from, e.sender, new(big.Int).Sub(allowed, amount))
		return t.move(from, to, amount)
	}
	return noMethod(t.kind(), method)
}

func (t *basicToken) move(from, to common.Address, amount *big.Int) error {
	if err := ensure(to != (common.Address{}), "transfer to zero address"); err != nil {
		return err
	}
	bal := amountOf(t.balances, from)
	if err := ensure(bal.Cmp(amount) >= 0, "transfer amount exceeds balance"); err != nil {
		return err
	}
	t.balances[from] = new(big.Int).Sub(bal, amount)
	t.balances[to] = new(big.Int).Add(amountOf(t.balances, to), amount)
	return nil
}
