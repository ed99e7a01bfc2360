// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// Vault holds the collateral. Only its manager may withdraw.
type Vault struct {
	Ownable
}

func NewVault(client chain.Client, c chain.Contract) Vault {
	return Vault{NewOwnable(client, c)}
}

func (v Vault) Manager(ctx context.Context) (common.Address, error) {
	return v.address(ctx, "manager")
}

func (v Vault) ChangeManager(ctx context.Context, from, manager common.Address) (*types.Receipt, error) {
	return v.tx(ctx, from, "changeManager", manager)
}

type Relayer struct {
	Ownable
}

func NewRelayer(client chain.Client, c chain.Contract) Relayer {
	return Relayer{NewOwnable(client, c)}
}

func (r Relayer) TrustedRSV(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "trustedRSV")
}

type Basket struct {
	base
}

func NewBasket(client chain.Client, c chain.Contract) Basket {
	return Basket{base{client: client, ref: c}}
}

func (b Basket) Tokens(ctx context.Context) ([]common.Address, error) {
	return callToMethod[[]common.Address](ctx, b.client, b.ref, "getTokens")
}

func (b Basket) Weight(ctx context.Context, token common.Address) (*big.Int, error) {
	return b.uint(ctx, "weights", token)
}

// ERC20 is a collateral token.
type ERC20 struct {
	base
}

func NewERC20(client chain.Client, c chain.Contract) ERC20 {
	return ERC20{base{client: client, ref: c}}
}

func (t ERC20) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	return t.uint(ctx, "balanceOf", holder)
}

func (t ERC20) Allowance(ctx context.Context, holder, spender common.Address) (*big.Int, error) {
	return t.uint(ctx, "allowance", holder, spender)
}

func (t ERC20) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return t.tx(ctx, from, "approve", spender, amount)
}
