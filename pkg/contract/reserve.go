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

// Reserve is the RSV token. It covers both the Reserve and DeployedReserve
// artifacts; the latter has no relayer and cannot accept an upgrade.
type Reserve struct {
	Ownable
}

func NewReserve(client chain.Client, c chain.Contract) Reserve {
	return Reserve{NewOwnable(client, c)}
}

func (r Reserve) Minter(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "minter")
}

func (r Reserve) Pauser(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "pauser")
}

func (r Reserve) FeeRecipient(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "feeRecipient")
}

func (r Reserve) TrustedRelayer(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "trustedRelayer")
}

func (r Reserve) TrustedTxFee(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "trustedTxFee")
}

func (r Reserve) EternalStorage(ctx context.Context) (common.Address, error) {
	return r.address(ctx, "getEternalStorageAddress")
}

func (r Reserve) MaxSupply(ctx context.Context) (*big.Int, error) {
	return r.uint(ctx, "maxSupply")
}

func (r Reserve) TotalSupply(ctx context.Context) (*big.Int, error) {
	return r.uint(ctx, "totalSupply")
}

func (r Reserve) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	return r.uint(ctx, "balanceOf", holder)
}

func (r Reserve) Allowance(ctx context.Context, holder, spender common.Address) (*big.Int, error) {
	return r.uint(ctx, "allowance", holder, spender)
}

func (r Reserve) Paused(ctx context.Context) (bool, error) {
	return r.bool(ctx, "paused")
}

func (r Reserve) ChangeMinter(ctx context.Context, from, minter common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "changeMinter", minter)
}

func (r Reserve) ChangePauser(ctx context.Context, from, pauser common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "changePauser", pauser)
}

func (r Reserve) ChangeFeeRecipient(ctx context.Context, from, recipient common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "changeFeeRecipient", recipient)
}

func (r Reserve) ChangeRelayer(ctx context.Context, from, relayer common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "changeRelayer", relayer)
}

func (r Reserve) Pause(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "pause")
}

func (r Reserve) Unpause(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "unpause")
}

func (r Reserve) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	return r.tx(ctx, from, "approve", spender, amount)
}

// AcceptUpgrade takes over previous, which must have nominated r as its owner.
func (r Reserve) AcceptUpgrade(ctx context.Context, from, previous common.Address) (*types.Receipt, error) {
	return r.tx(ctx, from, "acceptUpgrade", previous)
}
