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

type Manager struct {
	Ownable
}

func NewManager(client chain.Client, c chain.Contract) Manager {
	return Manager{NewOwnable(client, c)}
}

func (m Manager) Operator(ctx context.Context) (common.Address, error) {
	return m.address(ctx, "operator")
}

func (m Manager) TrustedBasket(ctx context.Context) (common.Address, error) {
	return m.address(ctx, "trustedBasket")
}

func (m Manager) TrustedVault(ctx context.Context) (common.Address, error) {
	return m.address(ctx, "trustedVault")
}

func (m Manager) TrustedRSV(ctx context.Context) (common.Address, error) {
	return m.address(ctx, "trustedRSV")
}

func (m Manager) TrustedProposalFactory(ctx context.Context) (common.Address, error) {
	return m.address(ctx, "trustedProposalFactory")
}

func (m Manager) ProposalsLength(ctx context.Context) (*big.Int, error) {
	return m.uint(ctx, "proposalsLength")
}

func (m Manager) Seigniorage(ctx context.Context) (*big.Int, error) {
	return m.uint(ctx, "seigniorage")
}

func (m Manager) Emergency(ctx context.Context) (bool, error) {
	return m.bool(ctx, "emergency")
}

func (m Manager) IssuancePaused(ctx context.Context) (bool, error) {
	return m.bool(ctx, "issuancePaused")
}

func (m Manager) IsFullyCollateralized(ctx context.Context) (bool, error) {
	return m.bool(ctx, "isFullyCollateralized")
}

func (m Manager) SetEmergency(ctx context.Context, from common.Address, emergency bool) (*types.Receipt, error) {
	return m.tx(ctx, from, "setEmergency", emergency)
}

func (m Manager) Issue(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	return m.tx(ctx, from, "issue", amount)
}

func (m Manager) Redeem(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	return m.tx(ctx, from, "redeem", amount)
}
