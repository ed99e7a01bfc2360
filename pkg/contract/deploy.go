// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

func DeployERC20(ctx context.Context, client chain.Client, from common.Address) (ERC20, error) {
	c, _, err := client.Deploy(ctx, chain.KindERC20, from)
	return NewERC20(client, c), err
}

func DeployBasket(
	ctx context.Context,
	client chain.Client,
	from common.Address,
	previous common.Address,
	tokens []common.Address,
	weights []*big.Int,
) (Basket, error) {
	c, _, err := client.Deploy(ctx, chain.KindBasket, from, previous, tokens, weights)
	return NewBasket(client, c), err
}

func DeployVault(ctx context.Context, client chain.Client, from common.Address) (Vault, error) {
	c, _, err := client.Deploy(ctx, chain.KindVault, from)
	return NewVault(client, c), err
}

// DeployReserve deploys kind, which is either chain.KindReserve or
// chain.KindDeployedReserve.
func DeployReserve(ctx context.Context, client chain.Client, kind chain.Kind, from common.Address) (Reserve, error) {
	c, _, err := client.Deploy(ctx, kind, from)
	return NewReserve(client, c), err
}

func DeployProposalFactory(ctx context.Context, client chain.Client, from common.Address) (chain.Contract, error) {
	c, _, err := client.Deploy(ctx, chain.KindProposalFactory, from)
	return c, err
}

// ManagerParams are the Manager constructor arguments, in order.
type ManagerParams struct {
	Vault           common.Address
	Reserve         common.Address
	ProposalFactory common.Address
	Basket          common.Address
	Operator        common.Address
	Seigniorage     *big.Int
}

func DeployManager(ctx context.Context, client chain.Client, from common.Address, p ManagerParams) (Manager, error) {
	seigniorage := p.Seigniorage
	if seigniorage == nil {
		seigniorage = new(big.Int)
	}
	c, _, err := client.Deploy(ctx, chain.KindManager, from,
		p.Vault, p.Reserve, p.ProposalFactory, p.Basket, p.Operator, seigniorage)
	return NewManager(client, c), err
}

func DeployRelayer(ctx context.Context, client chain.Client, from, rsv common.Address) (Relayer, error) {
	c, _, err := client.Deploy(ctx, chain.KindRelayer, from, rsv)
	return NewRelayer(client, c), err
}
