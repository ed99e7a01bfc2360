// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain defines the capability every component uses to talk to the
// chain that hosts the Reserve contracts.
package chain

import (
	"context"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

// Kind names a contract artifact.
type Kind string

const (
	KindERC20           Kind = "BasicERC20"
	KindBasket          Kind = "Basket"
	KindVault           Kind = "Vault"
	KindReserve         Kind = "Reserve"
	KindDeployedReserve Kind = "DeployedReserve"
	KindProposalFactory Kind = "ProposalFactory"
	KindManager         Kind = "Manager"
	KindRelayer         Kind = "Relayer"
)

// Kinds lists every artifact the tool may deploy.
var Kinds = []Kind{
	KindERC20,
	KindBasket,
	KindVault,
	KindReserve,
	KindDeployedReserve,
	KindProposalFactory,
	KindManager,
	KindRelayer,
}

// Contract is a deployed contract of a known kind.
type Contract struct {
	Kind    Kind           `yaml:"kind"`
	Address common.Address `yaml:"address"`
}

func (c Contract) String() string {
	return string(c.Kind) + "@" + c.Address.Hex()
}

// IsZero reports whether the contract has not been deployed.
func (c Contract) IsZero() bool {
	return c.Address == (common.Address{})
}

// Client deploys, calls and reads contracts. Mutating calls return once the
// transaction is mined. A reverted call returns a *RevertError.
type Client interface {
	Deploy(ctx context.Context, kind Kind, from common.Address, args ...any) (Contract, *types.Receipt, error)
	Transact(ctx context.Context, c Contract, from common.Address, method string, args ...any) (*types.Receipt, error)
	Read(ctx context.Context, c Contract, method string, args ...any) ([]any, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// BalanceReader is the part of Client the funding gate needs.
type BalanceReader interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}
