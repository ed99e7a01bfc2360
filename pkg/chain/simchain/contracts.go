// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import "github.com/luxfi/rsvctl/pkg/chain"

var constructors = map[chain.Kind]func(*env, []any) (contract, error){
	chain.KindERC20:           newBasicToken,
	chain.KindBasket:          newBasket,
	chain.KindVault:           newVault,
	chain.KindReserve:         newReserve(false),
	chain.KindDeployedReserve: newReserve(true),
	chain.KindProposalFactory: newProposalFactory,
	chain.KindManager:         newManager,
	chain.KindRelayer:         newRelayer,
}
