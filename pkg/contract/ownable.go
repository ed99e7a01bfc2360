// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// TwoPhaseOwnable is implemented by contracts whose ownership moves by
// nomination from the current owner followed by acceptance from the nominee.
type TwoPhaseOwnable interface {
	Ref() chain.Contract
	Owner(ctx context.Context) (common.Address, error)
	NominatedOwner(ctx context.Context) (common.Address, error)
	NominateNewOwner(ctx context.Context, from, nominee common.Address) (*types.Receipt, error)
	AcceptOwnership(ctx context.Context, from common.Address) (*types.Receipt, error)
}

// Ownable is the TwoPhaseOwnable part shared by Reserve, Manager, Vault and Relayer.
type Ownable struct {
	base
}

var _ TwoPhaseOwnable = Ownable{}

func NewOwnable(client chain.Client, c chain.Contract) Ownable {
	return Ownable{base{client: client, ref: c}}
}

// Owner gets owner for https://docs.openzeppelin.com/contracts/2.x/api/ownership#Ownable-owner contracts
func (o Ownable) Owner(ctx context.Context) (common.Address, error) {
	return o.address(ctx, "owner")
}

func (o Ownable) NominatedOwner(ctx context.Context) (common.Address, error) {
	return o.address(ctx, "nominatedOwner")
}

func (o Ownable) NominateNewOwner(ctx context.Context, from, nominee common.Address) (*types.Receipt, error) {
	return o.tx(ctx, from, "nominateNewOwner", nominee)
}

func (o Ownable) AcceptOwnership(ctx context.Context, from common.Address) (*types.Receipt, error) {
	return o.tx(ctx, from, "acceptOwnership")
}

// HandoffStatus describes where a two-phase ownership transfer stands.
type HandoffStatus int

const (
	// HandoffNone: the candidate is neither owner nor nominee.
	HandoffNone HandoffStatus = iota
	// HandoffPending: the candidate is nominated but has not accepted.
	HandoffPending
	// HandoffDone: the candidate owns the contract.
	HandoffDone
)

// Handoff reports the state of ownership transfer of o to candidate.
func Handoff(ctx context.Context, o TwoPhaseOwnable, candidate common.Address) (HandoffStatus, error) {
	owner, err := o.Owner(ctx)
	if err != nil {
		return HandoffNone, err
	}
	if owner == candidate {
		return HandoffDone, nil
	}
	nominee, err := o.NominatedOwner(ctx)
	if err != nil {
		return HandoffNone, err
	}
	if nominee == candidate {
		return HandoffPending, nil
	}
	return HandoffNone, nil
}
