// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package migration moves a live Reserve system onto a new Reserve, Manager
// and Relayer generation. Progress is always inferred from the chain, so an
// interrupted run resumes where it stopped.
package migration

import (
	"fmt"

	"github.com/luxfi/geth/common"
)

// State is a point in the migration. States are totally ordered.
type State int

const (
	PreMigration State = iota
	NewDeployed
	OwnershipTransferred
	VaultRetargeted
	OldReserveUpgraded
	Complete
)

var stateNames = [...]string{
	PreMigration:         "PreMigration",
	NewDeployed:          "NewDeployed",
	OwnershipTransferred: "OwnershipTransferred",
	VaultRetargeted:      "VaultRetargeted",
	OldReserveUpgraded:   "OldReserveUpgraded",
	Complete:             "Complete",
}

func (s State) String() string {
	if s < PreMigration || s > Complete {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Next returns the state that follows s. Complete is its own successor.
func (s State) Next() State {
	if s >= Complete {
		return Complete
	}
	return s + 1
}

// Irreversible reports whether the edge leaving s cannot be undone.
func (s State) Irreversible() bool {
	return s == VaultRetargeted
}

// Edge is a transition between two adjacent states.
type Edge struct {
	From State
	To   State
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}

// Roles are the accounts the migration acts as.
type Roles struct {
	// Owner ends up owning the new generation and authorizes the upgrade.
	Owner common.Address
	// Operator holds the emergency switches of both managers.
	Operator common.Address
	// Temp deploys and configures the new generation before handing it to Owner.
	Temp common.Address
}

func (r Roles) Validate() error {
	zero := common.Address{}
	switch {
	case r.Owner == zero || r.Operator == zero || r.Temp == zero:
		return fmt.Errorf("%w: owner, operator and temp are required", ErrRoles)
	case r.Temp == r.Owner:
		return fmt.Errorf("%w: temp must differ from owner", ErrRoles)
	}
	return nil
}
