// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/contract"
)

var errOldManagerLive = errors.New("old manager is not in emergency")

// subStep is one transaction guarded by a read that reports whether it
// already landed.
type subStep struct {
	name string
	done func(context.Context) (bool, error)
	do   func(context.Context) error
}

func (d *Driver) subSteps(s State) []subStep {
	switch s {
	case PreMigration:
		return d.deployNew()
	case NewDeployed:
		return d.acceptOwnership()
	case OwnershipTransferred:
		return d.retargetVault()
	case VaultRetargeted:
		return d.upgradeReserve()
	case OldReserveUpgraded:
		return d.goLive()
	}
	return nil
}

func nominate(name string, o func() contract.TwoPhaseOwnable, from, nominee common.Address) subStep {
	return subStep{
		name: name,
		done: func(ctx context.Context) (bool, error) {
			status, err := contract.Handoff(ctx, o(), nominee)
			return status != contract.HandoffNone, err
		},
		do: func(ctx context.Context) error {
			_, err := o().NominateNewOwner(ctx, from, nominee)
			return err
		},
	}
}

func (d *Driver) deploy(name string, slot *chain.Contract, fn func(context.Context) (chain.Contract, error)) subStep {
	return subStep{
		name: name,
		done: func(context.Context) (bool, error) {
			return !slot.IsZero(), nil
		},
		do: func(ctx context.Context) error {
			c, err := fn(ctx)
			if err != nil {
				return err
			}
			*slot = c
			return d.save()
		},
	}
}

// deployNew is the first half: everything runs as Temp.
func (d *Driver) deployNew() []subStep {
	temp, owner := d.roles.Temp, d.roles.Owner
	n := &d.book.New
	steps := []subStep{
		d.deploy("Deploying new Reserve", &n.Reserve, func(ctx context.Context) (chain.Contract, error) {
			rsv, err := contract.DeployReserve(ctx, d.client, chain.KindReserve, temp)
			return rsv.Ref(), err
		}),
		nominate("Nominating owner of new Reserve", func() contract.TwoPhaseOwnable { return d.newReserve() }, temp, owner),
		d.deploy("Deploying new Manager", &n.Manager, func(ctx context.Context) (chain.Contract, error) {
			m, err := contract.DeployManager(ctx, d.client, temp, contract.ManagerParams{
				Vault:           d.book.Old.Vault.Address,
				Reserve:         n.Reserve.Address,
				ProposalFactory: d.book.Old.ProposalFactory.Address,
				Basket:          d.book.Old.Basket.Address,
				Operator:        d.roles.Operator,
			})
			return m.Ref(), err
		}),
		nominate("Nominating owner of new Manager", func() contract.TwoPhaseOwnable { return d.newManager() }, temp, owner),
		d.deploy("Deploying Relayer", &n.Relayer, func(ctx context.Context) (chain.Contract, error) {
			r, err := contract.DeployRelayer(ctx, d.client, temp, n.Reserve.Address)
			return r.Ref(), err
		}),
		nominate("Nominating owner of Relayer", func() contract.TwoPhaseOwnable { return d.newRelayer() }, temp, owner),
	}
	return append(steps, d.wiring()...)
}

// wiring points the new reserve at the new relayer, manager and operator.
func (d *Driver) wiring() []subStep {
	temp, operator := d.roles.Temp, d.roles.Operator
	role := func(
		name string,
		read func(contract.Reserve, context.Context) (common.Address, error),
		write func(contract.Reserve, context.Context, common.Address, common.Address) error,
		want func() common.Address,
	) subStep {
		return subStep{
			name: name,
			done: func(ctx context.Context) (bool, error) {
				got, err := read(d.newReserve(), ctx)
				return got == want(), err
			},
			do: func(ctx context.Context) error {
				return write(d.newReserve(), ctx, temp, want())
			},
		}
	}
	return []subStep{
		role("Setting new Reserve relayer",
			contract.Reserve.TrustedRelayer,
			func(r contract.Reserve, ctx context.Context, from, to common.Address) error {
				_, err := r.ChangeRelayer(ctx, from, to)
				return err
			},
			func() common.Address { return d.book.New.Relayer.Address },
		),
		role("Setting new Reserve minter",
			contract.Reserve.Minter,
			func(r contract.Reserve, ctx context.Context, from, to common.Address) error {
				_, err := r.ChangeMinter(ctx, from, to)
				return err
			},
			func() common.Address { return d.book.New.Manager.Address },
		),
		role("Setting new Reserve pauser",
			contract.Reserve.Pauser,
			func(r contract.Reserve, ctx context.Context, from, to common.Address) error {
				_, err := r.ChangePauser(ctx, from, to)
				return err
			},
			func() common.Address { return operator },
		),
		role("Setting new Reserve fee recipient",
			contract.Reserve.FeeRecipient,
			func(r contract.Reserve, ctx context.Context, from, to common.Address) error {
				_, err := r.ChangeFeeRecipient(ctx, from, to)
				return err
			},
			func() common.Address { return operator },
		),
	}
}

func (d *Driver) acceptOwnership() []subStep {
	owner := d.roles.Owner
	steps := make([]subStep, 0, 3)
	for _, o := range d.newGeneration() {
		steps = append(steps, subStep{
			name: "Accepting ownership of " + string(o.Ref().Kind),
			done: func(ctx context.Context) (bool, error) {
				status, err := contract.Handoff(ctx, o, owner)
				if err != nil {
					return false, err
				}
				if status == contract.HandoffNone {
					return false, fmt.Errorf("%w: %s has no pending nomination", ErrInconsistent, o.Ref())
				}
				return status == contract.HandoffDone, nil
			},
			do: func(ctx context.Context) error {
				_, err := o.AcceptOwnership(ctx, owner)
				return err
			},
		})
	}
	return steps
}

// retargetVault halts the old manager, then moves the vault to the new one.
// The vault never moves while the old manager is live.
func (d *Driver) retargetVault() []subStep {
	return []subStep{
		{
			name: "Setting old Manager emergency",
			done: func(ctx context.Context) (bool, error) {
				return d.oldManager().Emergency(ctx)
			},
			do: func(ctx context.Context) error {
				_, err := d.oldManager().SetEmergency(ctx, d.roles.Operator, true)
				return err
			},
		},
		{
			name: "Pointing Vault at new Manager",
			done: func(ctx context.Context) (bool, error) {
				m, err := d.vault().Manager(ctx)
				return m == d.book.New.Manager.Address, err
			},
			do: func(ctx context.Context) error {
				emergency, err := d.oldManager().Emergency(ctx)
				if err != nil {
					return err
				}
				if !emergency {
					return errOldManagerLive
				}
				_, err = d.vault().ChangeManager(ctx, d.roles.Owner, d.book.New.Manager.Address)
				return err
			},
		},
	}
}

// upgradeReserve hands the old reserve to the new one, which burns the old
// reserve's roles for good.
func (d *Driver) upgradeReserve() []subStep {
	owner := d.roles.Owner
	return []subStep{
		nominate("Nominating new Reserve as owner of old Reserve",
			func() contract.TwoPhaseOwnable { return d.oldReserve() }, owner, d.book.New.Reserve.Address),
		{
			name: "Accepting upgrade from old Reserve",
			done: func(ctx context.Context) (bool, error) {
				o, err := d.oldReserve().Owner(ctx)
				return o == (common.Address{}), err
			},
			do: func(ctx context.Context) error {
				_, err := d.newReserve().AcceptUpgrade(ctx, owner, d.book.Old.Reserve.Address)
				return err
			},
		},
	}
}

func (d *Driver) goLive() []subStep {
	return []subStep{{
		name: "Clearing new Manager emergency",
		done: func(ctx context.Context) (bool, error) {
			emergency, err := d.newManager().Emergency(ctx)
			return !emergency, err
		},
		do: func(ctx context.Context) error {
			_, err := d.newManager().SetEmergency(ctx, d.roles.Operator, false)
			return err
		},
	}}
}
