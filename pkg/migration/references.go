// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/contract"
)

type reference struct {
	name string
	read func(contract.Manager, context.Context) (common.Address, error)
}

var sharedReferences = []reference{
	{"basket", contract.Manager.TrustedBasket},
	{"vault", contract.Manager.TrustedVault},
	{"proposal factory", contract.Manager.TrustedProposalFactory},
}

// checkReferences compares manager wiring before the edge leaving s runs.
// Before the first half the old manager must agree with the address book,
// since the new manager is built from it. Before every second-half edge the
// new manager must share the old manager's basket, vault and proposal
// factory, and the new reserve and manager must trust each other.
func (d *Driver) checkReferences(ctx context.Context, s State) error {
	switch s {
	case PreMigration:
		book := d.book.Old
		want := map[string]common.Address{
			"basket":           book.Basket.Address,
			"vault":            book.Vault.Address,
			"proposal factory": book.ProposalFactory.Address,
		}
		for _, ref := range sharedReferences {
			got, err := ref.read(d.oldManager(), ctx)
			if err != nil {
				return err
			}
			if got != want[ref.name] {
				return fmt.Errorf("%w: old Manager trusts %s %s, address book has %s",
					ErrMisconfigured, ref.name, got.Hex(), want[ref.name].Hex())
			}
		}
		return d.checkRSV(ctx, d.oldManager(), book.Reserve.Address)
	case NewDeployed, OwnershipTransferred, VaultRetargeted:
		for _, ref := range sharedReferences {
			want, err := ref.read(d.oldManager(), ctx)
			if err != nil {
				return err
			}
			got, err := ref.read(d.newManager(), ctx)
			if err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("%w: new Manager trusts %s %s, old Manager trusts %s",
					ErrMisconfigured, ref.name, got.Hex(), want.Hex())
			}
		}
		if err := d.checkRSV(ctx, d.newManager(), d.book.New.Reserve.Address); err != nil {
			return err
		}
		minter, err := d.newReserve().Minter(ctx)
		if err != nil {
			return err
		}
		if minter != d.book.New.Manager.Address {
			return fmt.Errorf("%w: new Reserve minter is %s, expected %s",
				ErrMisconfigured, minter.Hex(), d.book.New.Manager.Address.Hex())
		}
	}
	return nil
}

func (d *Driver) checkRSV(ctx context.Context, m contract.Manager, want common.Address) error {
	got, err := m.TrustedRSV(ctx)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s trusts reserve %s, expected %s", ErrMisconfigured, m.Ref(), got.Hex(), want.Hex())
	}
	return nil
}
