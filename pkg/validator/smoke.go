// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/models"
)

// Smoke is a redemption followed by an issuance against the live system.
type Smoke struct {
	Redeem *big.Int
	Issue  *big.Int
}

// DefaultSmoke redeems 200 RSV and issues 300 RSV.
func DefaultSmoke() Smoke {
	return Smoke{
		Redeem: collateral.MustParse(constants.SmokeRedeem),
		Issue:  collateral.MustParse(constants.SmokeIssue),
	}
}

// RoundTrip has holder redeem then issue through the live manager and checks
// that total supply moves by exactly the amounts. holder must own enough RSV
// and collateral.
func RoundTrip(ctx context.Context, client chain.Client, book *models.ForkBook, holder common.Address, s Smoke) error {
	live := book.Live()
	if live == nil {
		return models.ErrNoDeployment
	}
	rsv := contract.NewReserve(client, live.Reserve)
	manager := contract.NewManager(client, live.Manager)

	supply, err := rsv.TotalSupply(ctx)
	if err != nil {
		return err
	}
	expect := func(check string, want *big.Int) error {
		got, err := rsv.TotalSupply(ctx)
		if err != nil {
			return err
		}
		if got.Cmp(want) != 0 {
			return &AssertionError{Check: check, Want: want.String(), Got: got.String()}
		}
		return nil
	}

	if _, err := rsv.Approve(ctx, holder, manager.Address(), s.Redeem); err != nil {
		return fmt.Errorf("approving redemption: %w", err)
	}
	if _, err := manager.Redeem(ctx, holder, s.Redeem); err != nil {
		return fmt.Errorf("redeeming: %w", err)
	}
	supply = new(big.Int).Sub(supply, s.Redeem)
	if err := expect("supply after redemption", supply); err != nil {
		return err
	}

	if err := approveCollateral(ctx, client, live, holder, s.Issue); err != nil {
		return err
	}
	if _, err := manager.Issue(ctx, holder, s.Issue); err != nil {
		return fmt.Errorf("issuing: %w", err)
	}
	return expect("supply after issuance", new(big.Int).Add(supply, s.Issue))
}

// approveCollateral approves exactly what the basket needs to issue amount.
func approveCollateral(ctx context.Context, client chain.Client, d *models.Deployment, holder common.Address, amount *big.Int) error {
	manager := contract.NewManager(client, d.Manager)
	basket := contract.NewBasket(client, d.Basket)

	seigniorage, err := manager.Seigniorage(ctx)
	if err != nil {
		return err
	}
	tokens, err := basket.Tokens(ctx)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		weight, err := basket.Weight(ctx, tok)
		if err != nil {
			return err
		}
		need, err := collateral.IssueAmount(amount, seigniorage, weight)
		if err != nil {
			return err
		}
		erc20 := contract.NewERC20(client, chain.Contract{Kind: chain.KindERC20, Address: tok})
		if _, err := erc20.Approve(ctx, holder, manager.Address(), need); err != nil {
			return fmt.Errorf("approving %s: %w", tok.Hex(), err)
		}
	}
	return nil
}

// CheckIrreversible tries to take back control of the upgraded old reserve
// and requires every attempt to revert. It sends real transactions, so it is
// meant for rehearsals.
func CheckIrreversible(ctx context.Context, client chain.Client, book *models.ForkBook, roles Roles) error {
	if err := book.Validate(); err != nil {
		return err
	}
	old := contract.NewReserve(client, book.Old.Reserve)
	attempts := []struct {
		name string
		fn   func() error
	}{
		{"owner changes minter", func() error {
			_, err := old.ChangeMinter(ctx, roles.Owner, roles.Owner)
			return err
		}},
		{"owner changes pauser", func() error {
			_, err := old.ChangePauser(ctx, roles.Owner, roles.Owner)
			return err
		}},
		{"operator unpauses", func() error {
			_, err := old.Unpause(ctx, roles.Operator)
			return err
		}},
		{"owner nominates owner", func() error {
			_, err := old.NominateNewOwner(ctx, roles.Owner, roles.Owner)
			return err
		}},
	}
	var f Failures
	for _, a := range attempts {
		err := a.fn()
		switch {
		case chain.IsRevert(err):
		case err == nil:
			f = append(f, &AssertionError{Check: a.name, Want: "revert", Got: "success"})
		default:
			return fmt.Errorf("%s: %w", a.name, err)
		}
	}
	if len(f) > 0 {
		return f
	}
	return nil
}
