// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator checks, read-only, that a migrated system is in its
// final shape.
package validator

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
)

// Roles are the accounts the new system must be handed to.
type Roles struct {
	Owner    common.Address
	Operator common.Address
}

// Check is one evaluated predicate.
type Check struct {
	Name string
	Want string
	Got  string
	OK   bool
}

type Report struct {
	Checks []Check
}

// Err returns the failed checks as Failures, or nil.
func (r *Report) Err() error {
	var f Failures
	for _, c := range r.Checks {
		if !c.OK {
			f = append(f, &AssertionError{Check: c.Name, Want: c.Want, Got: c.Got})
		}
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

func (r *Report) Render(w io.Writer) error {
	table := ux.DefaultTable(w, "Check", "Want", "Got", "Result")
	for _, c := range r.Checks {
		result := "ok"
		if !c.OK {
			result = "FAILED"
		}
		if err := table.Append([]string{c.Name, c.Want, c.Got, result}); err != nil {
			return err
		}
	}
	return table.Render()
}

// checker accumulates checks and stops reading after the first read error.
type checker struct {
	ctx    context.Context
	report *Report
	err    error
}

func (c *checker) add(name string, want, got fmt.Stringer, ok bool) {
	c.report.Checks = append(c.report.Checks, Check{
		Name: name,
		Want: want.String(),
		Got:  got.String(),
		OK:   ok,
	})
}

func (c *checker) address(name string, read func(context.Context) (common.Address, error), want common.Address) {
	if c.err != nil {
		return
	}
	got, err := read(c.ctx)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	c.add(name, want, got, got == want)
}

func (c *checker) flag(name string, read func(context.Context) (bool, error), want bool) {
	if c.err != nil {
		return
	}
	got, err := read(c.ctx)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	c.add(name, boolString(want), boolString(got), got == want)
}

func (c *checker) uint(name string, read func(context.Context) (*big.Int, error), want *big.Int) {
	if c.err != nil {
		return
	}
	got, err := read(c.ctx)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	c.add(name, want, got, got.Cmp(want) == 0)
}

type boolString bool

func (b boolString) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Validate reads the final state of a migration and reports every
// predicate. The error is non-nil only when a read fails; failed predicates
// are in Report.Err.
func Validate(ctx context.Context, client chain.Client, book *models.ForkBook, roles Roles) (*Report, error) {
	if err := book.Validate(); err != nil {
		return nil, err
	}
	if !book.New.Complete() {
		return nil, fmt.Errorf("%w: new generation is incomplete", models.ErrNoDeployment)
	}
	old, next := book.Old, book.New
	oldRSV := contract.NewReserve(client, old.Reserve)
	oldManager := contract.NewManager(client, old.Manager)
	vault := contract.NewVault(client, old.Vault)
	rsv := contract.NewReserve(client, next.Reserve)
	manager := contract.NewManager(client, next.Manager)
	relayer := contract.NewRelayer(client, next.Relayer)

	oldStorage, err := oldRSV.EternalStorage(ctx)
	if err != nil {
		return nil, err
	}
	oldMaxSupply, err := oldRSV.MaxSupply(ctx)
	if err != nil {
		return nil, err
	}
	oldSupply, err := oldRSV.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}

	zero := common.Address{}
	c := &checker{ctx: ctx, report: &Report{}}

	c.flag("old reserve paused", oldRSV.Paused, true)
	c.flag("old manager emergency", oldManager.Emergency, true)
	c.address("vault manager", vault.Manager, next.Manager.Address)

	c.address("new manager operator", manager.Operator, roles.Operator)
	c.address("new manager basket", manager.TrustedBasket, old.Basket.Address)
	c.address("new manager vault", manager.TrustedVault, old.Vault.Address)
	c.address("new manager reserve", manager.TrustedRSV, next.Reserve.Address)
	c.address("new manager proposal factory", manager.TrustedProposalFactory, old.ProposalFactory.Address)
	c.uint("new manager proposals", manager.ProposalsLength, new(big.Int))
	c.flag("new manager issuance paused", manager.IssuancePaused, false)
	c.flag("new manager emergency", manager.Emergency, false)
	c.uint("new manager seigniorage", manager.Seigniorage, new(big.Int))
	c.flag("new manager fully collateralized", manager.IsFullyCollateralized, true)

	c.address("new reserve eternal storage", rsv.EternalStorage, oldStorage)
	c.address("new reserve tx fee helper", rsv.TrustedTxFee, zero)
	c.address("new reserve relayer", rsv.TrustedRelayer, next.Relayer.Address)
	c.uint("new reserve max supply", rsv.MaxSupply, oldMaxSupply)
	c.uint("new reserve total supply", rsv.TotalSupply, oldSupply)
	c.flag("new reserve paused", rsv.Paused, false)
	c.address("new reserve minter", rsv.Minter, next.Manager.Address)
	c.address("new reserve pauser", rsv.Pauser, roles.Operator)
	c.address("new reserve fee recipient", rsv.FeeRecipient, roles.Operator)
	c.address("relayer reserve", relayer.TrustedRSV, next.Reserve.Address)

	c.address("new reserve owner", rsv.Owner, roles.Owner)
	c.address("new manager owner", manager.Owner, roles.Owner)
	c.address("relayer owner", relayer.Owner, roles.Owner)

	c.address("old reserve minter", oldRSV.Minter, zero)
	c.address("old reserve pauser", oldRSV.Pauser, zero)
	c.address("old reserve owner", oldRSV.Owner, zero)

	if c.err != nil {
		return c.report, c.err
	}
	return c.report, nil
}
