// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"fmt"

	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/funding"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/ux"
)

// FundingRequirements returns the minimum owner and daily balances, and the
// temp minimum when one is configured.
func (app *App) FundingRequirements(ring *key.Ring) ([]funding.Requirement, error) {
	minOwner, err := app.Conf.MinOwnerWei()
	if err != nil {
		return nil, err
	}
	minDaily, err := app.Conf.MinDailyWei()
	if err != nil {
		return nil, err
	}
	minTemp, err := app.Conf.MinTempWei()
	if err != nil {
		return nil, err
	}
	reqs := funding.ForRoles(ring.Owner.Address, ring.Daily.Address, minOwner, minDaily)
	return funding.WithTemp(reqs, ring.Temp.Address, minTemp), nil
}

// AwaitFunding blocks until every gated account holds its minimum balance, showing what is missing while it waits.
func (app *App) AwaitFunding(ctx context.Context, reader chain.BalanceReader, ring *key.Ring) error {
	reqs, err := app.FundingRequirements(ring)
	if err != nil {
		return err
	}
	gate := funding.NewGate(reader, app.Log)
	gate.Interval = app.Conf.PollInterval()

	var progress *ux.ProgressTracker
	if ux.Logger != nil {
		progress = ux.NewProgressTracker(ux.Logger.Writer())
	}
	gate.OnWait = func(shortfalls []funding.Shortfall) {
		if progress == nil {
			return
		}
		for _, s := range shortfalls {
			progress.UpdateStep(fmt.Sprintf("Waiting for ETH: %s needs %s more ETH at %s",
				s.Label, ux.FormatTokenAmount(s.Missing(), 18), s.Account.Hex()))
		}
	}
	if err := gate.Await(ctx, reqs); err != nil {
		return err
	}
	if progress != nil {
		progress.Done("Accounts funded")
	}
	return nil
}
