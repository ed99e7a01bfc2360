// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"context"
	"fmt"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"go.uber.org/zap"
)

// Driver walks a ForkBook from PreMigration to Complete, one edge at a time.
type Driver struct {
	client  chain.Client
	book    *models.ForkBook
	roles   Roles
	journal *Journal
	log     luxlog.Logger

	Reporter ux.Reporter
	// Confirm is asked before the irreversible edge. A non-nil error aborts.
	Confirm func(ctx context.Context, edge Edge) error
	// Save persists the book after every landed deployment and every edge.
	Save func(*models.ForkBook) error
}

func New(client chain.Client, book *models.ForkBook, roles Roles, log luxlog.Logger) *Driver {
	j := &Journal{}
	return &Driver{
		client:   recordingClient{Client: client, journal: j},
		book:     book,
		roles:    roles,
		journal:  j,
		log:      log,
		Reporter: ux.NopReporter{},
	}
}

func (d *Driver) Journal() *Journal {
	return d.journal
}

func (d *Driver) Book() *models.ForkBook {
	return d.book
}

func (d *Driver) oldReserve() contract.Reserve {
	return contract.NewReserve(d.client, d.book.Old.Reserve)
}

func (d *Driver) oldManager() contract.Manager {
	return contract.NewManager(d.client, d.book.Old.Manager)
}

func (d *Driver) vault() contract.Vault {
	return contract.NewVault(d.client, d.book.Old.Vault)
}

func (d *Driver) newReserve() contract.Reserve {
	return contract.NewReserve(d.client, d.book.New.Reserve)
}

func (d *Driver) newManager() contract.Manager {
	return contract.NewManager(d.client, d.book.New.Manager)
}

func (d *Driver) newRelayer() contract.Relayer {
	return contract.NewRelayer(d.client, d.book.New.Relayer)
}

// newGeneration lists the contracts handed from Temp to Owner, in the order
// they are accepted.
func (d *Driver) newGeneration() []contract.TwoPhaseOwnable {
	return []contract.TwoPhaseOwnable{d.newReserve(), d.newRelayer(), d.newManager()}
}

// Detect infers the current state from the chain. The final signals are
// read first: once the old reserve is burned or the vault has moved, later
// role changes on the new reserve no longer affect the state.
func (d *Driver) Detect(ctx context.Context) (State, error) {
	if err := d.roles.Validate(); err != nil {
		return PreMigration, err
	}
	if err := d.book.Validate(); err != nil {
		return PreMigration, err
	}
	if !d.book.New.Complete() {
		return PreMigration, nil
	}

	oldOwner, err := d.oldReserve().Owner(ctx)
	if err != nil {
		return PreMigration, err
	}
	if oldOwner == (common.Address{}) {
		emergency, err := d.newManager().Emergency(ctx)
		if err != nil {
			return PreMigration, err
		}
		if emergency {
			return OldReserveUpgraded, nil
		}
		return Complete, nil
	}

	vaultManager, err := d.vault().Manager(ctx)
	if err != nil {
		return PreMigration, err
	}
	if vaultManager == d.book.New.Manager.Address {
		return VaultRetargeted, nil
	}

	accepted := true
	for _, o := range d.newGeneration() {
		status, err := contract.Handoff(ctx, o, d.roles.Owner)
		if err != nil {
			return PreMigration, err
		}
		if status != contract.HandoffDone {
			accepted = false
			break
		}
	}
	if accepted {
		return OwnershipTransferred, nil
	}

	configured, err := d.configured(ctx)
	if err != nil || !configured {
		return PreMigration, err
	}
	return NewDeployed, nil
}

// configured reports whether the first half has fully landed: every new
// contract has Owner nominated or accepted, and the new reserve points at
// the new relayer, manager and operator.
func (d *Driver) configured(ctx context.Context) (bool, error) {
	for _, o := range d.newGeneration() {
		status, err := contract.Handoff(ctx, o, d.roles.Owner)
		if err != nil {
			return false, err
		}
		if status == contract.HandoffNone {
			return false, nil
		}
	}
	for _, w := range d.wiring() {
		done, err := w.done(ctx)
		if err != nil || !done {
			return false, err
		}
	}
	return true, nil
}

// Step performs the single transition leaving the current state.
func (d *Driver) Step(ctx context.Context) (State, error) {
	s, err := d.Detect(ctx)
	if err != nil || s == Complete {
		return s, err
	}
	return d.step(ctx, s)
}

// Run steps until the detected state reaches target and returns the state
// it stopped in.
func (d *Driver) Run(ctx context.Context, target State) (State, error) {
	s, err := d.Detect(ctx)
	for err == nil && s < target {
		s, err = d.step(ctx, s)
	}
	return s, err
}

// FirstHalf deploys and configures the new generation under Temp and
// nominates Owner on each of its contracts.
func (d *Driver) FirstHalf(ctx context.Context) (State, error) {
	return d.Run(ctx, NewDeployed)
}

// SecondHalf hands the new generation to Owner, moves the vault, upgrades
// the old reserve and makes the new manager live.
func (d *Driver) SecondHalf(ctx context.Context) (State, error) {
	s, err := d.Detect(ctx)
	if err != nil {
		return s, err
	}
	if s < NewDeployed {
		return s, ErrNotStarted
	}
	return d.Run(ctx, Complete)
}

func (d *Driver) step(ctx context.Context, s State) (State, error) {
	edge := Edge{From: s, To: s.Next()}
	if err := d.checkReferences(ctx, s); err != nil {
		return s, &StepError{Edge: edge, Step: "checking manager references", Err: err}
	}
	if s.Irreversible() && d.Confirm != nil {
		if err := d.Confirm(ctx, edge); err != nil {
			return s, &StepError{Edge: edge, Step: "confirmation", Err: err}
		}
	}

	d.journal.enter(edge)
	d.log.Info("migration step", zap.Stringer("edge", edge))
	for _, sub := range d.subSteps(s) {
		if err := d.run(ctx, edge, sub); err != nil {
			d.log.Error("migration step failed",
				zap.Stringer("edge", edge),
				zap.String("step", sub.name),
				zap.Error(err),
			)
			return s, err
		}
	}
	if err := d.save(); err != nil {
		return s, &StepError{Edge: edge, Step: "saving address book", Err: err}
	}

	next, err := d.Detect(ctx)
	if err != nil {
		return s, err
	}
	if next != edge.To {
		return next, &StepError{
			Edge: edge,
			Step: "verifying",
			Err:  fmt.Errorf("%w: detected %s", ErrInconsistent, next),
		}
	}
	return next, nil
}

func (d *Driver) save() error {
	if d.Save == nil {
		return nil
	}
	return d.Save(d.book)
}

func (d *Driver) reporter() ux.Reporter {
	if d.Reporter == nil {
		return ux.NopReporter{}
	}
	return d.Reporter
}

// run executes sub unless its guard reports it already landed.
func (d *Driver) run(ctx context.Context, edge Edge, sub subStep) error {
	r := d.reporter()
	r.Start(sub.name)
	done, err := sub.done(ctx)
	if err != nil {
		r.Failed(err.Error())
		return &StepError{Edge: edge, Step: sub.name, Err: err}
	}
	if done {
		d.log.Debug("skipping landed step", zap.String("step", sub.name))
		r.Complete("already done")
		return nil
	}
	if err := sub.do(ctx); err != nil {
		r.Failed(err.Error())
		return &StepError{Edge: edge, Step: sub.name, Err: err}
	}
	r.Complete("")
	return nil
}
