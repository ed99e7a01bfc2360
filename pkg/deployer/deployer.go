// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer stands up a complete Reserve system from nothing.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"go.uber.org/zap"
)

var ErrSupplyMismatch = errors.New("unexpected total supply")

// Profile selects which deployment script to reproduce.
type Profile string

const (
	// ProfileInitial is the production deployment: a Reserve with a Relayer.
	ProfileInitial Profile = "initial"
	// ProfileRehearsal deploys the legacy DeployedReserve that a fork
	// rehearsal migrates away from.
	ProfileRehearsal Profile = "rehearsal"
)

func ParseProfile(s string) (Profile, error) {
	switch p := Profile(s); p {
	case ProfileInitial, ProfileRehearsal:
		return p, nil
	}
	return "", fmt.Errorf("%w %q: use %q or %q", constants.ErrUnknownProfile, s, ProfileInitial, ProfileRehearsal)
}

// Roles are the accounts a deployment is built for.
type Roles struct {
	Owner    common.Address
	Operator common.Address
}

type Builder struct {
	Client   chain.Client
	Roles    Roles
	Log      luxlog.Logger
	Reporter ux.Reporter
	// Weights defaults to the production basket weights.
	Weights []*big.Int
}

func New(client chain.Client, roles Roles, log luxlog.Logger) *Builder {
	return &Builder{
		Client:   client,
		Roles:    roles,
		Log:      log,
		Reporter: ux.NopReporter{},
		Weights:  collateral.BasketWeights(),
	}
}

func (b *Builder) step(name string, fn func() error) error {
	r := b.Reporter
	if r == nil {
		r = ux.NopReporter{}
	}
	r.Start(name)
	if err := fn(); err != nil {
		r.Failed(err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	r.Complete("")
	return nil
}

// Deploy creates and wires a new system. Any failing step aborts the whole
// deployment; nothing is rolled back.
func (b *Builder) Deploy(ctx context.Context, profile Profile) (*models.Deployment, error) {
	if _, err := ParseProfile(string(profile)); err != nil {
		return nil, err
	}
	owner := b.Roles.Owner
	d := &models.Deployment{Operator: b.Roles.Operator}

	var (
		tokens  []common.Address
		vault   contract.Vault
		rsv     contract.Reserve
		relayer contract.Relayer
		basket  contract.Basket
		factory chain.Contract
		manager contract.Manager
	)

	deployCollateral := func() error {
		for _, symbol := range constants.CollateralSymbols {
			err := b.step("Deploying "+symbol, func() error {
				tok, err := contract.DeployERC20(ctx, b.Client, owner)
				if err != nil {
					return err
				}
				d.Collateral = append(d.Collateral, tok.Ref())
				tokens = append(tokens, tok.Address())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
	deployBasket := func() error {
		return b.step("Deploying Basket", func() error {
			var err error
			basket, err = contract.DeployBasket(ctx, b.Client, owner, common.Address{}, tokens, b.Weights)
			d.Basket = basket.Ref()
			return err
		})
	}
	deployVault := func() error {
		return b.step("Deploying Vault", func() error {
			var err error
			vault, err = contract.DeployVault(ctx, b.Client, owner)
			d.Vault = vault.Ref()
			return err
		})
	}
	deployReserve := func(kind chain.Kind) error {
		return b.step("Deploying "+string(kind), func() error {
			var err error
			rsv, err = contract.DeployReserve(ctx, b.Client, kind, owner)
			d.Reserve = rsv.Ref()
			return err
		})
	}
	deployFactory := func() error {
		return b.step("Deploying ProposalFactory", func() error {
			var err error
			factory, err = contract.DeployProposalFactory(ctx, b.Client, owner)
			d.ProposalFactory = factory
			return err
		})
	}

	var order []func() error
	switch profile {
	case ProfileInitial:
		order = []func() error{
			deployCollateral,
			deployBasket,
			deployVault,
			func() error { return deployReserve(chain.KindReserve) },
			func() error {
				return b.step("Deploying Relayer", func() error {
					var err error
					relayer, err = contract.DeployRelayer(ctx, b.Client, owner, rsv.Address())
					d.Relayer = relayer.Ref()
					return err
				})
			},
			func() error {
				return b.step("Pointing Reserve at Relayer", func() error {
					_, err := rsv.ChangeRelayer(ctx, owner, relayer.Address())
					return err
				})
			},
			deployFactory,
		}
	case ProfileRehearsal:
		order = []func() error{
			deployCollateral,
			deployVault,
			func() error { return deployReserve(chain.KindDeployedReserve) },
			deployFactory,
			deployBasket,
		}
	}
	order = append(order, func() error {
		return b.step("Deploying Manager", func() error {
			var err error
			manager, err = contract.DeployManager(ctx, b.Client, owner, contract.ManagerParams{
				Vault:           vault.Address(),
				Reserve:         rsv.Address(),
				ProposalFactory: factory.Address,
				Basket:          basket.Address(),
				Operator:        b.Roles.Operator,
			})
			d.Manager = manager.Ref()
			return err
		})
	})
	for _, fn := range order {
		if err := fn(); err != nil {
			return d, err
		}
	}

	if err := b.wire(ctx, vault, rsv, manager); err != nil {
		return d, err
	}
	b.Log.Info("deployment complete",
		zap.String("profile", string(profile)),
		zap.String("reserve", d.Reserve.Address.Hex()),
		zap.String("manager", d.Manager.Address.Hex()),
	)
	return d, nil
}

// wire points the vault and reserve at the manager, hands the reserve's
// pauser and fee roles to the operator, and makes the system live.
func (b *Builder) wire(ctx context.Context, vault contract.Vault, rsv contract.Reserve, manager contract.Manager) error {
	owner, operator := b.Roles.Owner, b.Roles.Operator
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Pointing Vault at Manager", func() error {
			_, err := vault.ChangeManager(ctx, owner, manager.Address())
			return err
		}},
		{"Setting Reserve minter", func() error {
			_, err := rsv.ChangeMinter(ctx, owner, manager.Address())
			return err
		}},
		{"Setting Reserve pauser", func() error {
			_, err := rsv.ChangePauser(ctx, owner, operator)
			return err
		}},
		{"Setting Reserve fee recipient", func() error {
			_, err := rsv.ChangeFeeRecipient(ctx, owner, operator)
			return err
		}},
		{"Unpausing Reserve", func() error {
			_, err := rsv.Unpause(ctx, operator)
			return err
		}},
		{"Clearing Manager emergency", func() error {
			_, err := manager.SetEmergency(ctx, operator, false)
			return err
		}},
	}
	for _, s := range steps {
		if err := b.step(s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// SeedLiquidity has the owner approve exactly the collateral amount needs
// and issue it, then checks that supply grew by exactly amount.
func (b *Builder) SeedLiquidity(ctx context.Context, d *models.Deployment, amount *big.Int) error {
	owner := b.Roles.Owner
	manager := contract.NewManager(b.Client, d.Manager)
	rsv := contract.NewReserve(b.Client, d.Reserve)

	seigniorage, err := manager.Seigniorage(ctx)
	if err != nil {
		return err
	}
	before, err := rsv.TotalSupply(ctx)
	if err != nil {
		return err
	}
	amounts, err := collateral.IssueAmounts(amount, seigniorage, b.Weights)
	if err != nil {
		return err
	}
	if len(amounts) != len(d.Collateral) {
		return fmt.Errorf("basket has %d weights for %d tokens", len(amounts), len(d.Collateral))
	}
	for i, c := range d.Collateral {
		label := constants.CollateralSymbols[i%len(constants.CollateralSymbols)]
		err := b.step("Approving "+label, func() error {
			_, err := contract.NewERC20(b.Client, c).Approve(ctx, owner, manager.Address(), amounts[i])
			return err
		})
		if err != nil {
			return err
		}
	}
	err = b.step("Issuing RSV", func() error {
		_, err := manager.Issue(ctx, owner, amount)
		return err
	})
	if err != nil {
		return err
	}
	after, err := rsv.TotalSupply(ctx)
	if err != nil {
		return err
	}
	if want := new(big.Int).Add(before, amount); after.Cmp(want) != 0 {
		return fmt.Errorf("%w: want %s, got %s", ErrSupplyMismatch, want, after)
	}
	return nil
}
