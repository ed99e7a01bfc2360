// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"context"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/deployer"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/luxfi/rsvctl/pkg/validator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rsvctl fork run
func newRunCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rehearse the whole fork on a freshly deployed system",
		Long: `The run command deploys a legacy system, issues 300 RSV, performs both
halves of the fork and checks the result: every final confirmation, a
redeem/issue round trip and that the old Reserve cannot be revived.

It is normally used with --simulate. Against a real chain it writes the
address book like the other fork commands, and refuses to replace an
existing one without --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.GuardAddressBook(force); err != nil {
				return err
			}
			ring, err := app.LoadKeys()
			if err != nil {
				return err
			}
			conn, err := app.Connect(ctx, ring)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := app.AwaitFunding(ctx, conn.Client, ring); err != nil {
				return err
			}
			save := !app.Conf.Simulate()
			if _, err := Rehearse(ctx, conn.Client, conn.ChainID, ring, save); err != nil {
				return err
			}
			ux.Logger.PrintToUser("%s", luxlog.Green.Wrap("Fork rehearsal complete"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing address book")
	return cmd
}

// Rehearse deploys and seeds a legacy system, migrates it and checks the
// result. It returns the address book as far as it got.
func Rehearse(ctx context.Context, client chain.Client, chainID uint64, ring *key.Ring, save bool) (*models.ForkBook, error) {
	b := deployer.New(client, deployer.Roles{Owner: ring.Owner.Address, Operator: ring.Daily.Address}, app.Log)
	b.Reporter = ux.NewStepTracker(ux.Logger, stepWarnAfter)
	old, err := b.Deploy(ctx, deployer.ProfileRehearsal)
	if err != nil {
		return nil, err
	}
	book := &models.ForkBook{ChainID: chainID, Old: old}
	if save {
		if err := app.SaveForkBook(book); err != nil {
			return book, err
		}
	}
	if err := b.SeedLiquidity(ctx, old, collateral.MustParse(constants.InitialIssuance)); err != nil {
		return book, err
	}

	d := newDriver(client, book, ring, save)
	if err := stepToComplete(ctx, d); err != nil {
		_ = printJournal(d)
		return book, err
	}
	if err := printJournal(d); err != nil {
		return book, err
	}

	ux.Logger.PrintLineSeparator()
	if err := confirm(ctx, client, book, ring, true); err != nil {
		return book, err
	}
	st := ux.NewStepTracker(ux.Logger, stepWarnAfter)
	st.Start("Checking the old Reserve cannot be revived")
	if err := validator.CheckIrreversible(ctx, client, book, validatorRoles(ring)); err != nil {
		st.Failed(err.Error())
		return book, err
	}
	st.CompleteSuccess()
	return book, nil
}

// stepToComplete runs the migration one edge at a time, advancing a
// progress bar on terminals.
func stepToComplete(ctx context.Context, d *migration.Driver) error {
	state, err := d.Detect(ctx)
	if err != nil {
		return err
	}
	bar := ux.NewProgressTracker(ux.Logger.Writer()).CreateProgressBar("Migrating", int(migration.Complete-state))
	for state != migration.Complete {
		if state, err = d.Step(ctx); err != nil {
			return err
		}
		app.Log.Debug("reached", zap.Stringer("state", state))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}
