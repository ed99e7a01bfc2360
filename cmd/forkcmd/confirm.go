// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"context"

	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/luxfi/rsvctl/pkg/validator"
	"github.com/spf13/cobra"
)

// rsvctl fork confirm
func newConfirmCmd() *cobra.Command {
	var smoke bool
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Check that the migrated system is in its final shape",
		Long: `The confirm command reads every contract of the old and new generation and
prints a table of checks. With --smoke the owner also redeems 200 RSV and
issues 300 RSV through the new Manager.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			return confirm(ctx, s.conn.Client, s.book, s.ring, smoke)
		},
	}
	cmd.Flags().BoolVar(&smoke, "smoke", false, "redeem and issue through the new Manager after the checks")
	return cmd
}

func confirm(ctx context.Context, client chain.Client, book *models.ForkBook, ring *key.Ring, smoke bool) error {
	report, err := validator.Validate(ctx, client, book, validatorRoles(ring))
	if err != nil {
		return err
	}
	if err := report.Render(ux.Logger.Writer()); err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("All %d checks passed", len(report.Checks))
	if !smoke {
		return nil
	}

	if err := app.AwaitFunding(ctx, client, ring); err != nil {
		return err
	}
	st := ux.NewStepTracker(ux.Logger, stepWarnAfter)
	st.Start("Redeeming and issuing through the new Manager")
	if err := validator.RoundTrip(ctx, client, book, ring.Owner.Address, validator.DefaultSmoke()); err != nil {
		st.Failed(err.Error())
		return err
	}
	st.CompleteSuccess()
	return nil
}
