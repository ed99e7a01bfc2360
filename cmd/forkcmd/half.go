// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"context"

	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
)

// rsvctl fork first-half
func newFirstHalfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "first-half",
		Short: "Deploy and configure the new generation from the temp account",
		Long: `The first-half command deploys the new Reserve, Manager and Relayer from
the temp account, wires them together and nominates the owner on each.
Nothing users depend on is touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHalf(cmd.Context(), migration.NewDeployed)
		},
	}
}

// rsvctl fork second-half
func newSecondHalfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "second-half",
		Short: "Hand over the new generation and upgrade the old reserve",
		Long: `The second-half command accepts ownership of the new contracts, halts the
old Manager, points the Vault at the new Manager, upgrades the old Reserve
into the new one and takes the new Manager out of emergency.

Upgrading the old Reserve cannot be undone and asks for confirmation
unless --yes is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHalf(cmd.Context(), migration.Complete)
		},
	}
}

func runHalf(ctx context.Context, target migration.State) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := app.AwaitFunding(ctx, s.conn.Client, s.ring); err != nil {
		return err
	}

	d := newDriver(s.conn.Client, s.book, s.ring, true)
	var state migration.State
	if target == migration.Complete {
		state, err = d.SecondHalf(ctx)
	} else {
		state, err = d.FirstHalf(ctx)
	}
	if jerr := printJournal(d); jerr != nil && err == nil {
		err = jerr
	}
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Migration is at %s", state)
	return nil
}
