// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"context"
	"io"

	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
)

// rsvctl fork status
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the detected migration state and the contracts involved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			d := migration.New(s.conn.Client, s.book, migrationRoles(s.ring), app.Log)
			state, err := d.Detect(ctx)
			if err != nil {
				return err
			}
			ux.Logger.PrintToUser("Chain:  %d (%s)", s.conn.ChainID, constants.NetworkName(s.conn.ChainID))
			ux.Logger.PrintToUser("State:  %s", state)
			if state != migration.Complete {
				ux.Logger.PrintToUser("Next:   %s", migration.Edge{From: state, To: state.Next()})
			}
			return printStatus(ctx, ux.Logger.Writer(), s.conn.Client, s.book)
		},
	}
}

type statusRow struct {
	generation string
	labeled    models.Labeled
}

// printStatus lists the old and new contracts with the current owner of
// each ownable one.
func printStatus(ctx context.Context, w io.Writer, client chain.Client, book *models.ForkBook) error {
	var rows []statusRow
	for _, l := range book.Old.Contracts() {
		rows = append(rows, statusRow{"old", l})
	}
	for _, l := range []models.Labeled{
		{Label: "Reserve", Contract: book.New.Reserve},
		{Label: "Manager", Contract: book.New.Manager},
		{Label: "Relayer", Contract: book.New.Relayer},
	} {
		if !l.Contract.IsZero() {
			rows = append(rows, statusRow{"new", l})
		}
	}

	table := ux.DefaultTable(w, "Generation", "Contract", "Address", "Owner")
	for _, r := range rows {
		owner := ""
		if ownable(r.labeled.Contract.Kind) {
			o, err := contract.NewOwnable(client, r.labeled.Contract).Owner(ctx)
			if err != nil {
				return err
			}
			owner = o.Hex()
		}
		if err := table.Append([]string{r.generation, r.labeled.Label, r.labeled.Contract.Address.Hex(), owner}); err != nil {
			return err
		}
	}
	return table.Render()
}

func ownable(k chain.Kind) bool {
	switch k {
	case chain.KindReserve, chain.KindDeployedReserve, chain.KindManager, chain.KindVault, chain.KindRelayer:
		return true
	}
	return false
}
