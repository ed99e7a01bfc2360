// Copyright (C) 2022-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/funding"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// rsvctl key list
func newListCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the signing accounts and their balances",
		Long: `The key list command prints the owner, daily and temp addresses with their
derivation index. Unless --offline is set it also reads each ETH balance
and compares it with the minimum the mutating commands wait for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ring, err := app.LoadKeys()
			if err != nil {
				return err
			}
			if offline {
				return printKeys(ux.Logger.Writer(), ring, nil, nil)
			}
			conn, err := app.Connect(ctx, ring)
			if err != nil {
				return err
			}
			defer conn.Close()
			balances, err := readBalances(ctx, conn.Client, ring)
			if err != nil {
				return err
			}
			reqs, err := app.FundingRequirements(ring)
			if err != nil {
				return err
			}
			return printKeys(ux.Logger.Writer(), ring, balances, reqs)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "only derive the addresses")
	return cmd
}

func readBalances(ctx context.Context, reader chain.BalanceReader, ring *key.Ring) ([]*big.Int, error) {
	accounts := ring.All()
	balances := make([]*big.Int, len(accounts))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, a := range accounts {
		eg.Go(func() error {
			bal, err := reader.BalanceOf(egCtx, a.Address)
			if err != nil {
				return fmt.Errorf("failed to read balance of %s: %w", a.Role, err)
			}
			balances[i] = bal
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// printKeys writes one row per account. balances may be nil.
func printKeys(w io.Writer, ring *key.Ring, balances []*big.Int, reqs []funding.Requirement) error {
	minimum := map[string]*big.Int{}
	for _, r := range reqs {
		minimum[r.Label] = r.Minimum
	}
	headers := []string{"Role", "Index", "Address"}
	if balances != nil {
		headers = append(headers, "Balance (ETH)", "Minimum (ETH)", "Funded")
	}
	table := ux.DefaultTable(w, headers...)
	for i, a := range ring.All() {
		row := []string{string(a.Role), fmt.Sprint(a.Index), a.Address.Hex()}
		if balances != nil {
			minStr, funded := "-", "-"
			if m, ok := minimum[string(a.Role)]; ok {
				minStr = ux.FormatTokenAmount(m, 18)
				funded = "yes"
				if balances[i].Cmp(m) < 0 {
					funded = "NO"
				}
			}
			row = append(row, ux.FormatTokenAmount(balances[i], 18), minStr, funded)
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
