// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deploycmd

import (
	"context"
	"io"
	"time"

	"github.com/luxfi/rsvctl/pkg/application"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/deployer"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stepWarnAfter = 30 * time.Second

var app *application.App

type deployFlags struct {
	profile string
	seed    bool
	force   bool
}

// rsvctl deploy
func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp
	var f deployFlags

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy and wire a complete Reserve system",
		Long: `The deploy command deploys the collateral tokens, Basket, Vault, Reserve,
ProposalFactory and Manager, points the Vault and Reserve at the Manager and
hands the pauser and fee roles to the daily account.

The initial profile also deploys a Relayer. The rehearsal profile deploys the
legacy DeployedReserve that a fork migrates away from. With --seed the owner
issues the initial 300 RSV.

The addresses are written to the address book used by the fork commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return deploy(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.profile, "profile", string(deployer.ProfileInitial), "deployment profile: initial or rehearsal")
	cmd.Flags().BoolVar(&f.seed, "seed", false, "issue the initial RSV after deploying")
	cmd.Flags().BoolVar(&f.force, "force", false, "overwrite an existing address book")
	return cmd
}

func deploy(ctx context.Context, f deployFlags) error {
	profile, err := deployer.ParseProfile(f.profile)
	if err != nil {
		return err
	}
	simulated := app.Conf.Simulate()
	if err := app.GuardAddressBook(f.force); err != nil {
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

	d, err := Deploy(ctx, conn.Client, ring, profile, f.seed)
	if err != nil {
		return err
	}

	ux.Logger.PrintLineSeparator()
	if err := PrintDeployment(ux.Logger.Writer(), d); err != nil {
		return err
	}
	if simulated {
		ux.Logger.PrintToUser("Simulated chain: the address book was not written")
		return nil
	}
	book := &models.ForkBook{ChainID: conn.ChainID, Old: d}
	if err := app.SaveForkBook(book); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Address book written to %s", app.GetAddressBookPath())
	return nil
}

// Deploy builds a system with the ring's owner and daily accounts and
// optionally seeds it with the initial issuance.
func Deploy(ctx context.Context, client chain.Client, ring *key.Ring, profile deployer.Profile, seed bool) (*models.Deployment, error) {
	b := deployer.New(client, deployer.Roles{Owner: ring.Owner.Address, Operator: ring.Daily.Address}, app.Log)
	b.Reporter = ux.NewStepTracker(ux.Logger, stepWarnAfter)

	d, err := b.Deploy(ctx, profile)
	if err != nil {
		return d, err
	}
	if seed {
		if err := b.SeedLiquidity(ctx, d, collateral.MustParse(constants.InitialIssuance)); err != nil {
			return d, err
		}
	}
	app.Log.Info("deployed", zap.String("profile", string(profile)), zap.Bool("seeded", seed))
	return d, nil
}

// PrintDeployment writes the contract addresses of d as a table.
func PrintDeployment(w io.Writer, d *models.Deployment) error {
	table := ux.DefaultTable(w, "Contract", "Kind", "Address")
	for _, c := range d.Contracts() {
		if err := table.Append([]string{c.Label, string(c.Contract.Kind), c.Contract.Address.Hex()}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{"Operator", "", d.Operator.Hex()}); err != nil {
		return err
	}
	return table.Render()
}
