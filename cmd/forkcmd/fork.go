// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/application"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/prompts"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/luxfi/rsvctl/pkg/validator"
	"github.com/spf13/cobra"
)

const stepWarnAfter = 30 * time.Second

var (
	app *application.App

	errSimulatedBook = errors.New("a simulated chain only lives for one command: use 'rsvctl fork run --simulate'")
)

// rsvctl fork
func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Migrate a live Reserve system to a new generation",
		Long: `The fork command suite replaces the Reserve, Manager and Relayer of a live
system while keeping its Vault, Basket, collateral and every RSV balance.

  init         write the address book of a system deployed elsewhere
  first-half   deploy and configure the new contracts from the temp account
  second-half  hand them to the owner, move the vault, upgrade the old reserve
  confirm      check the final state, optionally with a redeem/issue round trip
  status       show the detected migration state
  run          rehearse the whole fork on a freshly deployed system

Every command detects where the migration stands from the chain, so an
interrupted run is resumed by running the same command again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newFirstHalfCmd())
	cmd.AddCommand(newSecondHalfCmd())
	cmd.AddCommand(newConfirmCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}

func migrationRoles(ring *key.Ring) migration.Roles {
	return migration.Roles{
		Owner:    ring.Owner.Address,
		Operator: ring.Daily.Address,
		Temp:     ring.Temp.Address,
	}
}

func validatorRoles(ring *key.Ring) validator.Roles {
	return validator.Roles{Owner: ring.Owner.Address, Operator: ring.Daily.Address}
}

// newDriver wires a migration driver to the user's terminal and, when save
// is set, to the address book on disk.
func newDriver(client chain.Client, book *models.ForkBook, ring *key.Ring, save bool) *migration.Driver {
	d := migration.New(client, book, migrationRoles(ring), app.Log)
	d.Reporter = ux.NewStepTracker(ux.Logger, stepWarnAfter)
	d.Confirm = confirmUpgrade
	if save {
		d.Save = app.SaveForkBook
	}
	return d
}

func confirmUpgrade(_ context.Context, edge migration.Edge) error {
	ux.Logger.PrintToUser("")
	ux.Logger.PrintToUser("Next: %s", edge)
	ux.Logger.PrintToUser("%s", luxlog.Yellow.Wrap("The old Reserve will hand its balances to the new Reserve and lose its owner, minter and pauser."))
	err := app.Confirm("This cannot be undone. Upgrade the old Reserve?")
	if errors.Is(err, prompts.ErrDeclined) {
		return fmt.Errorf("%w: %w", migration.ErrAborted, err)
	}
	return err
}

// session is the chain connection and address book of a command that
// resumes a migration.
type session struct {
	ring *key.Ring
	conn *application.Connection
	book *models.ForkBook
}

func (s *session) Close() {
	s.conn.Close()
}

func openSession(ctx context.Context) (*session, error) {
	if app.Conf.Simulate() {
		return nil, errSimulatedBook
	}
	book, err := app.LoadForkBook()
	if err != nil {
		return nil, err
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	ring, err := app.LoadKeys()
	if err != nil {
		return nil, err
	}
	conn, err := app.Connect(ctx, ring)
	if err != nil {
		return nil, err
	}
	if book.ChainID != 0 && book.ChainID != conn.ChainID {
		conn.Close()
		return nil, fmt.Errorf("%w: address book is for chain %d but the endpoint serves chain %d", constants.ErrChainIDMismatch, book.ChainID, conn.ChainID)
	}
	return &session{ring: ring, conn: conn, book: book}, nil
}

func printJournal(d *migration.Driver) error {
	if len(d.Journal().Entries()) == 0 {
		return nil
	}
	ux.Logger.PrintLineSeparator()
	return d.Journal().Render(ux.Logger.Writer())
}
