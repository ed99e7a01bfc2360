// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forkcmd

import (
	"fmt"

	"github.com/luxfi/rsvctl/cmd/deploycmd"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sourceEnter  = "Enter the contract addresses"
	sourceImport = "Import an existing address book"
)

// rsvctl fork init
func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the address book of a system deployed elsewhere",
		Long: `The init command asks for the addresses of a live Reserve system, or for
an address book file to import, and writes the address book the other fork
commands read. It refuses to replace an existing address book without
--force.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return initAddressBook(force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing address book")
	return cmd
}

func initAddressBook(force bool) error {
	if app.Conf.Simulate() {
		return errSimulatedBook
	}
	if err := app.GuardAddressBook(force); err != nil {
		return err
	}
	book, err := captureForkBook()
	if err != nil {
		return err
	}
	if err := app.SaveForkBook(book); err != nil {
		return err
	}

	ux.Logger.PrintLineSeparator()
	if err := deploycmd.PrintDeployment(ux.Logger.Writer(), book.Old); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Address book for chain %d written to %s", book.ChainID, app.GetAddressBookPath())
	return nil
}

func captureForkBook() (*models.ForkBook, error) {
	source, err := app.Prompt.CaptureList("Where does the live system come from?", []string{sourceEnter, sourceImport})
	if err != nil {
		return nil, err
	}

	var book *models.ForkBook
	if source == sourceImport {
		path, err := app.Prompt.CaptureExistingFilepath("Address book to import")
		if err != nil {
			return nil, err
		}
		if book, err = models.LoadForkBook(path); err != nil {
			return nil, err
		}
		app.Log.Info("imported address book", zap.String("path", path))
	} else {
		old, err := captureDeployment()
		if err != nil {
			return nil, err
		}
		book = &models.ForkBook{Old: old}
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	if book.ChainID == 0 {
		if book.ChainID, err = captureChainID(); err != nil {
			return nil, err
		}
	}
	return book, nil
}

func captureDeployment() (*models.Deployment, error) {
	kind, err := app.Prompt.CaptureList("Which Reserve contract is live?",
		[]string{string(chain.KindDeployedReserve), string(chain.KindReserve)})
	if err != nil {
		return nil, err
	}

	d := &models.Deployment{}
	slots := []struct {
		label string
		kind  chain.Kind
		slot  *chain.Contract
	}{
		{"Reserve", chain.Kind(kind), &d.Reserve},
		{"Manager", chain.KindManager, &d.Manager},
		{"Vault", chain.KindVault, &d.Vault},
		{"Basket", chain.KindBasket, &d.Basket},
		{"ProposalFactory", chain.KindProposalFactory, &d.ProposalFactory},
	}
	for _, s := range slots {
		addr, err := app.Prompt.CaptureAddress(s.label + " address")
		if err != nil {
			return nil, err
		}
		*s.slot = chain.Contract{Kind: s.kind, Address: addr}
	}
	for _, symbol := range constants.CollateralSymbols {
		addr, err := app.Prompt.CaptureAddress(symbol + " token address")
		if err != nil {
			return nil, err
		}
		d.Collateral = append(d.Collateral, chain.Contract{Kind: chain.KindERC20, Address: addr})
	}

	hasRelayer, err := app.CaptureYesNo("Does the live Reserve have a Relayer?")
	if err != nil {
		return nil, err
	}
	if hasRelayer {
		addr, err := app.Prompt.CaptureAddress("Relayer address")
		if err != nil {
			return nil, err
		}
		d.Relayer = chain.Contract{Kind: chain.KindRelayer, Address: addr}
	}

	if d.Operator, err = app.Prompt.CaptureAddress("Operator address"); err != nil {
		return nil, err
	}
	return d, nil
}

// captureChainID uses the configured chain ID, or asks for one and offers to
// store it in the config file.
func captureChainID() (uint64, error) {
	if app.Conf.ConfigValueIsSet(constants.ConfigChainID) {
		return app.Conf.ChainID(), nil
	}
	n, err := app.Prompt.CapturePositiveBigInt("Chain ID")
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("chain ID %s is out of range", n)
	}
	id := n.Uint64()

	if app.Conf.ConfigFileExists() {
		save, err := app.CaptureYesNo(fmt.Sprintf("Save chain ID %d to %s?", id, app.GetConfigPath()))
		if err != nil {
			return 0, err
		}
		if save {
			if err := app.Conf.SetConfigValue(constants.ConfigChainID, id); err != nil {
				return 0, err
			}
		}
	}
	return id, nil
}
