// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package application

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/config"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/prompts"
	"github.com/luxfi/rsvctl/pkg/prompts/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *viper.Viper) {
	v := viper.New()
	config.SetDefaults(v)
	app := New()
	app.Setup(t.TempDir(), luxlog.NewNoOpLogger(), config.NewFromViper(v), nil)
	return app, v
}

func TestDefaultPaths(t *testing.T) {
	require := require.New(t)
	app, v := newTestApp(t)
	base := app.GetBaseDir()

	require.Equal(filepath.Join(base, constants.AddressBookFileName), app.GetAddressBookPath())
	require.Equal(filepath.Join(base, constants.ArtifactsDirName), app.GetArtifactsDir())
	require.Equal(filepath.Join(base, "config.json"), app.GetConfigPath())

	v.Set(constants.ConfigAddressBook, "/srv/rsv/book.yaml")
	require.Equal("/srv/rsv/book.yaml", app.GetAddressBookPath())
}

func TestForkBookRoundTrip(t *testing.T) {
	require := require.New(t)
	app, _ := newTestApp(t)

	_, err := app.LoadForkBook()
	require.ErrorIs(err, constants.ErrNoAddressBook)
	require.False(app.AddressBookExists())

	book := &models.ForkBook{
		ChainID: 1337,
		Old: &models.Deployment{
			Generation: models.Generation{
				Reserve: chain.Contract{Kind: chain.KindDeployedReserve, Address: common.HexToAddress("0x01")},
				Manager: chain.Contract{Kind: chain.KindManager, Address: common.HexToAddress("0x02")},
			},
			Vault:           chain.Contract{Kind: chain.KindVault, Address: common.HexToAddress("0x03")},
			Basket:          chain.Contract{Kind: chain.KindBasket, Address: common.HexToAddress("0x04")},
			ProposalFactory: chain.Contract{Kind: chain.KindProposalFactory, Address: common.HexToAddress("0x05")},
		},
	}
	require.NoError(app.SaveForkBook(book))
	require.True(app.AddressBookExists())

	got, err := app.LoadForkBook()
	require.NoError(err)
	require.Equal(book.Old.Reserve, got.Old.Reserve)
	require.Equal(book.Old.Vault, got.Old.Vault)
	require.NoError(got.Validate())
}

func TestGuardAddressBook(t *testing.T) {
	require := require.New(t)
	app, v := newTestApp(t)

	require.NoError(app.GuardAddressBook(false))
	require.NoError(app.SaveForkBook(&models.ForkBook{ChainID: 1337}))

	err := app.GuardAddressBook(false)
	require.ErrorIs(err, constants.ErrAddressBookExists)
	require.ErrorContains(err, app.GetAddressBookPath())
	require.NoError(app.GuardAddressBook(true))

	v.Set(constants.ConfigSimulate, true)
	require.NoError(app.GuardAddressBook(false))
}

func TestConfirm(t *testing.T) {
	require := require.New(t)
	app, v := newTestApp(t)

	require.ErrorIs(app.Confirm("Upgrade?"), prompts.ErrNonInteractive)

	p := &mocks.Prompter{}
	p.On("CaptureNoYes", "Upgrade?").Return(false, nil).Once()
	app.Prompt = p
	require.ErrorIs(app.Confirm("Upgrade?"), prompts.ErrDeclined)

	v.Set(constants.ConfigYes, true)
	require.NoError(app.Confirm("Upgrade?"))
	p.AssertExpectations(t)
}

func TestSimulatedConnection(t *testing.T) {
	require := require.New(t)
	app, v := newTestApp(t)

	_, err := app.LoadKeys()
	require.ErrorIs(err, constants.ErrMissingKey)

	v.Set(constants.ConfigSimulate, true)
	ring, err := app.LoadKeys()
	require.NoError(err)
	dev, err := key.Load(key.Source{Mnemonic: key.DevMnemonic})
	require.NoError(err)
	require.Equal(dev.Owner.Address, ring.Owner.Address)

	conn, err := app.Connect(context.Background(), ring)
	require.NoError(err)
	defer conn.Close()
	require.NotNil(conn.Sim)
	require.Equal(uint64(constants.SimChainID), conn.ChainID)
	for _, a := range ring.All() {
		bal, err := conn.Client.BalanceOf(context.Background(), a.Address)
		require.NoError(err)
		require.Equal(SimulatedFunding, bal)
	}
}

func TestConnectNeedsEndpoint(t *testing.T) {
	app, v := newTestApp(t)
	v.Set(constants.ConfigMnemonic, key.DevMnemonic)
	ring, err := app.LoadKeys()
	require.NoError(t, err)
	_, err = app.Connect(context.Background(), ring)
	require.ErrorContains(t, err, "--rpc-url")
}

func TestFundingRequirementsGateTemp(t *testing.T) {
	require := require.New(t)
	app, v := newTestApp(t)
	ring, err := key.Load(key.Source{Mnemonic: key.DevMnemonic})
	require.NoError(err)

	reqs, err := app.FundingRequirements(ring)
	require.NoError(err)
	require.Len(reqs, 2)

	v.Set(constants.ConfigMinTempWei, "1000")
	reqs, err = app.FundingRequirements(ring)
	require.NoError(err)
	require.Len(reqs, 3)
	require.Equal(ring.Temp.Address, reqs[2].Account)
	require.Equal("1000", reqs[2].Minimum.String())

	v.Set(constants.ConfigMinTempWei, "-1")
	_, err = app.FundingRequirements(ring)
	require.ErrorContains(err, constants.ConfigMinTempWei)
}
