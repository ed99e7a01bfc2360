// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/stretchr/testify/require"
)

func contractAt(kind chain.Kind, n byte) chain.Contract {
	return chain.Contract{Kind: kind, Address: common.BytesToAddress([]byte{n})}
}

func sampleBook() *ForkBook {
	return &ForkBook{
		ChainID: constants.SimChainID,
		Old: &Deployment{
			Collateral: []chain.Contract{
				contractAt(chain.KindERC20, 1),
				contractAt(chain.KindERC20, 2),
				contractAt(chain.KindERC20, 3),
			},
			Basket:          contractAt(chain.KindBasket, 4),
			Vault:           contractAt(chain.KindVault, 5),
			ProposalFactory: contractAt(chain.KindProposalFactory, 6),
			Generation: Generation{
				Reserve: contractAt(chain.KindDeployedReserve, 7),
				Manager: contractAt(chain.KindManager, 8),
			},
			Operator: common.BytesToAddress([]byte{9}),
		},
	}
}

func TestForkBookSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", constants.AddressBookFileName)
	book := sampleBook()
	book.New = Generation{
		Reserve: contractAt(chain.KindReserve, 10),
		Manager: contractAt(chain.KindManager, 11),
		Relayer: contractAt(chain.KindRelayer, 12),
	}
	require.NoError(t, book.Save(path))

	loaded, err := LoadForkBook(path)
	require.NoError(t, err)
	if diff := cmp.Diff(book, loaded); diff != "" {
		t.Fatalf("address book changed on round trip (-want +got):\n%s", diff)
	}
}

func TestForkBookOmitsMissingGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), constants.AddressBookFileName)
	book := sampleBook()
	require.NoError(t, book.Save(path))

	loaded, err := LoadForkBook(path)
	require.NoError(t, err)
	require.False(t, loaded.New.Deployed())
	require.True(t, loaded.Old.Relayer.IsZero())
}

func TestLoadMissingForkBook(t *testing.T) {
	_, err := LoadForkBook(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, constants.ErrNoAddressBook)
}

func TestLiveSwapsInCompleteGeneration(t *testing.T) {
	book := sampleBook()
	require.Equal(t, book.Old.Reserve, book.Live().Reserve)

	book.New.Reserve = contractAt(chain.KindReserve, 10)
	require.Equal(t, book.Old.Reserve, book.Live().Reserve, "partial generation is not live")

	book.New.Manager = contractAt(chain.KindManager, 11)
	book.New.Relayer = contractAt(chain.KindRelayer, 12)
	live := book.Live()
	require.Equal(t, book.New.Reserve, live.Reserve)
	require.Equal(t, book.Old.Vault, live.Vault)
	require.Equal(t, contractAt(chain.KindDeployedReserve, 7), book.Old.Reserve)
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, (&ForkBook{}).Validate(), ErrNoDeployment)
	book := sampleBook()
	require.NoError(t, book.Validate())
	book.Old.Vault = chain.Contract{}
	require.ErrorIs(t, book.Validate(), ErrNoDeployment)
}

func TestValidateRequiresManagerReferences(t *testing.T) {
	tests := []struct {
		name  string
		clear func(d *Deployment)
	}{
		{"basket", func(d *Deployment) { d.Basket = chain.Contract{} }},
		{"proposal factory", func(d *Deployment) { d.ProposalFactory = chain.Contract{} }},
		{"reserve", func(d *Deployment) { d.Reserve = chain.Contract{} }},
		{"manager", func(d *Deployment) { d.Manager = chain.Contract{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := sampleBook()
			tt.clear(book.Old)
			require.ErrorIs(t, book.Validate(), ErrNoDeployment)
		})
	}
}

func TestDeploymentContracts(t *testing.T) {
	d := sampleBook().Old
	labels := []string{}
	for _, c := range d.Contracts() {
		labels = append(labels, c.Label)
	}
	require.Equal(t, []string{"USDC", "TUSD", "PAX", "Basket", "Vault", "ProposalFactory", "Reserve", "Manager"}, labels)
}
