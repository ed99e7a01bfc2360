// Copyright (C) 2022-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package key derives the owner, daily and temp accounts used by the
// deployment and fork commands.
package key

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	bip39 "github.com/luxfi/go-bip39"
	"github.com/luxfi/rsvctl/pkg/constants"
)

// DevMnemonic is the well-known development mnemonic. Its accounts hold no
// value on any public network; it is only used against the simulated chain.
const DevMnemonic = "test test test test test test test test test test test junk"

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

type Role string

const (
	RoleOwner Role = "owner"
	RoleDaily Role = "daily"
	RoleTemp  Role = "temp"
)

// Account is one signing identity.
type Account struct {
	Role    Role
	Index   uint32
	Address common.Address
	key     *ecdsa.PrivateKey
}

func (a Account) PrivateKey() *ecdsa.PrivateKey {
	return a.key
}

// Source holds the key material a Ring is built from. Explicit private keys
// take priority over the mnemonic for their role.
type Source struct {
	Mnemonic string
	OwnerKey string
	DailyKey string
	TempKey  string
}

func (s Source) Empty() bool {
	return s.Mnemonic == "" && s.OwnerKey == "" && s.DailyKey == "" && s.TempKey == ""
}

// Ring is the set of accounts the tool signs with.
type Ring struct {
	Owner Account
	Daily Account
	Temp  Account
}

// Load builds a Ring from src.
func Load(src Source) (*Ring, error) {
	if src.Empty() {
		return nil, constants.ErrMissingKey
	}
	var seed []byte
	if src.Mnemonic != "" {
		mnemonic := strings.Join(strings.Fields(src.Mnemonic), " ")
		if !bip39.IsMnemonicValid(mnemonic) {
			return nil, ErrInvalidMnemonic
		}
		seed = bip39.NewSeed(mnemonic, "")
	}

	load := func(role Role, index uint32, hexKey string) (Account, error) {
		var (
			pk  *ecdsa.PrivateKey
			err error
		)
		switch {
		case hexKey != "":
			pk, err = FromHex(hexKey)
		case seed != nil:
			pk, err = DeriveFromSeed(seed, index)
		default:
			return Account{}, fmt.Errorf("%w for the %s account", constants.ErrMissingKey, role)
		}
		if err != nil {
			return Account{}, fmt.Errorf("%s key: %w", role, err)
		}
		return NewAccount(role, index, pk), nil
	}

	var (
		r   Ring
		err error
	)
	if r.Owner, err = load(RoleOwner, constants.OwnerAccountIndex, src.OwnerKey); err != nil {
		return nil, err
	}
	if r.Daily, err = load(RoleDaily, constants.DailyAccountIndex, src.DailyKey); err != nil {
		return nil, err
	}
	if r.Temp, err = load(RoleTemp, constants.TempAccountIndex, src.TempKey); err != nil {
		return nil, err
	}
	return &r, nil
}

func NewAccount(role Role, index uint32, pk *ecdsa.PrivateKey) Account {
	return Account{
		Role:    role,
		Index:   index,
		Address: common.PubkeyToAddress(pk.PublicKey),
		key:     pk,
	}
}

// All returns the accounts in derivation order.
func (r *Ring) All() []Account {
	return []Account{r.Owner, r.Daily, r.Temp}
}

// Keys maps every account address to its private key.
func (r *Ring) Keys() map[common.Address]*ecdsa.PrivateKey {
	out := map[common.Address]*ecdsa.PrivateKey{}
	for _, a := range r.All() {
		out[a.Address] = a.key
	}
	return out
}

// FromHex parses a hex private key, with or without 0x prefix.
func FromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	pk, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return pk, nil
}

// DeriveFromSeed derives m/44'/60'/0'/0/index.
func DeriveFromSeed(seed []byte, index uint32) (*ecdsa.PrivateKey, error) {
	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart + 0,
		0,
		index,
	}
	k := masterKey
	for _, child := range path {
		k, err = k.Derive(child)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", child, err)
		}
	}
	ecPrivKey, err := k.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get EC private key: %w", err)
	}
	return ecPrivKey.ToECDSA(), nil
}
