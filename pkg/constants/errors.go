// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoAddressBook     = errors.New("no address book found. Run 'rsvctl deploy' first or pass --address-book")
	ErrAddressBookExists = errors.New("address book already exists; pass --force to overwrite it")
	ErrMissingKey        = errors.New("no key material: set --mnemonic or the owner/daily/temp private keys")
	ErrUnknownProfile    = errors.New("unknown deployment profile")
	ErrNoArtifacts       = errors.New("no contract artifacts directory configured")
	ErrChainIDMismatch   = errors.New("chain ID mismatch")
)
