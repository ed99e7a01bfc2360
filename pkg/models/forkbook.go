// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/rsvctl/pkg/constants"
	"gopkg.in/yaml.v3"
)

var ErrNoDeployment = errors.New("address book has no deployment")

// ForkBook is the address book of a system and the generation replacing it.
// It is the only state kept off-chain; everything else is read back from
// the chain.
type ForkBook struct {
	ChainID uint64      `yaml:"chainID"`
	Old     *Deployment `yaml:"old"`
	New     Generation  `yaml:"new,omitempty"`
}

// Live returns the deployment currently serving users: the old one with the
// new generation swapped in once it exists.
func (b *ForkBook) Live() *Deployment {
	if b.Old == nil {
		return nil
	}
	d := *b.Old
	if b.New.Complete() {
		d.Generation = b.New
	}
	return &d
}

func (b *ForkBook) Validate() error {
	if b.Old == nil {
		return ErrNoDeployment
	}
	old := b.Old
	if old.Reserve.IsZero() || old.Manager.IsZero() || old.Vault.IsZero() ||
		old.Basket.IsZero() || old.ProposalFactory.IsZero() {
		return fmt.Errorf("%w: reserve, manager, vault, basket and proposal factory are required", ErrNoDeployment)
	}
	return nil
}

func LoadForkBook(path string) (*ForkBook, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", constants.ErrNoAddressBook, path)
		}
		return nil, err
	}
	var b ForkBook
	if err := yaml.Unmarshal(bs, &b); err != nil {
		return nil, fmt.Errorf("failed to parse address book %s: %w", path, err)
	}
	return &b, nil
}

// Save writes the book atomically.
func (b *ForkBook) Save(path string) error {
	bs, err := yaml.Marshal(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, bs, constants.WriteReadReadPerms); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
