// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"github.com/luxfi/geth/common"
)

// ownable is the two-phase ownership shared by Reserve, Manager, Vault and Relayer.
type ownable struct {
	owner   common.Address
	nominee common.Address
}

func (o *ownable) onlyOwner(e *env) error {
	return ensure(e.sender == o.owner, "caller is not owner")
}

func (o *ownable) ownableView(method string) ([]any, bool) {
	switch method {
	case "owner":
		return []any{o.owner}, true
	case "nominatedOwner":
		return []any{o.nominee}, true
	}
	return nil, false
}

func (o *ownable) ownableExec(e *env, method string, args []any) (bool, error) {
	switch method {
	case "nominateNewOwner":
		if err := o.onlyOwner(e); err != nil {
			return true, err
		}
		nominee, err := argAddress(args, 0)
		if err != nil {
			return true, err
		}
		o.nominee = nominee
		return true, nil
	case "acceptOwnership":
		if err := ensure(o.nominee != (common.Address{}) && e.sender == o.nominee, "sender not nominated"); err != nil {
			return true, err
		}
		o.owner = o.nominee
		o.nominee = common.Address{}
		return true, nil
	case "renounceOwnership":
		if err := o.onlyOwner(e); err != nil {
			return true, err
		}
		o.owner = common.Address{}
		o.nominee = common.Address{}
		return true, nil
	}
	return false, nil
}
