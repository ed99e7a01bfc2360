// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

type vault struct {
	ownable
	manager common.Address
}

func newVault(e *env, _ []any) (contract, error) {
	return &vault{
		ownable: ownable{owner: e.sender},
		manager: e.sender,
	}, nil
}

func (*vault) kind() chain.Kind { return chain.KindVault }

func (v *vault) clone() contract {
	cp := *v
	return &cp
}

func (v *vault) view(_ *state, method string, _ []any) ([]any, error) {
	if out, ok := v.ownableView(method); ok {
		return out, nil
	}
	if method == "manager" {
		return []any{v.manager}, nil
	}
	return nil, noMethod(v.kind(), method)
}

func (v *vault) exec(e *env, method string, args []any) error {
	if ok, err := v.ownableExec(e, method, args); ok {
		return err
	}
	switch method {
	case "changeManager":
		if err := v.onlyOwner(e); err != nil {
			return err
		}
		manager, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		if err := ensure(manager != (common.Address{}), "cannot be address(0)"); err != nil {
			return err
		}
		v.manager = manager
		return nil
	case "withdrawTo":
		if err := ensure(e.sender == v.manager, "must be manager"); err != nil {
			return err
		}
		token, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		amount, err := argUint(args, 1)
		if err != nil {
			return err
		}
		to, err := argAddress(args, 2)
		if err != nil {
			return err
		}
		return e.call(token, "transfer", to, amount)
	}
	return noMethod(v.kind(), method)
}
