// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

type relayer struct {
	ownable
	rsv common.Address
}

func newRelayer(e *env, args []any) (contract, error) {
	rsv, err := argAddress(args, 0)
	if err != nil {
		return nil, err
	}
	return &relayer{ownable: ownable{owner: e.sender}, rsv: rsv}, nil
}

func (*relayer) kind() chain.Kind { return chain.KindRelayer }

func (r *relayer) clone() contract {
	cp := *r
	return &cp
}

func (r *relayer) view(_ *state, method string, _ []any) ([]any, error) {
	if out, ok := r.ownableView(method); ok {
		return out, nil
	}
	if method == "trustedRSV" {
		return []any{r.rsv}, nil
	}
	return nil, noMethod(r.kind(), method)
}

func (r *relayer) exec(e *env, method string, args []any) error {
	if ok, err := r.ownableExec(e, method, args); ok {
		return err
	}
	if method == "setRSV" {
		if err := r.onlyOwner(e); err != nil {
			return err
		}
		rsv, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		r.rsv = rsv
		return nil
	}
	return noMethod(r.kind(), method)
}

type proposalFactory struct{}

func newProposalFactory(*env, []any) (contract, error) {
	return proposalFactory{}, nil
}

func (proposalFactory) kind() chain.Kind { return chain.KindProposalFactory }

func (p proposalFactory) clone() contract { return p }

func (p proposalFactory) view(_ *state, method string, _ []any) ([]any, error) {
	return nil, noMethod(p.kind(), method)
}

func (p proposalFactory) exec(_ *env, method string, _ []any) error {
	return noMethod(p.kind(), method)
}
