// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
)

type manager struct {
	ownable
	vault           common.Address
	rsv             common.Address
	proposalFactory common.Address
	basket          common.Address
	operator        common.Address
	seigniorage     *big.Int
	emergency       bool
	issuancePaused  bool
}

func newManager(e *env, args []any) (contract, error) {
	var addrs [5]common.Address
	for i := range addrs {
		a, err := argAddress(args, i)
		if err != nil {
			return nil, err
		}
		addrs[i] = a
	}
	seigniorage, err := argUint(args, 5)
	if err != nil {
		return nil, err
	}
	if err := ensure(seigniorage.Cmp(big.NewInt(constants.MaxSeigniorage)) <= 0, "seigniorage too high"); err != nil {
		return nil, err
	}
	return &manager{
		ownable:         ownable{owner: e.sender},
		vault:           addrs[0],
		rsv:             addrs[1],
		proposalFactory: addrs[2],
		basket:          addrs[3],
		operator:        addrs[4],
		seigniorage:     seigniorage,
		emergency:       true,
	}, nil
}

func (*manager) kind() chain.Kind { return chain.KindManager }

func (m *manager) clone() contract {
	cp := *m
	cp.seigniorage = new(big.Int).Set(m.seigniorage)
	return &cp
}

func (m *manager) view(st *state, method string, args []any) ([]any, error) {
	if out, ok := m.ownableView(method); ok {
		return out, nil
	}
	switch method {
	case "operator":
		return []any{m.operator}, nil
	case "trustedVault":
		return []any{m.vault}, nil
	case "trustedRSV":
		return []any{m.rsv}, nil
	case "trustedProposalFactory":
		return []any{m.proposalFactory}, nil
	case "trustedBasket":
		return []any{m.basket}, nil
	case "seigniorage":
		return []any{new(big.Int).Set(m.seigniorage)}, nil
	case "emergency":
		return []any{m.emergency}, nil
	case "issuancePaused":
		return []any{m.issuancePaused}, nil
	case "proposalsLength":
		return []any{new(big.Int)}, nil
	case "isFullyCollateralized":
		ok, err := m.fullyCollateralized(st)
		if err != nil {
			return nil, err
		}
		return []any{ok}, nil
	case "toIssue", "toRedeem":
		amount, err := argUint(args, 0)
		if err != nil {
			return nil, err
		}
		_, weights, err := m.basketContents(st)
		if err != nil {
			return nil, err
		}
		var amounts []*big.Int
		if method == "toIssue" {
			amounts, err = collateral.IssueAmounts(amount, m.seigniorage, weights)
		} else {
			amounts, err = collateral.RedeemAmounts(amount, weights)
		}
		if err != nil {
			return nil, revert(err.Error())
		}
		return []any{amounts}, nil
	}
	return nil, noMethod(m.kind(), method)
}

func (m *manager) exec(e *env, method string, args []any) error {
	if ok, err := m.ownableExec(e, method, args); ok {
		return err
	}
	switch method {
	case "setEmergency", "setIssuancePaused":
		if err := ensure(e.sender == m.operator, "operator only"); err != nil {
			return err
		}
		v, err := argBool(args, 0)
		if err != nil {
			return err
		}
		if method == "setEmergency" {
			m.emergency = v
		} else {
			m.issuancePaused = v
		}
		return nil
	case "setOperator":
		if err := m.onlyOwner(e); err != nil {
			return err
		}
		operator, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		m.operator = operator
		return nil
	case "setSeigniorage":
		if err := m.onlyOwner(e); err != nil {
			return err
		}
		seigniorage, err := argUint(args, 0)
		if err != nil {
			return err
		}
		if err := ensure(seigniorage.Cmp(big.NewInt(constants.MaxSeigniorage)) <= 0, "seigniorage too high"); err != nil {
			return err
		}
		m.seigniorage = seigniorage
		return nil
	case "issue":
		return m.issue(e, args)
	case "redeem":
		return m.redeem(e, args)
	}
	return noMethod(m.kind(), method)
}

func (m *manager) basketContents(st *state) ([]common.Address, []*big.Int, error) {
	b, err := lookup[*basket](st, m.basket)
	if err != nil {
		return nil, nil, err
	}
	weights := make([]*big.Int, len(b.tokens))
	for i, t := range b.tokens {
		weights[i] = amountOf(b.weights, t)
	}
	return b.tokens, weights, nil
}

func (m *manager) issue(e *env, args []any) error {
	if err := ensure(!m.emergency, "contract is paused"); err != nil {
		return err
	}
	if err := ensure(!m.issuancePaused, "issuance is paused"); err != nil {
		return err
	}
	amount, err := argUint(args, 0)
	if err != nil {
		return err
	}
	if err := ensure(amount.Sign() > 0, "cannot issue zero RSV"); err != nil {
		return err
	}
	tokens, weights, err := m.basketContents(e.st)
	if err != nil {
		return err
	}
	amounts, err := collateral.IssueAmounts(amount, m.seigniorage, weights)
	if err != nil {
		return revert(err.Error())
	}
	for i, token := range tokens {
		if err := e.call(token, "transferFrom", e.sender, m.vault, amounts[i]); err != nil {
			return err
		}
	}
	if err := e.call(m.rsv, "mint", e.sender, amount); err != nil {
		return err
	}
	return m.requireCollateralized(e.st)
}

func (m *manager) redeem(e *env, args []any) error {
	if err := ensure(!m.emergency, "contract is paused"); err != nil {
		return err
	}
	amount, err := argUint(args, 0)
	if err != nil {
		return err
	}
	if err := ensure(amount.Sign() > 0, "cannot redeem zero RSV"); err != nil {
		return err
	}
	if err := e.call(m.rsv, "burnFrom", e.sender, amount); err != nil {
		return err
	}
	tokens, weights, err := m.basketContents(e.st)
	if err != nil {
		return err
	}
	amounts, err := collateral.RedeemAmounts(amount, weights)
	if err != nil {
		return revert(err.Error())
	}
	for i, token := range tokens {
		if err := e.call(m.vault, "withdrawTo", token, amounts[i], e.sender); err != nil {
			return err
		}
	}
	return m.requireCollateralized(e.st)
}

func (m *manager) requireCollateralized(st *state) error {
	ok, err := m.fullyCollateralized(st)
	if err != nil {
		return err
	}
	return ensure(ok, "vault is undercollateralized")
}

func (m *manager) fullyCollateralized(st *state) (bool, error) {
	rsv, err := lookup[*reserve](st, m.rsv)
	if err != nil {
		return false, err
	}
	s, err := rsv.readStore(st)
	if err != nil {
		return false, err
	}
	tokens, weights, err := m.basketContents(st)
	if err != nil {
		return false, err
	}
	for i, token := range tokens {
		t, err := lookup[*basicToken](st, token)
		if err != nil {
			return false, err
		}
		need, err := collateral.Weighted(s.totalSupply, weights[i], collateral.Up)
		if err != nil {
			return false, revert(err.Error())
		}
		if amountOf(t.balances, m.vault).Cmp(need) < 0 {
			return false, nil
		}
	}
	return true, nil
}
