// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// revert is a contract-level rejection. The chain turns it into a
// *chain.RevertError.
type revert string

func (r revert) Error() string {
	return string(r)
}

func noMethod(kind chain.Kind, method string) error {
	return revert(fmt.Sprintf("%s has no method %s", kind, method))
}

type contract interface {
	kind() chain.Kind
	clone() contract
	view(st *state, method string, args []any) ([]any, error)
	exec(e *env, method string, args []any) error
}

type state struct {
	balances  map[common.Address]*big.Int
	contracts map[common.Address]contract
}

func newState() *state {
	return &state{
		balances:  map[common.Address]*big.Int{},
		contracts: map[common.Address]contract{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for addr, bal := range s.balances {
		out.balances[addr] = new(big.Int).Set(bal)
	}
	for addr, k := range s.contracts {
		out.contracts[addr] = k.clone()
	}
	return out
}

func (s *state) balance(account common.Address) *big.Int {
	if bal, ok := s.balances[account]; ok {
		return bal
	}
	return new(big.Int)
}

func (s *state) credit(account common.Address, amount *big.Int) {
	s.balances[account] = new(big.Int).Add(s.balance(account), amount)
}

func (s *state) debit(account common.Address, amount *big.Int) {
	s.balances[account] = new(big.Int).Sub(s.balance(account), amount)
}

// env is one call frame: sender is msg.sender and self is the executing
// contract.
type env struct {
	st     *state
	sender common.Address
	self   common.Address
}

// exec runs a top-level call from the transaction sender.
func (e *env) exec(to common.Address, method string, args []any) error {
	return e.invoke(e.sender, to, method, args)
}

// call runs a nested call with the executing contract as msg.sender.
func (e *env) call(to common.Address, method string, args ...any) error {
	return e.invoke(e.self, to, method, args)
}

func (e *env) read(to common.Address, method string, args ...any) ([]any, error) {
	k, ok := e.st.contracts[to]
	if !ok {
		return nil, revert("call to non-contract " + to.Hex())
	}
	return k.view(e.st, method, args)
}

func (e *env) invoke(sender, to common.Address, method string, args []any) error {
	k, ok := e.st.contracts[to]
	if !ok {
		return revert("call to non-contract " + to.Hex())
	}
	return k.exec(&env{st: e.st, sender: sender, self: to}, method, args)
}

func lookup[T contract](st *state, addr common.Address) (T, error) {
	k, ok := st.contracts[addr].(T)
	if !ok {
		var zero T
		return zero, revert("unexpected contract at " + addr.Hex())
	}
	return k, nil
}

func ensure(cond bool, reason string) error {
	if !cond {
		return revert(reason)
	}
	return nil
}

func argAt(args []any, i int) (any, error) {
	if i >= len(args) {
		return nil, revert(fmt.Sprintf("missing argument %d", i))
	}
	return args[i], nil
}

func argAddress(args []any, i int) (common.Address, error) {
	v, err := argAt(args, i)
	if err != nil {
		return common.Address{}, err
	}
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case *common.Address:
		return *a, nil
	default:
		return common.Address{}, revert(fmt.Sprintf("argument %d: want address, got %T", i, v))
	}
}

func argUint(args []any, i int) (*big.Int, error) {
	v, err := argAt(args, i)
	if err != nil {
		return nil, err
	}
	var n *big.Int
	switch a := v.(type) {
	case *big.Int:
		n = new(big.Int).Set(a)
	case int:
		n = big.NewInt(int64(a))
	case int64:
		n = big.NewInt(a)
	case uint64:
		n = new(big.Int).SetUint64(a)
	default:
		return nil, revert(fmt.Sprintf("argument %d: want uint256, got %T", i, v))
	}
	if n.Sign() < 0 || n.BitLen() > 256 {
		return nil, revert(fmt.Sprintf("argument %d: out of uint256 range", i))
	}
	return n, nil
}

func argBool(args []any, i int) (bool, error) {
	v, err := argAt(args, i)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, revert(fmt.Sprintf("argument %d: want bool, got %T", i, v))
	}
	return b, nil
}

func argAddresses(args []any, i int) ([]common.Address, error) {
	v, err := argAt(args, i)
	if err != nil {
		return nil, err
	}
	addrs, ok := v.([]common.Address)
	if !ok {
		return nil, revert(fmt.Sprintf("argument %d: want address[], got %T", i, v))
	}
	return append([]common.Address(nil), addrs...), nil
}

func argUints(args []any, i int) ([]*big.Int, error) {
	v, err := argAt(args, i)
	if err != nil {
		return nil, err
	}
	nums, ok := v.([]*big.Int)
	if !ok {
		return nil, revert(fmt.Sprintf("argument %d: want uint256[], got %T", i, v))
	}
	out := make([]*big.Int, len(nums))
	for j, n := range nums {
		out[j] = new(big.Int).Set(n)
	}
	return out, nil
}

func cloneAmounts(m map[common.Address]*big.Int) map[common.Address]*big.Int {
	out := make(map[common.Address]*big.Int, len(m))
	for k, v := range m {
		out[k] = new(big.Int).Set(v)
	}
	return out
}

func cloneAllowances(m map[common.Address]map[common.Address]*big.Int) map[common.Address]map[common.Address]*big.Int {
	out := make(map[common.Address]map[common.Address]*big.Int, len(m))
	for k, v := range m {
		out[k] = cloneAmounts(v)
	}
	return out
}

func amountOf(m map[common.Address]*big.Int, a common.Address) *big.Int {
	if v, ok := m[a]; ok {
		return v
	}
	return new(big.Int)
}

func allowanceOf(m map[common.Address]map[common.Address]*big.Int, owner, spender common.Address) *big.Int {
	if inner, ok := m[owner]; ok {
		return amountOf(inner, spender)
	}
	return new(big.Int)
}

func setAllowance(m map[common.Address]map[common.Address]*big.Int, owner, spender common.Address, v *big.Int) {
	inner, ok := m[owner]
	if !ok {
		inner = map[common.Address]*big.Int{}
		m[owner] = inner
	}
	inner[spender] = new(big.Int).Set(v)
}
