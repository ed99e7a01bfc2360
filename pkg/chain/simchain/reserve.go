// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

const kindEternalStorage chain.Kind = "ReserveEternalStorage"

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// eternalStorage holds the Reserve's balances so that the token logic can be
// replaced without moving funds. Only reserveAddress may write to it.
type eternalStorage struct {
	ownable
	reserveAddress common.Address
	totalSupply    *big.Int
	balances       map[common.Address]*big.Int
	allowances     map[common.Address]map[common.Address]*big.Int
}

func (*eternalStorage) kind() chain.Kind { return kindEternalStorage }

func (s *eternalStorage) clone() contract {
	return &eternalStorage{
		ownable:        s.ownable,
		reserveAddress: s.reserveAddress,
		totalSupply:    new(big.Int).Set(s.totalSupply),
		balances:       cloneAmounts(s.balances),
		allowances:     cloneAllowances(s.allowances),
	}
}

func (s *eternalStorage) view(_ *state, method string, args []any) ([]any, error) {
	if out, ok := s.ownableView(method); ok {
		return out, nil
	}
	switch method {
	case "reserveAddress":
		return []any{s.reserveAddress}, nil
	case "balance":
		holder, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(amountOf(s.balances, holder))}, nil
	}
	return nil, noMethod(s.kind(), method)
}

func (s *eternalStorage) exec(e *env, method string, args []any) error {
	if ok, err := s.ownableExec(e, method, args); ok {
		return err
	}
	return noMethod(s.kind(), method)
}

type reserve struct {
	ownable
	legacy       bool
	minter       common.Address
	pauser       common.Address
	feeRecipient common.Address
	relayer      common.Address
	txFee        common.Address
	maxSupply    *big.Int
	paused       bool
	storage      common.Address
}

func newReserve(legacy bool) func(*env, []any) (contract, error) {
	return func(e *env, _ []any) (contract, error) {
		storageAddr := common.CreateAddress(e.self, 1)
		e.st.contracts[storageAddr] = &eternalStorage{
			ownable:        ownable{owner: e.sender},
			reserveAddress: e.self,
			totalSupply:    new(big.Int),
			balances:       map[common.Address]*big.Int{},
			allowances:     map[common.Address]map[common.Address]*big.Int{},
		}
		return &reserve{
			ownable:      ownable{owner: e.sender},
			legacy:       legacy,
			minter:       e.sender,
			pauser:       e.sender,
			feeRecipient: e.sender,
			maxSupply:    new(big.Int).Set(maxUint256),
			paused:       true,
			storage:      storageAddr,
		}, nil
	}
}

func (r *reserve) kind() chain.Kind {
	if r.legacy {
		return chain.KindDeployedReserve
	}
	return chain.KindReserve
}

func (r *reserve) clone() contract {
	cp := *r
	cp.maxSupply = new(big.Int).Set(r.maxSupply)
	return &cp
}

// readStore returns the eternal storage for reads.
func (r *reserve) readStore(st *state) (*eternalStorage, error) {
	return lookup[*eternalStorage](st, r.storage)
}

// writeStore returns the eternal storage for writes, which only the reserve
// it currently belongs to may perform.
func (r *reserve) writeStore(e *env) (*eternalStorage, error) {
	s, err := r.readStore(e.st)
	if err != nil {
		return nil, err
	}
	if err := ensure(s.reserveAddress == e.self, "onlyReserveAddress"); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *reserve) view(st *state, method string, args []any) ([]any, error) {
	if out, ok := r.ownableView(method); ok {
		return out, nil
	}
	switch method {
	case "name":
		return []any{"Reserve"}, nil
	case "symbol":
		return []any{"RSV"}, nil
	case "decimals":
		return []any{uint8(18)}, nil
	case "minter":
		return []any{r.minter}, nil
	case "pauser":
		return []any{r.pauser}, nil
	case "feeRecipient":
		return []any{r.feeRecipient}, nil
	case "trustedTxFee":
		return []any{r.txFee}, nil
	case "maxSupply":
		return []any{new(big.Int).Set(r.maxSupply)}, nil
	case "paused":
		return []any{r.paused}, nil
	case "getEternalStorageAddress":
		return []any{r.storage}, nil
	case "trustedRelayer":
		if !r.legacy {
			return []any{r.relayer}, nil
		}
	case "totalSupply":
		s, err := r.readStore(st)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(s.totalSupply)}, nil
	case "balanceOf":
		holder, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := r.readStore(st)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(amountOf(s.balances, holder))}, nil
	case "allowance":
		holder, err := argAddress(args, 0)
		if err != nil {
			return nil, err
		}
		spender, err := argAddress(args, 1)
		if err != nil {
			return nil, err
		}
		s, err := r.readStore(st)
		if err != nil {
			return nil, err
		}
		return []any{new(big.Int).Set(allowanceOf(s.allowances, holder, spender))}, nil
	}
	return nil, noMethod(r.kind(), method)
}

func (r *reserve) notPaused() error {
	return ensure(!r.paused, "contract is paused")
}

func (r *reserve) exec(e *env, method string, args []any) error {
	if ok, err := r.ownableExec(e, method, args); ok {
		return err
	}
	switch method {
	case "changeMinter":
		return r.setRole(args, &r.minter, e.sender == r.owner || e.sender == r.minter, "must be minter or owner")
	case "changePauser":
		return r.setRole(args, &r.pauser, e.sender == r.owner || e.sender == r.pauser, "must be pauser or owner")
	case "changeFeeRecipient":
		return r.setRole(args, &r.feeRecipient, e.sender == r.owner || e.sender == r.feeRecipient, "must be feeRecipient or owner")
	case "changeTxFeeHelper":
		return r.setRole(args, &r.txFee, e.sender == r.owner, "caller is not owner")
	case "changeRelayer":
		if r.legacy {
			break
		}
		return r.setRole(args, &r.relayer, e.sender == r.owner, "caller is not owner")
	case "changeMaxSupply":
		if err := r.onlyOwner(e); err != nil {
			return err
		}
		maxSupply, err := argUint(args, 0)
		if err != nil {
			return err
		}
		r.maxSupply = maxSupply
		return nil
	case "pause", "unpause":
		if err := ensure(e.sender == r.pauser, "must be pauser"); err != nil {
			return err
		}
		r.paused = method == "pause"
		return nil
	case "mint":
		return r.mint(e, args)
	case "burnFrom":
		return r.burnFrom(e, args)
	case "transfer":
		to, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		amount, err := argUint(args, 1)
		if err != nil {
			return err
		}
		return r.transfer(e, e.sender, to, amount)
	case "transferFrom":
		return r.transferFrom(e, args)
	case "approve", "increaseAllowance", "decreaseAllowance":
		return r.approve(e, method, args)
	case "transferEternalStorage":
		if err := r.onlyOwner(e); err != nil {
			return err
		}
		if err := ensure(r.paused, "contract is not paused"); err != nil {
			return err
		}
		next, err := argAddress(args, 0)
		if err != nil {
			return err
		}
		if err := ensure(next != (common.Address{}), "zero address"); err != nil {
			return err
		}
		s, err := r.writeStore(e)
		if err != nil {
			return err
		}
		s.reserveAddress = next
		return nil
	case "acceptUpgrade":
		if r.legacy {
			break
		}
		return r.acceptUpgrade(e, args)
	}
	return noMethod(r.kind(), method)
}

func (r *reserve) setRole(args []any, role *common.Address, allowed bool, reason string) error {
	if err := ensure(allowed, reason); err != nil {
		return err
	}
	next, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	*role = next
	return nil
}

func (r *reserve) mint(e *env, args []any) error {
	if err := ensure(e.sender == r.minter, "must be minter"); err != nil {
		return err
	}
	if err := r.notPaused(); err != nil {
		return err
	}
	to, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	amount, err := argUint(args, 1)
	if err != nil {
		return err
	}
	if err := ensure(to != (common.Address{}), "can't mint to address zero"); err != nil {
		return err
	}
	s, err := r.writeStore(e)
	if err != nil {
		return err
	}
	supply := new(big.Int).Add(s.totalSupply, amount)
	if err := ensure(supply.Cmp(r.maxSupply) <= 0, "max supply exceeded"); err != nil {
		return err
	}
	s.totalSupply = supply
	s.balances[to] = new(big.Int).Add(amountOf(s.balances, to), amount)
	return nil
}

func (r *reserve) burnFrom(e *env, args []any) error {
	if err := ensure(e.sender == r.minter, "must be minter"); err != nil {
		return err
	}
	if err := r.notPaused(); err != nil {
		return err
	}
	from, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	amount, err := argUint(args, 1)
	if err != nil {
		return err
	}
	s, err := r.writeStore(e)
	if err != nil {
		return err
	}
	allowed := allowanceOf(s.allowances, from, e.sender)
	if err := ensure(allowed.Cmp(amount) >= 0, "burn amount exceeds allowance"); err != nil {
		return err
	}
	bal := amountOf(s.balances, from)
	if err := ensure(bal.Cmp(amount) >= 0, "burn amount exceeds balance"); err != nil {
		return err
	}
	setAllowance(s.allowances, from, e.sender, new(big.Int).Sub(allowed, amount))
	s.balances[from] = new(big.Int).Sub(bal, amount)
	s.totalSupply = new(big.Int).Sub(s.totalSupply, amount)
	return nil
}

func (r *reserve) transfer(e *env, from, to common.Address, amount *big.Int) error {
	if err := r.notPaused(); err != nil {
		return err
	}
	if err := ensure(to != (common.Address{}), "can't transfer to address zero"); err != nil {
		return err
	}
	s, err := r.writeStore(e)
	if err != nil {
		return err
	}
	bal := amountOf(s.balances, from)
	if err := ensure(bal.Cmp(amount) >= 0, "transfer amount exceeds balance"); err != nil {
		return err
	}
	s.balances[from] = new(big.Int).Sub(bal, amount)
	s.balances[to] = new(big.Int).Add(amountOf(s.balances, to), amount)
	return nil
}

func (r *reserve) transferFrom(e *env, args []any) error {
	if err := r.notPaused(); err != nil {
		return err
	}
	from, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	to, err := argAddress(args, 1)
	if err != nil {
		return err
	}
	amount, err := argUint(args, 2)
	if err != nil {
		return err
	}
	s, err := r.writeStore(e)
	if err != nil {
		return err
	}
	allowed := allowanceOf(s.allowances, from, e.sender)
	if err := ensure(allowed.Cmp(amount) >= 0, "transfer amount exceeds allowance"); err != nil {
		return err
	}
	setAllowance(s.allowances, from, e.sender, new(big.Int).Sub(allowed, amount))
	return r.transfer(e, from, to, amount)
}

func (r *reserve) approve(e *env, method string, args []any) error {
	if err := r.notPaused(); err != nil {
		return err
	}
	spender, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	amount, err := argUint(args, 1)
	if err != nil {
		return err
	}
	s, err := r.writeStore(e)
	if err != nil {
		return err
	}
	current := allowanceOf(s.allowances, e.sender, spender)
	switch method {
	case "increaseAllowance":
		amount = new(big.Int).Add(current, amount)
		if err := ensure(amount.Cmp(maxUint256) <= 0, "allowance overflow"); err != nil {
			return err
		}
	case "decreaseAllowance":
		if err := ensure(current.Cmp(amount) >= 0, "allowance underflow"); err != nil {
			return err
		}
		amount = new(big.Int).Sub(current, amount)
	}
	setAllowance(s.allowances, e.sender, spender, amount)
	return nil
}

// acceptUpgrade takes over a previous reserve that has nominated this one as
// its owner: it adopts the previous eternal storage and max supply, unpauses
// itself, then pauses the previous reserve and strips all of its roles.
func (r *reserve) acceptUpgrade(e *env, args []any) error {
	if err := r.onlyOwner(e); err != nil {
		return err
	}
	prev, err := argAddress(args, 0)
	if err != nil {
		return err
	}
	if err := ensure(prev != e.self, "cannot upgrade from self"); err != nil {
		return err
	}
	zero := common.Address{}
	steps := []struct {
		method string
		args   []any
	}{
		{"acceptOwnership", nil},
		{"changePauser", []any{e.self}},
		{"pause", nil},
		{"transferEternalStorage", []any{e.self}},
		{"changeMinter", []any{zero}},
		{"changePauser", []any{zero}},
		{"renounceOwnership", nil},
	}
	for _, step := range steps {
		if err := e.call(prev, step.method, step.args...); err != nil {
			return err
		}
	}
	out, err := e.read(prev, "getEternalStorageAddress")
	if err != nil {
		return err
	}
	r.storage = out[0].(common.Address)
	out, err = e.read(prev, "maxSupply")
	if err != nil {
		return err
	}
	r.maxSupply = out[0].(*big.Int)
	r.paused = false
	return nil
}
