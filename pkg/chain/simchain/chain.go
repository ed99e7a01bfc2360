// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package simchain is a deterministic in-memory chain that hosts simulated
// Reserve contracts. Every transaction is mined in its own block and a
// reverted transaction leaves no state behind.
package simchain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
)

var (
	ErrInjected          = errors.New("injected fault")
	ErrInsufficientFunds = errors.New("insufficient funds for gas")
	ErrUnknownContract   = errors.New("no contract at address")
	ErrUnknownKind       = errors.New("unknown contract kind")
)

// DefaultTxFee is the flat fee charged per transaction: 0.001 ETH.
var DefaultTxFee = big.NewInt(1_000_000_000_000_000)

// Call describes a transaction about to be mined.
type Call struct {
	From     common.Address
	Contract chain.Contract
	Method   string
	Args     []any
}

// Tx is a mined transaction.
type Tx struct {
	Call
	Hash     common.Hash
	Block    uint64
	Reverted bool
}

// Chain is an in-memory chain.Client.
type Chain struct {
	mu      sync.Mutex
	chainID uint64
	fee     *big.Int
	block   uint64
	nonces  map[common.Address]uint64
	st      *state
	faults  []func(Call) bool
	history []Tx
}

type Option func(*Chain)

// WithTxFee sets the flat per-transaction fee.
func WithTxFee(fee *big.Int) Option {
	return func(c *Chain) {
		c.fee = new(big.Int).Set(fee)
	}
}

// WithChainID sets the chain ID reported by the chain.
func WithChainID(id uint64) Option {
	return func(c *Chain) {
		c.chainID = id
	}
}

func New(opts ...Option) *Chain {
	c := &Chain{
		chainID: constants.SimChainID,
		fee:     new(big.Int).Set(DefaultTxFee),
		nonces:  map[common.Address]uint64{},
		st:      newState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chain) ChainID() uint64 {
	return c.chainID
}

// BlockNumber returns the number of the last mined block.
func (c *Chain) BlockNumber() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

// Fund credits amount wei to account.
func (c *Chain) Fund(account common.Address, amount *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.credit(account, amount)
}

// FailWhen makes every transaction matching pred fail before it is mined.
func (c *Chain) FailWhen(pred func(Call) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = append(c.faults, pred)
}

func (c *Chain) ClearFaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = nil
}

// History returns every mined transaction, in block order.
func (c *Chain) History() []Tx {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Tx, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Chain) BalanceOf(_ context.Context, account common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.st.balance(account)), nil
}

func (c *Chain) Deploy(
	ctx context.Context,
	kind chain.Kind,
	from common.Address,
	args ...any,
) (chain.Contract, *types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return chain.Contract{}, nil, err
	}
	ctor, ok := constructors[kind]
	if !ok {
		return chain.Contract{}, nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := common.CreateAddress(from, c.nonces[from])
	deployed := chain.Contract{Kind: kind, Address: addr}
	call := Call{From: from, Contract: deployed, Method: "constructor", Args: args}
	receipt, err := c.mine(call, func(e *env) error {
		e.self = addr
		k, err := ctor(e, args)
		if err != nil {
			return err
		}
		e.st.contracts[addr] = k
		return nil
	})
	if err != nil {
		return chain.Contract{}, nil, err
	}
	receipt.ContractAddress = addr
	return deployed, receipt, nil
}

func (c *Chain) Transact(
	ctx context.Context,
	target chain.Contract,
	from common.Address,
	method string,
	args ...any,
) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	call := Call{From: from, Contract: target, Method: method, Args: args}
	return c.mine(call, func(e *env) error {
		return e.exec(target.Address, method, args)
	})
}

func (c *Chain) Read(ctx context.Context, target chain.Contract, method string, args ...any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	k, ok := c.st.contracts[target.Address]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownContract, target.Address.Hex())
	}
	out, err := k.view(c.st, method, args)
	if err != nil {
		return nil, wrapRevert(err, target, method, common.Address{}, common.Hash{})
	}
	return out, nil
}

// mine runs body against a copy of the state and commits the copy only if
// body succeeds. The fee is charged and a block is produced either way.
func (c *Chain) mine(call Call, body func(*env) error) (*types.Receipt, error) {
	for _, fault := range c.faults {
		if fault(call) {
			return nil, fmt.Errorf("%s.%s: %w", call.Contract.Kind, call.Method, ErrInjected)
		}
	}
	if c.st.balance(call.From).Cmp(c.fee) < 0 {
		return nil, fmt.Errorf("%s %s: %w", call.From.Hex(), call.Method, ErrInsufficientFunds)
	}

	c.block++
	nonce := c.nonces[call.From]
	c.nonces[call.From] = nonce + 1
	hash := txHash(call.From, nonce, c.block)
	c.st.debit(call.From, c.fee)

	next := c.st.clone()
	e := &env{st: next, sender: call.From}
	err := body(e)

	tx := Tx{Call: call, Hash: hash, Block: c.block, Reverted: err != nil}
	c.history = append(c.history, tx)

	receipt := &types.Receipt{
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(c.block),
		GasUsed:     21000,
	}
	if err != nil {
		receipt.Status = types.ReceiptStatusFailed
		return nil, wrapRevert(err, call.Contract, call.Method, call.From, hash)
	}
	receipt.Status = types.ReceiptStatusSuccessful
	c.st = next
	return receipt, nil
}

func wrapRevert(err error, target chain.Contract, method string, from common.Address, hash common.Hash) error {
	var r revert
	if !errors.As(err, &r) {
		return err
	}
	return &chain.RevertError{
		Contract: target,
		Method:   method,
		From:     from,
		Reason:   string(r),
		TxHash:   hash,
	}
}

func txHash(from common.Address, nonce uint64, block uint64) common.Hash {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], nonce)
	binary.BigEndian.PutUint64(buf[8:], block)
	return common.Keccak256Hash(from.Bytes(), buf)
}
