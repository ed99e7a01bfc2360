// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package evm implements chain.Client over JSON-RPC.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/geth/ethclient"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"go.uber.org/zap"
)

var ErrUnknownSender = errors.New("no key for sender")

var _ chain.Client = (*Client)(nil)

type Client struct {
	rpc       *ethclient.Client
	chainID   *big.Int
	keys      map[common.Address]*ecdsa.PrivateKey
	artifacts *Artifacts
	log       luxlog.Logger
}

// Dial connects to rpcURL and checks that it serves chainID. A chainID of
// zero accepts whatever the node reports.
func Dial(
	ctx context.Context,
	rpcURL string,
	chainID uint64,
	keys map[common.Address]*ecdsa.PrivateKey,
	artifacts *Artifacts,
	log luxlog.Logger,
) (*Client, error) {
	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	got, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID != 0 && got.Uint64() != chainID {
		rpc.Close()
		return nil, fmt.Errorf("%w: expected %d, got %d", constants.ErrChainIDMismatch, chainID, got.Uint64())
	}
	log.Debug("connected", zap.String("rpc", rpcURL), zap.Uint64("chainID", got.Uint64()))
	return &Client{
		rpc:       rpc,
		chainID:   got,
		keys:      keys,
		artifacts: artifacts,
		log:       log,
	}, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	pk, ok := c.keys[from]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownSender, from.Hex())
	}
	opts, err := bind.NewKeyedTransactorWithChainID(pk, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (c *Client) Deploy(
	ctx context.Context,
	kind chain.Kind,
	from common.Address,
	args ...any,
) (chain.Contract, *types.Receipt, error) {
	art, err := c.artifacts.Get(kind)
	if err != nil {
		return chain.Contract{}, nil, err
	}
	opts, err := c.transactor(ctx, from)
	if err != nil {
		return chain.Contract{}, nil, err
	}
	target := chain.Contract{Kind: kind}
	addr, tx, _, err := bind.DeployContract(opts, art.ABI, art.Bytecode, c.rpc, args...)
	if err != nil {
		return target, nil, classify(err, target, "constructor", from, tx)
	}
	target.Address = addr
	receipt, err := c.wait(ctx, tx, target, "constructor", from)
	if err != nil {
		return target, nil, err
	}
	return target, receipt, nil
}

func (c *Client) Transact(
	ctx context.Context,
	target chain.Contract,
	from common.Address,
	method string,
	args ...any,
) (*types.Receipt, error) {
	bound, err := c.bind(target)
	if err != nil {
		return nil, err
	}
	opts, err := c.transactor(ctx, from)
	if err != nil {
		return nil, err
	}
	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return nil, classify(err, target, method, from, tx)
	}
	return c.wait(ctx, tx, target, method, from)
}

func (c *Client) Read(ctx context.Context, target chain.Contract, method string, args ...any) ([]any, error) {
	bound, err := c.bind(target)
	if err != nil {
		return nil, err
	}
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, classify(err, target, method, common.Address{}, nil)
	}
	return out, nil
}

func (c *Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.rpc.BalanceAt(ctx, account, nil)
}

func (c *Client) bind(target chain.Contract) (*bind.BoundContract, error) {
	art, err := c.artifacts.Get(target.Kind)
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(target.Address, art.ABI, c.rpc, c.rpc, c.rpc), nil
}

func (c *Client) wait(
	ctx context.Context,
	tx *types.Transaction,
	target chain.Contract,
	method string,
	from common.Address,
) (*types.Receipt, error) {
	c.log.Debug("waiting for tx",
		zap.String("contract", target.String()),
		zap.String("method", method),
		zap.String("txHash", tx.Hash().Hex()),
	)
	receipt, err := bind.WaitMined(ctx, c.rpc, tx)
	if err != nil {
		return nil, TransactionError(tx, err, "failed waiting for %s.%s", target.Kind, method)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &chain.RevertError{
			Contract: target,
			Method:   method,
			From:     from,
			TxHash:   tx.Hash(),
		}
	}
	if receipt.EffectiveGasPrice != nil {
		c.log.Debug("tx mined",
			zap.String("txHash", tx.Hash().Hex()),
			zap.Uint64("block", receipt.BlockNumber.Uint64()),
			zap.String("fee", CalculateFeeInEther(receipt.GasUsed, receipt.EffectiveGasPrice)),
		)
	}
	return receipt, nil
}

// dataError is implemented by JSON-RPC errors that carry revert data.
type dataError interface {
	ErrorData() interface{}
}

// classify turns a node-side execution revert into a *chain.RevertError and
// wraps any other error with the transaction it belongs to.
func classify(err error, target chain.Contract, method string, from common.Address, tx *types.Transaction) error {
	reason, reverted := revertReason(err)
	if !reverted {
		return TransactionError(tx, err, "%s.%s", target.Kind, method)
	}
	revertErr := &chain.RevertError{
		Contract: target,
		Method:   method,
		From:     from,
		Reason:   reason,
	}
	if tx != nil {
		revertErr.TxHash = tx.Hash()
	}
	return revertErr
}

func revertReason(err error) (string, bool) {
	var de dataError
	if errors.As(err, &de) {
		if hexData, ok := de.ErrorData().(string); ok {
			if reason, uerr := abi.UnpackRevert(common.FromHex(hexData)); uerr == nil {
				return reason, true
			}
		}
	}
	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx+len("execution reverted"):], ":")
		return strings.TrimSpace(reason), true
	}
	return "", false
}
