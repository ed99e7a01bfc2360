// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// GetSmartContractCallResult extracts the single typed return value of a call.
func GetSmartContractCallResult[T any](methodName string, out []any) (T, error) {
	var zero T
	if len(out) != 1 {
		return zero, fmt.Errorf("%s: expected 1 return value, got %d", methodName, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s: expected return type %T, got %T", methodName, zero, out[0])
	}
	return v, nil
}

func callToMethod[T any](ctx context.Context, client chain.Client, c chain.Contract, method string, args ...any) (T, error) {
	out, err := client.Read(ctx, c, method, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return GetSmartContractCallResult[T](method, out)
}

// base is embedded by every typed wrapper.
type base struct {
	client chain.Client
	ref    chain.Contract
}

func (b base) Ref() chain.Contract {
	return b.ref
}

func (b base) Address() common.Address {
	return b.ref.Address
}

func (b base) tx(ctx context.Context, from common.Address, method string, args ...any) (*types.Receipt, error) {
	return b.client.Transact(ctx, b.ref, from, method, args...)
}

func (b base) address(ctx context.Context, method string, args ...any) (common.Address, error) {
	return callToMethod[common.Address](ctx, b.client, b.ref, method, args...)
}

func (b base) uint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	return callToMethod[*big.Int](ctx, b.client, b.ref, method, args...)
}

func (b base) bool(ctx context.Context, method string, args ...any) (bool, error) {
	return callToMethod[bool](ctx, b.client, b.ref, method, args...)
}
