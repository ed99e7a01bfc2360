// Code generated manually for testing. DO NOT EDIT.

package mocks

import (
	"context"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of chain.Client
type Client struct {
	mock.Mock
}

var _ chain.Client = (*Client)(nil)

func (m *Client) Deploy(ctx context.Context, kind chain.Kind, from common.Address, args ...any) (chain.Contract, *types.Receipt, error) {
	ret := m.Called(ctx, kind, from, args)
	var receipt *types.Receipt
	if r := ret.Get(1); r != nil {
		receipt = r.(*types.Receipt)
	}
	return ret.Get(0).(chain.Contract), receipt, ret.Error(2)
}

func (m *Client) Transact(ctx context.Context, c chain.Contract, from common.Address, method string, args ...any) (*types.Receipt, error) {
	ret := m.Called(ctx, c, from, method, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*types.Receipt), ret.Error(1)
}

func (m *Client) Read(ctx context.Context, c chain.Contract, method string, args ...any) ([]any, error) {
	ret := m.Called(ctx, c, method, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]any), ret.Error(1)
}

func (m *Client) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	ret := m.Called(ctx, account)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*big.Int), ret.Error(1)
}
