// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/internal/mocks"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	rsvRef    = chain.Contract{Kind: chain.KindReserve, Address: common.HexToAddress("0xaa")}
	ownerAddr = common.HexToAddress("0x01")
	otherAddr = common.HexToAddress("0x02")
)

func TestHandoffReads(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		owner   common.Address
		nominee common.Address
		want    contract.HandoffStatus
	}{
		{"done", ownerAddr, common.Address{}, contract.HandoffDone},
		{"pending", otherAddr, ownerAddr, contract.HandoffPending},
		{"none", otherAddr, otherAddr, contract.HandoffNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &mocks.Client{}
			client.On("Read", ctx, rsvRef, "owner", []any(nil)).Return([]any{tc.owner}, nil)
			client.On("Read", ctx, rsvRef, "nominatedOwner", []any(nil)).Return([]any{tc.nominee}, nil).Maybe()

			got, err := contract.Handoff(ctx, contract.NewOwnable(client, rsvRef), ownerAddr)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			client.AssertExpectations(t)
		})
	}
}

func TestReadErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	client := &mocks.Client{}
	client.On("Read", ctx, rsvRef, "owner", mock.Anything).Return(nil, boom)

	_, err := contract.Handoff(ctx, contract.NewOwnable(client, rsvRef), ownerAddr)
	require.ErrorIs(t, err, boom)
	client.AssertNotCalled(t, "Read", ctx, rsvRef, "nominatedOwner", mock.Anything)
}

func TestReserveTransactArgs(t *testing.T) {
	ctx := context.Background()
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(7)}
	client := &mocks.Client{}
	client.On("Transact", ctx, rsvRef, ownerAddr, "changeMinter", []any{otherAddr}).Return(receipt, nil).Once()

	got, err := contract.NewReserve(client, rsvRef).ChangeMinter(ctx, ownerAddr, otherAddr)
	require.NoError(t, err)
	require.Same(t, receipt, got)
	client.AssertExpectations(t)
}

func TestUnexpectedReturnType(t *testing.T) {
	ctx := context.Background()
	client := &mocks.Client{}
	client.On("Read", ctx, rsvRef, "paused", []any(nil)).Return([]any{big.NewInt(1)}, nil)

	_, err := contract.NewReserve(client, rsvRef).Paused(ctx)
	require.ErrorContains(t, err, "expected return type bool")
}
