// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/stretchr/testify/require"
)

func TestReserveConstructorDefaults(t *testing.T) {
	c := newFundedChain(t, alice)
	rsv, _, err := c.Deploy(context.Background(), chain.KindReserve, alice)
	require.NoError(t, err)

	require.Equal(t, true, readOne(t, c, rsv, "paused"))
	require.Equal(t, alice, readOne(t, c, rsv, "minter"))
	require.Equal(t, alice, readOne(t, c, rsv, "pauser"))
	require.Equal(t, alice, readOne(t, c, rsv, "feeRecipient"))
	require.Equal(t, common.Address{}, readOne(t, c, rsv, "trustedTxFee"))
	require.Equal(t, common.Address{}, readOne(t, c, rsv, "trustedRelayer"))
	require.Equal(t, maxUint256, readOne(t, c, rsv, "maxSupply"))
	require.NotEqual(t, common.Address{}, readOne(t, c, rsv, "getEternalStorageAddress"))
	require.Equal(t, new(big.Int), readOne(t, c, rsv, "totalSupply"))
}

func TestReserveRolePermissions(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice, bob, carol)
	rsv, _, err := c.Deploy(ctx, chain.KindReserve, alice)
	require.NoError(t, err)

	for _, method := range []string{"changeMinter", "changePauser", "changeFeeRecipient", "changeTxFeeHelper", "changeRelayer"} {
		_, err = c.Transact(ctx, rsv, bob, method, bob)
		require.True(t, chain.IsRevert(err), method)
	}
	_, err = c.Transact(ctx, rsv, bob, "changeMaxSupply", big.NewInt(1))
	require.True(t, chain.IsRevert(err))

	// a role holder may hand its own role on
	_, err = c.Transact(ctx, rsv, alice, "changePauser", bob)
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, bob, "changePauser", carol)
	require.NoError(t, err)

	// only the pauser may unpause, even over the owner
	_, err = c.Transact(ctx, rsv, alice, "unpause")
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, rsv, carol, "unpause")
	require.NoError(t, err)
	require.Equal(t, false, readOne(t, c, rsv, "paused"))
}

func TestLegacyReserveHasNoUpgradePath(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice)
	rsv, _, err := c.Deploy(ctx, chain.KindDeployedReserve, alice)
	require.NoError(t, err)

	_, err = c.Transact(ctx, rsv, alice, "changeRelayer", bob)
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, rsv, alice, "acceptUpgrade", bob)
	require.True(t, chain.IsRevert(err))
	_, err = c.Read(ctx, rsv, "trustedRelayer")
	require.True(t, chain.IsRevert(err))
}

func TestReservePausingBlocksTransfers(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice, bob)
	rsv, _, err := c.Deploy(ctx, chain.KindReserve, alice)
	require.NoError(t, err)

	_, err = c.Transact(ctx, rsv, alice, "mint", bob, big.NewInt(100))
	require.True(t, chain.IsRevert(err))

	_, err = c.Transact(ctx, rsv, alice, "unpause")
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, alice, "mint", bob, big.NewInt(100))
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, alice, "pause")
	require.NoError(t, err)

	_, err = c.Transact(ctx, rsv, bob, "transfer", alice, big.NewInt(1))
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, rsv, bob, "approve", alice, big.NewInt(1))
	require.True(t, chain.IsRevert(err))
	require.Equal(t, big.NewInt(100), readOne(t, c, rsv, "balanceOf", bob))
}

func TestTransferEternalStorageGuards(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice)
	rsv, _, err := c.Deploy(ctx, chain.KindReserve, alice)
	require.NoError(t, err)

	_, err = c.Transact(ctx, rsv, alice, "transferEternalStorage", common.Address{})
	require.True(t, chain.IsRevert(err))

	_, err = c.Transact(ctx, rsv, alice, "unpause")
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, alice, "transferEternalStorage", bob)
	require.True(t, chain.IsRevert(err))
}

func TestReserveMaxSupply(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice)
	rsv, _, err := c.Deploy(ctx, chain.KindReserve, alice)
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, alice, "unpause")
	require.NoError(t, err)
	_, err = c.Transact(ctx, rsv, alice, "changeMaxSupply", big.NewInt(10))
	require.NoError(t, err)

	_, err = c.Transact(ctx, rsv, alice, "mint", bob, big.NewInt(11))
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, rsv, alice, "mint", bob, big.NewInt(10))
	require.NoError(t, err)
}

func TestAcceptUpgradeRetiresPreviousReserve(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice, bob, carol)

	old, _, err := c.Deploy(ctx, chain.KindDeployedReserve, alice)
	require.NoError(t, err)
	_, err = c.Transact(ctx, old, alice, "unpause")
	require.NoError(t, err)
	_, err = c.Transact(ctx, old, alice, "mint", bob, big.NewInt(100))
	require.NoError(t, err)

	next, _, err := c.Deploy(ctx, chain.KindReserve, carol)
	require.NoError(t, err)

	// acceptUpgrade fails until the old reserve nominates the new one
	_, err = c.Transact(ctx, next, carol, "acceptUpgrade", old.Address)
	require.True(t, chain.IsRevert(err))

	_, err = c.Transact(ctx, old, alice, "nominateNewOwner", next.Address)
	require.NoError(t, err)
	_, err = c.Transact(ctx, next, bob, "acceptUpgrade", old.Address)
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, next, carol, "acceptUpgrade", old.Address)
	require.NoError(t, err)

	require.Equal(t, readOne(t, c, old, "getEternalStorageAddress"), readOne(t, c, next, "getEternalStorageAddress"))
	require.Equal(t, big.NewInt(100), readOne(t, c, next, "balanceOf", bob))
	require.Equal(t, big.NewInt(100), readOne(t, c, next, "totalSupply"))

	zero := common.Address{}
	require.Equal(t, zero, readOne(t, c, old, "owner"))
	require.Equal(t, zero, readOne(t, c, old, "minter"))
	require.Equal(t, zero, readOne(t, c, old, "pauser"))
	require.Equal(t, true, readOne(t, c, old, "paused"))

	for _, method := range []string{"changeMinter", "changePauser", "nominateNewOwner"} {
		_, err = c.Transact(ctx, old, alice, method, alice)
		require.True(t, chain.IsRevert(err), method)
	}
	_, err = c.Transact(ctx, old, alice, "unpause")
	require.True(t, chain.IsRevert(err))
	_, err = c.Transact(ctx, old, bob, "transfer", alice, big.NewInt(1))
	require.True(t, chain.IsRevert(err))

	// the upgrade leaves the new reserve unpaused
	require.Equal(t, false, readOne(t, c, next, "paused"))
	_, err = c.Transact(ctx, next, bob, "transfer", alice, big.NewInt(10))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(10), readOne(t, c, next, "balanceOf", alice))
}

type system struct {
	tokens  []chain.Contract
	basket  chain.Contract
	vault   chain.Contract
	rsv     chain.Contract
	manager chain.Contract
}

// deploySystem deploys and wires a live system owned by alice and operated by bob.
func deploySystem(t *testing.T, c *Chain) system {
	t.Helper()
	ctx := context.Background()
	var s system
	addrs := []common.Address{}
	for range 3 {
		tok, _, err := c.Deploy(ctx, chain.KindERC20, alice)
		require.NoError(t, err)
		s.tokens = append(s.tokens, tok)
		addrs = append(addrs, tok.Address)
	}
	var err error
	s.basket, _, err = c.Deploy(ctx, chain.KindBasket, alice, common.Address{}, addrs, collateral.BasketWeights())
	require.NoError(t, err)
	s.vault, _, err = c.Deploy(ctx, chain.KindVault, alice)
	require.NoError(t, err)
	s.rsv, _, err = c.Deploy(ctx, chain.KindReserve, alice)
	require.NoError(t, err)
	factory, _, err := c.Deploy(ctx, chain.KindProposalFactory, alice)
	require.NoError(t, err)
	s.manager, _, err = c.Deploy(ctx, chain.KindManager, alice,
		s.vault.Address, s.rsv.Address, factory.Address, s.basket.Address, bob, new(big.Int))
	require.NoError(t, err)

	steps := []struct {
		target chain.Contract
		from   common.Address
		method string
		args   []any
	}{
		{s.vault, alice, "changeManager", []any{s.manager.Address}},
		{s.rsv, alice, "changeMinter", []any{s.manager.Address}},
		{s.rsv, alice, "changePauser", []any{bob}},
		{s.rsv, alice, "changeFeeRecipient", []any{bob}},
		{s.rsv, bob, "unpause", nil},
		{s.manager, bob, "setEmergency", []any{false}},
	}
	for _, step := range steps {
		_, err := c.Transact(ctx, step.target, step.from, step.method, step.args...)
		require.NoError(t, err, step.method)
	}
	return s
}

func (s system) approveIssue(t *testing.T, c *Chain, amount *big.Int) {
	t.Helper()
	amounts, err := collateral.IssueAmounts(amount, new(big.Int), collateral.BasketWeights())
	require.NoError(t, err)
	for i, tok := range s.tokens {
		_, err := c.Transact(context.Background(), tok, alice, "approve", s.manager.Address, amounts[i])
		require.NoError(t, err)
	}
}

func TestManagerStartsInEmergency(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice)
	m, _, err := c.Deploy(ctx, chain.KindManager, alice, bob, bob, bob, bob, bob, new(big.Int))
	require.NoError(t, err)
	require.Equal(t, true, readOne(t, c, m, "emergency"))
	require.Equal(t, new(big.Int), readOne(t, c, m, "proposalsLength"))

	_, err = c.Transact(ctx, m, alice, "setEmergency", false)
	require.True(t, chain.IsRevert(err))

	_, _, err = c.Deploy(ctx, chain.KindManager, alice, bob, bob, bob, bob, bob, big.NewInt(1001))
	require.True(t, chain.IsRevert(err))
}

func TestManagerIssueAndRedeem(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice, bob)
	s := deploySystem(t, c)

	amount := collateral.MustParse("300000000000000000000")
	_, err := c.Transact(ctx, s.manager, alice, "issue", amount)
	require.True(t, chain.IsRevert(err), "issue without approvals")

	s.approveIssue(t, c, amount)
	_, err = c.Transact(ctx, s.manager, alice, "issue", amount)
	require.NoError(t, err)
	require.Equal(t, amount, readOne(t, c, s.rsv, "totalSupply"))
	require.Equal(t, big.NewInt(100000200), readOne(t, c, s.tokens[0], "balanceOf", s.vault.Address))
	require.Equal(t, true, readOne(t, c, s.manager, "isFullyCollateralized"))

	redeem := collateral.MustParse("200000000000000000000")
	_, err = c.Transact(ctx, s.manager, alice, "redeem", redeem)
	require.True(t, chain.IsRevert(err), "redeem without allowance")

	_, err = c.Transact(ctx, s.rsv, alice, "approve", s.manager.Address, redeem)
	require.NoError(t, err)
	_, err = c.Transact(ctx, s.manager, alice, "redeem", redeem)
	require.NoError(t, err)
	require.Equal(t, collateral.MustParse("100000000000000000000"), readOne(t, c, s.rsv, "totalSupply"))
	require.Equal(t, big.NewInt(33333400), readOne(t, c, s.tokens[0], "balanceOf", s.vault.Address))

	tooMuch := collateral.MustParse("100000000000000000001")
	_, err = c.Transact(ctx, s.rsv, alice, "approve", s.manager.Address, tooMuch)
	require.NoError(t, err)
	_, err = c.Transact(ctx, s.manager, alice, "redeem", tooMuch)
	require.True(t, chain.IsRevert(err))
}

func TestManagerEmergencyBlocksIssuance(t *testing.T) {
	ctx := context.Background()
	c := newFundedChain(t, alice, bob)
	s := deploySystem(t, c)
	amount := big.NewInt(1_000_000)
	s.approveIssue(t, c, amount)

	_, err := c.Transact(ctx, s.manager, bob, "setEmergency", true)
	require.NoError(t, err)
	_, err = c.Transact(ctx, s.manager, alice, "issue", amount)
	require.True(t, chain.IsRevert(err))

	_, err = c.Transact(ctx, s.manager, bob, "setEmergency", false)
	require.NoError(t, err)
	_, err = c.Transact(ctx, s.manager, bob, "setIssuancePaused", true)
	require.NoError(t, err)
	_, err = c.Transact(ctx, s.manager, alice, "issue", amount)
	require.True(t, chain.IsRevert(err))
}

func TestManagerQuotesMatchCollateralMath(t *testing.T) {
	c := newFundedChain(t, alice, bob)
	s := deploySystem(t, c)
	amount := collateral.MustParse("300000000000000000000")

	issue, err := collateral.IssueAmounts(amount, new(big.Int), collateral.BasketWeights())
	require.NoError(t, err)
	redeem, err := collateral.RedeemAmounts(amount, collateral.BasketWeights())
	require.NoError(t, err)

	got := readOne(t, c, s.manager, "toIssue", amount)
	require.Equal(t, issue, got)
	got = readOne(t, c, s.manager, "toRedeem", amount)
	require.Equal(t, redeem, got)
}
