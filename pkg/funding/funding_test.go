// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package funding

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	ownerAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	dailyAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

type balances struct {
	mu  sync.Mutex
	m   map[common.Address]*big.Int
	err error
}

func (b *balances) BalanceOf(_ context.Context, a common.Address) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if v, ok := b.m[a]; ok {
		return new(big.Int).Set(v), nil
	}
	return new(big.Int), nil
}

func (b *balances) set(a common.Address, v int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[a] = big.NewInt(v)
}

// manualClock fires only when the test sends a tick.
type manualClock struct {
	ticks chan time.Time
}

func (c manualClock) After(time.Duration) <-chan time.Time {
	return c.ticks
}

func requirements() []Requirement {
	return []Requirement{
		{Label: "owner", Account: ownerAddr, Minimum: big.NewInt(300)},
		{Label: "daily", Account: dailyAddr, Minimum: big.NewInt(30)},
	}
}

func TestCheck(t *testing.T) {
	b := &balances{m: map[common.Address]*big.Int{}}
	g := NewGate(b, luxlog.NewNoOpLogger())

	shortfalls, err := g.Check(context.Background(), requirements())
	require.ErrorIs(t, err, ErrUnderfunded)
	require.Len(t, shortfalls, 2)
	require.Equal(t, big.NewInt(300), shortfalls[0].Missing())

	b.set(ownerAddr, 300)
	b.set(dailyAddr, 29)
	shortfalls, err = g.Check(context.Background(), requirements())
	require.ErrorIs(t, err, ErrUnderfunded)
	require.Len(t, shortfalls, 1)
	require.Equal(t, "daily", shortfalls[0].Label)
	require.ErrorContains(t, err, "needs 30 wei")

	b.set(dailyAddr, 30)
	shortfalls, err = g.Check(context.Background(), requirements())
	require.NoError(t, err)
	require.Empty(t, shortfalls)
}

func TestCheckPropagatesReadErrors(t *testing.T) {
	boom := errors.New("rpc down")
	g := NewGate(&balances{err: boom}, luxlog.NewNoOpLogger())
	_, err := g.Check(context.Background(), requirements())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrUnderfunded)
}

func TestAwaitPollsUntilFunded(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &balances{m: map[common.Address]*big.Int{}}
	clock := manualClock{ticks: make(chan time.Time)}
	waits := make(chan []Shortfall, 10)
	g := NewGate(b, luxlog.NewNoOpLogger())
	g.Clock = clock
	g.OnWait = func(s []Shortfall) { waits <- s }

	done := make(chan error, 1)
	go func() {
		done <- g.Await(context.Background(), requirements())
	}()

	require.Len(t, <-waits, 2)
	b.set(ownerAddr, 1000)
	clock.ticks <- time.Now()

	require.Len(t, <-waits, 1)
	b.set(dailyAddr, 1000)
	clock.ticks <- time.Now()

	require.NoError(t, <-done)
	require.Empty(t, waits)
}

func TestAwaitReturnsImmediatelyWhenFunded(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &balances{m: map[common.Address]*big.Int{}}
	b.set(ownerAddr, 300)
	b.set(dailyAddr, 30)
	g := NewGate(b, luxlog.NewNoOpLogger())
	g.Clock = manualClock{}
	require.NoError(t, g.Await(context.Background(), requirements()))
}

func TestAwaitStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := &balances{m: map[common.Address]*big.Int{}}
	g := NewGate(b, luxlog.NewNoOpLogger())
	g.Clock = manualClock{ticks: make(chan time.Time)}

	ctx, cancel := context.WithCancel(context.Background())
	waited := make(chan struct{})
	g.OnWait = func([]Shortfall) { close(waited) }

	done := make(chan error, 1)
	go func() {
		done <- g.Await(ctx, requirements())
	}()
	<-waited
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, ErrUnderfunded)
}

func TestWithTemp(t *testing.T) {
	require := require.New(t)
	tempAddr := common.HexToAddress("0x3000000000000000000000000000000000000003")

	require.Len(WithTemp(requirements(), tempAddr, nil), 2)
	require.Len(WithTemp(requirements(), tempAddr, new(big.Int)), 2)

	reqs := WithTemp(requirements(), tempAddr, big.NewInt(5))
	require.Len(reqs, 3)
	require.Equal(Requirement{Label: "temp", Account: tempAddr, Minimum: big.NewInt(5)}, reqs[2])

	b := &balances{m: map[common.Address]*big.Int{}}
	b.set(ownerAddr, 300)
	b.set(dailyAddr, 30)
	b.set(tempAddr, 4)
	shortfalls, err := NewGate(b, luxlog.NewNoOpLogger()).Check(context.Background(), reqs)
	require.ErrorIs(err, ErrUnderfunded)
	require.Len(shortfalls, 1)
	require.Equal("temp", shortfalls[0].Label)
	require.Equal(big.NewInt(1), shortfalls[0].Missing())
}
