// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package funding blocks mutating work until the signing accounts hold
// enough ETH to pay for it.
package funding

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrUnderfunded = errors.New("insufficient funds")

// Requirement is a minimum balance for one account.
type Requirement struct {
	Label   string
	Account common.Address
	Minimum *big.Int
}

// Shortfall is a requirement that is not met.
type Shortfall struct {
	Requirement
	Balance *big.Int
}

// Missing is how much wei the account still needs.
func (s Shortfall) Missing() *big.Int {
	return new(big.Int).Sub(s.Minimum, s.Balance)
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s %s has %s wei but needs %s wei", s.Label, s.Account.Hex(), s.Balance, s.Minimum)
}

// Clock abstracts waiting so tests can drive the poll loop.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Gate polls balances until every requirement is met.
type Gate struct {
	Reader   chain.BalanceReader
	Clock    Clock
	Interval time.Duration
	Log      luxlog.Logger
	// OnWait, if set, is called after every round that found a shortfall.
	OnWait func([]Shortfall)
}

func NewGate(reader chain.BalanceReader, log luxlog.Logger) *Gate {
	return &Gate{
		Reader:   reader,
		Clock:    realClock{},
		Interval: constants.FundingPollInterval,
		Log:      log,
	}
}

// Check does a single round and returns ErrUnderfunded, wrapped with the
// shortfalls, if any requirement is not met.
func (g *Gate) Check(ctx context.Context, reqs []Requirement) ([]Shortfall, error) {
	shortfalls, err := g.shortfalls(ctx, reqs)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		return shortfalls, underfunded(shortfalls)
	}
	return nil, nil
}

// Await blocks until every requirement is met or ctx is done. There is no
// other upper bound on the wait: funding is a manual, out-of-band action.
func (g *Gate) Await(ctx context.Context, reqs []Requirement) error {
	clock := g.Clock
	if clock == nil {
		clock = realClock{}
	}
	interval := g.Interval
	if interval <= 0 {
		interval = constants.FundingPollInterval
	}
	for round := 1; ; round++ {
		shortfalls, err := g.shortfalls(ctx, reqs)
		if err != nil {
			return err
		}
		if len(shortfalls) == 0 {
			if round > 1 && g.Log != nil {
				g.Log.Info("accounts funded", zap.Int("rounds", round))
			}
			return nil
		}
		if g.Log != nil {
			for _, s := range shortfalls {
				g.Log.Debug("waiting on ETH",
					zap.String("account", s.Label),
					zap.String("address", s.Account.Hex()),
					zap.String("balance", s.Balance.String()),
					zap.String("minimum", s.Minimum.String()),
				)
			}
		}
		if g.OnWait != nil {
			g.OnWait(shortfalls)
		}
		select {
		case <-ctx.Done():
			return errors.Join(underfunded(shortfalls), ctx.Err())
		case <-clock.After(interval):
		}
	}
}

func (g *Gate) shortfalls(ctx context.Context, reqs []Requirement) ([]Shortfall, error) {
	balances := make([]*big.Int, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		eg.Go(func() error {
			bal, err := g.Reader.BalanceOf(egCtx, req.Account)
			if err != nil {
				return fmt.Errorf("failed to read balance of %s: %w", req.Label, err)
			}
			balances[i] = bal
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var out []Shortfall
	for i, req := range reqs {
		if balances[i].Cmp(req.Minimum) < 0 {
			out = append(out, Shortfall{Requirement: req, Balance: balances[i]})
		}
	}
	return out, nil
}

func underfunded(shortfalls []Shortfall) error {
	parts := make([]string, len(shortfalls))
	for i, s := range shortfalls {
		parts[i] = s.String()
	}
	return fmt.Errorf("%w: %s", ErrUnderfunded, strings.Join(parts, "; "))
}

// WithTemp appends the temp account to reqs when minTemp is positive.
func WithTemp(reqs []Requirement, temp common.Address, minTemp *big.Int) []Requirement {
	if minTemp == nil || minTemp.Sign() <= 0 {
		return reqs
	}
	return append(reqs, Requirement{Label: "temp", Account: temp, Minimum: minTemp})
}

// ForRoles returns the requirements of the owner and daily accounts.
func ForRoles(owner, daily common.Address, minOwner, minDaily *big.Int) []Requirement {
	return []Requirement{
		{Label: "owner", Account: owner, Minimum: minOwner},
		{Label: "daily", Account: daily, Minimum: minDaily},
	}
}
