// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"context"
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain/simchain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/deployer"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/stretchr/testify/require"
)

// Ether is 1 ETH in wei.
var Ether = big.NewInt(1_000_000_000_000_000_000)

// World is a simulated chain holding a live Reserve system deployed the way
// a fork rehearsal starts: DeployedReserve, no relayer, 3e20 RSV issued.
type World struct {
	Chain *simchain.Chain
	Ring  *key.Ring
	Old   *models.Deployment
	Book  *models.ForkBook
}

func (w *World) Owner() common.Address { return w.Ring.Owner.Address }
func (w *World) Daily() common.Address { return w.Ring.Daily.Address }
func (w *World) Temp() common.Address  { return w.Ring.Temp.Address }

// DevRing derives the owner, daily and temp accounts of the dev mnemonic.
func DevRing(t testing.TB) *key.Ring {
	ring, err := key.Load(key.Source{Mnemonic: key.DevMnemonic})
	require.NoError(t, err)
	return ring
}

// NewChain returns a simulated chain with every account of ring holding 100 ETH.
func NewChain(ring *key.Ring) *simchain.Chain {
	c := simchain.New(simchain.WithChainID(constants.SimChainID))
	for _, a := range ring.All() {
		c.Fund(a.Address, new(big.Int).Mul(big.NewInt(100), Ether))
	}
	return c
}

// NewWorld deploys and seeds a rehearsal system.
func NewWorld(t testing.TB) *World {
	ctx := context.Background()
	ring := DevRing(t)
	c := NewChain(ring)

	b := deployer.New(c, deployer.Roles{Owner: ring.Owner.Address, Operator: ring.Daily.Address}, luxlog.NewNoOpLogger())
	d, err := b.Deploy(ctx, deployer.ProfileRehearsal)
	require.NoError(t, err)
	require.NoError(t, b.SeedLiquidity(ctx, d, collateral.MustParse(constants.InitialIssuance)))

	return &World{
		Chain: c,
		Ring:  ring,
		Old:   d,
		Book:  &models.ForkBook{ChainID: constants.SimChainID, Old: d},
	}
}
