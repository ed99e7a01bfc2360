// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"testing"
	"time"

	"github.com/luxfi/rsvctl/pkg/config"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T) (*pflag.FlagSet, *config.Config) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddChainFlags(fs)
	v := viper.New()
	require.NoError(t, BindChainFlags(v, fs))
	return fs, config.NewFromViper(v)
}

func TestFlagDefaults(t *testing.T) {
	require := require.New(t)
	fs, c := newFlagSet(t)
	require.NoError(fs.Parse(nil))

	require.Equal(constants.FundingPollInterval, c.PollInterval())
	minOwner, err := c.MinOwnerWei()
	require.NoError(err)
	require.Equal(constants.MinOwnerWei, minOwner.String())
	minTemp, err := c.MinTempWei()
	require.NoError(err)
	require.Zero(minTemp.Sign())
	require.False(c.Simulate())
}

func TestEnvFallback(t *testing.T) {
	require := require.New(t)
	t.Setenv("RSVCTL_RPC_URL", "http://env:8545")
	t.Setenv("RSVCTL_MIN_DAILY_WEI", "7")

	fs, c := newFlagSet(t)
	require.NoError(fs.Parse(nil))
	require.Equal("http://env:8545", c.RPCURL())
	minDaily, err := c.MinDailyWei()
	require.NoError(err)
	require.Equal("7", minDaily.String())
}

func TestFlagBeatsEnv(t *testing.T) {
	require := require.New(t)
	t.Setenv("RSVCTL_RPC_URL", "http://env:8545")

	fs, c := newFlagSet(t)
	require.NoError(fs.Parse([]string{
		"--rpc-url", "http://flag:8545",
		"--poll-interval", "2s",
		"--simulate",
		"--min-temp-wei", "9",
		"-y",
	}))
	minTemp, err := c.MinTempWei()
	require.NoError(err)
	require.Equal("9", minTemp.String())
	require.Equal("http://flag:8545", c.RPCURL())
	require.Equal(2*time.Second, c.PollInterval())
	require.True(c.Simulate())
	require.True(c.Yes())
}

func TestBindUnknownFlag(t *testing.T) {
	fs := pflag.NewFlagSet("empty", pflag.ContinueOnError)
	require.Error(t, BindChainFlags(viper.New(), fs))
}
