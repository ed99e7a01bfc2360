// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/spf13/viper"
)

// Config reads settings from viper, where flags, RSVCTL_* environment
// variables and the config file have already been merged.
type Config struct {
	v *viper.Viper
}

// New returns a Config over the global viper instance.
func New() *Config {
	return &Config{v: viper.GetViper()}
}

// NewFromViper returns a Config over v.
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ConfigPollInterval, constants.FundingPollInterval)
	v.SetDefault(constants.ConfigMinOwnerWei, constants.MinOwnerWei)
	v.SetDefault(constants.ConfigMinDailyWei, constants.MinDailyWei)
	v.SetDefault(constants.ConfigMinTempWei, constants.MinTempWei)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) ConfigFileExists() bool {
	return c.v.ConfigFileUsed() != ""
}

func (c *Config) SetConfigValue(key string, value interface{}) error {
	c.v.Set(key, value)
	return c.v.WriteConfig()
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

func (c *Config) RPCURL() string {
	return c.v.GetString(constants.ConfigRPCURL)
}

func (c *Config) ChainID() uint64 {
	return c.v.GetUint64(constants.ConfigChainID)
}

// KeySource gathers the configured key material.
func (c *Config) KeySource() key.Source {
	return key.Source{
		Mnemonic: c.v.GetString(constants.ConfigMnemonic),
		OwnerKey: c.v.GetString(constants.ConfigOwnerKey),
		DailyKey: c.v.GetString(constants.ConfigDailyKey),
		TempKey:  c.v.GetString(constants.ConfigTempKey),
	}
}

func (c *Config) ArtifactsDir() string {
	return c.v.GetString(constants.ConfigArtifactsDir)
}

func (c *Config) AddressBook() string {
	return c.v.GetString(constants.ConfigAddressBook)
}

func (c *Config) PollInterval() time.Duration {
	if d := c.v.GetDuration(constants.ConfigPollInterval); d > 0 {
		return d
	}
	return constants.FundingPollInterval
}

func (c *Config) MinOwnerWei() (*big.Int, error) {
	return c.wei(constants.ConfigMinOwnerWei, constants.MinOwnerWei)
}

func (c *Config) MinDailyWei() (*big.Int, error) {
	return c.wei(constants.ConfigMinDailyWei, constants.MinDailyWei)
}

func (c *Config) MinTempWei() (*big.Int, error) {
	return c.wei(constants.ConfigMinTempWei, constants.MinTempWei)
}

func (c *Config) wei(key, fallback string) (*big.Int, error) {
	s := c.v.GetString(key)
	if s == "" {
		s = fallback
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q: want a non-negative integer amount of wei", key, s)
	}
	return n, nil
}

func (c *Config) Simulate() bool {
	return c.v.GetBool(constants.ConfigSimulate)
}

// Yes reports whether confirmation prompts are pre-answered.
func (c *Config) Yes() bool {
	return c.v.GetBool(constants.ConfigYes)
}
