// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName = ".rsvctl"
	LogDir      = "logs"

	AddressBookFileName = "addresses.yaml"
	ArtifactsDirName    = "artifacts"

	DefaultConfigFileName = "config"
	DefaultConfigFileType = "json"
	EnvPrefix             = "RSVCTL"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	RequestTimeout = 3 * time.Minute

	// FundingPollInterval is how often balances are re-read while waiting on ETH.
	FundingPollInterval = 5 * time.Second

	// BPSFactor is the seigniorage denominator used by the Manager.
	BPSFactor = 10000
	// MaxSeigniorage is the largest seigniorage, in bps, the Manager accepts.
	MaxSeigniorage = 1000
	// WeightShift is the power of ten basket weights are scaled by.
	WeightShift = 36
)

// Config keys
const (
	ConfigRPCURL       = "rpc-url"
	ConfigChainID      = "chain-id"
	ConfigMnemonic     = "mnemonic"
	ConfigOwnerKey     = "owner-key"
	ConfigDailyKey     = "daily-key"
	ConfigTempKey      = "temp-key"
	ConfigArtifactsDir = "artifacts-dir"
	ConfigAddressBook  = "address-book"
	ConfigPollInterval = "poll-interval"
	ConfigMinOwnerWei  = "min-owner-wei"
	ConfigMinDailyWei  = "min-daily-wei"
	ConfigMinTempWei   = "min-temp-wei"
	ConfigSimulate     = "simulate"
	ConfigYes          = "yes"
)

// Account indices, in the order the deployment scripts derive them.
const (
	OwnerAccountIndex = 0
	DailyAccountIndex = 1
	TempAccountIndex  = 2
)

const (
	// MinOwnerWei is 0.3 ETH.
	MinOwnerWei = "300000000000000000"
	// MinDailyWei is 0.03 ETH.
	MinDailyWei = "30000000000000000"
	// MinTempWei of zero leaves the temp account ungated.
	MinTempWei = "0"

	// InitialIssuance is the RSV issued by the rehearsal deployment: $300.
	InitialIssuance = "300000000000000000000"
	// SmokeRedeem and SmokeIssue are the round-trip amounts used after the fork.
	SmokeRedeem = "200000000000000000000"
	SmokeIssue  = "300000000000000000000"
)

// BasketWeights are the collateral weights of the three basket tokens. The weights are in
// different fixed-point scales per token (USDC has 6 decimals, TUSD and PAX have 18).
var BasketWeights = []string{
	"333334000000000000000000",             // 333334e18
	"333333000000000000000000000000000000", // 333333e30
	"333333000000000000000000000000000000", // 333333e30
}

// CollateralSymbols names the three basket tokens, in basket order.
var CollateralSymbols = []string{"USDC", "TUSD", "PAX"}
