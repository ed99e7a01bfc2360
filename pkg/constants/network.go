// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package constants

// Chain IDs the tool knows by name.
const (
	MainnetChainID = 1
	RopstenChainID = 3
	KovanChainID   = 42
	LocalChainID   = 1337
	SimChainID     = 31337
)

// NetworkName returns a display name for a chain ID.
func NetworkName(chainID uint64) string {
	switch chainID {
	case MainnetChainID:
		return "mainnet"
	case RopstenChainID:
		return "ropsten"
	case KovanChainID:
		return "kovan"
	case LocalChainID:
		return "local"
	case SimChainID:
		return "simulated"
	default:
		return "unknown"
	}
}
