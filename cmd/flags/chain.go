// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"strings"

	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AddChainFlags registers the chain, key and run flags shared by every command.
func AddChainFlags(fs *pflag.FlagSet) {
	fs.String(constants.ConfigRPCURL, "", "JSON-RPC endpoint of the chain hosting the Reserve")
	fs.Uint64(constants.ConfigChainID, 0, "expected chain ID (0 accepts what the endpoint reports)")
	fs.String(constants.ConfigMnemonic, "", "BIP39 mnemonic; owner, daily and temp are accounts 0, 1 and 2")
	fs.String(constants.ConfigOwnerKey, "", "hex private key of the owner account")
	fs.String(constants.ConfigDailyKey, "", "hex private key of the daily (operator) account")
	fs.String(constants.ConfigTempKey, "", "hex private key of the temporary deployer account")
	fs.String(constants.ConfigArtifactsDir, "", "directory holding <Contract>.json build artifacts")
	fs.String(constants.ConfigAddressBook, "", "address book path (default is $HOME/.rsvctl/addresses.yaml)")
	fs.Duration(constants.ConfigPollInterval, constants.FundingPollInterval, "balance poll interval while waiting for ETH")
	fs.String(constants.ConfigMinOwnerWei, constants.MinOwnerWei, "minimum owner balance in wei")
	fs.String(constants.ConfigMinDailyWei, constants.MinDailyWei, "minimum daily balance in wei")
	fs.String(constants.ConfigMinTempWei, constants.MinTempWei, "minimum temp balance in wei (0 skips the check)")
	fs.Bool(constants.ConfigSimulate, false, "run against an in-memory simulated chain")
	fs.BoolP(constants.ConfigYes, "y", false, "answer yes to confirmation prompts")
}

// BindChainFlags makes v read each chain flag, falling back to the
// RSVCTL_<FLAG> environment variable.
func BindChainFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, name := range []string{
		constants.ConfigRPCURL,
		constants.ConfigChainID,
		constants.ConfigMnemonic,
		constants.ConfigOwnerKey,
		constants.ConfigDailyKey,
		constants.ConfigTempKey,
		constants.ConfigArtifactsDir,
		constants.ConfigAddressBook,
		constants.ConfigPollInterval,
		constants.ConfigMinOwnerWei,
		constants.ConfigMinDailyWei,
		constants.ConfigMinTempWei,
		constants.ConfigSimulate,
		constants.ConfigYes,
	} {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag %q is not registered", name)
		}
		if err := v.BindPFlag(name, f); err != nil {
			return err
		}
		if err := v.BindEnv(name); err != nil {
			return err
		}
	}
	return nil
}
