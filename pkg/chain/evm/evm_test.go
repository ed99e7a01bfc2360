// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evm

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/stretchr/testify/require"
)

const vaultArtifact = `{
	"contractName": "Vault",
	"abi": [
		{"inputs":[],"name":"manager","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"name":"newManager","type":"address"}],"name":"changeManager","outputs":[],"stateMutability":"nonpayable","type":"function"}
	],
	"bytecode": "0x6080604052"
}`

func writeArtifact(t *testing.T, dir string, kind chain.Kind, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, string(kind)+".json"), []byte(body), constants.WriteReadReadPerms))
}

func TestArtifactsLoadAndCache(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, chain.KindVault, vaultArtifact)

	arts, err := NewArtifacts(dir)
	require.NoError(t, err)

	art, err := arts.Get(chain.KindVault)
	require.NoError(t, err)
	require.Equal(t, "Vault", art.Name)
	require.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, art.Bytecode)
	require.Contains(t, art.ABI.Methods, "changeManager")

	again, err := arts.Get(chain.KindVault)
	require.NoError(t, err)
	require.Same(t, art, again)

	_, err = arts.Get(chain.KindManager)
	require.Error(t, err)
}

func TestArtifactsErrors(t *testing.T) {
	_, err := NewArtifacts("")
	require.ErrorIs(t, err, constants.ErrNoArtifacts)

	_, err = NewArtifacts(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	dir := t.TempDir()
	writeArtifact(t, dir, chain.KindRelayer, `{"contractName": "Relayer", "bytecode": "0x"}`)
	arts, err := NewArtifacts(dir)
	require.NoError(t, err)
	_, err = arts.Get(chain.KindRelayer)
	require.Error(t, err)
}

type rpcDataError struct {
	msg  string
	data interface{}
}

func (e rpcDataError) Error() string          { return e.msg }
func (e rpcDataError) ErrorData() interface{} { return e.data }

func TestClassifyRevert(t *testing.T) {
	target := chain.Contract{Kind: chain.KindVault, Address: common.HexToAddress("0x01")}
	// Error(string) selector followed by the abi encoding of "must be manager"
	data := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"000000000000000000000000000000000000000000000000000000000000000f" +
		"6d757374206265206d616e616765720000000000000000000000000000000000"

	err := classify(rpcDataError{msg: "execution reverted: must be manager", data: data}, target, "withdrawTo", common.Address{}, nil)
	var revertErr *chain.RevertError
	require.True(t, errors.As(err, &revertErr))
	require.Equal(t, "must be manager", revertErr.Reason)
	require.Equal(t, "withdrawTo", revertErr.Method)

	err = classify(errors.New("execution reverted: caller is not owner"), target, "changeManager", common.Address{}, nil)
	reason, ok := chain.RevertReason(err)
	require.True(t, ok)
	require.Equal(t, "caller is not owner", reason)

	err = classify(errors.New("connection refused"), target, "changeManager", common.Address{}, nil)
	require.False(t, chain.IsRevert(err))
	require.ErrorContains(t, err, "tx failed to be submitted")
}

func TestWeiToEther(t *testing.T) {
	wei, ok := new(big.Int).SetString(constants.MinOwnerWei, 10)
	require.True(t, ok)
	require.Equal(t, "0.3", WeiToEther(wei))
	require.Equal(t, "0", WeiToEther(new(big.Int)))
	require.Equal(t, "0.000021", CalculateFeeInEther(21000, big.NewInt(1_000_000_000)))
}
