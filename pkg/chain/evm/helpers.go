// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"fmt"
	"math/big"

	"github.com/luxfi/geth/core/types"
)

var weiPerEther = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// transform a tx operation error into an error that contains:
// - the [err] itself
// - the [tx] hash (or information on the tx not being submitted)
// - another descriptive [msg], together with formated [args]
func TransactionError(tx *types.Transaction, err error, msg string, args ...interface{}) error {
	msgSuffix := ": %w"
	if tx != nil {
		msgSuffix += fmt.Sprintf(" (txHash=%s)", tx.Hash().String())
	} else {
		msgSuffix += " (tx failed to be submitted)"
	}
	args = append(args, err)
	return fmt.Errorf(msg+msgSuffix, args...)
}

// WeiToEther renders a wei amount as ether, e.g. 300000000000000000 -> 0.3.
func WeiToEther(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther)
	return f.Text('f', -1)
}

// CalculateFeeInEther returns the fee paid for gasUsed at gasPrice, in ether.
func CalculateFeeInEther(gasUsed uint64, gasPrice *big.Int) string {
	total := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), gasPrice)
	return WeiToEther(total)
}
