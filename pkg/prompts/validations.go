// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"math/big"
	"os"

	"github.com/luxfi/geth/common"
)

var (
	errInvalidAddress = errors.New("invalid address")
	errInvalidNumber  = errors.New("invalid number")
)

func validateAddress(input string) error {
	if !common.IsHexAddress(input) {
		return errInvalidAddress
	}
	return nil
}

func validatePositiveBigInt(input string) error {
	n, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return errInvalidNumber
	}
	if n.Sign() <= 0 {
		return errInvalidNumber
	}
	return nil
}

func validateExistingFilepath(input string) error {
	if fileInfo, err := os.Stat(input); err == nil && !fileInfo.IsDir() {
		return nil
	}
	return errors.New("file doesn't exist")
}
