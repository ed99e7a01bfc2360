// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
)

// RevertError is returned when a contract rejects a call.
type RevertError struct {
	Contract Contract
	Method   string
	From     common.Address
	Reason   string
	TxHash   common.Hash
}

func (e *RevertError) Error() string {
	msg := fmt.Sprintf("%s.%s reverted", e.Contract.Kind, e.Method)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.TxHash != (common.Hash{}) {
		msg += fmt.Sprintf(" (txHash=%s)", e.TxHash.Hex())
	}
	return msg
}

// IsRevert reports whether err is, or wraps, a *RevertError.
func IsRevert(err error) bool {
	var revertErr *RevertError
	return errors.As(err, &revertErr)
}

// RevertReason returns the revert reason carried by err, if any.
func RevertReason(err error) (string, bool) {
	var revertErr *RevertError
	if !errors.As(err, &revertErr) {
		return "", false
	}
	return revertErr.Reason, true
}

// TransactionError wraps err with the call it came from.
func TransactionError(c Contract, method string, err error) error {
	return fmt.Errorf("%s %s: %w", c, method, err)
}
