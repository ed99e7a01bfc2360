// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"errors"
	"fmt"
)

var (
	ErrNotStarted   = errors.New("new generation is not deployed; run the first half")
	ErrAborted      = errors.New("aborted by operator")
	ErrInconsistent = errors.New("chain state does not match any migration state")
	ErrRoles        = errors.New("invalid migration roles")
)

// ErrMisconfigured means a manager does not point at the contracts the
// migration expects.
var ErrMisconfigured = errors.New("manager references do not match")

// StepError reports which transition and sub-step aborted a run.
type StepError struct {
	Edge Edge
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Edge, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
