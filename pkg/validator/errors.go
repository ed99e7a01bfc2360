// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"fmt"
	"strings"
)

// AssertionError is a post-migration predicate that did not hold.
type AssertionError struct {
	Check string
	Want  string
	Got   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: want %s, got %s", e.Check, e.Want, e.Got)
}

// Failures is every assertion that failed in one validation.
type Failures []*AssertionError

func (f Failures) Error() string {
	msgs := make([]string, len(f))
	for i, e := range f {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d check(s) failed: %s", len(f), strings.Join(msgs, "; "))
}

func (f Failures) Unwrap() []error {
	errs := make([]error, len(f))
	for i, e := range f {
		errs[i] = e
	}
	return errs
}
