// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/internal/testutils"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/collateral"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/validator"
	"github.com/stretchr/testify/require"
)

func migrate(w *testutils.World, confirm func(context.Context, migration.Edge) error) migration.State {
	d := migration.New(w.Chain, w.Book, migration.Roles{
		Owner:    w.Owner(),
		Operator: w.Daily(),
		Temp:     w.Temp(),
	}, luxlog.NewNoOpLogger())
	d.Confirm = confirm
	s, _ := d.Run(context.Background(), migration.Complete)
	return s
}

func roles(w *testutils.World) validator.Roles {
	return validator.Roles{Owner: w.Owner(), Operator: w.Daily()}
}

func TestValidateAfterMigration(t *testing.T) {
	require := require.New(t)
	w := testutils.NewWorld(t)
	require.Equal(migration.Complete, migrate(w, nil))

	report, err := validator.Validate(context.Background(), w.Chain, w.Book, roles(w))
	require.NoError(err)
	require.NoError(report.Err())
	require.NotEmpty(report.Checks)

	var buf bytes.Buffer
	require.NoError(report.Render(&buf))
	require.Contains(buf.String(), "vault manager")
	require.NotContains(buf.String(), "FAILED")

	var supply *validator.Check
	for i := range report.Checks {
		if report.Checks[i].Name == "new reserve total supply" {
			supply = &report.Checks[i]
		}
	}
	require.NotNil(supply)
	require.True(supply.OK)
	require.Equal(collateral.MustParse(constants.InitialIssuance).String(), supply.Got)
}

func TestValidateReportsFailures(t *testing.T) {
	require := require.New(t)
	w := testutils.NewWorld(t)
	declined := errors.New("declined")
	s := migrate(w, func(context.Context, migration.Edge) error { return declined })
	require.Equal(migration.VaultRetargeted, s)

	report, err := validator.Validate(context.Background(), w.Chain, w.Book, roles(w))
	require.NoError(err)

	var failures validator.Failures
	require.ErrorAs(report.Err(), &failures)
	var names []string
	for _, f := range failures {
		names = append(names, f.Check)
	}
	require.ElementsMatch([]string{
		"old reserve paused",
		"new manager emergency",
		"new reserve eternal storage",
		"new reserve total supply",
		"new reserve paused",
		"old reserve minter",
		"old reserve pauser",
		"old reserve owner",
	}, names)

	var assertion *validator.AssertionError
	require.ErrorAs(report.Err(), &assertion)

	var buf bytes.Buffer
	require.NoError(report.Render(&buf))
	require.Contains(buf.String(), "FAILED")
}

func TestValidateNeedsNewGeneration(t *testing.T) {
	w := testutils.NewWorld(t)
	_, err := validator.Validate(context.Background(), w.Chain, w.Book, roles(w))
	require.ErrorIs(t, err, models.ErrNoDeployment)
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := testutils.NewWorld(t)
	require.Equal(migration.Complete, migrate(w, nil))

	require.NoError(validator.RoundTrip(ctx, w.Chain, w.Book, w.Owner(), validator.DefaultSmoke()))

	supply, err := contract.NewReserve(w.Chain, w.Book.New.Reserve).TotalSupply(ctx)
	require.NoError(err)
	require.Equal(collateral.MustParse("400000000000000000000"), supply)
}

func TestRoundTripRejectsOverRedemption(t *testing.T) {
	w := testutils.NewWorld(t)
	require.Equal(t, migration.Complete, migrate(w, nil))

	s := validator.DefaultSmoke()
	s.Redeem = collateral.MustParse("500000000000000000000")
	err := validator.RoundTrip(context.Background(), w.Chain, w.Book, w.Owner(), s)
	require.True(t, chain.IsRevert(err), err)
}

func TestRoundTripNeedsAllowance(t *testing.T) {
	w := testutils.NewWorld(t)
	require.Equal(t, migration.Complete, migrate(w, nil))

	// daily holds no RSV to redeem
	err := validator.RoundTrip(context.Background(), w.Chain, w.Book, w.Daily(), validator.DefaultSmoke())
	require.True(t, chain.IsRevert(err), err)
}

func TestCheckIrreversible(t *testing.T) {
	w := testutils.NewWorld(t)
	require.Equal(t, migration.Complete, migrate(w, nil))
	require.NoError(t, validator.CheckIrreversible(context.Background(), w.Chain, w.Book, roles(w)))
}

func TestCheckIrreversibleBeforeUpgrade(t *testing.T) {
	w := testutils.NewWorld(t)
	stop := func(context.Context, migration.Edge) error { return migration.ErrAborted }
	require.Equal(t, migration.VaultRetargeted, migrate(w, stop))

	err := validator.CheckIrreversible(context.Background(), w.Chain, w.Book, roles(w))
	var failures validator.Failures
	require.ErrorAs(t, err, &failures)
	require.NotEmpty(t, failures)
	require.Contains(t, failures.Error(), "owner changes minter")
}

func TestFailuresUnwrap(t *testing.T) {
	a := &validator.AssertionError{Check: "a", Want: "1", Got: "2"}
	b := &validator.AssertionError{Check: "b", Want: "x", Got: "y"}
	err := error(validator.Failures{a, b})
	require.ErrorIs(t, err, b)
	require.Equal(t, "2 check(s) failed: a: want 1, got 2; b: want x, got y", err.Error())
}
