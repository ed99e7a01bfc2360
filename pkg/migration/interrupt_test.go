// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/internal/testutils"
	"github.com/luxfi/rsvctl/pkg/chain/simchain"
	"github.com/luxfi/rsvctl/pkg/contract"
	"github.com/luxfi/rsvctl/pkg/migration"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/validator"
	"github.com/stretchr/testify/require"
)

func rolesOf(w *testutils.World) migration.Roles {
	return migration.Roles{Owner: w.Owner(), Operator: w.Daily(), Temp: w.Temp()}
}

// landedTransactions counts the transactions of an uninterrupted migration.
func landedTransactions(t *testing.T) int {
	w := testutils.NewWorld(t)
	d := migration.New(w.Chain, w.Book, rolesOf(w), luxlog.NewNoOpLogger())
	s, err := d.Run(context.Background(), migration.Complete)
	require.NoError(t, err)
	require.Equal(t, migration.Complete, s)
	return len(d.Journal().Entries())
}

// safe reports whether at most one manager is live and the vault only
// belongs to the new manager once the old one is halted.
func safe(ctx context.Context, w *testutils.World, book *models.ForkBook) (bool, error) {
	oldEmergency, err := contract.NewManager(w.Chain, book.Old.Manager).Emergency(ctx)
	if err != nil {
		return false, err
	}
	live := 0
	if !oldEmergency {
		live++
	}
	if !book.New.Manager.IsZero() {
		newEmergency, err := contract.NewManager(w.Chain, book.New.Manager).Emergency(ctx)
		if err != nil {
			return false, err
		}
		if !newEmergency {
			live++
		}
	}
	vaultManager, err := contract.NewVault(w.Chain, book.Old.Vault).Manager(ctx)
	if err != nil {
		return false, err
	}
	if vaultManager != book.Old.Manager.Address && !oldEmergency {
		return false, nil
	}
	return live <= 1, nil
}

func TestInterruptedMigrationResumes(t *testing.T) {
	n := landedTransactions(t)
	require.Equal(t, 18, n)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("a run interrupted at any transaction is safe and resumes to a valid system", prop.ForAll(
		func(k int) bool {
			ctx := context.Background()
			w := testutils.NewWorld(t)

			// the address book as the last save left it
			saved := *w.Book
			save := func(b *models.ForkBook) error {
				saved = *b
				return nil
			}

			seen := 0
			w.Chain.FailWhen(func(simchain.Call) bool {
				seen++
				return seen == k+1
			})
			d := migration.New(w.Chain, w.Book, rolesOf(w), luxlog.NewNoOpLogger())
			d.Save = save
			if _, err := d.Run(ctx, migration.Complete); !errors.Is(err, simchain.ErrInjected) {
				return false
			}
			if ok, err := safe(ctx, w, w.Book); err != nil || !ok {
				return false
			}

			w.Chain.ClearFaults()
			resumed := migration.New(w.Chain, &saved, rolesOf(w), luxlog.NewNoOpLogger())
			resumed.Save = save
			s, err := resumed.Run(ctx, migration.Complete)
			if err != nil || s != migration.Complete {
				return false
			}
			// nothing landed twice
			if len(d.Journal().Entries())+len(resumed.Journal().Entries()) != n {
				return false
			}
			report, err := validator.Validate(ctx, w.Chain, &saved, validator.Roles{Owner: w.Owner(), Operator: w.Daily()})
			return err == nil && report.Err() == nil
		},
		gen.IntRange(0, n-1),
	))

	properties.TestingRun(t)
}

func TestEverySafeStopIsDetected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := testutils.NewWorld(t)
	d := migration.New(w.Chain, w.Book, rolesOf(w), luxlog.NewNoOpLogger())

	var seen []migration.State
	for {
		s, err := d.Detect(ctx)
		require.NoError(err)
		seen = append(seen, s)
		ok, err := safe(ctx, w, w.Book)
		require.NoError(err)
		require.True(ok, s.String())
		if s == migration.Complete {
			break
		}
		_, err = d.Step(ctx)
		require.NoError(err)
	}
	require.Equal([]migration.State{
		migration.PreMigration,
		migration.NewDeployed,
		migration.OwnershipTransferred,
		migration.VaultRetargeted,
		migration.OldReserveUpgraded,
		migration.Complete,
	}, seen)
}
