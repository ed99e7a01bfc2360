// Copyright (C) 2022, Lux Partners Limited, All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"testing"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/application"
	"github.com/luxfi/rsvctl/pkg/config"
	"github.com/luxfi/rsvctl/pkg/ux"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(luxlog.NewNoOpLogger(), io.Discard)
	return require.New(t)
}

// SetupTestInTempDir returns an App rooted in a temp dir and the viper
// instance behind its config, so tests can set flags and keys on it.
func SetupTestInTempDir(t *testing.T) (*application.App, *viper.Viper) {
	testDir := t.TempDir()

	v := viper.New()
	config.SetDefaults(v)
	app := application.New()
	app.Setup(testDir, luxlog.NewNoOpLogger(), config.NewFromViper(v), nil)
	ux.NewUserLog(luxlog.NewNoOpLogger(), io.Discard)
	return app, v
}
