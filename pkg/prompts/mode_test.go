// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withTTY(t *testing.T, tty bool) {
	t.Helper()
	orig := stdinIsTTY
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdinIsTTY = orig })
}

func TestIsNonInteractive_EnvVar(t *testing.T) {
	tests := []struct {
		envValue string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"yes", true},
		{"ON", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(EnvNonInteractive+"="+tc.envValue, func(t *testing.T) {
			withTTY(t, true)
			t.Setenv(EnvCI, "")
			t.Setenv(EnvNonInteractive, tc.envValue)
			require.Equal(t, tc.expected, IsNonInteractive(false))
		})
	}
}

func TestIsNonInteractive_CI(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "true")
	require.True(t, IsNonInteractive(false))
}

func TestIsNonInteractive_Flag(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")
	require.False(t, IsNonInteractive(false))
	require.True(t, IsNonInteractive(true))
}

func TestIsNonInteractive_NoTTY(t *testing.T) {
	withTTY(t, false)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")
	require.False(t, IsInteractive())
}

func TestNewPrompterForMode(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")

	p, ok := NewPrompterForMode(true, "pass --yes").(*NonInteractivePrompter)
	require.True(t, ok)
	_, err := p.CaptureAddress("Vault address")
	require.ErrorIs(t, err, ErrNonInteractive)
	require.ErrorContains(t, err, "pass --yes")

	_, ok = NewPrompterForMode(false, "pass --yes").(*realPrompter)
	require.True(t, ok)
}
