// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	luxlog "github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		amount   *big.Int
		decimals int
		want     string
	}{
		{nil, 18, "0"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(300_000_000_000_000_000), 18, "0.3"},
		{new(big.Int).Mul(big.NewInt(1_234_567), big.NewInt(1_000_000_000_000_000_000)), 18, "1_234_567"},
		{big.NewInt(1_500_000), 6, "1.5"},
		{big.NewInt(-2_500_000), 6, "-2.5"},
		{big.NewInt(1), 18, "0.000000000000000001"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatTokenAmount(tt.amount, tt.decimals))
	}
}

func TestConvertToStringWithThousandSeparator(t *testing.T) {
	require.Equal(t, "999", ConvertToStringWithThousandSeparator(999))
	require.Equal(t, "12_345_678", ConvertToStringWithThousandSeparator(12345678))
}

func TestStepTracker(t *testing.T) {
	var buf bytes.Buffer
	ul := &UserLog{log: luxlog.NewNoOpLogger(), writer: &buf}
	st := NewStepTracker(ul, time.Hour)

	st.Start("Deploying Reserve")
	st.CompleteSuccess()
	st.Start("Pausing manager")
	st.Failed("reverted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Deploying Reserve...", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "✓ Deploying Reserve"))
	require.True(t, strings.HasSuffix(lines[1], "- Success"))
	require.Contains(t, lines[3], "FAILED: reverted")
}

func TestStepTrackerWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	ul := &UserLog{log: luxlog.NewNoOpLogger(), writer: &buf}
	st := NewStepTracker(ul, 0)

	st.Start("Waiting")
	time.Sleep(time.Millisecond)
	require.True(t, st.CheckWarn())
	require.False(t, st.CheckWarn())
	require.Contains(t, buf.String(), "Warning: Waiting taking longer than expected")
}

func TestDefaultTable(t *testing.T) {
	var buf bytes.Buffer
	table := DefaultTable(&buf, "Contract", "Address")
	require.NoError(t, table.Append([]string{"Reserve", "0x01"}))
	require.NoError(t, table.Render())
	out := strings.ToUpper(buf.String())
	require.Contains(t, out, "CONTRACT")
	require.Contains(t, out, "RESERVE")
}

func TestProgressTrackerPlain(t *testing.T) {
	var buf bytes.Buffer
	pt := NewProgressTracker(&buf)
	require.Nil(t, pt.CreateProgressBar("migrating", 5))

	pt.UpdateStep("waiting for funds")
	pt.Done("funded")
	require.Contains(t, buf.String(), "waiting for funds\n")
	require.Contains(t, buf.String(), "✓ funded")
}
