// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextResolvesLazily(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(NewJSONHandler(&buf, LevelDebug))
	defer SetDefault(DiscardHandler())

	logger.With("pool", 7).Info("staked", "amount", 100)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.EqualValues(t, 7, rec["pool"])
	assert.EqualValues(t, 100, rec["amount"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(NewJSONHandler(&buf, FromVerbosity(3)), "pkg", "test")

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
