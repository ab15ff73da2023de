// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("member"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x" + addr.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("wallet"))
	data, err := json.Marshal(map[string]Address{"owner": addr})
	require.NoError(t, err)

	var decoded map[string]Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded["owner"])
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("pool"), []byte("vault"))
	joined := Blake2b([]byte("poolvault"))
	assert.Equal(t, joined, single)
	assert.False(t, single.IsZero())
	assert.Len(t, single.Bytes(), 32)
}
