// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/common"
	"github.com/stakefactory/stakefactory/lvldb"
	"github.com/stakefactory/stakefactory/staker/reverts"
	"github.com/stakefactory/stakefactory/staker/storage"
	"github.com/stakefactory/stakefactory/state"
)

func TestFactory(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(storage.NewContext(common.BytesToAddress([]byte("staker")), state.New(db, nil)))
	authority := common.BytesToAddress([]byte("authority"))
	treasury := common.BytesToAddress([]byte("treasury"))

	_, err = svc.Get()
	assert.True(t, reverts.Is(err, reverts.NotFound))
	_, err = svc.NextPoolID()
	assert.True(t, reverts.Is(err, reverts.NotFound))

	_, err = svc.Initialize(authority, common.Address{})
	assert.True(t, reverts.Is(err, reverts.InvalidConfiguration))

	f, err := svc.Initialize(authority, treasury)
	require.NoError(t, err)
	assert.Equal(t, treasury, f.Treasury)

	_, err = svc.Initialize(authority, treasury)
	assert.True(t, reverts.Is(err, reverts.AlreadyExists))

	for want := uint64(0); want < 3; want++ {
		id, err := svc.NextPoolID()
		assert.NoError(t, err)
		assert.Equal(t, want, id)
	}

	f, err = svc.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), f.PoolCount)
	assert.Equal(t, authority, f.Authority)
}
