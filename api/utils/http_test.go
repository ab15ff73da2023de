// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/staker/reverts"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{BadRequest(errors.New("x")), http.StatusBadRequest},
		{Forbidden(errors.New("x")), http.StatusForbidden},
		{HTTPError(errors.New("x"), http.StatusTeapot), http.StatusTeapot},
		{reverts.New(reverts.NotFound, "x"), http.StatusNotFound},
		{reverts.New(reverts.AlreadyExists, "x"), http.StatusConflict},
		{reverts.New(reverts.Unauthorized, "x"), http.StatusForbidden},
		{reverts.New(reverts.InsufficientBalance, "x"), http.StatusBadRequest},
		{reverts.Overflow("x"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusOf(tt.err), tt.err.Error())
	}
}

func TestWrapHandlerFunc(t *testing.T) {
	handler := WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return reverts.New(reverts.NothingToClaim, "nothing to claim")
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing to claim")
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Amount uint64 `json:"amount"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"amount":7}`), &v))
	assert.Equal(t, uint64(7), v.Amount)

	assert.Error(t, ParseJSON(strings.NewReader(`{"amount":7,"x":1}`), &v))
	assert.Error(t, ParseJSON(strings.NewReader(`{"amount":-1}`), &v))
}

func TestParseHelpers(t *testing.T) {
	n, err := ParseUint("", 100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), n)

	n, err = ParseUint("5", 100)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	_, err = ParsePoolID("-1")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	_, err = ParseAddress("0x1234", "member")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Contains(t, err.Error(), "member")
}
