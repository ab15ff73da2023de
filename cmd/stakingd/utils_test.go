// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakefactory/stakefactory/cache"
)

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(1), 128)
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
}

func TestHandleAPITimeout(t *testing.T) {
	handler := handleAPITimeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	}), 10*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	handler := requestBodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 300*1024))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportCacheStats(t *testing.T) {
	c, err := cache.NewLRU(8)
	require.NoError(t, err)

	loader := func(key any) (any, error) { return key, nil }
	_, _ = c.GetOrLoad("a", loader, true)
	_, _ = c.GetOrLoad("a", loader, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reportCacheStats(ctx, c, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !c.Stats().Changed() }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
}
