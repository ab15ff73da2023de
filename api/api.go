// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakefactory/stakefactory/api/accounts"
	"github.com/stakefactory/stakefactory/api/events"
	"github.com/stakefactory/stakefactory/api/factory"
	"github.com/stakefactory/stakefactory/api/members"
	"github.com/stakefactory/stakefactory/api/middleware"
	"github.com/stakefactory/stakefactory/api/pools"
	"github.com/stakefactory/stakefactory/api/subscriptions"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	EventsLimit          uint64
	// Dev enables the faucet.
	Dev bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	factory.New(rt).
		Mount(router, "/factory")
	members.New(rt).
		Mount(router, "/pools/{id}/members")
	pools.New(rt).
		Mount(router, "/pools")
	accounts.New(rt, opts.Dev).
		Mount(router, "/accounts")
	events.New(rt.Journal(), opts.EventsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(rt.Journal(), rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
