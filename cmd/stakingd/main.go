// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakefactory/stakefactory/api"
	"github.com/stakefactory/stakefactory/clock"
	"github.com/stakefactory/stakefactory/co"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/metrics"
	"github.com/stakefactory/stakefactory/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "stakingd",
		Usage:   "Staking pools with lazily accrued rewards",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			devFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			disableNTPCheckFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	if !ctx.Bool(disableNTPCheckFlag.Name) {
		// best effort, the ledger trusts the local clock either way
		_, _ = clock.CheckOffset(ctx.String(ntpServerFlag.Name), 2*time.Second)
	}

	db, journal, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger database..."); db.Close() }()
	defer func() { logger.Info("closing event database..."); journal.Close() }()

	stateCache := newCache(ctx)
	rt := runtime.New(db, stateCache, clock.NewMonotonic(), journal)

	var goes co.Goes
	goes.Go(func(ctx context.Context) { reportCacheStats(ctx, stateCache, time.Minute) })
	defer goes.Stop()

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	if gene != nil {
		if _, err := gene.Apply(rt); err != nil {
			return fmt.Errorf("apply genesis: %w", err)
		}
	}

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloser := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        !metrics.NoOp(),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		Dev:                  ctx.Bool(devFlag.Name),
	})
	defer func() { logger.Info("stopping subscriptions..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx, apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	if !metrics.NoOp() {
		metricsURL, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server: %w", err)
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", metricsURL)
	}

	printStartupMessage(ctx, apiURL)

	<-exitSignal.Done()
	return nil
}
