// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakefactory/stakefactory/cache"
	"github.com/stakefactory/stakefactory/co"
	"github.com/stakefactory/stakefactory/eventdb"
	"github.com/stakefactory/stakefactory/genesis"
	"github.com/stakefactory/stakefactory/log"
	"github.com/stakefactory/stakefactory/lvldb"
	"github.com/stakefactory/stakefactory/metrics"
)

// records of the state cache per megabyte
const cacheEntriesPerMB = 2048

func initLogger(ctx *cli.Context) {
	lvl := log.FromVerbosity(ctx.Int(verbosityFlag.Name))

	var handler = log.NewJSONHandler(os.Stdout, lvl)
	if !ctx.Bool(jsonLogsFlag.Name) {
		output := io.Writer(os.Stdout)
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		if useColor {
			output = os.Stderr
		}
		handler = log.NewTerminalHandler(output, lvl, useColor)
	}
	log.SetDefault(handler)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.stakefactory")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.stakefactory")
		}
		return filepath.Join(home, ".org.stakefactory")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		gene, err := genesis.Load(path)
		if err != nil {
			return nil, errors.WithMessage(err, "load genesis")
		}
		return gene, nil
	}
	if ctx.Bool(devFlag.Name) {
		return genesis.Dev(), nil
	}
	// an existing ledger needs no genesis
	return nil, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func newCache(ctx *cli.Context) *cache.LRU {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	c, err := cache.NewLRU(cacheMB / 2 * cacheEntriesPerMB)
	if err != nil {
		// cacheMB is at least 64 after halving
		panic(err)
	}
	return c
}

func openDatabases(ctx *cli.Context) (*lvldb.LevelDB, *eventdb.EventDB, error) {
	if ctx.Bool(devFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, err
		}
		journal, err := eventdb.NewMem()
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, journal, nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, "ledger.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open ledger database [%v]", dir)
	}

	path := filepath.Join(dataDir, "events.db")
	journal, err := eventdb.New(path)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, journal, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit limits the body size of incoming requests to 200KB
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 200*1024)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	timeout := ctx.Uint64(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func(context.Context) {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("API server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handleAPITimeout(router, 10*time.Second)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func(context.Context) {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func printStartupMessage(ctx *cli.Context, apiURL string) {
	dataDir := ctx.String(dataDirFlag.Name)
	if ctx.Bool(devFlag.Name) {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Data dir    [ %v ]
    API portal  [ %v ]
    Faucet      [ %v ]
`,
		fullVersion(),
		dataDir,
		apiURL,
		ctx.Bool(devFlag.Name),
	)
}

var metricCacheHitRate = metrics.LazyLoadGauge("state_cache_hit_rate_permille")

// reportCacheStats logs the hit rate of the state cache whenever it moves.
func reportCacheStats(ctx context.Context, c *cache.LRU, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := c.Stats()
			if !stats.Changed() {
				continue
			}
			hit, miss := stats.Counts()
			rate := stats.HitRate()
			metricCacheHitRate().Set(int64(rate * 1000))
			logger.Debug("state cache", "hit", hit, "miss", miss, "rate", fmt.Sprintf("%.3f", rate))
		}
	}
}
