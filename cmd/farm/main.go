// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/vechain/farm/api"
	"github.com/vechain/farm/log"
	"github.com/vechain/farm/lvldb"
	"github.com/vechain/farm/metrics"
	"github.com/vechain/farm/runtime"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   = "1.0.0"
	gitCommit string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "farm",
		Usage:     "Node of a multi-token staking farm",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			disableSyncFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	initLogger(ctx)

	if !ctx.IsSet(configFlag.Name) {
		return errors.Errorf("--%s is required", configFlag.Name)
	}
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	gen, err := cfg.genesis()
	if err != nil {
		return errors.WithMessage(err, "config")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := ""
	if ctx.Bool(persistFlag.Name) {
		dataDir = ctx.String(dataDirFlag.Name)
		if dataDir == "" {
			return errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
		}
	}
	dbs, err := openDatabases(dataDir, lvldb.Options{
		CacheMiB: ctx.Int(cacheFlag.Name),
		NoSync:   ctx.Bool(disableSyncFlag.Name),
	})
	if err != nil {
		return err
	}
	defer dbs.Close()

	rt, err := runtime.New(dbs.state, dbs.events, gen, runtime.WallClock)
	if err != nil {
		return err
	}

	reqLogs := &atomic.Bool{}
	reqLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      reqLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
	})

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)
	if err := serve(groupCtx, group, "api", ctx.String(apiAddrFlag.Name), handler); err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		if err := serve(groupCtx, group, "metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler()); err != nil {
			return err
		}
	}
	return group.Wait()
}
