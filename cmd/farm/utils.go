// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/vechain/farm/log"
	"github.com/vechain/farm/logdb"
	"github.com/vechain/farm/lvldb"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".farm")
}

func initLogger(ctx *cli.Context) {
	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(newHandler(os.Stdout, ctx.Bool(jsonLogsFlag.Name), level)))
}

func newHandler(w io.Writer, json bool, level *slog.LevelVar) slog.Handler {
	if json {
		return log.JSONHandlerWithLevel(w, level)
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return log.NewTerminalHandlerWithLevel(w, level, useColor)
}

type databases struct {
	state  *lvldb.LevelDB
	events *logdb.LogDB
}

func (d *databases) Close() {
	if stats, err := d.state.Stats(); err == nil {
		logger.Debug("state database stats\n" + stats)
	}
	if err := d.events.Close(); err != nil {
		logger.Warn("failed to close event db", "err", err)
	}
	if err := d.state.Close(); err != nil {
		logger.Warn("failed to close state db", "err", err)
	}
}

// openDatabases opens the state and event databases under dataDir, or in memory when dataDir is empty.
func openDatabases(dataDir string, opts lvldb.Options) (*databases, error) {
	if dataDir == "" {
		state, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		events, err := logdb.NewMem()
		if err != nil {
			state.Close()
			return nil, err
		}
		return &databases{state, events}, nil
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	state, err := lvldb.New(filepath.Join(dataDir, "state.db"), opts)
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	events, err := logdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		state.Close()
		return nil, errors.Wrap(err, "open event database")
	}
	return &databases{state, events}, nil
}

// handleExitSignal returns a context canceled on SIGINT or SIGTERM.
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

// serve runs an http server in group until ctx is done.
func serve(ctx context.Context, group *errgroup.Group, name, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}
	logger.Info("server started", "name", name, "addr", listener.Addr().String())

	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "%s server", name)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("stopping server", "name", name)
		return srv.Shutdown(shutdownCtx)
	})
	return nil
}
