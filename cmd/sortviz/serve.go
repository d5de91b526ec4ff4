package main

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/sortviz/internal/eventbus"
	"github.com/san-kum/sortviz/internal/httpapi"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage/sqlite"
)

const eventBuffer = 256

// serve runs the HTTP API until interrupted. Runs are recorded in sqlite.
func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}

	path := cfg.Server.DBPath
	if path == "" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return err
		}
		path = filepath.Join(cfg.DataDir, "runs.db")
	}
	store, err := sqlite.New(path)
	if err != nil {
		return err
	}
	defer store.Close()

	bus := eventbus.New(eventBuffer)
	renderer := httpapi.NewRenderer(bus)
	ctl := session.New(renderer, session.Options{
		Layout:    cfg.LayoutValue(),
		Range:     cfg.Range(),
		Rand:      rand.New(rand.NewSource(cfg.Seed)),
		FoundHold: cfg.FoundHold(),
		Delay:     cfg.Delay(),
		Controls:  renderer,
		Logger:    log,
	})
	if err := ctl.Generate(cfg.Size, cfg.Sorted); err != nil {
		return err
	}

	h := httpapi.New(ctl, bus, httpapi.Options{Runs: store, Seed: cfg.Seed, Logger: log})
	defer h.Close()

	ctx, cancel := signalContext()
	defer cancel()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h.Router(),
		// event streams end with the server context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		ctl.RequestStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Server.Addr, "db": path}).Info("sortviz server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
