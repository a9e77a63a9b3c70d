// TensorChess serves the chess rules engine and live explorer sessions over
// HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/hailam/tensorchess/internal/server"
	"github.com/hailam/tensorchess/internal/session"
	"github.com/hailam/tensorchess/internal/storage"
)

var (
	addr          = flag.String("addr", ":8080", "listen address")
	dataDir       = flag.String("data", "", "data directory (default: per-user data dir)")
	memory        = flag.Bool("memory", false, "keep settings and games in memory only")
	maxCandidates = flag.Int("candidates", 10, "ranked replies reported by /api/analyze")
	debug         = flag.Bool("debug", false, "debug logging")
)

func waitShutdown(srv *server.Server, idleConnsClosed chan<- struct{}) {
	defer close(idleConnsClosed)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigint)

	<-sigint
	log.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown")
	}
}

func openStorage() (*storage.Storage, error) {
	if *memory {
		return storage.OpenInMemory()
	}
	dir, err := storage.ResolveDataDir(*dataDir)
	if err != nil {
		return nil, err
	}
	dbDir, err := storage.DatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dbDir)
}

func main() {
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	store, err := openStorage()
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("close storage")
		}
	}()

	srv := server.New(server.Options{
		Sessions:      session.NewManager(store),
		Settings:      store,
		MaxCandidates: *maxCandidates,
		RequestLog:    true,
	})

	idleConnsClosed := make(chan struct{})
	go waitShutdown(srv, idleConnsClosed)

	log.WithField("addr", *addr).Info("listening")
	if err := srv.Start(*addr); err != nil {
		log.WithError(err).Error("HTTP server end")
		return
	}
	<-idleConnsClosed
}
