package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/internal/config"
	"github.com/consulago/dashboard-gateway/server"
	"github.com/consulago/dashboard-gateway/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	backendClient, err := backend.NewClient(c.GetBackendBaseURL(), c.GetBackendTimeout(), backend.WithLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "backend.NewClient")
	}

	store := session.NewInMemoryStore()

	verifier, err := auth.NewVerifier(backendClient, store, auth.WithVerifierLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "auth.NewVerifier")
	}

	refresher, err := auth.NewRefresher(backendClient, store, auth.WithRefresherLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "auth.NewRefresher")
	}

	srv, err := server.New(c, store, verifier, refresher, backendClient)
	if err != nil {
		return errors.Wrap(err, "server.New")
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
