// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// The payment-webhook-api command verifies payment provider webhooks and
// forwards the verified events to the message bus.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"goa.design/clue/health"
	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/cmd/payment-webhook-api/service"
	internalService "github.com/linuxfoundation/lfx-v2-payment-webhook-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-payment-webhook-service/pkg/utils"
)

// Build-time variables
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const gracefulShutdownSeconds = 25

func main() {
	var (
		port = flag.String("p", "8080", "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
		dbg  = flag.Bool("d", false, "enable debug logging")
	)
	flag.Parse()

	// .env is optional and only meant for local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if *dbg {
		_ = os.Setenv("LOG_LEVEL", "debug")
	}
	log.InitStructureLogConfig()

	if err := run(*bind, *port); err != nil {
		slog.Error("payment webhook service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(bind, port string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.InfoContext(ctx, "starting payment webhook service",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	otelConfig := utils.OTelConfigFromEnv()
	if otelConfig.ServiceVersion == "" {
		otelConfig.ServiceVersion = Version
	}
	otelShutdown, err := utils.SetupOTelSDKWithConfig(ctx, otelConfig)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down OpenTelemetry", "error", err)
		}
	}()

	publisher, err := service.EventPublisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}()

	verifiers, pingers, err := service.WebhookVerifiers(ctx)
	if err != nil {
		return err
	}
	pingers = append(pingers, service.NewPinger("event-publisher", publisher.IsReady))

	routes, err := service.LoadRoutes(os.Getenv(constants.EnvWebhookRoutesFile))
	if err != nil {
		return err
	}
	registry := routes.Registry(
		internalService.NewEventForwarder(publisher),
		internalService.NewEventLogger(),
	)

	processor, err := internalService.NewWebhookProcessor(registry, verifiers)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "webhook providers enabled", "providers", processor.Providers())

	addr := ":" + port
	if bind != "*" {
		addr = bind + ":" + port
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := newHTTPServer(addr, service.NewWebhookHandler(processor), health.NewChecker(pingers...))

	g.Go(func() error {
		slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
		return serve(srv)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "timeout_seconds", gracefulShutdownSeconds)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
