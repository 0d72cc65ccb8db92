package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/storefront-simulator/internal/advisor"
	"github.com/fairyhunter13/storefront-simulator/internal/catalog"
	httpapi "github.com/fairyhunter13/storefront-simulator/internal/http"
	"github.com/fairyhunter13/storefront-simulator/internal/mq"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/fairyhunter13/storefront-simulator/internal/storefront"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func newEngine(cat *catalog.Catalog) (*storefront.Engine, func(), error) {
	opts := storefront.Options{
		AddToCartDelay: cfg.Storefront.AddToCartDelay,
		CheckoutDelay:  cfg.Storefront.CheckoutDelay,
		NoticeTTL:      cfg.Storefront.NotificationTTL,
		TickInterval:   cfg.Simulator.Interval,
		Seed:           cfg.SimulatorSeed(),
		TrafficWindow:  cfg.Simulator.TrafficWindow,
		MailboxBuffer:  cfg.Storefront.MailboxBuffer,
		Advisor:        newAdvisor(),
	}
	cleanup := func() {}
	if cfg.RabbitMQ.URL != "" {
		pub, err := mq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, nil, err
		}
		opts.Publisher = pub
		cleanup = pub.Close
		obs.Logger.Info("order_publisher_ready", "exchange", cfg.RabbitMQ.Exchange)
	}
	return storefront.New(cat, opts), cleanup, nil
}

func newAdvisor() advisor.Advisor {
	return advisor.FromCredential(cfg.Advisor.APIKey, cfg.Advisor.BaseURL, cfg.Advisor.Model, advisor.Options{
		Timeout: cfg.Advisor.Timeout,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	obs.Logger.Info("service_starting")
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	engine, closePublisher, err := newEngine(cat)
	if err != nil {
		return err
	}
	defer closePublisher()

	app := httpapi.NewApp(engine)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(context.Background())
	engineCtx, stopEngine := context.WithCancel(gctx)
	defer stopEngine()

	g.Go(func() error { return engine.Run(engineCtx) })
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "products", cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			obs.Logger.Info("shutdown_signal")
		case <-gctx.Done():
		}
		app.StartShutdown()
		_, _, backlog, _ := engine.MailboxMetrics()
		obs.Logger.Info("shutdown_drain_begin", "backlog_size", backlog)

		ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelDrain()
		if drained := engine.DrainUntil(ctxDrain); !drained {
			obs.Logger.Warn("shutdown_drain_timeout")
		} else {
			obs.Logger.Info("shutdown_drain_complete")
		}

		ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelSrv()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err)
		}
		stopEngine()
		return nil
	})

	err = g.Wait()
	obs.Logger.Info("service_stopped")
	return err
}
