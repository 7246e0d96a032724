package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead-router/config"
	"lead-router/directory"
	"lead-router/engine"
	"lead-router/formatter"
	"lead-router/leads"
	"lead-router/logger"
	"lead-router/metrics"
	"lead-router/roster"
	"lead-router/sqlitestore"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "lead_router"

// app is the per-invocation wiring shared by every subcommand.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	wait   bool
	dir    directory.Directory
	leads  leads.Log
	roster roster.Roster
	engine *engine.Engine
	svc    *leads.Service
	closer func() error
}

// open wires the directory, the lead log, the engine and the service.
// With bootstrap set, an empty directory is seeded from the roster first.
func (a *app) open(ctx context.Context, bootstrap bool) error {
	ros, err := roster.Load(a.cfg.RosterPath)
	if err != nil {
		return err
	}
	a.roster = ros

	if a.cfg.DBPath != "" {
		st, err := sqlitestore.Open(a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		a.dir, a.leads, a.closer = st, st, st.Close
	} else {
		a.dir, a.leads = directory.NewMemory(), leads.NewMemoryLog()
	}

	if bootstrap {
		if _, err := roster.Bootstrap(ctx, a.dir, ros); err != nil {
			return err
		}
	}

	a.engine = engine.New(a.dir, a.log)
	a.svc = leads.NewService(a.engine, a.leads, a.log)
	return nil
}

func (a *app) seed(ctx context.Context) (bool, error) {
	return roster.Bootstrap(ctx, a.dir, a.roster)
}

// close records the board gauges, pushes metrics when configured and
// releases the store.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.dir != nil {
		if agents, err := a.dir.List(ctx); err == nil {
			metrics.ObserveBoard(formatter.PrepareBoard(agents, time.Now()).BusyByTier())
		}
	}
	if a.cfg.PushURL != "" {
		if err := push.New(a.cfg.PushURL, pushJobName).Gatherer(metrics.Registry).Push(); err != nil {
			errs = append(errs, fmt.Errorf("push metrics: %w", err))
		} else {
			a.log.Info("metrics_pushed", "url", a.cfg.PushURL)
		}
	}
	if a.wait && a.cfg.MetricsAddr != "" {
		fmt.Fprintln(os.Stderr, "Process kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	}
	if a.closer != nil {
		errs = append(errs, a.closer())
	}
	return errors.Join(errs...)
}

func (a *app) serveMetrics() {
	if a.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	go func() {
		a.log.Info("metrics_listening", "addr", a.cfg.MetricsAddr)
		if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil {
			a.log.Error("metrics_server", "error", err.Error())
		}
	}()
}
