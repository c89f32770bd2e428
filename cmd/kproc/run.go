package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"github.com/viant/afs"
	"github.com/viant/kproc"
	"github.com/viant/kproc/logger"
	"github.com/viant/kproc/scenario"
)

var runFlags = []cli.Flag{
	configFlag,
	cli.DurationFlag{
		Name:  "duration, d",
		Usage: "how long to run (default: the scenario duration, or 1s)",
	},
	cli.StringFlag{
		Name:  "metrics, m",
		Usage: "address to serve Prometheus metrics on while running",
	},
	cli.StringFlag{
		Name:  "trace, t",
		Usage: "write OpenTelemetry spans to this file",
	},
	cli.BoolFlag{
		Name:  "dump",
		Usage: "print the process table dump before stopping",
	},
	cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "log kernel messages to stderr",
	},
}

func run(c *cli.Context) error {
	URL := c.Args().First()
	if URL == "" {
		return errors.New("scenario URL is required")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := loadConfig(ctx, c.String("config"))
	if err != nil {
		return err
	}
	s, err := scenario.LoadURL(ctx, afs.New(), URL)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	options := []kproc.Option{kproc.WithRegistry(registry)}
	if c.Bool("verbose") {
		options = append(options, kproc.WithLogger(logger.NewStandardLogger(log.New(os.Stderr, "kproc ", log.LstdFlags))))
	}
	if trace := c.String("trace"); trace != "" {
		options = append(options, kproc.WithTracing("kproc", version, trace))
	}
	srv, err := kproc.New(ctx, cfg, options...)
	if err != nil {
		return err
	}
	if addr := c.String("metrics"); addr != "" {
		server := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
		go func() { _ = server.ListenAndServe() }()
		defer server.Close()
	}

	rt := srv.Runtime()
	if err = rt.Start(ctx); err != nil {
		return err
	}
	if _, err = rt.RunScenario(s); err != nil {
		_ = rt.Shutdown(ctx)
		return err
	}
	duration := c.Duration("duration")
	if duration == 0 {
		duration = s.Duration
	}
	if duration == 0 {
		duration = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	snapshot, err := rt.SaveSnapshot(context.Background())
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return err
	}
	if c.Bool("dump") {
		srv.Kernel().Dump(c.App.Writer)
	}
	if err = rt.Shutdown(context.Background()); err != nil {
		return err
	}
	counters := rt.Progress()
	fmt.Fprintf(c.App.Writer, "spawned %d, exited %d, reaped %d, killed %d\n", counters.Spawned, counters.Exited, counters.Reaped, counters.Killed)
	fmt.Fprintf(c.App.Writer, "snapshot %v at tick %d\n", snapshot.ID, snapshot.Ticks)
	renderTable(c.App.Writer, snapshot)
	return nil
}

func loadConfig(ctx context.Context, URL string) (*kproc.Config, error) {
	if URL == "" {
		return kproc.DefaultConfig(), nil
	}
	return kproc.LoadConfig(ctx, URL)
}
