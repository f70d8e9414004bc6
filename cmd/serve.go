package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/tracker/backend"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	addr string
	seed string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the demo backend over HTTP" }
func (*serveCmd) Usage() string {
	return `trk serve [-addr <host:port>] [-seed <file.json>]

  Serves the demo backend, so that another device can use it with
  backend.kind: http.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "Address to listen on.")
	f.StringVar(&c.seed, "seed", "", "JSON file with the transactions to serve. Defaults to the built-in history.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fail(err)
	}
	defer log.Sync()

	seed := backend.NewSeed()
	if c.seed != "" {
		if seed, err = backend.OpenSeed(c.seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading seed %q: %v\n", c.seed, err)
			return subcommands.ExitFailure
		}
	}
	seed.Latency, seed.Currency = cfg.Backend.Latency, cfg.Currency

	srv := &http.Server{
		Addr:              c.addr,
		Handler:           backend.NewServer(&backend.Demo{Latency: cfg.Backend.Latency, Currency: cfg.Currency}, seed, log.Named("server")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Info("listening", zap.String("addr", c.addr))
	fmt.Fprintf(os.Stderr, "Serving the demo backend on http://%s\n", c.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
