// Package cmd implements the CLI application to manage a tracker wallet.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/backend"
	"github.com/etnz/tracker/config"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&unlockCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&whoamiCmd{}, "session")

	c.Register(&historyCmd{}, "transactions")
	c.Register(&refreshCmd{}, "transactions")
	c.Register(&sendCmd{}, "transactions")

	c.Register(&serveCmd{}, "backend")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "", "Path to the YAML configuration file (default $TRACKER_CONFIG or ~/.config/tracker/config.yaml)")
var dataDir = flag.String("data-dir", "", "Folder where the session and the transactions are saved. Overrides the configuration.")
var rawMarkdown = flag.Bool("markdown", false, "Print raw markdown instead of rendering it for the terminal.")

// stdout receives the command output.
var stdout io.Writer = os.Stdout

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	return cfg, nil
}

// newLogger returns a development logger writing to stderr at the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

// newBackend returns the Authenticator and Fetcher selected by the configuration.
func newBackend(cfg *config.Config, log *zap.Logger) (tracker.Authenticator, tracker.Fetcher) {
	if cfg.Backend.Kind == config.BackendHTTP {
		c := backend.NewClient(backend.ClientConfig{
			URL:              cfg.Backend.URL,
			TransactionsPath: cfg.Backend.TransactionsPath,
			Timeout:          cfg.Backend.Timeout,
		}, log.Named("http"))
		return c, c
	}
	seed := backend.NewSeed()
	seed.Latency, seed.Currency = cfg.Backend.Latency, cfg.Currency
	return &backend.Demo{Latency: cfg.Backend.Latency, Currency: cfg.Currency}, seed
}

// OpenWallet is the central function to open the wallet persisted in the data folder.
// The returned function flushes the logs.
func OpenWallet() (*tracker.Wallet, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create logger: %w", err)
	}
	auth, fetcher := newBackend(cfg, log)
	hub := new(tracker.Hub)
	hub.Subscribe(func(e tracker.Event) {
		switch e.Kind {
		case tracker.EventDurabilityWarning:
			fmt.Fprintf(os.Stderr, "Warning: %v\n", e.Warning)
		default:
			log.Debug("event", zap.Stringer("kind", e.Kind))
		}
	})
	w := tracker.NewWallet(tracker.Options{
		Medium:        tracker.NewFileMedium(cfg.DataDir),
		Authenticator: auth,
		Fetcher:       fetcher,
		Sensor:        backend.SimulatedSensor{Mode: backend.SensorMode(cfg.Biometric.Sensor)},
		Logger:        log,
		Hub:           hub,
	})
	return w, func() { log.Sync() }, nil
}

// sessionFlags are the flags of the commands that need an active session.
// Without credentials, the saved session is unlocked with a biometric challenge.
type sessionFlags struct {
	email    string
	password string
}

func (s *sessionFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.email, "email", "", "Login email. Without it, the saved session is unlocked biometrically.")
	f.StringVar(&s.password, "password", os.Getenv("TRACKER_PASSWORD"), "Login password (default $TRACKER_PASSWORD).")
}

// start establishes the session.
func (s *sessionFlags) start(ctx context.Context, w *tracker.Wallet) (tracker.Account, error) {
	if s.email != "" {
		return w.Login(ctx, tracker.Credentials{Email: s.email, Password: s.password})
	}
	return w.Unlock(ctx)
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// fail prints err and returns the matching exit status.
func fail(err error) subcommands.ExitStatus {
	var e *tracker.Error
	if errors.As(err, &e) {
		fmt.Fprintln(os.Stderr, e.Message)
		if e.Class == tracker.ClassValidation {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
