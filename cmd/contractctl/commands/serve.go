package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erraggy/apicontract/bridge"
	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/loader"
	"github.com/erraggy/apicontract/logging"
	"github.com/erraggy/apicontract/registry"
)

const shutdownTimeout = 5 * time.Second

// ServeConfig configures the mock server.
type ServeConfig struct {
	Addr            string
	MaxBodySize     int64
	RateLimit       float64
	RateBurst       int
	HandlerTimeout  time.Duration
	RequestIDHeader string
	MetricsPath     string
	LogLevel        string
	Mounts          []bridge.Mount
}

// DefaultServeConfig returns the configuration used when no file is given.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{
		Addr:            ":8080",
		MaxBodySize:     bridge.DefaultMaxBodySize,
		RequestIDHeader: bridge.DefaultRequestIDHeader,
		MetricsPath:     "/metrics",
		LogLevel:        "info",
	}
}

type serveFile struct {
	Addr            string      `toml:"addr"`
	MaxBodySize     int64       `toml:"max_body_size"`
	RateLimit       float64     `toml:"rate_limit"`
	RateBurst       int         `toml:"rate_burst"`
	HandlerTimeout  string      `toml:"handler_timeout"`
	RequestIDHeader string      `toml:"request_id_header"`
	MetricsPath     string      `toml:"metrics_path"`
	LogLevel        string      `toml:"log_level"`
	Mounts          []mountFile `toml:"mounts"`
}

type mountFile struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// LoadServeConfig reads a TOML file over the defaults. Keys absent from the
// file keep their default.
func LoadServeConfig(path string) (ServeConfig, error) {
	cfg := DefaultServeConfig()

	var raw serveFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServeConfig{}, fmt.Errorf("load serve config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ServeConfig{}, fmt.Errorf("load serve config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("max_body_size") {
		cfg.MaxBodySize = raw.MaxBodySize
	}
	if meta.IsDefined("rate_limit") {
		cfg.RateLimit = raw.RateLimit
	}
	if meta.IsDefined("rate_burst") {
		cfg.RateBurst = raw.RateBurst
	}
	if meta.IsDefined("handler_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HandlerTimeout))
		if err != nil {
			return ServeConfig{}, fmt.Errorf("parse handler_timeout: %w", err)
		}
		cfg.HandlerTimeout = d
	}
	if meta.IsDefined("request_id_header") {
		cfg.RequestIDHeader = strings.TrimSpace(raw.RequestIDHeader)
	}
	if meta.IsDefined("metrics_path") {
		cfg.MetricsPath = strings.TrimSpace(raw.MetricsPath)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("mounts") {
		cfg.Mounts = make([]bridge.Mount, 0, len(raw.Mounts))
		for i, m := range raw.Mounts {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				return ServeConfig{}, fmt.Errorf("mounts[%d]: name is required", i)
			}
			cfg.Mounts = append(cfg.Mounts, bridge.Mount{Name: name, URL: strings.TrimSpace(m.URL)})
		}
	}

	return cfg, nil
}

func (c ServeConfig) bridgeOptions(logger logging.Logger, metrics prometheus.Registerer) []bridge.Option {
	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithMaxBodySize(c.MaxBodySize),
		bridge.WithRequestIDHeader(c.RequestIDHeader),
		bridge.WithHandlerTimeout(c.HandlerTimeout),
	}
	if c.RateLimit > 0 {
		burst := c.RateBurst
		if burst <= 0 {
			burst = max(1, int(c.RateLimit))
		}
		opts = append(opts, bridge.WithRateLimit(c.RateLimit, burst))
	}
	if metrics != nil {
		opts = append(opts, bridge.WithMetrics(metrics))
	}
	return opts
}

// ServeFlags contains flags for the serve command
type ServeFlags struct {
	Config   string
	Addr     string
	LogLevel string
}

// SetupServeFlags creates and configures a FlagSet for the serve command.
func SetupServeFlags() (*flag.FlagSet, *ServeFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags := &ServeFlags{}

	fs.StringVar(&flags.Config, "c", "", "path to a TOML configuration file")
	fs.StringVar(&flags.Config, "config", "", "path to a TOML configuration file")
	fs.StringVar(&flags.Addr, "addr", "", "listen address (overrides the configuration file)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, or error (overrides the configuration file)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl serve [flags] <file|dir>\n\n")
		cliutil.Writef(fs.Output(), "Serve contract declarations with a mock handler that echoes the resolved\n")
		cliutil.Writef(fs.Output(), "parameters. Requests are converted and checked exactly as in production.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nConfiguration File (TOML):\n")
		cliutil.Writef(fs.Output(), "  addr = \":8080\"\n")
		cliutil.Writef(fs.Output(), "  max_body_size = 1048576\n")
		cliutil.Writef(fs.Output(), "  rate_limit = 50.0\n")
		cliutil.Writef(fs.Output(), "  rate_burst = 100\n")
		cliutil.Writef(fs.Output(), "  handler_timeout = \"2s\"\n")
		cliutil.Writef(fs.Output(), "  request_id_header = \"X-Request-Id\"\n")
		cliutil.Writef(fs.Output(), "  metrics_path = \"/metrics\"\n")
		cliutil.Writef(fs.Output(), "  log_level = \"info\"\n\n")
		cliutil.Writef(fs.Output(), "  [[mounts]]\n")
		cliutil.Writef(fs.Output(), "  name = \"getUser\"\n")
		cliutil.Writef(fs.Output(), "  url = \"/v2/users/:id\"\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  contractctl serve contracts/\n")
		cliutil.Writef(fs.Output(), "  contractctl serve -c serve.toml --addr 127.0.0.1:9000 contracts.yaml\n")
	}

	return fs, flags
}

// HandleServe executes the serve command
func HandleServe(args []string) error {
	fs, flags := SetupServeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("serve command requires exactly one file path or directory")
	}

	cfg := DefaultServeConfig()
	if flags.Config != "" {
		var err error
		if cfg, err = LoadServeConfig(flags.Config); err != nil {
			return err
		}
	}
	if flags.Addr != "" {
		cfg.Addr = flags.Addr
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(level)

	handler, err := NewServeHandler(cfg, fs.Arg(0), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg.Addr, handler, logger)
}

// NewServeHandler loads the declarations at sourcePath, binds the echo
// handler to each and returns the HTTP handler serving them together with
// the metrics endpoint.
func NewServeHandler(cfg ServeConfig, sourcePath string, logger logging.Logger) (http.Handler, error) {
	src := loader.WithFilePath(sourcePath)
	if isDir(sourcePath) {
		src = loader.WithDir(sourcePath)
	}
	entries, err := loader.Load(src, loader.WithDefaultHandler(echoArgs), loader.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.Declaration.Handler = echoArgs
		e.Declaration.SkipResultValidation = true
		c, err := e.Build()
		if err != nil {
			return nil, err
		}
		if err := reg.AddFrom(e.Source, c); err != nil {
			return nil, err
		}
	}

	metrics := prometheus.NewRegistry()
	b, err := bridge.New(reg, cfg.bridgeOptions(logger, metrics)...)
	if err != nil {
		return nil, err
	}
	router, err := b.Mount(cfg.Mounts...)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", router)
	return mux, nil
}

// echoArgs answers with the resolved parameters keyed by name.
func echoArgs(_ context.Context, args contract.Args) (any, error) {
	return args.Map(), nil
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving contracts", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down", "timeout", shutdownTimeout.String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
