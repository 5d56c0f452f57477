package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trolleyman/hagias-monitor-service/internal/config"
	"github.com/trolleyman/hagias-monitor-service/internal/httpapi"
	"github.com/trolleyman/hagias-monitor-service/internal/layouts"
)

// Flag values start from environment variable defaults so the service can be
// configured entirely from the environment (systemd units, containers).
type options struct {
	addr        string
	configPath  string
	layoutsPath string
	applyCmd    string
	applyMS     int
	logLevel    string
	corsEnabled bool
	corsOrigins string
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	opts := &options{
		addr:        envDefault("HAGIAS_ADDR", ":8080"),
		configPath:  envDefault("HAGIAS_CONFIG", ""),
		layoutsPath: envDefault("HAGIAS_LAYOUTS", "~/.config/hagias/layouts.json"),
		applyCmd:    envDefault("HAGIAS_APPLY_CMD", ""),
		logLevel:    envDefault("HAGIAS_LOG_LEVEL", "info"),
	}

	root := &cobra.Command{
		Use:           "hagias-monitor-service",
		Short:         "Monitor layout dashboard with live toast notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Optional config file (.yaml|.json|.toml)")
	root.PersistentFlags().StringVar(&opts.layoutsPath, "layouts", opts.layoutsPath, "Path to the layouts JSON file")
	root.PersistentFlags().StringVar(&opts.applyCmd, "apply-cmd", opts.applyCmd, "Command that applies a layout (layout id appended, JSON on stdin)")
	root.PersistentFlags().IntVar(&opts.applyMS, "apply-timeout-ms", 0, "Timeout for the apply command in ms (0=default)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level: debug|info|warn|error")
	root.Flags().StringVar(&opts.addr, "addr", opts.addr, "HTTP listen address, e.g. :8080")
	root.Flags().BoolVar(&opts.corsEnabled, "cors", false, "Enable CORS for browser clients on other origins")
	root.Flags().StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (empty=all)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	serve.Flags().StringVar(&opts.addr, "addr", opts.addr, "HTTP listen address, e.g. :8080")
	serve.Flags().BoolVar(&opts.corsEnabled, "cors", false, "Enable CORS for browser clients on other origins")
	serve.Flags().StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (empty=all)")

	root.AddCommand(serve, newLayoutCmd(opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig merges the optional config file with flag/env values.
// Flags that were set explicitly win over the file; file values win over
// built-in defaults.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Config{
		Addr:           opts.addr,
		LayoutsPath:    opts.layoutsPath,
		ApplyCommand:   opts.applyCmd,
		ApplyTimeoutMS: opts.applyMS,
		LogLevel:       opts.logLevel,
		CORSEnabled:    opts.corsEnabled,
		CORSOrigins:    splitCSV(opts.corsOrigins),
	}
	if opts.configPath == "" {
		return cfg, nil
	}
	fileCfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.InheritedFlags().Lookup(name)
		}
		return f != nil && f.Changed
	}
	if fileCfg.Addr != "" && !changed("addr") {
		cfg.Addr = fileCfg.Addr
	}
	if fileCfg.LayoutsPath != "" && !changed("layouts") {
		cfg.LayoutsPath = fileCfg.LayoutsPath
	}
	if fileCfg.ApplyCommand != "" && !changed("apply-cmd") {
		cfg.ApplyCommand = fileCfg.ApplyCommand
	}
	if fileCfg.ApplyTimeoutMS > 0 && !changed("apply-timeout-ms") {
		cfg.ApplyTimeoutMS = fileCfg.ApplyTimeoutMS
	}
	if fileCfg.LogLevel != "" && !changed("log-level") {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.CORSEnabled && !changed("cors") {
		cfg.CORSEnabled = true
	}
	if len(fileCfg.CORSOrigins) > 0 && !changed("cors-origins") {
		cfg.CORSOrigins = fileCfg.CORSOrigins
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func buildService(cfg config.Config, log zerolog.Logger) (*layouts.Store, *layouts.Service, error) {
	store, err := layouts.NewStore(cfg.LayoutsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("layouts store: %w", err)
	}
	if err := store.Reload(); err != nil {
		return nil, nil, fmt.Errorf("load layouts from %s: %w", store.Path(), err)
	}
	applier := &layouts.ExecApplier{
		Command: cfg.ApplyCommand,
		Timeout: time.Duration(cfg.ApplyTimeoutMS) * time.Millisecond,
	}
	return store, layouts.NewService(store, applier, log), nil
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	store, svc, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Int("layouts", store.Len()).Str("path", store.Path()).Msg("layouts loaded")

	watcher, err := layouts.NewWatcher(store, log)
	if err != nil {
		log.Warn().Err(err).Msg("layouts file watcher disabled")
	} else if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("layouts file watcher disabled")
	} else {
		defer watcher.Close()
	}

	httpapi.SetLogger(log)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins)

	baseCtx, baseCancel := context.WithCancel(context.Background())
	defer baseCancel()
	httpapi.SetBaseContext(baseCtx)

	hub := httpapi.NewHub(clockwork.NewRealClock(), log)
	mux := httpapi.NewMux(svc, hub)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("hagias-monitor-service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	baseCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
