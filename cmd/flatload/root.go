package main

import (
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flatload/internal/config"
	"flatload/internal/fixedwidth"
	"flatload/internal/layout"
	"flatload/internal/metrics"
	"flatload/internal/metrics/datadog"
	"flatload/internal/metrics/prompush"
	"flatload/internal/runlock"
	"flatload/internal/skiplog"
	"flatload/internal/storage"
)

// app carries the state shared by every subcommand: the resolved config and
// the process logger.
type app struct {
	cfgPath string

	// flag overrides, applied only when set on the command line
	storageKind string
	dsn         string
	schema      string
	commitMode  string
	logLevel    string
	logFormat   string
	metrics     string
	pushgateway string
	lockFile    string

	cfg config.Config
	log zerolog.Logger
	out io.Writer
	err io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "flatload",
		Short:         "Load fixed-width MIS extracts into a warehouse",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "JSON config file (optional)")
	pf.StringVar(&a.storageKind, "storage", "", "storage kind: oracle, postgres, mssql, mysql, sqlite (env "+config.EnvStorage+")")
	pf.StringVar(&a.dsn, "dsn", "", "warehouse connection string (env "+config.EnvDSN+")")
	pf.StringVar(&a.schema, "schema", "", "schema owning the load tables (env "+config.EnvSchema+")")
	pf.StringVar(&a.commitMode, "commit", "", "commit mode: run or file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&a.metrics, "metrics-backend", "", "metrics backend: none, prometheus, datadog")
	pf.StringVar(&a.pushgateway, "pushgateway-url", "", "Pushgateway base URL for the prometheus backend")
	pf.StringVar(&a.lockFile, "lock-file", "", "lock file held for the duration of a run")

	root.AddCommand(
		newRunCmd(a),
		newSCFFCmd(a),
		newProbeCmd(a),
		newLayoutsCmd(a),
		newValidateCmd(a),
	)
	return root
}

// setup resolves the configuration (defaults, file, env, flags) and builds
// the logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.out, a.err = cmd.OutOrStdout(), cmd.ErrOrStderr()
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("storage", &cfg.Storage.Kind, a.storageKind)
	set("dsn", &cfg.Storage.DSN, a.dsn)
	set("schema", &cfg.Storage.Schema, a.schema)
	set("commit", &cfg.Storage.CommitMode, a.commitMode)
	set("log-level", &cfg.Log.Level, a.logLevel)
	set("log-format", &cfg.Log.Format, a.logFormat)
	set("metrics-backend", &cfg.Metrics.Backend, a.metrics)
	set("pushgateway-url", &cfg.Metrics.PushgatewayURL, a.pushgateway)
	set("lock-file", &cfg.LockFile, a.lockFile)
	a.cfg = cfg

	a.log, err = newLogger(a.err, cfg.Log)
	return err
}

// newLogger returns a console or JSON zerolog logger at the configured level.
func newLogger(w io.Writer, c config.Log) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if strings.TrimSpace(c.Level) != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(c.Level))
		if err != nil {
			return zerolog.Nop(), errors.Wrap(err, "log level")
		}
		level = l
	}
	switch c.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), errors.Errorf("unknown log format %q", c.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// checkConfig logs every validation issue and fails on errors.
func (a *app) checkConfig() error {
	issues := config.Validate(a.cfg)
	for _, iss := range issues {
		ev := a.log.Warn()
		if iss.Severity == config.SeverityError {
			ev = a.log.Error()
		}
		ev.Str("path", iss.Path).Msg(iss.Message)
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	return nil
}

// setupMetrics installs the configured backend. The returned func flushes
// it; metrics failures are logged and never fail a run.
func (a *app) setupMetrics() func() {
	m := a.cfg.Metrics
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "", "none":
		a.log.Debug().Msg("metrics disabled")
		return func() {}
	case "prometheus":
		b, err = prompush.NewBackend(a.cfg.Job, m.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  "flatload.",
			GlobalTags: m.Tags,
		})
	default:
		err = errors.Errorf("unknown backend %q", m.Backend)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("metrics: backend init failed; metrics disabled")
		return func() {}
	}
	metrics.SetBackend(b)
	a.log.Debug().Str("backend", m.Backend).Msg("metrics enabled")
	return func() {
		if err := metrics.Flush(); err != nil {
			a.log.Warn().Err(err).Msg("metrics: flush failed")
		}
	}
}

// lock takes the run lock when one is configured.
func (a *app) lock() (release func(), err error) {
	if a.cfg.LockFile == "" {
		return func() {}, nil
	}
	l, err := runlock.Acquire(a.cfg.LockFile)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Release(); err != nil {
			a.log.Warn().Err(err).Msg("release run lock")
		}
	}, nil
}

// registry returns the MIS layouts with overrides and relaxed codes applied.
// A mode set in the layouts file wins over mis.relaxed_codes.
func (a *app) registry() (*layout.Registry, error) {
	reg := layout.MIS()
	if path := a.cfg.MIS.LayoutsFile; path != "" {
		r, err := layout.LoadOverrides(reg, path)
		if err != nil {
			return nil, err
		}
		reg = r
	}
	for _, c := range a.cfg.MIS.RelaxedCodes {
		if !reg.Pinned(c) {
			continue
		}
		if l, err := reg.Lookup(c); err == nil && l.Mode != layout.Relaxed {
			a.log.Warn().Str("code", l.Code).Str("mode", l.Mode.String()).
				Msg("relaxed_codes entry ignored; layouts file sets the mode")
		}
	}
	return reg.WithModes(a.cfg.MIS.RelaxedCodes)
}

func (a *app) decoder() (*fixedwidth.Decoder, error) {
	return fixedwidth.NewDecoder(a.log, a.cfg.MIS.Encoding)
}

func (a *app) skipLog(path string) (*skiplog.Log, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	l, err := skiplog.New(path)
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close skip log")
		}
	}, nil
}

func (a *app) storageConfig() storage.Config {
	s := a.cfg.Storage
	return storage.Config{
		Kind:        s.Kind,
		DSN:         s.DSN,
		Schema:      s.Schema,
		PingTimeout: time.Duration(s.PingTimeoutSeconds) * time.Second,
	}
}

// folderArg returns args[0], or fallback when no argument was given.
func folderArg(args []string, fallback, what string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if fallback == "" {
		return "", errors.Errorf("no %s given (argument or config)", what)
	}
	return fallback, nil
}
