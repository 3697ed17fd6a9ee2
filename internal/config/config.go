// Package config defines the JSON configuration of flatload runs. The file
// is optional: Default supplies every value, the JSON file overrides the
// defaults it names, environment variables fill connection settings the file
// leaves empty, and CLI flags override everything.
//
// Example (trimmed):
//
//	{
//	  "storage": { "kind": "oracle", "schema": "DWH", "commit_mode": "run" },
//	  "mis":     { "folder": "/data/mis", "relaxed_codes": ["SL", "SY"] },
//	  "scff":    { "root": "/data/scff", "skip_stale": true },
//	  "metrics": { "backend": "prometheus", "pushgateway_url": "http://pgw:9091" },
//	  "log":     { "level": "info", "format": "json" }
//	}
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/go-faster/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvStorage = "FLATLOAD_STORAGE"
	EnvDSN     = "FLATLOAD_DSN"
	EnvSchema  = "FLATLOAD_SCHEMA"
)

// DefaultStorageKind is used when neither the file nor the environment names
// a storage kind.
const DefaultStorageKind = "oracle"

// Config is the top-level object of a config file.
type Config struct {
	// Job labels metrics and identifies the deployment in logs.
	Job     string  `json:"job"`
	Storage Storage `json:"storage"`
	MIS     MIS     `json:"mis"`
	SCFF    SCFF    `json:"scff"`
	Metrics Metrics `json:"metrics"`
	Log     Log     `json:"log"`

	// LockFile guards against two runs on one warehouse; empty disables it.
	LockFile string `json:"lock_file"`
}

// Storage selects the warehouse.
type Storage struct {
	// Kind is a registered storage kind: oracle, postgres, mssql, mysql, sqlite.
	Kind string `json:"kind"`
	DSN  string `json:"dsn"`
	// Schema owns the load tables; empty uses the dialect default.
	Schema string `json:"schema"`
	// CommitMode is "run" (one transaction per run) or "file".
	CommitMode string `json:"commit_mode"`
	// GrantTo receives SELECT on created tables; empty skips the grant.
	GrantTo            string `json:"grant_to"`
	PingTimeoutSeconds int    `json:"ping_timeout_seconds"`
}

// MIS configures the fixed-width feed.
type MIS struct {
	Folder          string `json:"folder"`
	Extension       string `json:"extension"`
	PartitionStart  int    `json:"partition_start"`
	PartitionEnd    int    `json:"partition_end"`
	PartitionColumn string `json:"partition_column"`
	TablePrefix     string `json:"table_prefix"`
	TableSuffix     string `json:"table_suffix"`
	// RelaxedCodes run in relaxed mode on top of what the layouts declare.
	RelaxedCodes []string `json:"relaxed_codes"`
	// LayoutsFile is an optional YAML file of layout overrides.
	LayoutsFile string `json:"layouts_file"`
	// Encoding of the input files: utf-8, latin1, windows-1252.
	Encoding string `json:"encoding"`
	// SkipLog is an optional CSV path receiving rejected rows.
	SkipLog string `json:"skip_log"`
}

// SCFF configures the pipe-delimited feed.
type SCFF struct {
	Root        string `json:"root"`
	TablePrefix string `json:"table_prefix"`
	LatestDir   string `json:"latest_dir"`
	SkipStale   bool   `json:"skip_stale"`
	Encoding    string `json:"encoding"`
	SkipLog     string `json:"skip_log"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prometheus" (Pushgateway) or "datadog" (DogStatsD).
	Backend        string   `json:"backend"`
	PushgatewayURL string   `json:"pushgateway_url"`
	DatadogAddr    string   `json:"datadog_addr"`
	Tags           []string `json:"tags"`
}

// Log configures the process logger.
type Log struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level"`
	// Format is "console" or "json".
	Format string `json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Job: "flatload",
		Storage: Storage{
			CommitMode:         "run",
			GrantTo:            "PUBLIC",
			PingTimeoutSeconds: 10,
		},
		MIS: MIS{
			Extension:       ".dat",
			PartitionStart:  3,
			PartitionEnd:    6,
			PartitionColumn: "GI03_TERM_ID",
			TablePrefix:     "MIS",
			TableSuffix:     "IN",
			RelaxedCodes:    []string{"SL", "SY"},
			Encoding:        "utf-8",
		},
		SCFF: SCFF{
			TablePrefix: "SCFF",
			LatestDir:   "Latest",
			Encoding:    "utf-8",
		},
		Metrics: Metrics{
			Backend:     "none",
			DatadogAddr: "127.0.0.1:8125",
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load returns Default overlaid with the JSON file at path (when path is not
// empty) and then with the environment. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read config")
		}
		if err := Decode(b, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "decode %s", path)
		}
	}
	ApplyEnv(&cfg, os.Getenv)
	if cfg.Storage.Kind == "" {
		cfg.Storage.Kind = DefaultStorageKind
	}
	return cfg, nil
}

// Decode overlays the JSON document b onto cfg.
func Decode(b []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// ApplyEnv fills empty storage settings from the environment.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	fill := func(dst *string, key string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = strings.TrimSpace(getenv(key))
		}
	}
	fill(&cfg.Storage.Kind, EnvStorage)
	fill(&cfg.Storage.DSN, EnvDSN)
	fill(&cfg.Storage.Schema, EnvSchema)
}

// Marshal renders cfg as indented JSON, e.g. for "flatload validate -print".
func Marshal(cfg Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}
