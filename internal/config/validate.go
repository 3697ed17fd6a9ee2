package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"flatload/internal/fixedwidth"
	"flatload/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "mis.relaxed_codes[1]"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static checks of cfg and returns the findings. Storage
// kinds are checked against the registered dialects, so callers import the
// backends they support first (usually storage/all).
func Validate(c Config) []Issue {
	var issues []Issue
	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics will carry no job label",
		})
	}
	issues = append(issues, validateStorage(c.Storage)...)
	issues = append(issues, validateMIS(c.MIS)...)
	issues = append(issues, validateSCFF(c.SCFF)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	issues = append(issues, validateLog(c.Log)...)
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	d, err := storage.Lookup(s.Kind)
	if err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; known kinds: %s", s.Kind, strings.Join(storage.Kinds(), ", ")),
		})
	}

	switch {
	case strings.TrimSpace(s.DSN) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty (or set " + EnvDSN + ")",
		})
	case d != nil:
		if err := d.ValidateDSN(s.DSN); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  err.Error(),
			})
		}
	}

	switch s.CommitMode {
	case "", "run", "file":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.commit_mode",
			Message:  fmt.Sprintf("commit_mode %q must be run or file", s.CommitMode),
		})
	}

	if strings.TrimSpace(s.GrantTo) == "" && d != nil && d.GrantSelectSQL("t", "x") != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.grant_to",
			Message:  "grant_to is empty; created tables will not be granted to anyone",
		})
	}
	if s.PingTimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.ping_timeout_seconds",
			Message:  "ping_timeout_seconds must not be negative",
		})
	}
	return issues
}

func validateMIS(m MIS) []Issue {
	var issues []Issue

	if strings.TrimSpace(m.Folder) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "mis.folder",
			Message:  "mis.folder is empty; pass the folder on the command line",
		})
	}
	if !strings.HasPrefix(m.Extension, ".") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mis.extension",
			Message:  fmt.Sprintf("extension %q must start with a dot", m.Extension),
		})
	}
	if m.PartitionStart < 0 || m.PartitionEnd <= m.PartitionStart {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mis.partition_start",
			Message:  fmt.Sprintf("partition slice [%d:%d] is empty or negative", m.PartitionStart, m.PartitionEnd),
		})
	}
	if strings.TrimSpace(m.PartitionColumn) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "mis.partition_column",
			Message:  "partition_column is empty; reloads will append instead of replacing",
		})
	}
	if strings.TrimSpace(m.TableSuffix) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mis.table_suffix",
			Message:  "table_suffix must not be empty; loads never write to production tables",
		})
	}
	for i, code := range m.RelaxedCodes {
		if len(code) != 2 || strings.ToUpper(code) != code || strings.ContainsAny(code, "0123456789 ") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("mis.relaxed_codes[%d]", i),
				Message:  fmt.Sprintf("%q is not a two-letter record type", code),
			})
		}
	}
	if m.LayoutsFile != "" {
		if _, err := os.Stat(m.LayoutsFile); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "mis.layouts_file",
				Message:  err.Error(),
			})
		}
	}
	issues = append(issues, validateEncoding("mis.encoding", m.Encoding)...)
	return issues
}

func validateSCFF(s SCFF) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.TablePrefix) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "scff.table_prefix",
			Message:  "table_prefix must not be empty",
		})
	}
	if strings.TrimSpace(s.LatestDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "scff.latest_dir",
			Message:  "latest_dir must not be empty",
		})
	}
	issues = append(issues, validateEncoding("scff.encoding", s.Encoding)...)
	return issues
}

func validateEncoding(path, name string) []Issue {
	if _, err := fixedwidth.Charset(name); err != nil {
		return []Issue{{Severity: SeverityError, Path: path, Message: err.Error()}}
	}
	return nil
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "none":
	case "prometheus":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend requires pushgateway_url",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog_addr is empty; the client falls back to DD_AGENT_HOST",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want none, prometheus or datadog)", m.Backend),
		})
	}
	return issues
}

func validateLog(l Log) []Issue {
	var issues []Issue
	if _, err := zerolog.ParseLevel(strings.ToLower(l.Level)); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "log.level",
			Message:  err.Error(),
		})
	}
	switch l.Format {
	case "", "console", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "log.format",
			Message:  fmt.Sprintf("unknown log format %q (want console or json)", l.Format),
		})
	}
	return issues
}
