package loader

import (
	"context"

	"github.com/rs/zerolog"

	"flatload/internal/runctx"
	"flatload/internal/storage"
)

// Cleanup tears an aborted run down: it rolls back the open transaction,
// drops every table the run created (newest first) and closes conn. It runs
// at most once per run; later calls return nil. Failures are logged and the
// first one is returned.
func Cleanup(ctx context.Context, conn storage.Conn, rc *runctx.RunContext, log zerolog.Logger) error {
	if !rc.BeginCleanup() {
		return nil
	}
	// the caller's context is usually what got cancelled
	ctx = context.WithoutCancel(ctx)
	log = log.With().Str("run_id", rc.ID()).Logger()

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	if err := conn.Rollback(); err != nil && !storage.IsClosed(err) {
		log.Warn().Err(err).Msg("rollback failed")
		keep(err)
	} else if err == nil {
		log.Info().Msg("transaction rolled back")
	}

	d := conn.Dialect()
	created := rc.Created()
	for i := len(created) - 1; i >= 0; i-- {
		table := created[i]
		stmt := d.DropTableSQL(storage.QualifiedName(d, conn.Schema(), table))
		if _, err := conn.Exec(ctx, stmt); err != nil {
			log.Warn().Err(err).Str("table", table).Msg("drop created table failed")
			keep(err)
			continue
		}
		log.Info().Str("table", table).Msg("created table dropped")
	}

	if err := conn.Close(); err != nil && !storage.IsClosed(err) {
		log.Warn().Err(err).Msg("close connection failed")
		keep(err)
	}
	log.Warn().Int("tables_dropped", len(created)).Msg("run aborted")
	return first
}
