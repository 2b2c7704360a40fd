package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

// Command names accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// NewProvider builds a goose provider for the client's dialect with the
// inventory migrations registered. Closing the provider closes the client's
// underlying connection pool.
func NewProvider(client *db.Client, logg *logger.Logger) (*goose.Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect, err := gooseDialect(client.Dialect())
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(Migrations(client.Dialect(), logg)...),
	)
	if err != nil {
		return nil, fmt.Errorf("creating goose provider: %w", err)
	}
	return provider, nil
}

func gooseDialect(dialect string) (goose.Dialect, error) {
	switch dialect {
	case db.DialectSQLite:
		return goose.DialectSQLite3, nil
	case db.DialectPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

// Up applies every pending migration. It is safe to call on every startup.
func Up(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	if logg == nil {
		logg = logger.Nop()
	}
	provider, err := NewProvider(client, logg)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		logResult(ctx, logg, res)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"applied": len(results),
		"version": version,
	}), "migrations up to date")
	return nil
}

// Run executes one of the Command* operations. Status output is written to
// the logger rather than stdout.
func Run(ctx context.Context, client *db.Client, logg *logger.Logger, command string) error {
	if logg == nil {
		logg = logger.Nop()
	}
	switch command {
	case CommandUp:
		return Up(ctx, client, logg)
	}

	provider, err := NewProvider(client, logg)
	if err != nil {
		return err
	}

	switch command {
	case CommandDown:
		res, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		logResult(ctx, logg, res)
		return nil

	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, st := range statuses {
			fields := map[string]any{
				"version": st.Source.Version,
				"state":   string(st.State),
			}
			if !st.AppliedAt.IsZero() {
				fields["applied_at"] = st.AppliedAt
			}
			logg.Info(logg.WithFields(ctx, fields), "migration status")
		}
		return nil

	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		logg.Info(logg.WithField(ctx, "version", version), "current migration version")
		return nil

	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// MigrateToVersion migrates up or down to the requested version by comparing
// it with the current DB version.
func MigrateToVersion(ctx context.Context, client *db.Client, logg *logger.Logger, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", targetVersion, err)
	}
	if logg == nil {
		logg = logger.Nop()
	}

	provider, err := NewProvider(client, logg)
	if err != nil {
		return err
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		results, err := provider.UpTo(ctx, target)
		if err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		for _, res := range results {
			logResult(ctx, logg, res)
		}
		return nil

	default:
		results, err := provider.DownTo(ctx, target)
		if err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		for _, res := range results {
			logResult(ctx, logg, res)
		}
		return nil
	}
}

func logResult(ctx context.Context, logg *logger.Logger, res *goose.MigrationResult) {
	if res == nil || res.Source == nil {
		return
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"version":     res.Source.Version,
		"name":        migrationName(res.Source.Version),
		"direction":   res.Direction,
		"duration_ms": res.Duration.Milliseconds(),
	}), "migration applied")
}

// columnNames lists the columns of table on the current transaction.
func columnNames(ctx context.Context, tx *sql.Tx, dialect, table string) (map[string]bool, error) {
	var query string
	switch dialect {
	case db.DialectSQLite:
		query = `SELECT name FROM pragma_table_info(?)`
	case db.DialectPostgres:
		query = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	rows, err := tx.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
