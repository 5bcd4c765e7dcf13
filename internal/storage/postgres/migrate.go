package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"
)

// Migrate applies every *.up.sql file in fsys in name order inside one
// transaction. The files are written to be re-runnable.
func Migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS, logger *slog.Logger) error {
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	return NewTransactionManager(db).WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, db)
		for _, name := range files {
			body, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}
			if _, err := exec.ExecContext(ctx, string(body)); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			logger.Debug("migration applied", "file", name)
		}
		logger.Info("database schema up to date", "migrations", len(files))
		return nil
	})
}
