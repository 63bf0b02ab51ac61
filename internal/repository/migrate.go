package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// MigrateUp applies every *.up.sql file in migrationsDir in lexical order.
// Statements are written to be idempotent (CREATE TABLE IF NOT EXISTS), so
// running the migrations on every startup is safe.
func (r *ReservationRepo) MigrateUp(ctx context.Context, migrationsDir string, log *zerolog.Logger) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := r.db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}
	log.Info().Str("dir", migrationsDir).Int("files", len(files)).Msg("migrations applied")
	return nil
}
