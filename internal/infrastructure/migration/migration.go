package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("starting database migrations")

	migrations := []Migration{
		{Name: "create_resumes", Up: createResumes},
		{Name: "create_payment_records", Up: createPaymentRecords},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}

	return nil
}

func createResumes(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_url TEXT NOT NULL,
			file_size BIGINT NOT NULL,
			pages INT NOT NULL DEFAULT 0,
			uploaded_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS resumes_user_id_idx ON resumes (user_id);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func createPaymentRecords(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS payment_records (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			payment_intent_id TEXT NOT NULL,
			amount BIGINT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS payment_records_user_id_idx ON payment_records (user_id);
	`
	_, err := pool.Exec(ctx, query)
	return err
}
