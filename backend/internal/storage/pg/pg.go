package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aljannat-dev/aljannat/backend/internal/storage/pg/migrations"
	"github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/logger"
	shared_pg "github.com/aljannat-dev/aljannat/shared/storage/pg"
	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
)

type Querier = shared_pg.Querier

type Storage struct {
	db  *sql.DB
	cfg *config.Config
}

// New connects to postgres and brings the schema up to date.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to database", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(ctx, cfg, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("successfully connected to database")
	return &Storage{db: db, cfg: cfg}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return shared_pg.WithTx(ctx, s.db, fn)
}
