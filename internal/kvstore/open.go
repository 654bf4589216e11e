package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/ezrevenue/internal/config"
	"github.com/dmitrijs2005/ezrevenue/internal/filex"
	"github.com/dmitrijs2005/ezrevenue/internal/kvstore/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded migrations of dir to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect %s: %w", dialect, err)
	}
	return goose.UpContext(ctx, db, dir)
}

// OpenSQLite opens (creating if needed) the SQLite database at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if err := RunMigrations(ctx, db, "sqlite3", migrations.SQLiteDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrations: %w", err)
	}
	return db, nil
}

// OpenPostgres connects through the pgx stdlib driver and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := RunMigrations(ctx, db, "postgres", migrations.PostgresDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	return db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the Repository selected by cfg.StorageScope (and cfg.SyncBackend
// for the sync scope). The returned Closer releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (Repository, io.Closer, error) {
	switch cfg.StorageScope {
	case config.ScopeLocal:
		if err := filex.EnsureParentDir(cfg.SQLitePath); err != nil {
			return nil, nil, err
		}
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteRepository(db), db, nil

	case config.ScopeSync:
		switch cfg.SyncBackend {
		case config.BackendPostgres:
			db, err := OpenPostgres(ctx, cfg.PostgresDSN)
			if err != nil {
				return nil, nil, err
			}
			return NewPostgresRepository(db), db, nil

		case config.BackendS3:
			client, err := NewS3Client(ctx, S3Options{
				Region:       cfg.S3Region,
				BaseEndpoint: cfg.S3BaseEndpoint,
				AccessKey:    cfg.S3AccessKey,
				SecretKey:    cfg.S3SecretKey,
			})
			if err != nil {
				return nil, nil, err
			}
			return NewS3Repository(client, cfg.S3Bucket, cfg.S3Prefix), nopCloser{}, nil
		}
		return nil, nil, fmt.Errorf("unknown sync backend %q", cfg.SyncBackend)

	case config.ScopeMemory:
		return NewMemoryRepository(), nopCloser{}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage scope %q", cfg.StorageScope)
}
