package db

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/PauloHFS/inkpress/internal/config"
)

// DualPool splits readers from the single SQLite writer.
type DualPool struct {
	Read  *sql.DB
	Write *sql.DB
}

type PoolConfig struct {
	ReadMaxOpen  int
	ReadMaxIdle  int
	WriteMaxOpen int
	WriteMaxIdle int
}

var defaultPoolConfig = PoolConfig{
	ReadMaxOpen:  runtime.NumCPU() * 2,
	ReadMaxIdle:  runtime.NumCPU(),
	WriteMaxOpen: 1,
	WriteMaxIdle: 1,
}

// NewDualPool opens both pools on the same database file. path is a plain
// file path or file: URI; the SQLite tuning from config is appended.
func NewDualPool(path string, opts ...func(*PoolConfig)) (*DualPool, error) {
	cfg := defaultPoolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := config.GetSQLiteConfig().DSN(path)

	readDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	readDB.SetMaxOpenConns(cfg.ReadMaxOpen)
	readDB.SetMaxIdleConns(cfg.ReadMaxIdle)
	readDB.SetConnMaxIdleTime(5 * time.Minute)
	readDB.SetConnMaxLifetime(time.Hour)

	writeDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write pool: %w", err)
	}
	writeDB.SetMaxOpenConns(cfg.WriteMaxOpen)
	writeDB.SetMaxIdleConns(cfg.WriteMaxIdle)
	writeDB.SetConnMaxIdleTime(5 * time.Minute)
	writeDB.SetConnMaxLifetime(time.Hour)

	pool := &DualPool{
		Read:  readDB,
		Write: writeDB,
	}

	if err := writeDB.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return pool, nil
}

func WithReadPoolSize(maxOpen, maxIdle int) func(*PoolConfig) {
	return func(cfg *PoolConfig) {
		cfg.ReadMaxOpen = maxOpen
		cfg.ReadMaxIdle = maxIdle
	}
}

func (p *DualPool) Close() error {
	var errs []error
	if p.Read != nil {
		if err := p.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("read pool close: %w", err))
		}
	}
	if p.Write != nil {
		if err := p.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("write pool close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing pools: %v", errs)
	}
	return nil
}

func (p *DualPool) Queries() *Queries {
	return New(p.Read)
}

func (p *DualPool) QueriesWrite() *Queries {
	return New(p.Write)
}

// WithTx runs fn inside a write transaction, committing when fn returns nil.
func (p *DualPool) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := p.Write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(New(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *DualPool) Ping(ctx context.Context) error {
	return p.Read.PingContext(ctx)
}
