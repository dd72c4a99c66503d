package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sniper/pkg/config"
)

// DB holds the PostgreSQL pool behind the signal store
// ⭐ SSOT: DB 연결은 이 패키지에서만 생성
type DB struct {
	Pool *pgxpool.Pool
}

// New opens the signal store pool from DATABASE_URL and the DB_* pool settings
// ⭐ SSOT: 유일하게 pgxpool.New()를 호출하는 함수
func New(cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// fail at startup, not on the first accepted signal
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the pool; safe on a nil DB
func (db *DB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks the pool can reach the server
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Health reports whether the signal store can take a scan's inserts: the pool
// answers, the sniper_signals table exists, and how many signals are still OPEN.
func (db *DB) Health(ctx context.Context) (*StoreHealth, error) {
	health := &StoreHealth{CheckedAt: time.Now()}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.Latency = time.Since(start)
	health.Pool = db.PoolUsage()

	if err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		SignalsTable).Scan(&health.SchemaReady); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("look up %s: %w", SignalsTable, err)
	}
	if !health.SchemaReady {
		// run `sniper migrate` first
		health.Error = SignalsTable + " does not exist"
		return health, nil
	}

	if err := db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM `+SignalsTable+` WHERE status = 'OPEN'`).Scan(&health.OpenSignals); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count open signals: %w", err)
	}

	health.Healthy = true
	return health, nil
}

// StoreHealth is the signal store status printed by `sniper verify`
type StoreHealth struct {
	Healthy     bool          `json:"healthy"`
	SchemaReady bool          `json:"schema_ready"`
	OpenSignals int64         `json:"open_signals"`
	CheckedAt   time.Time     `json:"checked_at"`
	Latency     time.Duration `json:"latency"`
	Error       string        `json:"error,omitempty"`
	Pool        PoolUsage     `json:"pool"`
}

// PoolUsage is the slice of pgxpool stats that matters during a scan: the
// emitter inserts one row per accepted survivor, so waits show up as
// EmptyAcquires while a burst of signals is being written.
type PoolUsage struct {
	MaxConns      int32         `json:"max_conns"`
	TotalConns    int32         `json:"total_conns"`
	AcquiredConns int32         `json:"acquired_conns"`
	IdleConns     int32         `json:"idle_conns"`
	Acquires      int64         `json:"acquires"`
	EmptyAcquires int64         `json:"empty_acquires"`
	AcquireWait   time.Duration `json:"acquire_wait"`
}

// PoolUsage returns the current pool usage
func (db *DB) PoolUsage() PoolUsage {
	stat := db.Pool.Stat()
	return PoolUsage{
		MaxConns:      stat.MaxConns(),
		TotalConns:    stat.TotalConns(),
		AcquiredConns: stat.AcquiredConns(),
		IdleConns:     stat.IdleConns(),
		Acquires:      stat.AcquireCount(),
		EmptyAcquires: stat.EmptyAcquireCount(),
		AcquireWait:   stat.AcquireDuration(),
	}
}

// String renders the verify line, e.g. "3 open signals, pool 1/25 busy"
func (h *StoreHealth) String() string {
	if !h.SchemaReady {
		return fmt.Sprintf("reachable in %s, %s", h.Latency.Round(time.Millisecond), h.Error)
	}
	return fmt.Sprintf("%d open signals, pool %d/%d busy, ping %s",
		h.OpenSignals, h.Pool.AcquiredConns, h.Pool.MaxConns, h.Latency.Round(time.Millisecond))
}
