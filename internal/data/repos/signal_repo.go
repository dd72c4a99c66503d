package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sniper/internal/contracts"
)

// SignalRepository implements contracts.SignalStore on PostgreSQL
// ⭐ SSOT: Signal 데이터 저장/조회는 여기서만
type SignalRepository struct {
	pool *pgxpool.Pool
}

// NewSignalRepository creates a new signal repository
func NewSignalRepository(pool *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

// Insert stores one signal. ID and CreatedAt are filled from the database defaults.
func (r *SignalRepository) Insert(ctx context.Context, signal *contracts.Signal) error {
	query := `
		INSERT INTO sniper_signals (
			ticker, entry_price, confidence_score, reasons, status
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, created_at
	`

	status := signal.Status
	if status == "" {
		status = contracts.SignalOpen
	}

	err := r.pool.QueryRow(ctx, query,
		signal.Ticker,
		signal.EntryPrice,
		signal.ConfidenceScore,
		signal.Reasons,
		string(status),
	).Scan(&signal.ID, &signal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert signal %s: %w", signal.Ticker, err)
	}

	signal.Status = status
	return nil
}

// ListByStatus returns signals with the given status in the requested order
func (r *SignalRepository) ListByStatus(ctx context.Context, q contracts.SignalQuery) ([]*contracts.Signal, error) {
	query, args := buildListQuery(q)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	signals := make([]*contracts.Signal, 0)
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		signals = append(signals, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return signals, nil
}

func buildListQuery(q contracts.SignalQuery) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(`
		SELECT id::text, ticker, entry_price, confidence_score,
		       COALESCE(reasons, ''), status, created_at
		FROM sniper_signals
		WHERE status = $1`)

	switch q.Order {
	case contracts.OrderByCreatedAt:
		b.WriteString("\n\t\tORDER BY created_at DESC")
	default:
		b.WriteString("\n\t\tORDER BY confidence_score DESC, created_at DESC")
	}

	status := q.Status
	if status == "" {
		status = contracts.SignalOpen
	}
	args := []interface{}{string(status)}

	if q.Limit > 0 {
		b.WriteString("\n\t\tLIMIT $2")
		args = append(args, q.Limit)
	}

	return b.String(), args
}

func scanSignal(row pgx.Row) (*contracts.Signal, error) {
	var (
		s      contracts.Signal
		status string
	)
	if err := row.Scan(
		&s.ID,
		&s.Ticker,
		&s.EntryPrice,
		&s.ConfidenceScore,
		&s.Reasons,
		&status,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Status = contracts.SignalStatus(status)
	return &s, nil
}
