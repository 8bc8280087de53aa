package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/set-night/groupbuyer/internal/domain"
)

var _ Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

const userColumns = `telegram_id, username, first_name, language, currency, points, awaiting_withdrawal,
	pending_link, pending_entity_id, pending_access_hash, pending_entity_kind, pending_title,
	pending_year, pending_award, pending_created_at, created_at, updated_at`

// userRow mirrors the users table.
type userRow struct {
	domain.User
	pending pendingColumns
}

func (r *userRow) dest() []any {
	dest := []any{&r.TelegramID, &r.Username, &r.FirstName, &r.Language, &r.Currency, &r.Points, &r.AwaitingWithdrawal}
	dest = append(dest, r.pending.dest()...)
	return append(dest, &r.CreatedAt, &r.UpdatedAt)
}

func (r *userRow) user() *domain.User {
	u := r.User
	u.Pending = r.pending.pending()
	return &u
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getUser(ctx context.Context, q querier, id int64, lock bool) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var row userRow
	if err := q.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := row.user()

	links, err := submittedLinks(ctx, q, id)
	if err != nil {
		return nil, err
	}
	u.SubmittedEntities = links
	return u, nil
}

func submittedLinks(ctx context.Context, q querier, id int64) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT link FROM submitted_entities WHERE user_id = $1 ORDER BY created_at, link`, id)
	if err != nil {
		return nil, fmt.Errorf("list submitted entities: %w", err)
	}
	links, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan submitted entities: %w", err)
	}
	return links, nil
}

func (s *PostgresStore) GetOrCreateUser(ctx context.Context, id int64, username, firstName string) (*domain.User, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (telegram_id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, updated_at = now()
		WHERE users.username <> EXCLUDED.username OR users.first_name <> EXCLUDED.first_name`,
		id, username, firstName)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return getUser(ctx, s.db, id, false)
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, s.db, id, false)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, fn func(u *domain.User) error) (*domain.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := getUser(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(u, fn); err != nil {
		return nil, err
	}
	if err := saveUser(ctx, tx, u); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

func saveUser(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	pending := pendingToColumns(u.Pending)

	u.UpdatedAt = time.Now()
	_, err := tx.Exec(ctx, `
		UPDATE users SET
			language = $2, currency = $3, points = $4, awaiting_withdrawal = $5,
			pending_link = $6, pending_entity_id = $7, pending_access_hash = $8, pending_entity_kind = $9,
			pending_title = $10, pending_year = $11, pending_award = $12, pending_created_at = $13,
			updated_at = $14
		WHERE telegram_id = $1`,
		append(append([]any{u.TelegramID, u.Language, u.Currency, u.Points, u.AwaitingWithdrawal},
			pending.args()...), u.UpdatedAt)...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *PostgresStore) ConfirmReward(ctx context.Context, id int64, entityID int64) (*domain.User, decimal.Decimal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := getUser(ctx, tx, id, true)
	if err != nil {
		return nil, decimal.Zero, err
	}
	link := ""
	if u.Pending != nil {
		link = u.Pending.Link
	}

	award, confirmErr := confirm(u, entityID)
	if confirmErr != nil && !errors.Is(confirmErr, domain.ErrAlreadySubmitted) {
		return nil, decimal.Zero, confirmErr
	}
	if confirmErr == nil {
		tag, err := tx.Exec(ctx,
			`INSERT INTO submitted_entities (user_id, link) VALUES ($1, $2) ON CONFLICT DO NOTHING`, id, link)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("insert submitted entity: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, decimal.Zero, domain.ErrAlreadySubmitted
		}
	}
	if err := saveUser(ctx, tx, u); err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, decimal.Zero, fmt.Errorf("commit: %w", err)
	}
	return u, award, confirmErr
}

func (s *PostgresStore) Withdraw(ctx context.Context, w *domain.Withdrawal) (*domain.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := getUser(ctx, tx, w.UserID, true)
	if err != nil {
		return nil, err
	}
	u.AwaitingWithdrawal = false

	var result error
	if u.Points.LessThan(w.Canonical) {
		result = domain.ErrInsufficientBalance
	} else {
		u.Points = u.Points.Sub(w.Canonical)
		_, err = tx.Exec(ctx, `
			INSERT INTO withdrawals (id, user_id, request_amount, request_currency, canonical, destination, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			w.ID, w.UserID, w.RequestAmount, w.RequestCurrency, w.Canonical, w.Destination, w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert withdrawal: %w", err)
		}
		_, err = tx.Exec(ctx, `UPDATE ledger_aggregate SET total_withdrawn = total_withdrawn + $1 WHERE id = 1`, w.Canonical)
		if err != nil {
			return nil, fmt.Errorf("update withdrawn total: %w", err)
		}
	}
	if err := saveUser(ctx, tx, u); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return u, result
}

func (s *PostgresStore) PendingEntityIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT pending_entity_id FROM users WHERE pending_entity_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list pending entities: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan pending entities: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE points > 0),
			COALESCE(SUM(points), 0),
			(SELECT total_withdrawn FROM ledger_aggregate WHERE id = 1)
		FROM users`).Scan(&st.TotalUsers, &st.ActiveUsers, &st.TotalPoints, &st.TotalWithdrawn)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) TopUsers(ctx context.Context, n int) ([]*domain.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY points DESC, telegram_id LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("query top users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var row userRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan top user: %w", err)
		}
		users = append(users, row.user())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) AppendLog(ctx context.Context, e domain.LogEntry) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO audit_log (ts, user_id, action, details) VALUES ($1, $2, $3, $4)`,
		e.Timestamp, e.UserID, string(e.Action), e.Details)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM audit_log
		WHERE id <= (SELECT id FROM audit_log ORDER BY id DESC OFFSET $1 LIMIT 1)`, MaxLogEntries)
	if err != nil {
		return fmt.Errorf("trim audit log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentLogs(ctx context.Context, n int) ([]domain.LogEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ts, user_id, action, details FROM (
			SELECT id, ts, user_id, action, details FROM audit_log ORDER BY id DESC LIMIT $1
		) recent ORDER BY id`, n)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var (
			e      domain.LogEntry
			action string
		)
		if err := rows.Scan(&e.Timestamp, &e.UserID, &action, &e.Details); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = domain.AuditAction(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}
