package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"guardian/internal/core"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when an operation references a user that
// does not exist and creation on demand is not appropriate.
var ErrUserNotFound = errors.New("user not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertUser creates the user record on first reference. Repeated calls
// for the same id are no-ops returning the canonical record.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, id string, now time.Time) (core.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		id, now.UTC().UnixNano())
	if err != nil {
		return core.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return r.GetUser(ctx, id)
}

// GetUser returns the user or ErrUserNotFound.
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var user core.User
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE id = ?`, id).Scan(&user.ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}

// ReplaceActiveGoal abandons any currently active goal for the user and
// inserts the new one in a single transaction, so concurrent goal-setting
// calls cannot leave two active goals behind.
func (r *SQLiteRepository) ReplaceActiveGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin goal replace: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE goals SET status = ? WHERE user_id = ? AND status = ?`,
		core.GoalAbandoned, g.UserID, core.GoalActive)
	if err != nil {
		return core.Goal{}, fmt.Errorf("abandon previous goal: %w", err)
	}

	var deadline any
	if g.Deadline != nil {
		deadline = g.Deadline.UTC().UnixNano()
	}
	var budget any
	if g.MonthBudget != nil {
		budget = g.MonthBudget.Cents
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, title, target_cents, current_cents, deadline, month_budget_cents, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.Target.Cents, g.Current.Cents, deadline, budget, g.Status, g.CreatedAt.UTC().UnixNano())
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit goal replace: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved",
		"goal_id", g.ID,
		"user_id", g.UserID,
		"title", g.Title,
		"target_cents", g.Target.Cents)

	return g, nil
}

// GetActiveGoal returns the user's active goal, or nil when none exists.
// The absence of a goal is degraded input for the verdict engine, not an
// error.
func (r *SQLiteRepository) GetActiveGoal(ctx context.Context, userID string) (*core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, month_budget_cents, status, created_at
		 FROM goals
		 WHERE user_id = ? AND status = ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, core.GoalActive)

	var (
		g         core.Goal
		deadline  sql.NullInt64
		budget    sql.NullInt64
		createdAt int64
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Target.Cents, &g.Current.Cents, &deadline, &budget, &g.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active goal: %w", err)
	}

	if deadline.Valid {
		t := time.Unix(0, deadline.Int64).UTC()
		g.Deadline = &t
	}
	if budget.Valid {
		g.MonthBudget = &core.Money{Cents: budget.Int64}
	}
	g.CreatedAt = time.Unix(0, createdAt).UTC()
	return &g, nil
}

// CreateTransaction appends an immutable transaction record.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount_cents, merchant, category, ts)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Amount.Cents, t.Merchant, t.Category, t.Timestamp.UTC().UnixNano())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"merchant", t.Merchant,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// GetTransactionsSince returns the user's transactions with a timestamp
// at or after since, newest first. Order is irrelevant to aggregation but
// the window must be complete.
func (r *SQLiteRepository) GetTransactionsSince(ctx context.Context, userID string, since time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, merchant, category, ts
		 FROM transactions
		 WHERE user_id = ? AND ts >= ?
		 ORDER BY ts DESC`,
		userID, since.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var ts int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Merchant, &t.Category, &ts); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Timestamp = time.Unix(0, ts).UTC()
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// CountUsers returns the number of known users. Used by readiness checks.
func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ListUserIDs returns every known user id. Used by the report exporter.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}
