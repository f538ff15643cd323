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

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("record not found")

const dateLayout = "2006-01-02"

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

// Ping verifies the database connection is alive. Used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- Transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, amount_cents, type, category, description, date, payment_method, recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Amount.Cents, string(t.Type), t.Category, t.Description,
		t.Date.Format(dateLayout), string(t.PaymentMethod), boolToInt(t.Recurring))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"owner_id", t.OwnerID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, type = ?, category = ?, description = ?, date = ?,
		    payment_method = ?, recurring = ?, updated_at = datetime('now')
		WHERE id = ? AND owner_id = ?`,
		t.Amount.Cents, string(t.Type), t.Category, t.Description,
		t.Date.Format(dateLayout), string(t.PaymentMethod), boolToInt(t.Recurring),
		t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, amount_cents, type, category, description, date, payment_method, recurring
		FROM transactions
		WHERE owner_id = ?
		ORDER BY date DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			typ       string
			method    string
			dateStr   string
			recurring int64
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Amount.Cents, &typ, &t.Category,
			&t.Description, &dateStr, &method, &recurring); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		t.PaymentMethod = core.PaymentMethod(method)
		t.Recurring = recurring != 0
		// Tolerate bad stored dates: the analytics layer excludes zero dates.
		if d, err := core.ParseDate(dateStr); err == nil {
			t.Date = d
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// --- Budgets ---

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, owner_id, category, amount_cents, month)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.OwnerID, b.Category, b.Amount.Cents, b.Month)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, amount_cents = ?, month = ?, updated_at = datetime('now')
		WHERE id = ? AND owner_id = ?`,
		b.Category, b.Amount.Cents, b.Month, b.ID, b.OwnerID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, ownerID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, category, amount_cents, month
		FROM budgets
		WHERE owner_id = ?
		ORDER BY month DESC, category`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Category, &b.Amount.Cents, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// --- Goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, owner_id, title, target_cents, current_cents, deadline, completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline.Format(dateLayout), boolToInt(g.Completed), nullableTime(g.CompletedAt))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, target_cents = ?, current_cents = ?, deadline = ?,
		    completed = ?, completed_at = ?, updated_at = datetime('now')
		WHERE id = ? AND owner_id = ?`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.Format(dateLayout),
		boolToInt(g.Completed), nullableTime(g.CompletedAt), g.ID, g.OwnerID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, ownerID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, target_cents, current_cents, deadline, completed, completed_at
		FROM goals
		WHERE id = ? AND owner_id = ?`, id, ownerID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, ErrNotFound
	}
	return g, err
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, target_cents, current_cents, deadline, completed, completed_at
		FROM goals
		WHERE owner_id = ?
		ORDER BY deadline, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()
	return collectGoals(rows)
}

// ListCompletedGoals returns completed goals across all owners, for the
// archival sweep.
func (r *SQLiteRepository) ListCompletedGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, target_cents, current_cents, deadline, completed, completed_at
		FROM goals
		WHERE completed = 1`)
	if err != nil {
		return nil, fmt.Errorf("list completed goals: %w", err)
	}
	defer rows.Close()
	return collectGoals(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g           core.Goal
		deadlineStr string
		completed   int64
		completedAt sql.NullString
	)
	if err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &deadlineStr, &completed, &completedAt); err != nil {
		return core.Goal{}, err
	}
	g.Completed = completed != 0
	if d, err := core.ParseDate(deadlineStr); err == nil {
		g.Deadline = d
	}
	if completedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			g.CompletedAt = ts
		}
	}
	return g, nil
}

func collectGoals(rows *sql.Rows) ([]core.Goal, error) {
	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
