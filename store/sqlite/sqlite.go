/*
Package sqlite provides a SQLite-backed implementation of dairy.Store.

PURPOSE:
  Persists the cooperative's books (farmers, daily shift logs, advances)
  using SQLite. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  farmers:     Member records with the denormalised advance balance
  daily_logs:  One row per (date, farmer, shift) observation
  advances:    Cash advances against future deliveries

UNIQUENESS:
  The schema asserts the engine's core invariant itself:
  - idx_daily_logs_shift: UNIQUE(date, farmer_id, shift), satisfied by
    upsert (ON CONFLICT DO UPDATE), so saving a shift twice replaces it
  - farmers.farmer_no: UNIQUE, surfaced as dairy.ErrDuplicateFarmerNo

DECIMALS:
  Milk, fat, rates and amounts are stored as decimal strings and parsed
  back through shopspring/decimal. No float64 round-trips.

CASCADE:
  DeleteFarmer does NOT cascade. Orphaned logs and advances stay behind
  and simply stop matching any farmer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/milkbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - dairy/store.go: interface definition
  - dairy/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/panchamrit/milkbook/dairy"
)

// Store implements dairy.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Members of the cooperative
	CREATE TABLE IF NOT EXISTS farmers (
		id TEXT PRIMARY KEY,
		farmer_no INTEGER NOT NULL UNIQUE,
		name TEXT NOT NULL,
		fixed_rate TEXT NOT NULL DEFAULT '16',
		advance_balance TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	-- Per-shift milk/fat observations
	CREATE TABLE IF NOT EXISTS daily_logs (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		farmer_id TEXT NOT NULL,
		farmer_no INTEGER NOT NULL,
		shift TEXT NOT NULL,
		milk TEXT NOT NULL,
		fat TEXT NOT NULL
	);

	-- CRITICAL: at most one observation per (date, farmer, shift).
	-- UpsertLog relies on this index for ON CONFLICT resolution.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_shift
		ON daily_logs(date, farmer_id, shift);

	CREATE INDEX IF NOT EXISTS idx_daily_logs_date
		ON daily_logs(date);
	CREATE INDEX IF NOT EXISTS idx_daily_logs_farmer_date
		ON daily_logs(farmer_id, date);

	-- Cash advances against future deliveries
	CREATE TABLE IF NOT EXISTS advances (
		id TEXT PRIMARY KEY,
		farmer_id TEXT NOT NULL,
		farmer_no INTEGER NOT NULL,
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_advances_farmer
		ON advances(farmer_id);
	CREATE INDEX IF NOT EXISTS idx_advances_date
		ON advances(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// FARMERS
// =============================================================================

// ListFarmers returns all farmers ordered by farmer number ascending.
func (s *Store) ListFarmers(ctx context.Context) ([]dairy.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, farmer_no, name, fixed_rate, advance_balance, created_at
		FROM farmers ORDER BY farmer_no ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	defer rows.Close()

	var farmers []dairy.Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		farmers = append(farmers, f)
	}
	return farmers, rows.Err()
}

// GetFarmer returns one farmer by id.
func (s *Store) GetFarmer(ctx context.Context, id dairy.FarmerID) (dairy.Farmer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, farmer_no, name, fixed_rate, advance_balance, created_at
		FROM farmers WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var (
		f              dairy.Farmer
		fixedRate      string
		advanceBalance string
	)
	err := row.Scan(&f.ID, &f.FarmerNo, &f.Name, &fixedRate, &advanceBalance, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return dairy.Farmer{}, dairy.ErrFarmerNotFound
	}
	if err != nil {
		return dairy.Farmer{}, fmt.Errorf("failed to get farmer: %w", err)
	}
	f.FixedRate = dairy.MustParseDecimal(fixedRate)
	f.AdvanceBalance = dairy.MustParseDecimal(advanceBalance)
	return f, nil
}

// UpsertFarmer creates or replaces a farmer record (keyed on id).
func (s *Store) UpsertFarmer(ctx context.Context, f dairy.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = dairy.FarmerID(fmt.Sprintf("farmer-%d", time.Now().UnixNano()))
	}
	if f.CreatedAt == "" {
		f.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	query := `
		INSERT INTO farmers (id, farmer_no, name, fixed_rate, advance_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			farmer_no = excluded.farmer_no,
			name = excluded.name,
			fixed_rate = excluded.fixed_rate,
			advance_balance = excluded.advance_balance
	`
	_, err := s.db.ExecContext(ctx, query,
		f.ID, f.FarmerNo, f.Name,
		f.FixedRate.String(), f.AdvanceBalance.String(), f.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return dairy.ErrDuplicateFarmerNo
		}
		return fmt.Errorf("failed to upsert farmer: %w", err)
	}
	return nil
}

// DeleteFarmer removes a farmer. Logs and advances are not cascaded.
func (s *Store) DeleteFarmer(ctx context.Context, id dairy.FarmerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM farmers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farmer: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return dairy.ErrFarmerNotFound
	}
	return nil
}

// SetFarmerAdvanceBalance overwrites the denormalised balance column.
func (s *Store) SetFarmerAdvanceBalance(ctx context.Context, farmerID dairy.FarmerID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE farmers SET advance_balance = ? WHERE id = ?`,
		amount.String(), farmerID,
	)
	if err != nil {
		return fmt.Errorf("failed to set advance balance: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return dairy.ErrFarmerNotFound
	}
	return nil
}

// =============================================================================
// DAILY LOGS
// =============================================================================

// ListLogs returns every shift log, most recent date first.
func (s *Store) ListLogs(ctx context.Context) ([]dairy.DailyLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, date, farmer_id, farmer_no, shift, milk, fat
		FROM daily_logs ORDER BY date DESC, farmer_no ASC
	`)
}

// ListLogsByDate returns the logs for one BS date.
func (s *Store) ListLogsByDate(ctx context.Context, date string) ([]dairy.DailyLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, date, farmer_id, farmer_no, shift, milk, fat
		FROM daily_logs WHERE date = ? ORDER BY farmer_no ASC
	`, date)
}

// ListLogsByFarmerAndRange returns one farmer's logs with start <= date <= end.
func (s *Store) ListLogsByFarmerAndRange(ctx context.Context, farmerID dairy.FarmerID, start, end string) ([]dairy.DailyLog, error) {
	return s.queryLogs(ctx, `
		SELECT id, date, farmer_id, farmer_no, shift, milk, fat
		FROM daily_logs
		WHERE farmer_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, farmerID, start, end)
}

// UpsertLog saves a shift observation, replacing any existing row for the
// same (date, farmer, shift). Returns the stored row with its id.
func (s *Store) UpsertLog(ctx context.Context, l dairy.DailyLog) (dairy.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = dairy.LogID(fmt.Sprintf("log-%d", time.Now().UnixNano()))
	}

	query := `
		INSERT INTO daily_logs (id, date, farmer_id, farmer_no, shift, milk, fat)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, farmer_id, shift) DO UPDATE SET
			farmer_no = excluded.farmer_no,
			milk = excluded.milk,
			fat = excluded.fat
	`
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.Date, l.FarmerID, l.FarmerNo, l.Shift,
		l.Milk.String(), l.Fat.String(),
	)
	if err != nil {
		return dairy.DailyLog{}, fmt.Errorf("failed to upsert log: %w", err)
	}

	// On conflict the original row (and its id) survives; read it back.
	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, farmer_id, farmer_no, shift, milk, fat
		FROM daily_logs WHERE date = ? AND farmer_id = ? AND shift = ?
	`, l.Date, l.FarmerID, l.Shift)

	stored, err := scanLogRow(row)
	if err != nil {
		return dairy.DailyLog{}, fmt.Errorf("failed to read back log: %w", err)
	}
	return stored, nil
}

// DeleteLog removes a log by id.
func (s *Store) DeleteLog(ctx context.Context, id dairy.LogID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return dairy.ErrLogNotFound
	}
	return nil
}

func (s *Store) queryLogs(ctx context.Context, query string, args ...any) ([]dairy.DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var logs []dairy.DailyLog
	for rows.Next() {
		var (
			l         dairy.DailyLog
			milk, fat string
		)
		if err := rows.Scan(&l.ID, &l.Date, &l.FarmerID, &l.FarmerNo, &l.Shift, &milk, &fat); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		l.Milk = dairy.MustParseDecimal(milk)
		l.Fat = dairy.MustParseDecimal(fat)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// =============================================================================
// ADVANCES
// =============================================================================

// ListAdvances returns every advance, most recent date first.
func (s *Store) ListAdvances(ctx context.Context) ([]dairy.Advance, error) {
	return s.queryAdvances(ctx, `
		SELECT id, farmer_id, farmer_no, date, amount, remarks
		FROM advances ORDER BY date DESC
	`)
}

// ListAdvancesByFarmer returns one farmer's advances, oldest first.
// This is the authoritative set the reconciler sums over.
func (s *Store) ListAdvancesByFarmer(ctx context.Context, farmerID dairy.FarmerID) ([]dairy.Advance, error) {
	return s.queryAdvances(ctx, `
		SELECT id, farmer_id, farmer_no, date, amount, remarks
		FROM advances WHERE farmer_id = ? ORDER BY date ASC
	`, farmerID)
}

// InsertAdvance appends a new advance.
func (s *Store) InsertAdvance(ctx context.Context, a dairy.Advance) (dairy.Advance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = dairy.AdvanceID(fmt.Sprintf("advance-%d", time.Now().UnixNano()))
	}

	query := `
		INSERT INTO advances (id, farmer_id, farmer_no, date, amount, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.FarmerID, a.FarmerNo, a.Date,
		a.Amount.String(), nullString(a.Remarks),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return dairy.Advance{}, fmt.Errorf("failed to insert advance: %w", err)
	}
	return a, nil
}

// DeleteAdvance removes an advance by id.
func (s *Store) DeleteAdvance(ctx context.Context, id dairy.AdvanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM advances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete advance: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return dairy.ErrAdvanceNotFound
	}
	return nil
}

func (s *Store) queryAdvances(ctx context.Context, query string, args ...any) ([]dairy.Advance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	var advances []dairy.Advance
	for rows.Next() {
		var (
			a       dairy.Advance
			amount  string
			remarks sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.FarmerID, &a.FarmerNo, &a.Date, &amount, &remarks); err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		a.Amount = dairy.MustParseDecimal(amount)
		a.Remarks = remarks.String
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data. Used by demo scenario loading only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"advances", "daily_logs", "farmers"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func scanFarmer(rows *sql.Rows) (dairy.Farmer, error) {
	var (
		f              dairy.Farmer
		fixedRate      string
		advanceBalance string
	)
	if err := rows.Scan(&f.ID, &f.FarmerNo, &f.Name, &fixedRate, &advanceBalance, &f.CreatedAt); err != nil {
		return dairy.Farmer{}, fmt.Errorf("failed to scan farmer: %w", err)
	}
	f.FixedRate = dairy.MustParseDecimal(fixedRate)
	f.AdvanceBalance = dairy.MustParseDecimal(advanceBalance)
	return f, nil
}

func scanLogRow(row *sql.Row) (dairy.DailyLog, error) {
	var (
		l         dairy.DailyLog
		milk, fat string
	)
	if err := row.Scan(&l.ID, &l.Date, &l.FarmerID, &l.FarmerNo, &l.Shift, &milk, &fat); err != nil {
		return dairy.DailyLog{}, err
	}
	l.Milk = dairy.MustParseDecimal(milk)
	l.Fat = dairy.MustParseDecimal(fat)
	return l, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
