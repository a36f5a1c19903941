package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"dma-backtester/internal/types"
)

// SQLiteRecorder persists run summaries and trades to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers can query while a batch run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at      INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			period           TEXT,
			total_pnl        REAL,
			unrealized_pnl   REAL,
			entries          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        INTEGER NOT NULL REFERENCES runs(id),
			symbol        TEXT NOT NULL,
			entry_date    TEXT NOT NULL,
			exit_date     TEXT,
			holding_days  INTEGER,
			entry_price   REAL,
			exit_price    REAL,
			quantity      REAL,
			profit_loss   REAL,
			annual_gain   REAL,
			status        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(summary types.SymbolSummary, trades []types.TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var unrealized any
	if summary.UnrealizedPnL != nil {
		unrealized = *summary.UnrealizedPnL
	}
	res, err := tx.Exec(`INSERT INTO runs
		(recorded_at, symbol, period, total_pnl, unrealized_pnl, entries)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), summary.Symbol, summary.Period,
		summary.TotalProfitLoss, unrealized, summary.Entries,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, t := range trades {
		var exitDate any
		if t.Status == types.StatusCompleted {
			exitDate = t.ExitDate.Format("2006-01-02")
		}
		var gain any
		if t.AnnualGain != nil {
			gain = *t.AnnualGain
		}
		if _, err := tx.Exec(`INSERT INTO trades
			(run_id, symbol, entry_date, exit_date, holding_days,
			 entry_price, exit_price, quantity, profit_loss, annual_gain, status)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, t.Symbol, t.EntryDate.Format("2006-01-02"), exitDate, t.HoldingDays,
			t.EntryPrice, t.ExitPrice, t.Quantity, t.ProfitLoss, gain, string(t.Status),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
