package storage

// sqlite.go — histórico de runs en SQLite.
//
// Estrategia:
//   - `runs`: una fila por ejecución (categorize o crawl) con el total
//     de traders y el detalle de la corrida.
//   - `run_traders`: una fila por trader/tag del run. Es el snapshot crudo,
//     sin merge con runs anteriores — el histórico se consulta por run.
//   - Prune automático al arrancar: runs (y sus traders) > 30 días.

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

const schema = `
-- Una fila por ejecución de traderscan
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    mode          TEXT     NOT NULL,
    detail        TEXT     NOT NULL DEFAULT '',
    started_at    DATETIME NOT NULL,
    total_traders INTEGER  NOT NULL DEFAULT 0
);

-- Una fila por trader/tag dentro de un run
CREATE TABLE IF NOT EXISTS run_traders (
    run_id    TEXT    NOT NULL REFERENCES runs(id),
    tag       TEXT    NOT NULL,
    address   TEXT    NOT NULL,
    name      TEXT,
    pnl       REAL    NOT NULL DEFAULT 0,
    win_rate  REAL    NOT NULL DEFAULT 0,
    positions INTEGER NOT NULL DEFAULT 0,
    rank      INTEGER,
    PRIMARY KEY (run_id, tag, address)
);

CREATE INDEX IF NOT EXISTS idx_runs_at    ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_rt_address ON run_traders(address);
CREATE INDEX IF NOT EXISTS idx_rt_tag     ON run_traders(tag);
`

// retentionRuns: 30 días de histórico son suficientes para comparar runs.
const retentionRuns = 30 * 24 * time.Hour

// Mode de un run, guardado en la columna runs.mode.
const (
	ModeCategorize = "categorize"
	ModeCrawl      = "crawl"
)

// RunSummary es la fila de `runs` tal como la devuelve History.
type RunSummary struct {
	ID           string
	Mode         string
	Detail       string
	StartedAt    time.Time
	TotalTraders int
}

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia runs antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveCategorizeRun persiste un run del categorizador: una fila de run y
// una fila por trader/categoría. Las categorías se insertan en orden
// alfabético para que el run sea reproducible.
func (s *SQLiteStorage) SaveCategorizeRun(ctx context.Context, snapshot domain.CategorySnapshot) error {
	categories := make([]string, 0, len(snapshot))
	total := 0
	for category, traders := range snapshot {
		categories = append(categories, category)
		total += len(traders)
	}
	sort.Strings(categories)

	detail := fmt.Sprintf("%d categories", len(categories))
	runID, err := s.insertRun(ctx, ModeCategorize, detail, total)
	if err != nil {
		return fmt.Errorf("storage.SaveCategorizeRun: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCategorizeRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTraderSQL)
	if err != nil {
		return fmt.Errorf("storage.SaveCategorizeRun: prepare: %w", err)
	}
	defer stmt.Close()

	for _, category := range categories {
		for _, t := range snapshot[category] {
			if err := execInsertTrader(ctx, stmt, runID, category, t); err != nil {
				return fmt.Errorf("storage.SaveCategorizeRun: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCategorizeRun: commit: %w", err)
	}
	return nil
}

// SaveCrawlRun persiste un run del crawler con los filtros usados como detail.
func (s *SQLiteStorage) SaveCrawlRun(ctx context.Context, filter domain.CrawlFilter, traders []domain.TraderRecord) error {
	detail := fmt.Sprintf("tag=%s win_rate>=%d positions>=%d", filter.Tag, filter.MinWinRate, filter.MinPositions)
	runID, err := s.insertRun(ctx, ModeCrawl, detail, len(traders))
	if err != nil {
		return fmt.Errorf("storage.SaveCrawlRun: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveCrawlRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTraderSQL)
	if err != nil {
		return fmt.Errorf("storage.SaveCrawlRun: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range traders {
		if err := execInsertTrader(ctx, stmt, runID, filter.Tag, t); err != nil {
			return fmt.Errorf("storage.SaveCrawlRun: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveCrawlRun: commit: %w", err)
	}
	return nil
}

// History devuelve los runs del modo dado, más recientes primero.
// mode vacío devuelve todos los modos.
func (s *SQLiteStorage) History(ctx context.Context, mode string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, detail, started_at, total_traders
		FROM runs
		WHERE (? = '' OR mode = ?)
		ORDER BY started_at DESC
		LIMIT ?
	`, mode, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt string
		if err := rows.Scan(&r.ID, &r.Mode, &r.Detail, &startedAt, &r.TotalTraders); err != nil {
			return nil, fmt.Errorf("storage.History: scan row: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunTraders devuelve los traders de un run para el tag dado, PnL desc.
func (s *SQLiteStorage) RunTraders(ctx context.Context, runID, tag string) ([]domain.TraderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, name, pnl, win_rate, positions, rank
		FROM run_traders
		WHERE run_id = ? AND tag = ?
		ORDER BY pnl DESC
	`, runID, tag)
	if err != nil {
		return nil, fmt.Errorf("storage.RunTraders: query: %w", err)
	}
	defer rows.Close()

	var traders []domain.TraderRecord
	for rows.Next() {
		var t domain.TraderRecord
		var rank sql.NullInt64
		if err := rows.Scan(&t.Address, &t.Name, &t.PnL, &t.WinRate, &t.TotalPositions, &rank); err != nil {
			return nil, fmt.Errorf("storage.RunTraders: scan row: %w", err)
		}
		if rank.Valid {
			r := int(rank.Int64)
			t.Rank = &r
		}
		traders = append(traders, t)
	}
	return traders, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

const insertTraderSQL = `
	INSERT INTO run_traders (run_id, tag, address, name, pnl, win_rate, positions, rank)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, tag, address) DO NOTHING
`

// insertRun crea la fila del run con un UUID nuevo y devuelve su ID.
func (s *SQLiteStorage) insertRun(ctx context.Context, mode, detail string, total int) (string, error) {
	runID := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, detail, started_at, total_traders) VALUES (?, ?, ?, ?, ?)`,
		runID, mode, detail, time.Now().UTC().Format(time.RFC3339), total,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

func execInsertTrader(ctx context.Context, stmt *sql.Stmt, runID, tag string, t domain.TraderRecord) error {
	if _, err := stmt.ExecContext(ctx,
		runID, tag, t.Address, t.Name, t.PnL, t.WinRate, t.TotalPositions, t.Rank,
	); err != nil {
		return fmt.Errorf("insert trader %s/%s: %w", tag, t.Address, err)
	}
	return nil
}

// pruneOld elimina runs antiguos (y sus traders) para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).Format(time.RFC3339)
	s.db.ExecContext(ctx, `DELETE FROM run_traders WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
}
