package categorizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/traderscan/internal/domain"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

// Nombres de los snapshots que produce el categorizador.
const (
	SnapshotFile = "traders-by-category.json"
	LookupFile   = "traders-category-lookup.json"
)

// Config contiene la configuración del categorizador.
type Config struct {
	Categories []string
	Limit      int // top N traders por categoría
	Workers    int // 1 = secuencial
}

// DefaultConfig devuelve una configuración sensata.
func DefaultConfig() Config {
	return Config{Limit: 100, Workers: 1}
}

// Categorizer agrupa los top traders por categoría de mercado y deriva
// el índice por trader.
type Categorizer struct {
	cfg      Config
	provider ports.TraderProvider
	writer   ports.SnapshotWriter
	storage  ports.Storage // nil = sin histórico
	notifier ports.Notifier
}

// New crea un Categorizer con todas las dependencias inyectadas.
func New(
	cfg Config,
	provider ports.TraderProvider,
	writer ports.SnapshotWriter,
	storage ports.Storage,
	notifier ports.Notifier,
) *Categorizer {
	return &Categorizer{
		cfg:      cfg,
		provider: provider,
		writer:   writer,
		storage:  storage,
		notifier: notifier,
	}
}

// Run hace fetch de cada categoría, deriva el índice por trader, escribe
// los dos snapshots JSON, registra el run y presenta el resumen.
// Los fallos por categoría están aislados: nunca abortan el run.
func (c *Categorizer) Run(ctx context.Context) (domain.CategorySnapshot, domain.CategoryIndex, error) {
	slog.Info("categorizing traders",
		"categories", len(c.cfg.Categories),
		"limit", c.cfg.Limit,
		"workers", c.cfg.Workers,
	)

	snapshot := c.fetchCategories(ctx)
	index := domain.BuildCategoryIndex(snapshot)

	path, err := c.writer.WriteJSON(SnapshotFile, snapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("categorizer.Run: %w", err)
	}
	slog.Info("snapshot saved", "path", path)

	path, err = c.writer.WriteJSON(LookupFile, index)
	if err != nil {
		return nil, nil, fmt.Errorf("categorizer.Run: %w", err)
	}
	slog.Info("lookup saved", "path", path, "unique_traders", len(index))

	if c.storage != nil {
		if err := c.storage.SaveCategorizeRun(ctx, snapshot); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	c.notifier.CategorySummary(snapshot, index)
	return snapshot, index, nil
}
