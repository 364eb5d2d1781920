package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/traderscan/internal/domain"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

// OutputFile es el snapshot que produce el crawler.
const OutputFile = "traders.json"

// Config contiene la configuración del crawl paginado.
type Config struct {
	Filter    domain.CrawlFilter
	PageDelay time.Duration // espera entre páginas
}

// DefaultConfig devuelve los filtros de producción: traders consistentes
// con historial suficiente.
func DefaultConfig() Config {
	return Config{
		Filter: domain.CrawlFilter{
			Tag:          "Overall",
			MinWinRate:   67,
			MinPositions: 30,
			PageSize:     100,
		},
		PageDelay: 500 * time.Millisecond,
	}
}

// Crawler acumula todos los traders que pasan los filtros, paginando
// hasta agotar los resultados.
type Crawler struct {
	cfg      Config
	provider ports.TraderProvider
	writer   ports.SnapshotWriter
	storage  ports.Storage // nil = sin histórico
	notifier ports.Notifier
}

// New crea un Crawler con todas las dependencias inyectadas.
func New(
	cfg Config,
	provider ports.TraderProvider,
	writer ports.SnapshotWriter,
	storage ports.Storage,
	notifier ports.Notifier,
) *Crawler {
	return &Crawler{
		cfg:      cfg,
		provider: provider,
		writer:   writer,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta el crawl completo y persiste el resultado. Un error de
// request aborta el loop pero se loguea y no se propaga: lo acumulado
// hasta el fallo se conserva y se persiste igual. Solo un fallo al
// escribir el snapshot devuelve error.
func (c *Crawler) Run(ctx context.Context) ([]domain.TraderRecord, error) {
	traders, crawlErr := c.crawl(ctx)
	if crawlErr != nil {
		slog.Warn("crawl aborted, keeping partial results",
			"traders", len(traders),
			"err", crawlErr,
		)
	}

	if len(traders) == 0 {
		c.notifier.CrawlSummary(c.cfg.Filter, nil)
		return nil, nil
	}

	path, err := c.writer.WriteJSON(OutputFile, traders)
	if err != nil {
		return traders, fmt.Errorf("crawler.Run: %w", err)
	}
	slog.Info("snapshot saved", "path", path, "traders", len(traders))

	if c.storage != nil {
		if err := c.storage.SaveCrawlRun(ctx, c.cfg.Filter, traders); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	c.notifier.CrawlSummary(c.cfg.Filter, traders)
	return traders, nil
}

// crawl es la máquina de estados de paginación. Arranca en page 1 y
// termina por una de tres condiciones: página vacía (agotado), página
// corta (última página), o error de request (aborta conservando lo
// acumulado). No hay tope de páginas más allá de esas condiciones.
func (c *Crawler) crawl(ctx context.Context) ([]domain.TraderRecord, error) {
	filter := c.cfg.Filter
	slog.Info("crawling traders",
		"tag", filter.Tag,
		"min_win_rate", filter.MinWinRate,
		"min_positions", filter.MinPositions,
		"page_size", filter.PageSize,
	)

	var all []domain.TraderRecord
	for page := 1; ; page++ {
		traders, err := c.provider.FetchTagPerformance(ctx, domain.TagQuery{
			Tag:               filter.Tag,
			Page:              page,
			PageSize:          filter.PageSize,
			MinWinRate:        filter.MinWinRate,
			MinTotalPositions: filter.MinPositions,
		})
		if err != nil {
			slog.Error("page fetch failed", "page", page, "err", err)
			return all, err
		}

		if len(traders) == 0 {
			slog.Info("crawl exhausted", "pages", page-1, "total", len(all))
			return all, nil
		}

		all = append(all, traders...)
		slog.Info("page fetched", "page", page, "count", len(traders), "total", len(all))

		if len(traders) < filter.PageSize {
			// Página corta: era la última
			return all, nil
		}

		if err := c.wait(ctx); err != nil {
			return all, err
		}
	}
}

// wait espera el delay entre páginas respetando el contexto.
func (c *Crawler) wait(ctx context.Context) error {
	if c.cfg.PageDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.cfg.PageDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
