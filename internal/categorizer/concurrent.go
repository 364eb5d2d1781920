package categorizer

// concurrent.go — worker pool para el fetch por categoría.
//
// Las requests por categoría son totalmente independientes, así que con
// cfg.Workers > 1 un pool las dispara en paralelo. El token bucket del
// client marca el ritmo — los workers se autolimitan solos.

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

// fetchCategories obtiene los top traders de cada categoría configurada.
// Cada categoría termina con su key en el snapshot, vacía si su request falló.
func (c *Categorizer) fetchCategories(ctx context.Context) domain.CategorySnapshot {
	workers := c.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	type result struct {
		category string
		traders  []domain.TraderRecord
	}

	workCh := make(chan string, len(c.cfg.Categories))
	resultCh := make(chan result, len(c.cfg.Categories))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for category := range workCh {
				resultCh <- result{category: category, traders: c.fetchCategory(ctx, category)}
			}
		}()
	}

	for _, category := range c.cfg.Categories {
		workCh <- category
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	snapshot := make(domain.CategorySnapshot, len(c.cfg.Categories))
	for r := range resultCh {
		snapshot[r.category] = r.traders
	}
	return snapshot
}

// fetchCategory pide los top Limit traders de una categoría, PnL desc,
// sin filtros. En error devuelve una lista vacía (no nil) para que la
// categoría conserve su key y serialice como [] en el snapshot.
func (c *Categorizer) fetchCategory(ctx context.Context, category string) []domain.TraderRecord {
	traders, err := c.provider.FetchTagPerformance(ctx, domain.TagQuery{
		Tag:      category,
		Page:     1,
		PageSize: c.cfg.Limit,
	})
	if err != nil {
		slog.Warn("category fetch failed", "category", category, "err", err)
		return []domain.TraderRecord{}
	}
	if traders == nil {
		traders = []domain.TraderRecord{}
	}

	slog.Info("category fetched", "category", category, "traders", len(traders))
	return traders
}
