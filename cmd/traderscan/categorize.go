package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/traderscan/config"
	"github.com/alejandrodnm/traderscan/internal/categorizer"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

// runCategorize arma el categorizador desde la config y lo ejecuta.
// Los fallos por categoría no son fatales; solo fallar al escribir los
// snapshots devuelve false.
func runCategorize(
	ctx context.Context,
	cfg *config.Config,
	provider ports.TraderProvider,
	writer ports.SnapshotWriter,
	store ports.Storage,
	notifier ports.Notifier,
) bool {
	catCfg := categorizer.DefaultConfig()
	catCfg.Categories = cfg.Categorizer.Categories
	catCfg.Limit = cfg.Categorizer.Limit
	catCfg.Workers = cfg.Categorizer.Workers

	c := categorizer.New(catCfg, provider, writer, store, notifier)
	if _, _, err := c.Run(ctx); err != nil {
		slog.Error("categorize failed", "err", err)
		return false
	}
	return true
}
