package main

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/traderscan/config"
	"github.com/alejandrodnm/traderscan/internal/crawler"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

// runCrawl arma el crawler desde la config y lo ejecuta. Un abort a mitad
// del crawl conserva los resultados parciales y no es fatal; solo fallar
// al escribir el snapshot devuelve false.
func runCrawl(
	ctx context.Context,
	cfg *config.Config,
	provider ports.TraderProvider,
	writer ports.SnapshotWriter,
	store ports.Storage,
	notifier ports.Notifier,
) bool {
	crawlCfg := crawler.DefaultConfig()
	crawlCfg.Filter.Tag = cfg.Crawler.Tag
	crawlCfg.Filter.MinWinRate = cfg.Crawler.MinWinRate
	crawlCfg.Filter.MinPositions = cfg.Crawler.MinPositions
	crawlCfg.Filter.PageSize = cfg.Crawler.PageSize
	crawlCfg.PageDelay = cfg.PageDelay()

	c := crawler.New(crawlCfg, provider, writer, store, notifier)
	if _, err := c.Run(ctx); err != nil {
		slog.Error("crawl failed", "err", err)
		return false
	}
	return true
}
