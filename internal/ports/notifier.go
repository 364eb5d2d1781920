package ports

import (
	"github.com/alejandrodnm/traderscan/internal/domain"
)

// Notifier presenta los resultados de un run al usuario.
type Notifier interface {
	// CategorySummary imprime el resumen por categoría ordenado por
	// cantidad de traders, con el top trader de cada una.
	CategorySummary(snapshot domain.CategorySnapshot, index domain.CategoryIndex)

	// CrawlSummary imprime el total del crawl y los top 5 por PnL.
	CrawlSummary(filter domain.CrawlFilter, traders []domain.TraderRecord)
}
