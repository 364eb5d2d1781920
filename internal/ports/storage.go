package ports

import (
	"context"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

// Storage registra el histórico de runs en la base de datos local.
type Storage interface {
	// SaveCategorizeRun persiste un run del categorizador: una fila de run
	// y una fila por trader/categoría.
	SaveCategorizeRun(ctx context.Context, snapshot domain.CategorySnapshot) error

	// SaveCrawlRun persiste un run del crawler con los filtros usados.
	SaveCrawlRun(ctx context.Context, filter domain.CrawlFilter, traders []domain.TraderRecord) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
