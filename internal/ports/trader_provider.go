package ports

import (
	"context"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

// TraderProvider obtiene el rendimiento de traders desde la API de analytics.
type TraderProvider interface {
	// FetchTagPerformance devuelve los traders de una página del endpoint
	// tag-performance. Un array vacío significa "sin resultados", nunca error.
	FetchTagPerformance(ctx context.Context, q domain.TagQuery) ([]domain.TraderRecord, error)
}
