package analytics

import "github.com/alejandrodnm/traderscan/internal/domain"

// newTagPerformanceRequest convierte un domain.TagQuery al DTO del endpoint.
// sortBy/sortDirection por defecto piden PnL descendente.
func newTagPerformanceRequest(q domain.TagQuery) tagPerformanceRequest {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "pnl"
	}
	sortDir := q.SortDirection
	if sortDir == "" {
		sortDir = "desc"
	}
	return tagPerformanceRequest{
		Tag:               q.Tag,
		Page:              q.Page,
		PageSize:          q.PageSize,
		SortBy:            sortBy,
		SortDirection:     sortDir,
		MinWinRate:        q.MinWinRate,
		MinTotalPositions: q.MinTotalPositions,
	}
}

// mapTraders convierte los DTOs raw a domain.TraderRecord preservando
// el orden del servidor.
func mapTraders(raw []rawTrader) []domain.TraderRecord {
	traders := make([]domain.TraderRecord, 0, len(raw))
	for _, r := range raw {
		traders = append(traders, domain.TraderRecord{
			Address:        r.Trader,
			Name:           r.TraderName,
			PnL:            r.OverallGain,
			WinRate:        r.WinRate,
			TotalPositions: r.TotalPositions,
			Rank:           r.Rank,
		})
	}
	return traders
}
