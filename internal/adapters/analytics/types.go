package analytics

// DTOs raw de la API de analytics. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// tagPerformanceRequest es el body del POST al endpoint tag-performance.
// MinWinRate y MinTotalPositions se omiten cuando son cero: el endpoint
// trata su ausencia como "sin filtro".
type tagPerformanceRequest struct {
	Tag               string `json:"tag"`
	Page              int    `json:"page"`
	PageSize          int    `json:"pageSize"`
	SortBy            string `json:"sortBy"`
	SortDirection     string `json:"sortDirection"`
	MinWinRate        int    `json:"minWinRate,omitempty"`
	MinTotalPositions int    `json:"minTotalPositions,omitempty"`
}

// tagPerformanceResponse es la respuesta del endpoint.
type tagPerformanceResponse struct {
	Data []rawTrader `json:"data"`
}

// rawTrader es un trader tal como viene en el array `data`.
// rank es opcional: algunos tags no lo devuelven.
type rawTrader struct {
	Trader         string  `json:"trader"`
	TraderName     string  `json:"trader_name"`
	OverallGain    float64 `json:"overall_gain"`
	WinRate        float64 `json:"win_rate"`
	TotalPositions int     `json:"total_positions"`
	Rank           *int    `json:"rank"`
}
