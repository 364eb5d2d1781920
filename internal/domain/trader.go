package domain

import "sort"

// TraderRecord es el rendimiento de un trader tal como lo reporta la API
// de analytics. Rank es opcional: la API lo omite en algunos tags.
type TraderRecord struct {
	Address        string  `json:"trader"`
	Name           string  `json:"trader_name"`
	PnL            float64 `json:"overall_gain"`
	WinRate        float64 `json:"win_rate"` // fracción 0–1
	TotalPositions int     `json:"total_positions"`
	Rank           *int    `json:"rank"`
}

// CategorySnapshot agrupa los top traders por categoría de mercado.
// El orden dentro de cada categoría es el del servidor (PnL desc).
// Una categoría cuyo fetch falló conserva su key con una lista vacía.
type CategorySnapshot map[string][]TraderRecord

// CategoryStats es el rendimiento de un trader dentro de una categoría.
type CategoryStats struct {
	PnL       float64 `json:"pnl"`
	WinRate   float64 `json:"win_rate"`
	Positions int     `json:"positions"`
	Rank      *int    `json:"rank"`
}

// TraderProfile es la vista por-trader del índice: nombre + rendimiento
// en cada categoría donde apareció.
type TraderProfile struct {
	Name       string                   `json:"trader_name"`
	Categories map[string]CategoryStats `json:"categories"`
}

// CategoryIndex mapea address de trader → perfil por categoría.
// Se deriva determinísticamente del snapshot; se regenera en cada run.
type CategoryIndex map[string]TraderProfile

// BuildCategoryIndex deriva el índice por trader a partir del snapshot.
// Cada trader aparece como máximo una vez por categoría, así que no hay
// conflictos que resolver: solo merge de sub-maps.
func BuildCategoryIndex(snap CategorySnapshot) CategoryIndex {
	idx := make(CategoryIndex)
	for category, traders := range snap {
		for _, t := range traders {
			profile, ok := idx[t.Address]
			if !ok {
				profile = TraderProfile{
					Name:       t.Name,
					Categories: make(map[string]CategoryStats),
				}
			}
			profile.Categories[category] = CategoryStats{
				PnL:       t.PnL,
				WinRate:   t.WinRate,
				Positions: t.TotalPositions,
				Rank:      t.Rank,
			}
			idx[t.Address] = profile
		}
	}
	return idx
}

// CategoryCount es el par (categoría, nº de traders) usado para el resumen.
type CategoryCount struct {
	Category string
	Count    int
}

// RankBySize devuelve las categorías ordenadas por cantidad de traders
// descendente, con el nombre como desempate para que el resumen sea
// determinístico entre runs.
func (s CategorySnapshot) RankBySize() []CategoryCount {
	ranked := make([]CategoryCount, 0, len(s))
	for category, traders := range s {
		ranked = append(ranked, CategoryCount{Category: category, Count: len(traders)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// TopTrader devuelve el primer trader de la categoría (el de mayor PnL,
// porque el servidor ordena PnL desc) y false si la categoría está vacía.
func (s CategorySnapshot) TopTrader(category string) (TraderRecord, bool) {
	traders := s[category]
	if len(traders) == 0 {
		return TraderRecord{}, false
	}
	return traders[0], true
}

// TagQuery son los parámetros de una request al endpoint tag-performance.
// MinWinRate y MinTotalPositions solo se envían cuando son > 0.
type TagQuery struct {
	Tag               string
	Page              int
	PageSize          int
	SortBy            string
	SortDirection     string
	MinWinRate        int // porcentaje entero, ej. 67
	MinTotalPositions int
}

// CrawlFilter son los filtros fijos del crawl paginado.
type CrawlFilter struct {
	Tag          string
	MinWinRate   int // porcentaje entero
	MinPositions int
	PageSize     int
}
