package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/traderscan/internal/domain"
)

// crawlTopN: cuántos traders del crawl se muestran en el resumen.
const crawlTopN = 5

// Console implementa ports.Notifier imprimiendo tablas formateadas.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// CategorySummary imprime el resumen por categoría: cantidad de traders y
// el top trader de cada una, ordenado por cantidad descendente, más el
// total de traders únicos del índice.
func (c *Console) CategorySummary(snapshot domain.CategorySnapshot, index domain.CategoryIndex) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "=== SUMMARY — top traders by category ===")

	table := tablewriter.NewWriter(c.out)
	table.Header("Category", "Traders", "Top trader", "PnL", "Win rate")

	for _, cc := range snapshot.RankBySize() {
		top, ok := snapshot.TopTrader(cc.Category)
		if !ok {
			table.Append(cc.Category, "0", "-", "-", "-")
			continue
		}
		table.Append(
			cc.Category,
			fmt.Sprintf("%d", cc.Count),
			top.Name,
			fmt.Sprintf("$%.2f", top.PnL),
			fmt.Sprintf("%.1f%%", top.WinRate*100),
		)
	}

	table.Render()

	fmt.Fprintf(c.out, "Unique traders across categories: %d\n", len(index))
}

// CrawlSummary imprime el total del crawl y los top traders por PnL.
func (c *Console) CrawlSummary(filter domain.CrawlFilter, traders []domain.TraderRecord) {
	if len(traders) == 0 {
		fmt.Fprintln(c.out, "No traders found matching criteria.")
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "=== CRAWL — %d traders (win_rate >= %d%%, positions >= %d) ===\n",
		len(traders), filter.MinWinRate, filter.MinPositions)

	top := traders
	if len(top) > crawlTopN {
		top = traders[:crawlTopN]
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Trader", "PnL", "Win rate", "Positions")

	for i, t := range top {
		table.Append(
			fmt.Sprintf("%d", i+1),
			t.Name,
			fmt.Sprintf("$%.2f", t.PnL),
			fmt.Sprintf("%.1f%%", t.WinRate*100),
			fmt.Sprintf("%d", t.TotalPositions),
		)
	}

	table.Render()
}
