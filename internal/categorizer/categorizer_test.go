package categorizer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/traderscan/internal/adapters/storage"
	"github.com/alejandrodnm/traderscan/internal/categorizer"
	"github.com/alejandrodnm/traderscan/internal/domain"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

// --- mocks ---

type mockProvider struct {
	byTag    map[string][]domain.TraderRecord
	failTags map[string]bool

	mu      sync.Mutex
	queries []domain.TagQuery
}

func (m *mockProvider) FetchTagPerformance(_ context.Context, q domain.TagQuery) ([]domain.TraderRecord, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()

	if m.failTags[q.Tag] {
		return nil, errors.New("API down")
	}
	return m.byTag[q.Tag], nil
}

type mockNotifier struct {
	snapshot domain.CategorySnapshot
	index    domain.CategoryIndex
}

func (m *mockNotifier) CategorySummary(s domain.CategorySnapshot, i domain.CategoryIndex) {
	m.snapshot = s
	m.index = i
}

func (m *mockNotifier) CrawlSummary(domain.CrawlFilter, []domain.TraderRecord) {}

type mockStorage struct {
	snapshot domain.CategorySnapshot
	err      error
}

func (m *mockStorage) SaveCategorizeRun(_ context.Context, s domain.CategorySnapshot) error {
	m.snapshot = s
	return m.err
}

func (m *mockStorage) SaveCrawlRun(context.Context, domain.CrawlFilter, []domain.TraderRecord) error {
	return nil
}

func (m *mockStorage) Close() error { return nil }

// --- helpers ---

func intPtr(i int) *int { return &i }

func makeTrader(addr, name string, pnl float64) domain.TraderRecord {
	return domain.TraderRecord{
		Address:        addr,
		Name:           name,
		PnL:            pnl,
		WinRate:        0.7,
		TotalPositions: 40,
		Rank:           intPtr(1),
	}
}

func newTestWriter(t *testing.T) (ports.SnapshotWriter, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := storage.NewSnapshotWriter(dir)
	require.NoError(t, err)
	return w, dir
}

func newTestCategorizer(categories []string, workers int, p ports.TraderProvider, w ports.SnapshotWriter, s ports.Storage, n ports.Notifier) *categorizer.Categorizer {
	cfg := categorizer.DefaultConfig()
	cfg.Categories = categories
	cfg.Workers = workers
	return categorizer.New(cfg, p, w, s, n)
}

// --- tests ---

func TestCategorizer_Run_Success(t *testing.T) {
	provider := &mockProvider{byTag: map[string][]domain.TraderRecord{
		"Sports":   {makeTrader("0xaaa", "alice", 1000), makeTrader("0xbbb", "bob", 500)},
		"Politics": {makeTrader("0xaaa", "alice", 2000)},
	}}
	writer, dir := newTestWriter(t)
	notifier := &mockNotifier{}
	store := &mockStorage{}

	c := newTestCategorizer([]string{"Sports", "Politics"}, 1, provider, writer, store, notifier)
	snapshot, index, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot, 2)
	assert.Len(t, snapshot["Sports"], 2)
	assert.Len(t, snapshot["Politics"], 1)

	// Índice: una entry por address distinta
	require.Len(t, index, 2)
	assert.Len(t, index["0xaaa"].Categories, 2)

	// Los dos snapshots quedaron en disco
	assert.FileExists(t, filepath.Join(dir, categorizer.SnapshotFile))
	assert.FileExists(t, filepath.Join(dir, categorizer.LookupFile))

	// Notifier y storage recibieron el snapshot completo
	assert.Equal(t, snapshot, notifier.snapshot)
	assert.Equal(t, snapshot, store.snapshot)

	// Una request por categoría, top N por PnL sin filtros
	require.Len(t, provider.queries, 2)
	for _, q := range provider.queries {
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, 100, q.PageSize)
		assert.Zero(t, q.MinWinRate)
		assert.Zero(t, q.MinTotalPositions)
	}
}

func TestCategorizer_Run_FailedCategoryIsIsolated(t *testing.T) {
	provider := &mockProvider{
		byTag: map[string][]domain.TraderRecord{
			"Sports": {makeTrader("0xaaa", "alice", 1000)},
			"Crypto": {makeTrader("0xbbb", "bob", 300)},
		},
		failTags: map[string]bool{"Politics": true},
	}
	writer, _ := newTestWriter(t)
	notifier := &mockNotifier{}

	c := newTestCategorizer([]string{"Sports", "Politics", "Crypto"}, 1, provider, writer, nil, notifier)
	snapshot, index, err := c.Run(context.Background())
	require.NoError(t, err, "un fallo por categoría nunca aborta el run")

	// La categoría fallida conserva su key con lista vacía no-nil
	require.Len(t, snapshot, 3)
	assert.NotNil(t, snapshot["Politics"])
	assert.Empty(t, snapshot["Politics"])

	// Las demás no se ven afectadas
	assert.Len(t, snapshot["Sports"], 1)
	assert.Len(t, snapshot["Crypto"], 1)
	assert.Len(t, index, 2)
}

func TestCategorizer_Run_DeterministicOutput(t *testing.T) {
	provider := &mockProvider{byTag: map[string][]domain.TraderRecord{
		"Sports":   {makeTrader("0xaaa", "alice", 1000), makeTrader("0xbbb", "bob", 500)},
		"Politics": {makeTrader("0xaaa", "alice", 2000)},
		"Crypto":   {},
	}}
	categories := []string{"Sports", "Politics", "Crypto"}

	writer1, dir1 := newTestWriter(t)
	c1 := newTestCategorizer(categories, 1, provider, writer1, nil, &mockNotifier{})
	_, _, err := c1.Run(context.Background())
	require.NoError(t, err)

	writer2, dir2 := newTestWriter(t)
	c2 := newTestCategorizer(categories, 4, provider, writer2, nil, &mockNotifier{})
	_, _, err = c2.Run(context.Background())
	require.NoError(t, err)

	// Mismo input → bytes idénticos, incluso con workers distintos
	for _, name := range []string{categorizer.SnapshotFile, categorizer.LookupFile} {
		b1, err := os.ReadFile(filepath.Join(dir1, name))
		require.NoError(t, err)
		b2, err := os.ReadFile(filepath.Join(dir2, name))
		require.NoError(t, err)
		assert.Equal(t, string(b1), string(b2), name)
	}
}

func TestCategorizer_Run_ConcurrentWorkersFetchAll(t *testing.T) {
	byTag := make(map[string][]domain.TraderRecord)
	categories := []string{"Sports", "Politics", "Crypto", "Tennis", "NFL", "Bitcoin"}
	for i, cat := range categories {
		byTag[cat] = []domain.TraderRecord{makeTrader(cat, cat, float64(i))}
	}
	provider := &mockProvider{byTag: byTag}
	writer, _ := newTestWriter(t)

	c := newTestCategorizer(categories, 4, provider, writer, nil, &mockNotifier{})
	snapshot, _, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot, len(categories))
	require.Len(t, provider.queries, len(categories))
	for _, cat := range categories {
		assert.Len(t, snapshot[cat], 1, cat)
	}
}

func TestCategorizer_Run_StorageErrorIsNotFatal(t *testing.T) {
	provider := &mockProvider{byTag: map[string][]domain.TraderRecord{
		"Sports": {makeTrader("0xaaa", "alice", 1000)},
	}}
	writer, _ := newTestWriter(t)
	store := &mockStorage{err: errors.New("disk full")}

	c := newTestCategorizer([]string{"Sports"}, 1, provider, writer, store, &mockNotifier{})
	_, _, err := c.Run(context.Background())
	assert.NoError(t, err)
}
