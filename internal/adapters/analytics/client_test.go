package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/traderscan/internal/adapters/analytics"
	"github.com/alejandrodnm/traderscan/internal/domain"
)

func newTestClient(url string) *analytics.Client {
	return analytics.NewClient(url, 2*time.Second, 1000)
}

func TestClient_FetchTagPerformance_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"trader": "0xaaa", "trader_name": "alice", "overall_gain": 1234.5, "win_rate": 0.71, "total_positions": 42, "rank": 1},
			{"trader": "0xbbb", "trader_name": "bob", "overall_gain": 99.9, "win_rate": 0.55, "total_positions": 10}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	traders, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{
		Tag:      "Sports",
		Page:     1,
		PageSize: 100,
	})
	require.NoError(t, err)
	require.Len(t, traders, 2)

	// Body con los defaults de sort (PnL desc)
	assert.Equal(t, "Sports", gotBody["tag"])
	assert.Equal(t, float64(1), gotBody["page"])
	assert.Equal(t, float64(100), gotBody["pageSize"])
	assert.Equal(t, "pnl", gotBody["sortBy"])
	assert.Equal(t, "desc", gotBody["sortDirection"])
	// Sin filtros: las keys ni se envían
	assert.NotContains(t, gotBody, "minWinRate")
	assert.NotContains(t, gotBody, "minTotalPositions")

	assert.Equal(t, "0xaaa", traders[0].Address)
	assert.Equal(t, "alice", traders[0].Name)
	assert.InDelta(t, 1234.5, traders[0].PnL, 0.001)
	assert.InDelta(t, 0.71, traders[0].WinRate, 0.001)
	assert.Equal(t, 42, traders[0].TotalPositions)
	require.NotNil(t, traders[0].Rank)
	assert.Equal(t, 1, *traders[0].Rank)

	// rank ausente → nil
	assert.Nil(t, traders[1].Rank)
}

func TestClient_FetchTagPerformance_SendsFilters(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{
		Tag:               "Overall",
		Page:              3,
		PageSize:          100,
		MinWinRate:        67,
		MinTotalPositions: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(67), gotBody["minWinRate"])
	assert.Equal(t, float64(30), gotBody["minTotalPositions"])
	assert.Equal(t, float64(3), gotBody["page"])
}

func TestClient_FetchTagPerformance_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	traders, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{Tag: "Tennis", Page: 1, PageSize: 100})

	// "sin resultados" no es un error
	require.NoError(t, err)
	assert.Empty(t, traders)
	assert.NotNil(t, traders)
}

func TestClient_FetchTagPerformance_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{Tag: "Sports", Page: 1, PageSize: 100})
	require.Error(t, err)

	var statusErr *analytics.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestClient_FetchTagPerformance_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // servidor caído: connection refused

	c := newTestClient(srv.URL)
	_, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{Tag: "Sports", Page: 1, PageSize: 100})
	require.Error(t, err)

	var transportErr *analytics.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_FetchTagPerformance_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchTagPerformance(context.Background(), domain.TagQuery{Tag: "Sports", Page: 1, PageSize: 100})
	assert.Error(t, err)
}
