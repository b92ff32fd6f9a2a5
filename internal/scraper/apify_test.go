package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectExtractsQuestions(t *testing.T) {
	var gotInput actorInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/acts/apify~google-search-scraper/run-sync-get-dataset-items", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"peopleAlsoAsk":[
			{"question":"魚油何時吃最好?"},
			{"title":"魚油每天吃多少?"},
			{"text":"   "},
			{"query":"魚油副作用?"},
			{"rank":1}
		]}]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	questions, err := client.Collect(context.Background(), "魚油推薦")
	require.NoError(t, err)
	assert.Equal(t, []string{"魚油何時吃最好?", "魚油每天吃多少?", "魚油副作用?"}, questions)

	// The actor input pins the Taiwan market settings.
	assert.Equal(t, "魚油推薦", gotInput.Queries)
	assert.Equal(t, "tw", gotInput.CountryCode)
	assert.Equal(t, "zh-TW", gotInput.LanguageCode)
	assert.Equal(t, 1, gotInput.MaxPagesPerQuery)
	assert.Equal(t, 10, gotInput.ResultsPerPage)
	assert.False(t, gotInput.MobileResults)
	assert.True(t, gotInput.IncludeUnfilteredResults)
}

func TestCollectEmptyResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	questions, err := client.Collect(context.Background(), "冷門關鍵字")
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestCollectMissingPAABlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"organicResults":[{"title":"something"}]}]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	questions, err := client.Collect(context.Background(), "冷門關鍵字")
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestCollectRetriesOnce(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			http.Error(w, "actor overloaded", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"peopleAlsoAsk":[{"question":"q1"}]}]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	questions, err := client.Collect(context.Background(), "魚油推薦")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, questions)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestCollectFailsAfterRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "actor overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	_, err := client.Collect(context.Background(), "魚油推薦")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestCollectMissingToken(t *testing.T) {
	client := NewClient("")
	_, err := client.Collect(context.Background(), "魚油推薦")
	assert.ErrorIs(t, err, ErrMissingToken)
}
