package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RoyWG925/geo-dashboard-demo/internal/config"
	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
	"github.com/RoyWG925/geo-dashboard-demo/internal/pipeline"
	"github.com/RoyWG925/geo-dashboard-demo/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

//
// --- Pipeline fakes: the HTTP tests drive a real pipeline over these ---
//

type stubUsage struct {
	mu  sync.Mutex
	rec models.UsageRecord
}

func (s *stubUsage) GetOrCreate(ctx context.Context, userID int64, email string) (*models.UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.rec
	return &out, nil
}

func (s *stubUsage) Reserve(ctx context.Context, userID int64) (*models.UsageRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rec.IsPremium && s.rec.UsageCount >= s.rec.MaxUsage {
		out := s.rec
		return &out, false, nil
	}
	s.rec.UsageCount++
	out := s.rec
	return &out, true, nil
}

type stubCollector struct {
	questions []string
	err       error
}

func (s *stubCollector) Collect(ctx context.Context, keyword string) ([]string, error) {
	return s.questions, s.err
}

type stubGenerator struct {
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "generated by " + modelName, nil
}

func (s *stubGenerator) GenerateStream(ctx context.Context, modelName, prompt string, onChunk func(string) error) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	full := ""
	for _, chunk := range []string{"streamed by ", modelName} {
		if err := onChunk(chunk); err != nil {
			return "", err
		}
		full += chunk
	}
	return full, nil
}

type stubResults struct {
	mu   sync.Mutex
	rows []*models.AnalysisResult
}

func (s *stubResults) Insert(ctx context.Context, result *models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *result
	s.rows = append(s.rows, &row)
	return nil
}

func (s *stubResults) FindLatest(ctx context.Context, keyword string) (*models.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].Keyword == keyword {
			row := *s.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

type stubRefinements struct{}

func (stubRefinements) Insert(ctx context.Context, ref *models.Refinement) error { return nil }

//
// --- Harness ---
//

type geoFixture struct {
	handlers  *Handlers
	usage     *stubUsage
	collector *stubCollector
	generator *stubGenerator
	results   *stubResults
}

func newGeoFixture() *geoFixture {
	f := &geoFixture{
		usage:     &stubUsage{rec: models.UsageRecord{UserID: 1, Email: "user@example.com", MaxUsage: 10}},
		collector: &stubCollector{questions: []string{"魚油何時吃最好?"}},
		generator: &stubGenerator{},
		results:   &stubResults{},
	}
	p := pipeline.New(f.usage, f.results, stubRefinements{}, f.collector, f.generator, pipeline.Settings{
		ModelFallback:      []string{"model-a", "model-b"},
		DefaultStreamModel: "model-a",
		ContactEmail:       "admin@example.com",
		ScrapeTimeout:      time.Second,
		GenerateTimeout:    time.Second,
	})
	f.handlers = &Handlers{
		Cfg:      config.Config{ContactEmail: "admin@example.com"},
		Pipeline: p,
	}
	return f
}

// identify stands in for the auth middleware.
func identify(userID int64, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userEmail", email)
	}
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// newMockRepos returns sqlmock-backed repositories for the handlers that
// talk to the database directly.
func newMockRepos(t *testing.T) (*repository.UsageRepository, *repository.KeywordRepository, *repository.ResultRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	usage := repository.NewUsageRepository(db, repository.UsageDefaults{DefaultMaxUsage: 10, AdminMaxUsage: 999999})
	return usage, repository.NewKeywordRepository(db), repository.NewResultRepository(db), mock
}

var errStub = errors.New("stub failure")
