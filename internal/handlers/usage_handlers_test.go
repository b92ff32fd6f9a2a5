package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RoyWG925/geo-dashboard-demo/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockUsageCols = []string{"id", "user_id", "email", "usage_count", "max_usage", "is_premium", "created_at", "last_used_at"}

func newUsageRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	usage, _, _, mock := newMockRepos(t)
	h := &Handlers{
		Cfg:   config.Config{ContactEmail: "admin@example.com"},
		Usage: usage,
	}

	router := gin.New()
	authed := router.Group("/", identify(1, "user@example.com"))
	authed.GET("/usage", h.GetUsage)
	authed.POST("/usage", h.IncrementUsage)
	return router, mock
}

func TestGetUsage(t *testing.T) {
	router, mock := newUsageRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 3, 10, 0, time.Now(), nil))

	w := performJSON(router, http.MethodGet, "/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["usage_count"])
	assert.Equal(t, float64(10), body["max_usage"])
	assert.Equal(t, float64(7), body["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsagePremiumRemaining(t *testing.T) {
	router, mock := newUsageRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 50, 10, 1, time.Now(), nil))

	w := performJSON(router, http.MethodGet, "/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(-1), decodeBody(t, w)["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsage(t *testing.T) {
	router, mock := newUsageRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 3, 10, 0, time.Now(), nil))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE user_usage SET usage_count = usage_count + 1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 4, 10, 0, time.Now(), time.Now()))

	w := performJSON(router, http.MethodPost, "/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(4), body["usage_count"])
	assert.Equal(t, float64(6), body["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsageAtCap(t *testing.T) {
	router, mock := newUsageRouter(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 10, 10, 0, time.Now(), nil))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE user_usage SET usage_count = usage_count + 1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_usage WHERE user_id = ?`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(mockUsageCols).
			AddRow(1, 1, "user@example.com", 10, 10, 0, time.Now(), nil))

	w := performJSON(router, http.MethodPost, "/usage", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Usage limit exceeded", body["error"])
	assert.Equal(t, "您已達到使用次數上限，請聯繫管理員以獲得更多使用次數。", body["message"])
	assert.Equal(t, "admin@example.com", body["contactEmail"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
