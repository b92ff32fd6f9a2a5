package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeywordRepo(t *testing.T) (*KeywordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKeywordRepository(db), mock
}

func TestKeywordAdd(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO custom_keywords (user_id, keyword) VALUES (?, ?)`)).
		WithArgs(int64(1), "益生菌推薦").
		WillReturnResult(sqlmock.NewResult(9, 1))

	kw, err := repo.Add(context.Background(), 1, "益生菌推薦")
	require.NoError(t, err)
	assert.Equal(t, int64(9), kw.ID)
	assert.Equal(t, "益生菌推薦", kw.Keyword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordAddDuplicate(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO custom_keywords`)).
		WithArgs(int64(1), "益生菌推薦").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Add(context.Background(), 1, "益生菌推薦")
	assert.ErrorIs(t, err, ErrDuplicateKeyword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordListByUser(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM custom_keywords`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "keyword", "created_at"}).
			AddRow(2, 1, "維他命D", time.Now()).
			AddRow(1, 1, "魚油推薦", time.Now()))

	keywords, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "維他命D", keywords[0].Keyword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordListByUserEmpty(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM custom_keywords`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "keyword", "created_at"}))

	keywords, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, keywords)
	assert.Empty(t, keywords)
}

func TestKeywordDelete(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM custom_keywords WHERE id = ? AND user_id = ?`)).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordDeleteNotOwned(t *testing.T) {
	repo, mock := newKeywordRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM custom_keywords`)).
		WithArgs(int64(5), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}
