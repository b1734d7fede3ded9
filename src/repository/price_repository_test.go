package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRepositoryLatest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPriceRepositoryWithDB(db)
	query := regexp.QuoteMeta(`SELECT "close", "updated" FROM "tStock_PricesReal" WHERE "idSymbol" = (SELECT "id" FROM "tStockSymbols" WHERE "Symbol" = $1) ORDER BY "updated" DESC LIMIT 1`)

	updated := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery(query).
		WithArgs("AAPL").
		WillReturnRows(sqlmock.NewRows([]string{"close", "updated"}).AddRow(25.0, updated))

	sample, err := repo.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.True(t, sample.Close.Equal(decimal.NewFromInt(25)))
	assert.True(t, sample.Updated.Equal(updated))

	mock.ExpectQuery(query).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"close", "updated"}))

	sample, err = repo.Latest(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, sample)

	mock.ExpectQuery(query).
		WithArgs("ERR").
		WillReturnError(errors.New("boom"))

	_, err = repo.Latest(context.Background(), "ERR")
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
