package storefx_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foogaro/kinexis/pkg/kinexis"
	"github.com/foogaro/kinexis/pkg/kinexis/storefx"
)

type sqlEntity struct {
	ID   int
	Name string
}

func (e sqlEntity) GetID() int { return e.ID }

const (
	sqlSelectQuery = "SELECT id, name FROM employers WHERE id = $1"
	sqlUpsertQuery = "INSERT INTO employers (id, name) VALUES ($1, $2) " +
		"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	sqlDeleteQuery = "DELETE FROM employers WHERE id = $1"
)

func sqlMapRow(row *sql.Row) (sqlEntity, error) {
	var e sqlEntity

	err := row.Scan(&e.ID, &e.Name)

	return e, err
}

func sqlBindArgs(e sqlEntity) []any {
	return []any{e.ID, e.Name}
}

func newTestSQLStore(t *testing.T) (*storefx.SQLPrimaryStore[sqlEntity, int], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	store := storefx.NewSQLPrimaryStore[sqlEntity, int](
		db, sqlSelectQuery, sqlUpsertQuery, sqlDeleteQuery, sqlMapRow, sqlBindArgs, kinexis.IntIDCodec{},
	)

	return store, mock
}

func TestSQLPrimaryStoreFindByIDMapsRow(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Acme")
	mock.ExpectQuery(sqlSelectQuery).WithArgs("7").WillReturnRows(rows)

	e, found, err := store.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Acme", e.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLPrimaryStoreFindByIDNoRowsReturnsNotFound(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	mock.ExpectQuery(sqlSelectQuery).WithArgs("404").WillReturnError(sql.ErrNoRows)

	_, found, err := store.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLPrimaryStoreFindByIDWrapsUnexpectedError(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	mock.ExpectQuery(sqlSelectQuery).WithArgs("7").WillReturnError(errors.New("connection reset"))

	_, _, err := store.FindByID(context.Background(), 7)
	require.ErrorIs(t, err, kinexis.ErrStoreUnavailable)
}

func TestSQLPrimaryStoreSaveExecutesUpsertWithBoundArgs(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	mock.ExpectExec(sqlUpsertQuery).WithArgs(7, "Acme").WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), sqlEntity{ID: 7, Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLPrimaryStoreCircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	for range 5 {
		mock.ExpectExec(sqlDeleteQuery).WithArgs("7").WillReturnError(errors.New("connection reset"))

		err := store.DeleteByID(context.Background(), 7)
		require.ErrorIs(t, err, kinexis.ErrStoreUnavailable)
	}

	err := store.DeleteByID(context.Background(), 7)
	require.ErrorIs(t, err, kinexis.ErrCircuitOpen)
}

func TestSQLPrimaryStoreDeleteByIDExecutesDelete(t *testing.T) {
	t.Parallel()

	store, mock := newTestSQLStore(t)

	mock.ExpectExec(sqlDeleteQuery).WithArgs("7").WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteByID(context.Background(), 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
