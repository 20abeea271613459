package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver never dials anything; sql.Open is lazy, so pools built on it
// are real *sqlx.DB values that are safe to hand around and close.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("no live connections in tests")
}

func init() { sql.Register("holderstub", stubDriver{}) }

func newCountingHolder(opens *int) *Holder {
	h := NewHolder()
	h.open = func(_ context.Context, dsn string) (*sqlx.DB, error) {
		*opens++
		return sqlx.Open("holderstub", dsn)
	}
	return h
}

func TestConnParamsDSN(t *testing.T) {
	p := ConnParams{
		Host:     "db.internal",
		Port:     3307,
		User:     "app",
		Password: "s3cret",
		Database: "orders",
	}

	dsn := p.dsn()

	assert.Contains(t, dsn, "app:s3cret@tcp(db.internal:3307)/orders")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestConnParamsDSN_IsStableKey(t *testing.T) {
	a := ConnParams{Host: "h", Port: 3306, User: "u", Database: "d"}
	b := ConnParams{Host: "h", Port: 3306, User: "u", Database: "d"}
	c := ConnParams{Host: "h", Port: 3306, User: "u", Database: "other"}

	assert.Equal(t, a.dsn(), b.dsn())
	assert.NotEqual(t, a.dsn(), c.dsn())
}

func TestIsRowQuery(t *testing.T) {
	for query, want := range map[string]bool{
		"SELECT * FROM users":      true,
		"  select id from t":       true,
		"SHOW TABLES":              true,
		"describe users":           true,
		"DESC users":               true,
		"EXPLAIN SELECT 1":         true,
		"INSERT INTO t VALUES (1)": false,
		"UPDATE t SET a = 1":       false,
		"DELETE FROM t":            false,
		"CREATE TABLE t (id INT)":  false,
		"TRUNCATE t":               false,
		"":                         false,
		"   ":                      false,
	} {
		assert.Equal(t, want, isRowQuery(query), "query %q", query)
	}
}

func TestMySQLQuery_EmptyQueryFailsWithoutConnecting(t *testing.T) {
	opens := 0
	tool := New(newCountingHolder(&opens)).mysqlQuery()

	for _, query := range []string{"", "   "} {
		res, err := tool.Handler(context.Background(), map[string]any{
			"user":     "app",
			"database": "orders",
			"query":    query,
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "execution_error: query is empty", res.Text())
	}
	assert.Zero(t, opens)
}

func TestHolderGet_ReusesMatchingPool(t *testing.T) {
	opens := 0
	h := newCountingHolder(&opens)
	params := ConnParams{Host: "db.internal", Port: 3306, User: "app", Database: "orders"}

	first, err := h.Get(context.Background(), params)
	require.NoError(t, err)
	second, err := h.Get(context.Background(), params)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, opens)
	assert.True(t, h.holds(params.dsn()))

	assert.NoError(t, h.Close())
}

func TestHolderGet_ReopensWhenParamsChange(t *testing.T) {
	opens := 0
	h := newCountingHolder(&opens)
	orders := ConnParams{Host: "db.internal", Port: 3306, User: "app", Database: "orders"}
	billing := ConnParams{Host: "db.internal", Port: 3306, User: "app", Database: "billing"}

	first, err := h.Get(context.Background(), orders)
	require.NoError(t, err)
	second, err := h.Get(context.Background(), billing)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, opens)
	assert.True(t, h.holds(billing.dsn()))
	assert.False(t, h.holds(orders.dsn()))

	assert.NoError(t, h.Close())
}

func TestHolderGet_OpenErrorIsWrapped(t *testing.T) {
	h := NewHolder()
	h.open = func(context.Context, string) (*sqlx.DB, error) {
		return nil, errors.New("dial refused")
	}

	_, err := h.Get(context.Background(), ConnParams{Host: "db.internal", Port: 3306, User: "app", Database: "orders"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to db.internal:3306")
	assert.Contains(t, err.Error(), "dial refused")
	assert.False(t, h.holds(ConnParams{Host: "db.internal", Port: 3306, User: "app", Database: "orders"}.dsn()))
}

func TestHolderClose_Empty(t *testing.T) {
	h := NewHolder()

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
	assert.False(t, h.holds(ConnParams{Host: "h"}.dsn()))
}
