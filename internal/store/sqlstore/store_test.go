package sqlstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/store/storetest"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteConformance(t *testing.T) {
	storetest.Run(t, openSQLite(t))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestMySQLConformance(t *testing.T) {
	dsn := os.Getenv("LEADERSHIP_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("LEADERSHIP_TEST_MYSQL_DSN not set")
	}
	s, err := Open(context.Background(), DriverMySQL, dsn)
	require.NoError(t, err)
	defer s.Close()
	storetest.Run(t, s)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeDSN(DriverMySQL, "user:pw@tcp(localhost:3306)/leadership")
	require.NoError(t, err)
	assert.Contains(t, dsn, "charset=utf8mb4")

	_, err = normalizeDSN(DriverMySQL, "not a dsn")
	assert.Error(t, err)

	same, err := normalizeDSN(DriverSQLite, "file:x.db")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db", same)
}

func TestDuplicateDetection(t *testing.T) {
	assert.True(t, mysqlDialect.isDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, mysqlDialect.isDuplicate(&mysql.MySQLError{Number: 1146}))
	assert.False(t, sqliteDialect.isDuplicate(errors.New("UNIQUE")))
}
