package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/store/storetest"
)

func TestPostgresConformance(t *testing.T) {
	dsn := os.Getenv("LEADERSHIP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEADERSHIP_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.pool.Exec(ctx, "TRUNCATE survey_submissions, leadership_analyses")
	require.NoError(t, err)
	storetest.Run(t, s)
}

func TestMapInsertErr(t *testing.T) {
	assert.ErrorIs(t, mapInsertErr(&pgconn.PgError{Code: "23505"}), store.ErrDuplicate)

	other := errors.New("boom")
	assert.Equal(t, other, mapInsertErr(other))
}

func TestEnsureSchemaRequiresPool(t *testing.T) {
	var s *Store
	assert.Error(t, s.EnsureSchema(context.Background()))
}
