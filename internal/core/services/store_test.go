package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/facility_finance_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// ledgerStore opens an empty, migrated store for one test.
type ledgerStore interface {
	open(ctx context.Context, t *testing.T) portsrepo.RepositoryProvider
	// setBalance overwrites a stored running balance behind the services' back.
	setBalance(ctx context.Context, entryID int64, balance string) error
}

type sqliteStore struct {
	handles *database.SQLiteHandles
}

func (st *sqliteStore) open(ctx context.Context, t *testing.T) portsrepo.RepositoryProvider {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, database.MigrateSQLite(path))
	handles, err := database.OpenSQLite(ctx, path, 5000)
	require.NoError(t, err)
	t.Cleanup(func() { handles.Close() })

	st.handles = handles
	return sqlite.NewRepositoryProvider(handles)
}

func (st *sqliteStore) setBalance(ctx context.Context, entryID int64, balance string) error {
	_, err := st.handles.Writer.ExecContext(ctx, `UPDATE cashbook_entries SET balance = ? WHERE entry_id = ?`, balance, entryID)
	return err
}

type postgresStore struct {
	url      string
	migrated sync.Once
	pool     *pgxpool.Pool
}

func (st *postgresStore) open(ctx context.Context, t *testing.T) portsrepo.RepositoryProvider {
	var migrateErr error
	st.migrated.Do(func() { migrateErr = database.MigratePostgres(st.url) })
	require.NoError(t, migrateErr)

	pool, err := database.NewPgxPool(ctx, st.url, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE cashbook_entries, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	st.pool = pool
	return pgsql.NewRepositoryProvider(pool, 5*time.Second)
}

func (st *postgresStore) setBalance(ctx context.Context, entryID int64, balance string) error {
	_, err := st.pool.Exec(ctx, `UPDATE cashbook_entries SET balance = $1::numeric WHERE entry_id = $2`, balance, entryID)
	return err
}
