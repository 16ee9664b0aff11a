package sqlite

import (
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/pkg/database"
)

// NewRepositoryProvider wires every SQLite repository onto the writer and reader pools.
func NewRepositoryProvider(handles *database.SQLiteHandles) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newSQLiteAccountRepository(handles.Writer, handles.Reader),
		CashbookRepo: newSQLiteCashbookRepository(handles.Writer, handles.Reader),
	}
}
