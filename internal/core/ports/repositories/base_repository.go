package repositories

import (
	"context"
)

// UnitOfWork runs fn inside one store transaction. The transaction commits when fn
// returns nil and rolls back otherwise; fn must not retain tx after returning.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx CashbookTx) error) error
}
