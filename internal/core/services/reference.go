package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/utils/accounting"
)

// DefaultReferencePrefix is the base of generated cashbook references.
const DefaultReferencePrefix = "CBK"

// maxReferenceProbe bounds the search for a free sequence number.
const maxReferenceProbe = 10000

// referenceGenerator allocates <base><account>-<YYYYMMDD>-<seq> references.
// It must run while the account row is locked.
type referenceGenerator struct {
	base string
}

// Next returns the first free reference for (accountID, date), starting at the number of
// entries already on that date plus one.
func (g referenceGenerator) Next(ctx context.Context, tx portsrepo.CashbookTx, accountID int64, date time.Time) (string, error) {
	count, err := tx.CountEntriesOn(ctx, accountID, date)
	if err != nil {
		return "", fmt.Errorf("failed to count entries for reference: %w", err)
	}

	prefix := accounting.ReferencePrefix(g.base, accountID)
	for seq := count + 1; seq <= count+maxReferenceProbe; seq++ {
		ref := accounting.FormatReference(prefix, date, seq)
		taken, err := tx.ReferenceExists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("failed to check reference %s: %w", ref, err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", fmt.Errorf("%w: no free reference for account %d on %s", apperrors.ErrConsistency, accountID, date.Format(time.DateOnly))
}
