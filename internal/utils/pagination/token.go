package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// EncodeEntryCursor creates an opaque token from the (transaction date, entry id) of the
// last row of a page.
func EncodeEntryCursor(c domain.EntryCursor) string {
	return EncodeMultiFieldToken(c.TransactionDate.Format(domain.DateLayout), strconv.FormatInt(c.EntryID, 10))
}

// DecodeEntryCursor parses a token produced by EncodeEntryCursor.
func DecodeEntryCursor(token string) (*domain.EntryCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return nil, err
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}

	d, err := time.Parse(domain.DateLayout, parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pagination token format (date parse): %v", apperrors.ErrValidation, err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: invalid pagination token format (entry id parse)", apperrors.ErrValidation)
	}

	return &domain.EntryCursor{TransactionDate: d, EntryID: id}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
