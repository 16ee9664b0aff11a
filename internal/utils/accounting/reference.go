package accounting

import (
	"fmt"
	"strconv"
	"time"
)

const referenceDateLayout = "20060102"

// ReferencePrefix builds the per-account prefix, e.g. base "CBK" and account 7 give "CBK7".
func ReferencePrefix(base string, accountID int64) string {
	return base + strconv.FormatInt(accountID, 10)
}

// FormatReference renders <prefix>-<YYYYMMDD>-<sequence>, the sequence zero-padded to four digits.
func FormatReference(prefix string, d time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, d.Format(referenceDateLayout), seq)
}
