// Package query builds the SQL fragments shared by the Postgres and SQLite stores.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// Dialect describes how a store spells bind parameters and date values.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// DateArg converts a transaction date into a bind value.
	DateArg func(t time.Time) any
}

// Postgres numbers parameters $1..$n and binds dates as time.Time.
var Postgres = Dialect{
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	DateArg:     func(t time.Time) any { return domain.DateOnly(t) },
}

// SQLite uses positional ? parameters and stores dates as YYYY-MM-DD text.
var SQLite = Dialect{
	Placeholder: func(int) string { return "?" },
	DateArg:     func(t time.Time) any { return domain.DateOnly(t).Format(domain.DateLayout) },
}

// Builder accumulates WHERE conditions and their arguments.
type Builder struct {
	dialect    Dialect
	conditions []string
	args       []any
}

// NewBuilder returns an empty builder for d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Arg binds v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

// Where adds a condition. format may contain %s verbs filled with placeholders of args.
func (b *Builder) Where(format string, args ...any) {
	ph := make([]any, len(args))
	for i, a := range args {
		ph[i] = b.Arg(a)
	}
	b.conditions = append(b.conditions, fmt.Sprintf(format, ph...))
}

// Clause renders " WHERE ..." or an empty string.
func (b *Builder) Clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// Args returns the bound arguments in order.
func (b *Builder) Args() []any {
	return b.args
}

// EntryFilter renders the WHERE clause, ORDER BY and LIMIT of an entry listing in
// (transaction_date desc, entry_id desc) order.
func EntryFilter(d Dialect, f domain.EntryFilter) (string, []any) {
	b := NewBuilder(d)
	if f.AccountID != nil {
		b.Where("account_id = %s", *f.AccountID)
	}
	if f.FacilityID != nil {
		b.Where("facility_id = %s", *f.FacilityID)
	}
	if f.HospitalID != nil {
		b.Where("hospital_id = %s", *f.HospitalID)
	}
	if f.Quarter != nil {
		b.Where("quarter = %s", string(*f.Quarter))
	}
	if f.DateFrom != nil {
		b.Where("transaction_date >= %s", d.DateArg(*f.DateFrom))
	}
	if f.DateTo != nil {
		b.Where("transaction_date <= %s", d.DateArg(*f.DateTo))
	}
	if f.After != nil {
		b.Where("(transaction_date, entry_id) < (%s, %s)", d.DateArg(f.After.TransactionDate), f.After.EntryID)
	}

	sql := b.Clause() + " ORDER BY transaction_date DESC, entry_id DESC"
	if f.Limit > 0 {
		sql += " LIMIT " + b.Arg(f.Limit)
	}
	return sql, b.Args()
}

// AccountFilter renders the WHERE clause of an account listing. Columns are qualified
// with alias.
func AccountFilter(d Dialect, alias string, f domain.AccountFilter) (string, []any) {
	b := NewBuilder(d)
	if f.FacilityID != nil {
		b.Where(alias+".facility_id = %s", *f.FacilityID)
	}
	if f.HospitalID != nil {
		b.Where(alias+".hospital_id = %s", *f.HospitalID)
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		b.Where("LOWER("+alias+".name) LIKE %s", "%"+strings.ToLower(q)+"%")
	}
	return b.Clause(), b.Args()
}
