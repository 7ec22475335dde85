package postgres

import (
	"database/sql"
	"time"
)

// nullIfEmpty stores only the empty string as NULL; anything else,
// whitespace included, is kept verbatim.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ceilMicro rounds up to the column's microsecond precision so the stored
// timestamp is never earlier than the instant it was taken.
func ceilMicro(t time.Time) time.Time {
	t = t.UTC()
	tr := t.Truncate(time.Microsecond)
	if tr.Before(t) {
		tr = tr.Add(time.Microsecond)
	}
	return tr
}

type rowScanner interface {
	Scan(dest ...any) error
}
