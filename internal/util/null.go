package util

import (
	"database/sql"
	"time"
)

// NullStringPtr converts a *string to sql.NullString.
// Nil pointers are treated as invalid (null).
func NullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullStringToPtr converts sql.NullString to *string.
// Invalid values are returned as nil.
func NullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// NullTime stores an optional timestamp as RFC3339 text.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTimeSQL(*t), Valid: true}
}

// NullTimeToPtr is the inverse of NullTime. Unparseable values are returned as nil.
func NullTimeToPtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

// FormatTimeSQL formats t as UTC RFC3339 with nanoseconds, which sorts as text.
func FormatTimeSQL(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeSQL parses a value written by FormatTimeSQL or a plain SQLite
// "YYYY-MM-DD HH:MM:SS" datetime. Returns zero time if parsing fails.
func ParseTimeSQL(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.DateTime, s)
	return t
}
