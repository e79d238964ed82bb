package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/isdelr/portfolio-be/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// encodeStrings stores a string list as a JSON text column.
func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// decodeStrings reverses encodeStrings; bad or empty JSON yields an empty list.
func decodeStrings(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// encodeObject stores an optional object as a JSON text column; nil is NULL.
func encodeObject[T any](v *T) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// decodeObject reverses encodeObject; NULL or bad JSON yields nil.
func decodeObject[T any](raw sql.NullString) *T {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		return nil
	}
	return &v
}

func nullDate(d *models.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func datePtr(raw sql.NullString) *models.Date {
	if !raw.Valid {
		return nil
	}
	d, err := models.ParseDate(raw.String)
	if err != nil {
		return nil
	}
	return &d
}
