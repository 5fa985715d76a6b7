// Package pagination implements keyset pages over rows ordered by
// (timestamp, id) ascending.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor identifies the last row of the previous page.
type Cursor struct {
	LastID    string
	Timestamp time.Time
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items      []T
	NextCursor string
	HasMore    bool
}

// ClampLimit maps a requested page size into [1, MaxLimit], with
// DefaultLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// EncodeCursor returns an opaque, URL-safe cursor for the given row.
func EncodeCursor(lastID string, timestamp time.Time) string {
	if lastID == "" {
		return ""
	}
	raw := timestamp.UTC().Format(time.RFC3339Nano) + "|" + lastID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor. An empty string
// decodes to nil, meaning the first page.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	ts, id, ok := strings.Cut(string(decoded), "|")
	if !ok || id == "" {
		return nil, ErrInvalidCursor
	}

	timestamp, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{LastID: id, Timestamp: timestamp}, nil
}

// NewPage builds a page from rows fetched with limit+1. The extra row only
// signals that another page exists.
func NewPage[T any](rows []T, limit int, key func(T) (string, time.Time)) *Page[T] {
	page := &Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
	}
	if page.HasMore && len(page.Items) > 0 {
		id, ts := key(page.Items[len(page.Items)-1])
		page.NextCursor = EncodeCursor(id, ts)
	}
	return page
}
