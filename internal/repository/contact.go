package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/pagination"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, locale, name, email, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Locale, m.Name, m.Email, m.Message, m.CreatedAt,
	)
	return err
}

// ListSince returns messages received at or after since, oldest first, one
// page at a time. after is the cursor of the previous page or nil.
func (r *ContactRepository) ListSince(ctx context.Context, since time.Time, after *pagination.Cursor, limit int) (*pagination.Page[*domain.ContactMessage], error) {
	limit = pagination.ClampLimit(limit)

	var rows pgx.Rows
	var err error
	if after != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, locale, name, email, message, created_at
			 FROM contact_messages
			 WHERE created_at >= $1 AND (created_at, id::text) > ($2, $3)
			 ORDER BY created_at, id::text
			 LIMIT $4`,
			since, after.Timestamp, after.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, locale, name, email, message, created_at
			 FROM contact_messages
			 WHERE created_at >= $1
			 ORDER BY created_at, id::text
			 LIMIT $2`,
			since, limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Locale, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pagination.NewPage(messages, limit, func(m *domain.ContactMessage) (string, time.Time) {
		return m.ID, m.CreatedAt
	}), nil
}
