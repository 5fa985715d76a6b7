package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/storefront/internal/domain"
)

type HeroRepository struct {
	pool *pgxpool.Pool
}

func NewHeroRepository(pool *pgxpool.Pool) *HeroRepository {
	return &HeroRepository{pool: pool}
}

func (r *HeroRepository) Get(ctx context.Context, locale string) (*domain.Hero, error) {
	var h domain.Hero
	err := r.pool.QueryRow(ctx,
		`SELECT locale, heading, subheading, cta_text, cta_link, background_image_key, updated_at
		 FROM hero_content WHERE locale = $1`,
		locale,
	).Scan(&h.Locale, &h.Heading, &h.Subheading, &h.CTAText, &h.CTALink, &h.BackgroundImageKey, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HeroRepository) Upsert(ctx context.Context, h *domain.Hero) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO hero_content (locale, heading, subheading, cta_text, cta_link, background_image_key, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (locale) DO UPDATE SET
		   heading = EXCLUDED.heading,
		   subheading = EXCLUDED.subheading,
		   cta_text = EXCLUDED.cta_text,
		   cta_link = EXCLUDED.cta_link,
		   background_image_key = EXCLUDED.background_image_key,
		   updated_at = EXCLUDED.updated_at`,
		h.Locale, h.Heading, h.Subheading, h.CTAText, h.CTALink, h.BackgroundImageKey, h.UpdatedAt,
	)
	return err
}
