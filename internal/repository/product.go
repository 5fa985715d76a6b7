package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/service"
)

const productColumns = `id, name, slug, price, description, image_keys, created_at`

type ProductRepository struct {
	db dbtx
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: pool}
}

func NewProductRepositoryWithTx(tx pgx.Tx) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	imageKeys := p.ImageKeys
	if imageKeys == nil {
		imageKeys = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, name, slug, price, description, image_keys, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Slug, p.Price, p.Description, imageKeys, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrProductSlugTaken
	}
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return scanProduct(row)
}

// List returns products newest first, ties by id, narrowed by filter.
func (r *ProductRepository) List(ctx context.Context, filter service.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.MinPrice.IsPositive() {
		conds = append(conds, "price >= "+arg(filter.MinPrice))
	}
	if filter.MaxPrice.Valid {
		conds = append(conds, "price < "+arg(filter.MaxPrice.Decimal))
	}
	if filter.ExcludeID != "" {
		conds = append(conds, "id <> "+arg(filter.ExcludeID))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Search matches pattern as a substring of the lower-cased name or
// description. pattern must already be lower-cased and free of wildcards.
func (r *ProductRepository) Search(ctx context.Context, pattern string, limit int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE strpos(lower(name), $1) > 0 OR strpos(lower(description), $1) > 0
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *ProductRepository) AddImage(ctx context.Context, id, key string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE products SET image_keys = array_append(image_keys, $1) WHERE id = $2`,
		key, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Description, &p.ImageKeys, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Description, &p.ImageKeys, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
