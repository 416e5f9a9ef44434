package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"storefront-backend/internal/domains/catalog/model"
)

// PostgresRepository implements RepositoryInterface against PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) RepositoryInterface {
	return &PostgresRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.images, p.category_id,
	p.is_active, p.created_at, p.updated_at,
	c.name AS category_name, c.slug AS category_slug
`

// ListProducts returns a catalogue page with optional category/search filters.
func (r *PostgresRepository) ListProducts(ctx context.Context, req model.ListProductsRequest) ([]*model.ProductWithCategory, int, error) {
	req.Normalize()

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if !req.IncludeInactive {
		conditions = append(conditions, "p.is_active = true")
	}
	if req.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIdx))
		args = append(args, req.CategorySlug)
		argIdx++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", argIdx))
		args = append(args, "%"+req.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE %s
	`, where)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, where, argIdx, argIdx+1)

	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*model.ProductWithCategory
	for rows.Next() {
		p, err := scanProductWithCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

// GetProductByID returns one product with its category.
func (r *PostgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.ProductWithCategory, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, productColumns)

	row := r.db.QueryRow(ctx, query, id)
	p, err := scanProductWithCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetProductsByIDs fetches the products backing a cart or an order snapshot.
// Missing IDs are skipped: a deleted product simply disappears from the cart.
func (r *PostgresRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, description, price, images, category_id,
		       is_active, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Images,
			&p.CategoryID,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// CreateProduct inserts a new product.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (name, description, price, images, category_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		pq.Array([]string(p.Images)),
		p.CategoryID,
		p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// UpdateProduct replaces the mutable fields of a product.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, images = $5,
		    category_id = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		pq.Array([]string(p.Images)),
		p.CategoryID,
		p.IsActive,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product. Order snapshots are unaffected.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, c.Name, c.Slug).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return model.ErrCategoryHasProducts
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func scanProductWithCategory(row pgx.Row) (*model.ProductWithCategory, error) {
	var p model.ProductWithCategory
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Images,
		&p.CategoryID,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CategoryName,
		&p.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
