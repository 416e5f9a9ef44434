package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/coupon/model"
)

const couponColumns = `
	id, code, discount_type, discount_value, min_order_value,
	max_uses, used_count, starts_at, expires_at,
	is_active, is_visible, created_at, updated_at`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE LOWER(code) = LOWER($1)`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return coupon, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE id = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon by id: %w", err)
	}
	return coupon, nil
}

func (r *PostgresRepository) HasUsage(ctx context.Context, couponID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupon_usage WHERE coupon_id = $1 AND user_id = $2)`,
		couponID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check coupon usage: %w", err)
	}
	return exists, nil
}

// RecordUsage writes the usage row and bumps used_count atomically. The
// unique index on (coupon_id, user_id) is what actually enforces one use
// per user under concurrency.
func (r *PostgresRepository) RecordUsage(ctx context.Context, usage *model.CouponUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin usage transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO coupon_usage (id, coupon_id, user_id, discount_amount, used_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING used_at`,
		usage.ID, usage.CouponID, usage.UserID, usage.DiscountAmount,
	).Scan(&usage.UsedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrCouponAlreadyUsed
		}
		return fmt.Errorf("insert coupon usage: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE coupons SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1`,
		usage.CouponID,
	)
	if err != nil {
		return fmt.Errorf("increment coupon usage count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit usage transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListVisible(ctx context.Context) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE is_visible = true AND is_active = true
		  AND (starts_at IS NULL OR starts_at <= NOW())
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC`

	return r.queryCoupons(ctx, query)
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC`

	return r.queryCoupons(ctx, query)
}

func (r *PostgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}

	query := `
		INSERT INTO coupons (
			id, code, discount_type, discount_value, min_order_value,
			max_uses, used_count, starts_at, expires_at,
			is_active, is_visible, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		coupon.ID, coupon.Code, coupon.DiscountType, coupon.DiscountValue,
		coupon.MinOrderValue, coupon.MaxUses, coupon.StartsAt, coupon.ExpiresAt,
		coupon.IsActive, coupon.IsVisible,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `
		UPDATE coupons SET
			discount_type = $1, discount_value = $2, min_order_value = $3,
			max_uses = $4, starts_at = $5, expires_at = $6,
			is_active = $7, is_visible = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		coupon.DiscountType, coupon.DiscountValue, coupon.MinOrderValue,
		coupon.MaxUses, coupon.StartsAt, coupon.ExpiresAt,
		coupon.IsActive, coupon.IsVisible, coupon.ID,
	).Scan(&coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCouponNotFound
		}
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET is_active = false, updated_at = NOW()
		WHERE is_active = true AND expires_at IS NOT NULL AND expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired coupons: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) queryCoupons(ctx context.Context, query string, args ...interface{}) ([]model.Coupon, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}
	return coupons, rows.Err()
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue,
		&c.MaxUses, &c.UsedCount, &c.StartsAt, &c.ExpiresAt,
		&c.IsActive, &c.IsVisible, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
