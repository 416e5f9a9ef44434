package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domains/cart/model"
	"storefront-backend/internal/domains/session"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, items, created_at, updated_at
		FROM carts
		WHERE user_id = $1`

	var cart model.Cart
	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&cart.ID, &cart.UserID, &raw, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := json.Unmarshal(raw, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return &cart, nil
}

// Upsert writes the full item list for a user. It checks for an existing
// row first and then inserts or updates; the whole-document write makes
// concurrent saves last-write-wins.
func (r *PostgresRepository) Upsert(ctx context.Context, userID uuid.UUID, items []session.Item) error {
	if items == nil {
		items = []session.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	var existingID uuid.UUID
	err = r.db.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&existingID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check cart: %w", err)
		}
		_, err = r.db.Exec(ctx, `
			INSERT INTO carts (id, user_id, items, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())`,
			uuid.New(), userID, raw,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart: %w", err)
		}
		return nil
	}

	_, err = r.db.Exec(ctx, `
		UPDATE carts SET items = $1, updated_at = NOW() WHERE id = $2`,
		raw, existingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
