package package_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/logger"
	"github.com/joy095/studio/models/shared_models"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrPackageExists   = errors.New("a package with this name already exists")
)

// Package is a studio offering customers pick a slot for.
type Package struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Tier            string    `json:"tier"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const packageColumns = `id, name, description, tier, price, duration_minutes, is_active, created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*Package, error) {
	p := &Package{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Tier, &p.Price, &p.DurationMinutes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to scan package: %w", err)
	}
	return p, nil
}

func CreatePackage(ctx context.Context, conn db.DBTX, p *Package) (*Package, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}

	created, err := scanPackage(conn.QueryRow(ctx, `
		INSERT INTO packages (id, name, description, tier, price, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+packageColumns,
		id, p.Name, p.Description, p.Tier, p.Price, p.DurationMinutes, p.IsActive))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrPackageExists
		}
		logger.ErrorLogger.Errorf("Failed to create package %q: %v", p.Name, err)
		return nil, err
	}
	return created, nil
}

func GetPackageByID(ctx context.Context, conn db.DBTX, id uuid.UUID) (*Package, error) {
	return scanPackage(conn.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
}

// ListPackages returns packages by tier then price. activeOnly hides retired ones.
func ListPackages(ctx context.Context, conn db.DBTX, activeOnly bool) ([]Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY CASE tier WHEN 'basic' THEN 1 WHEN 'standard' THEN 2 ELSE 3 END, price`

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	packages := []Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func UpdatePackage(ctx context.Context, conn db.DBTX, p *Package) (*Package, error) {
	updated, err := scanPackage(conn.QueryRow(ctx, `
		UPDATE packages
		SET name = $2, description = $3, tier = $4, price = $5, duration_minutes = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+packageColumns,
		p.ID, p.Name, p.Description, p.Tier, p.Price, p.DurationMinutes, p.IsActive))
	if err != nil && db.IsUniqueViolation(err) {
		return nil, ErrPackageExists
	}
	return updated, err
}

// DeactivatePackage retires a package. Packages with bookings are never hard-deleted.
func DeactivatePackage(ctx context.Context, conn db.DBTX, id uuid.UUID) error {
	tag, err := conn.Exec(ctx, `UPDATE packages SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPackageNotFound
	}
	return nil
}
