package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"arts-rental/internal/domain"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role with this name already exists")
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Count(ctx context.Context) (int, error)
}

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new instance of RoleRepository
func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create inserts a new role into the database using parameterized queries
func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, role.ID, role.Name, role.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "roles_name_key") {
			return ErrRoleAlreadyExists
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// FindByName retrieves a role by its unique name
func (r *roleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	query := `
		SELECT id, name, created_at
		FROM roles
		WHERE name = $1
	`

	role := &domain.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&role.ID,
		&role.Name,
		&role.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role by name: %w", err)
	}

	return role, nil
}

// Count returns the number of roles, used by the seeder
func (r *roleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	return count, nil
}
