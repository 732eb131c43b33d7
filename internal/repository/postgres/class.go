package postgres

import (
	"context"
	"fmt"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClassRepository implements the ClassRepository interface
type PostgresClassRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewClassRepository creates a new class repository
func NewClassRepository(config *RepositoryConfig) repositories.ClassRepository {
	return &PostgresClassRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a class
func (r *PostgresClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, department, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Classes)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		class.Name,
		class.Department,
		class.CreatedBy,
		class.CreatedAt,
	).Scan(&class.ID, &class.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("class '%s' already exists", class.Name),
				ResourceType: "class",
			}
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// List returns every class ordered by name
func (r *PostgresClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query := fmt.Sprintf(`
		SELECT id, name, department, created_by, created_at
		FROM %s
		ORDER BY name
	`, r.tables.Classes)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	classes := []models.Class{}
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Department, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// CountStudents groups students by class
func (r *PostgresClassRepository) CountStudents(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT class_id::text, COUNT(*)
		FROM %s
		WHERE role = 'student' AND class_id IS NOT NULL
		GROUP BY class_id
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
