package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	"reportdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, COALESCE(roll_number, ''), role,
		COALESCE(mentor_id::text, ''), COALESCE(class_id::text, ''), is_paid, created_at`

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a profile by its identity id
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	user, err := scanUser(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Create inserts a profile. The id comes from the identity provider.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, roll_number, role, mentor_id, class_id, is_paid)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid, $8)
		RETURNING created_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.RollNumber,
		string(user.Role),
		user.MentorID,
		user.ClassID,
		user.IsPaid,
	).Scan(&user.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user '%s' already exists", user.Email),
				ResourceType: "user",
				ResourceID:   user.ID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("mentor or class for %s: %w", user.Email, domain.ErrNotFound)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListByMentor returns the students assigned to a reviewer, by name
func (r *PostgresUserRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE mentor_id = $1 AND role = 'student'
		ORDER BY name, id
	`, userColumns, r.tables.Users)
	return r.list(ctx, query, mentorID)
}

// ListByRole returns every user with role, by name
func (r *PostgresUserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE role = $1
		ORDER BY name, id
	`, userColumns, r.tables.Users)
	return r.list(ctx, query, string(role))
}

// IsPaid reads the entitlement flag
func (r *PostgresUserRepository) IsPaid(ctx context.Context, studentID string) (bool, error) {
	query := fmt.Sprintf(`SELECT is_paid FROM %s WHERE id = $1`, r.tables.Users)

	var paid bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, studentID).Scan(&paid); err != nil {
		if IsPgNoRowsError(err) {
			return false, fmt.Errorf("user %s: %w", studentID, domain.ErrNotFound)
		}
		return false, fmt.Errorf("read entitlement: %w", err)
	}
	return paid, nil
}

// Delete removes a profile
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresUserRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.RollNumber,
		&role,
		&user.MentorID,
		&user.ClassID,
		&user.IsPaid,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return &user, nil
}
