package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"reportdesk/internal/domain"
	reportModels "reportdesk/internal/domain/models/report"
	reportRepo "reportdesk/internal/domain/repositories/report"
	"reportdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, student_id, COALESCE(reviewer_id::text, ''), sections, images, created_at, updated_at`

// PostgresProjectRepository stores one row per student. Sections is a JSONB
// object keyed by section id and images a JSONB array of urls. Every write
// edits one key in place, so two sections saved at once never overwrite
// each other.
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewProjectRepository creates a new report project repository
func NewProjectRepository(config *postgres.RepositoryConfig) reportRepo.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByStudent retrieves the project of a student
func (r *PostgresProjectRepository) GetByStudent(ctx context.Context, studentID string) (*reportModels.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE student_id = $1`, projectColumns, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	p, err := scanProject(executor.QueryRow(ctx, query, studentID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("project of %s: %w", studentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Ensure inserts an empty project unless one exists, then returns it
func (r *PostgresProjectRepository) Ensure(ctx context.Context, studentID, reviewerID string) (*reportModels.Project, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (student_id, reviewer_id)
		VALUES ($1, NULLIF($2, '')::uuid)
		ON CONFLICT (student_id) DO NOTHING
	`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, studentID, reviewerID)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("student %s: %w", studentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("ensure project: %w", err)
	}
	if result.RowsAffected() == 1 {
		r.logger.Info("project created", "student_id", studentID, "reviewer_id", reviewerID)
	}
	return r.GetByStudent(ctx, studentID)
}

// WriteSection replaces content and status of one section. Other keys of the
// stored section, such as the reviewer comment, are kept.
func (r *PostgresProjectRepository) WriteSection(ctx context.Context, studentID, sectionID string, content json.RawMessage, status reportModels.Status) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sections = jsonb_set(
				sections,
				ARRAY[$2::text],
				COALESCE(sections->$2::text, '{}'::jsonb)
					|| jsonb_build_object('content', $3::jsonb, 'status', $4::text),
				true),
			updated_at = NOW()
		WHERE student_id = $1
	`, r.tables.Projects)

	return r.exec(ctx, "write section", studentID, query, studentID, sectionID, content, string(status))
}

// WriteReview sets status and comment of a section that already has a record
func (r *PostgresProjectRepository) WriteReview(ctx context.Context, studentID, sectionID string, status reportModels.Status, comment string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sections = jsonb_set(
				sections,
				ARRAY[$2::text],
				(sections->$2::text) || jsonb_build_object('status', $3::text, 'comment', $4::text)),
			updated_at = NOW()
		WHERE student_id = $1 AND sections->$2::text IS NOT NULL
	`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, studentID, sectionID, string(status), comment)
	if err != nil {
		return fmt.Errorf("write review: %w", err)
	}
	return reviewApplied(result.RowsAffected(), sectionID, status)
}

// reviewApplied reports a guarded review UPDATE that matched no row. The
// record was removed after the caller read it, so the transition no longer
// has anything to act on.
func reviewApplied(rows int64, sectionID string, status reportModels.Status) error {
	if rows > 0 {
		return nil
	}
	return &domain.InvalidTransitionError{
		SectionID: sectionID,
		To:        string(status),
		Reason:    "section has no saved record",
	}
}

// ApproveSections sets status approved on every listed section in one update
func (r *PostgresProjectRepository) ApproveSections(ctx context.Context, studentID string, sectionIDs []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sections = sections || (
				SELECT COALESCE(jsonb_object_agg(key, value || '{"status": "approved"}'::jsonb), '{}'::jsonb)
				FROM jsonb_each(sections)
				WHERE key = ANY($2::text[])
			),
			updated_at = NOW()
		WHERE student_id = $1
	`, r.tables.Projects)

	return r.exec(ctx, "approve sections", studentID, query, studentID, sectionIDs)
}

// AppendImages adds urls that are not yet in the pool, keeping upload order
func (r *PostgresProjectRepository) AppendImages(ctx context.Context, studentID string, urls []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET images = images || (
				SELECT COALESCE(jsonb_agg(url ORDER BY pos), '[]'::jsonb)
				FROM (
					SELECT url, MIN(pos) AS pos
					FROM unnest($2::text[]) WITH ORDINALITY AS u(url, pos)
					WHERE NOT images @> jsonb_build_array(url)
					GROUP BY url
				) fresh
			),
			updated_at = NOW()
		WHERE student_id = $1
	`, r.tables.Projects)

	return r.exec(ctx, "append images", studentID, query, studentID, urls)
}

// ListByStudents returns the projects that exist among studentIDs
func (r *PostgresProjectRepository) ListByStudents(ctx context.Context, studentIDs []string) ([]reportModels.Project, error) {
	if len(studentIDs) == 0 {
		return []reportModels.Project{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE student_id = ANY($1::uuid[])`, projectColumns, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]reportModels.Project, 0, len(studentIDs))
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// DeleteByStudent removes the project. A student without one is not an error.
func (r *PostgresProjectRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE student_id = $1`, r.tables.Projects)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, studentID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// exec runs a single-row update and maps zero affected rows to ErrNotFound
func (r *PostgresProjectRepository) exec(ctx context.Context, op, studentID, query string, args ...interface{}) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s for %s: %w", op, studentID, domain.ErrNotFound)
	}
	return nil
}

func scanProject(row pgx.Row) (*reportModels.Project, error) {
	var p reportModels.Project
	err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.ReviewerID,
		&p.Sections, // pgx decodes JSONB into the map
		&p.Images,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Sections == nil {
		p.Sections = map[string]reportModels.StoredSection{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}
