package postgres

import (
	"context"
	"fmt"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository implements repositories.CourseRepository
type CourseRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(config *RepositoryConfig) *CourseRepository {
	return &CourseRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		course.ID,
		course.Title,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("course %s already exists", course.ID),
				ResourceType: "course",
				ResourceID:   course.ID,
			}
		}
		return persistenceError("create course", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, title, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Courses)

	var course models.Course
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		return nil, persistenceError("get course", err)
	}

	return &course, nil
}

// List returns all courses, oldest first
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, title, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, persistenceError("list courses", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, persistenceError("scan course", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate courses", err)
	}

	return courses, nil
}
