package memory

import (
	"context"
	"fmt"
	"sort"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
)

// CourseRepository implements repositories.CourseRepository in memory
type CourseRepository struct {
	store *Store
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.store.with(ctx, func(st *state) error {
		if _, exists := st.courses[course.ID]; exists {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("course %s already exists", course.ID),
				ResourceType: "course",
				ResourceID:   course.ID,
			}
		}
		st.courses[course.ID] = *course
		return nil
	})
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.store.with(ctx, func(st *state) error {
		c, ok := st.courses[id]
		if !ok {
			return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns all courses, oldest first
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	err := r.store.with(ctx, func(st *state) error {
		for _, c := range st.courses {
			courses = append(courses, c)
		}
		return nil
	})
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].ID < courses[j].ID
		}
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
	return courses, err
}
