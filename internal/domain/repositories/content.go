package repositories

import (
	"context"

	"mentorship/internal/domain/models"
)

// CourseRepository defines data access operations for courses
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

// OrderedEntityRepository stores chapters, modules and videos. Every method
// takes the kind so one implementation serves all ordered tables.
type OrderedEntityRepository interface {
	// Create appends the entity after the last sibling of its parent and sets
	// entity.Order accordingly.
	Create(ctx context.Context, kind *models.EntityKind, entity *models.OrderedEntity) error

	// GetByID retrieves one entity
	GetByID(ctx context.Context, kind *models.EntityKind, id string) (*models.OrderedEntity, error)

	// ListByParent returns the parent's children ordered by ordinal
	ListByParent(ctx context.Context, kind *models.EntityKind, parentID string) ([]models.OrderedEntity, error)

	// Delete removes one entity. Remaining siblings keep their ordinals.
	Delete(ctx context.Context, kind *models.EntityKind, id string) error

	// ApplyOrder writes every assignment or none of them. parentID may be empty
	// when the kind derives the parent from the listed rows. Serializes against
	// other writers of the same parent collection for the rest of the transaction.
	// Returns domain.ErrNotFound if any id does not exist (in parentID when given).
	ApplyOrder(ctx context.Context, kind *models.EntityKind, parentID string, assignments []models.OrdinalAssignment) error
}
