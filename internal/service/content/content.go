package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mentorship/internal/config"
	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
	"mentorship/internal/domain/repositories"
	"mentorship/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Service implements services.ContentService
type Service struct {
	kinds     KindRegistry
	courses   repositories.CourseRepository
	entities  repositories.OrderedEntityRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewService creates a new content service
func NewService(
	kinds KindRegistry,
	courses repositories.CourseRepository,
	entities repositories.OrderedEntityRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *Service {
	return &Service{
		kinds:     kinds,
		courses:   courses,
		entities:  entities,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateCourse creates a new course
func (s *Service) CreateCourse(ctx context.Context, req *services.CreateCourseRequest) (*models.Course, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	course := &models.Course{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		"id", course.ID,
		"title", course.Title,
	)

	return course, nil
}

// GetCourse retrieves a course by ID
func (s *Service) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListCourses returns every course
func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

// CreateEntity appends a chapter, module or video to its parent collection
func (s *Service) CreateEntity(ctx context.Context, kindName string, req *services.CreateEntityRequest) (*models.OrderedEntity, error) {
	kind, err := s.kind(kindName)
	if err != nil {
		return nil, err
	}

	err = validation.Errors{
		"title":  validateTitle(req.Title),
		"parent": validation.Validate(req.ParentID, validation.Required),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	entity := &models.OrderedEntity{
		ID:        uuid.NewString(),
		ParentID:  req.ParentID,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.entities.Create(ctx, kind, entity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("entity created",
		"kind", kind.Name,
		"id", entity.ID,
		"parent_id", entity.ParentID,
		"order", entity.Order,
	)

	return entity, nil
}

// GetEntity retrieves one chapter, module or video
func (s *Service) GetEntity(ctx context.Context, kindName, id string) (*models.OrderedEntity, error) {
	kind, err := s.kind(kindName)
	if err != nil {
		return nil, err
	}
	return s.entities.GetByID(ctx, kind, id)
}

// ListEntities returns the children of parentID in persisted order
func (s *Service) ListEntities(ctx context.Context, kindName, parentID string) ([]models.OrderedEntity, error) {
	kind, err := s.kind(kindName)
	if err != nil {
		return nil, err
	}
	return s.entities.ListByParent(ctx, kind, parentID)
}

// DeleteEntity removes one entity. Siblings keep their ordinals; the next
// reorder closes the gap.
func (s *Service) DeleteEntity(ctx context.Context, kindName, id string) error {
	kind, err := s.kind(kindName)
	if err != nil {
		return err
	}

	if err := s.entities.Delete(ctx, kind, id); err != nil {
		return err
	}

	s.logger.Info("entity deleted",
		"kind", kind.Name,
		"id", id,
	)

	return nil
}

func (s *Service) kind(name string) (*models.EntityKind, error) {
	kind, ok := s.kinds.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, name)
	}
	return kind, nil
}

func validateTitle(title string) error {
	return validation.Validate(strings.TrimSpace(title),
		validation.Required,
		validation.RuneLength(1, config.MaxTitleLength),
	)
}
