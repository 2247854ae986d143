package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mentorship/internal/config"
	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
	"mentorship/internal/domain/repositories"
	"mentorship/internal/metrics"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// KindRegistry resolves entity kind names. *kinds.Registry satisfies it.
type KindRegistry interface {
	Get(name string) (*models.EntityKind, bool)
}

// ReorderService implements services.ReorderService
type ReorderService struct {
	kinds     KindRegistry
	entities  repositories.OrderedEntityRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewReorderService creates a new reorder service
func NewReorderService(
	kinds KindRegistry,
	entities repositories.OrderedEntityRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *ReorderService {
	return &ReorderService{
		kinds:     kinds,
		entities:  entities,
		txManager: txManager,
		logger:    logger,
	}
}

// Reorder gives the entity at position i of req.IDs the ordinal
// kind.OrdinalBase+i. Either every listed entity is updated or none is.
func (s *ReorderService) Reorder(ctx context.Context, kindName string, req *models.ReorderRequest) (err error) {
	start := time.Now()
	label := "unknown"
	defer func() {
		metrics.RecordReorder(label, reorderResult(err), time.Since(start))
	}()

	kind, ok := s.kinds.Get(kindName)
	if !ok {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kindName)
	}
	label = kind.Name

	if err := validateReorder(kind, req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	assignments := models.AssignOrdinals(kind, req.IDs)
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.entities.ApplyOrder(ctx, kind, req.ParentID, assignments)
	})
	if err != nil {
		// Logged once by the handler that maps it to a response.
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrValidation) &&
			!errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("reorder %s: %w: %w", kind.Name, domain.ErrPersistence, err)
		}
		return err
	}

	s.logger.Info("collection reordered",
		"kind", kind.Name,
		"parent_id", req.ParentID,
		"count", len(req.IDs),
	)

	return nil
}

// validateReorder checks a request before anything touches storage. Error
// keys use the request field names of the kind (chapterIds, playlistId, ...).
func validateReorder(kind *models.EntityKind, req *models.ReorderRequest) error {
	errs := validation.Errors{
		kind.IDsField: validation.Validate(req.IDs,
			validation.Required.Error("must be a non-empty array"),
			validation.Length(1, config.MaxReorderItems).Error(
				fmt.Sprintf("must contain at most %d ids", config.MaxReorderItems)),
			validation.Each(validation.Required.Error("ids must be non-empty strings")),
			validation.By(distinctIDs),
		),
	}
	if kind.ParentRequired {
		errs[kind.ParentField] = validation.Validate(req.ParentID, validation.Required.Error("is required"))
	}
	return errs.Filter()
}

func distinctIDs(value interface{}) error {
	ids, _ := value.([]string)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("id %q appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func reorderResult(err error) string {
	switch {
	case err == nil:
		return metrics.ReorderCommitted
	case errors.Is(err, domain.ErrValidation):
		return metrics.ReorderInvalid
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ReorderNotFound
	default:
		return metrics.ReorderFailed
	}
}
