package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
)

// ErrNoTransaction is returned by writes that must run inside ExecTx, matching
// the postgres repository.
var ErrNoTransaction = errors.New("operation requires a transaction")

// OrderedEntityRepository implements repositories.OrderedEntityRepository in memory
type OrderedEntityRepository struct {
	store *Store
}

// Create appends entity to the end of its parent collection
func (r *OrderedEntityRepository) Create(ctx context.Context, kind *models.EntityKind, entity *models.OrderedEntity) error {
	if r.store.txFrom(ctx) == nil {
		return ErrNoTransaction
	}
	return r.store.with(ctx, func(st *state) error {
		if !st.parentExists(kind.Table, entity.ParentID) {
			return fmt.Errorf("parent %s of %s: %w", entity.ParentID, kind.Name, domain.ErrNotFound)
		}
		rows := st.table(kind.Table)
		if _, exists := rows[entity.ID]; exists {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s %s already exists", kind.Name, entity.ID),
				ResourceType: kind.Name,
				ResourceID:   entity.ID,
			}
		}

		next := kind.OrdinalBase
		for _, row := range rows {
			if row.ParentID == entity.ParentID && row.Order >= next {
				next = row.Order + 1
			}
		}

		entity.Kind = kind.Name
		entity.Order = next
		rows[entity.ID] = *entity
		return nil
	})
}

// GetByID retrieves one entity
func (r *OrderedEntityRepository) GetByID(ctx context.Context, kind *models.EntityKind, id string) (*models.OrderedEntity, error) {
	var entity models.OrderedEntity
	err := r.store.with(ctx, func(st *state) error {
		e, ok := st.table(kind.Table)[id]
		if !ok {
			return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrNotFound)
		}
		entity = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByParent returns the parent's children ordered by ordinal
func (r *OrderedEntityRepository) ListByParent(ctx context.Context, kind *models.EntityKind, parentID string) ([]models.OrderedEntity, error) {
	entities := []models.OrderedEntity{}
	err := r.store.with(ctx, func(st *state) error {
		for _, e := range st.table(kind.Table) {
			if e.ParentID == parentID {
				entities = append(entities, e)
			}
		}
		return nil
	})
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Order != entities[j].Order {
			return entities[i].Order < entities[j].Order
		}
		return entities[i].CreatedAt.Before(entities[j].CreatedAt)
	})
	return entities, err
}

// Delete removes one entity and its children
func (r *OrderedEntityRepository) Delete(ctx context.Context, kind *models.EntityKind, id string) error {
	return r.store.with(ctx, func(st *state) error {
		rows := st.table(kind.Table)
		if _, ok := rows[id]; !ok {
			return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrNotFound)
		}
		delete(rows, id)

		for childTable, parentTable := range parentTables {
			if parentTable != kind.Table {
				continue
			}
			for childID, child := range st.rows[childTable] {
				if child.ParentID == id {
					delete(st.rows[childTable], childID)
				}
			}
		}
		return nil
	})
}

// ApplyOrder rewrites the ordinals of the listed entities. Nothing is written
// unless every id is found in the same collection.
func (r *OrderedEntityRepository) ApplyOrder(ctx context.Context, kind *models.EntityKind, parentID string, assignments []models.OrdinalAssignment) error {
	if r.store.txFrom(ctx) == nil {
		return ErrNoTransaction
	}
	if len(assignments) == 0 {
		return nil
	}
	return r.store.with(ctx, func(st *state) error {
		rows := st.table(kind.Table)

		parent := parentID
		for _, a := range assignments {
			row, ok := rows[a.ID]
			if !ok || (parentID != "" && row.ParentID != parentID) {
				if parentID != "" {
					return fmt.Errorf("%s %s not found in %s: %w", kind.Name, a.ID, parentID, domain.ErrNotFound)
				}
				return fmt.Errorf("%s %s: %w", kind.Name, a.ID, domain.ErrNotFound)
			}
			if parent == "" {
				parent = row.ParentID
			}
			if row.ParentID != parent {
				return &domain.ValidationError{
					Message: fmt.Sprintf("%s ids must all belong to the same collection", kind.Name),
				}
			}
		}

		for _, a := range assignments {
			row := rows[a.ID]
			row.Order = a.Order
			rows[a.ID] = row
		}
		return nil
	})
}
