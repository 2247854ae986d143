package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"mentorship/internal/domain"
	"mentorship/internal/domain/models"
	"mentorship/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// errNoTransaction is returned by methods whose locks only make sense inside a transaction.
var errNoTransaction = errors.New("operation requires a transaction")

// OrderedEntityRepository stores chapters, modules and videos. The table and
// parent column come from the kind, which is loaded from the embedded kinds
// registry and never from request input.
type OrderedEntityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewOrderedEntityRepository creates a new ordered entity repository
func NewOrderedEntityRepository(config *RepositoryConfig) *OrderedEntityRepository {
	return &OrderedEntityRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// lockCollection takes a transaction-scoped advisory lock on one parent
// collection. Writers of the same collection queue behind each other until
// the holder commits or rolls back.
func lockCollection(ctx context.Context, executor repositories.DBTX, table, parentID string) error {
	_, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, table+":"+parentID)
	if err != nil {
		return persistenceError("lock collection", err)
	}
	return nil
}

// Create appends entity to the end of its parent collection
func (r *OrderedEntityRepository) Create(ctx context.Context, kind *models.EntityKind, entity *models.OrderedEntity) error {
	if repositories.GetTx(ctx) == nil {
		return errNoTransaction
	}
	table, err := r.tables.Lookup(kind.Table)
	if err != nil {
		return err
	}

	executor := GetExecutor(ctx, r.pool)
	if err := lockCollection(ctx, executor, table, entity.ParentID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, %[2]s, title, "order", created_at, updated_at)
		VALUES (
			$1, $2, $3,
			(SELECT COALESCE(MAX("order") + 1, $4) FROM %[1]s WHERE %[2]s = $2),
			$5, $6
		)
		RETURNING "order", created_at, updated_at
	`, table, kind.ParentColumn)

	err = executor.QueryRow(ctx, query,
		entity.ID,
		entity.ParentID,
		entity.Title,
		kind.OrdinalBase,
		entity.CreatedAt,
		entity.UpdatedAt,
	).Scan(&entity.Order, &entity.CreatedAt, &entity.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent %s of %s: %w", entity.ParentID, kind.Name, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s %s already exists", kind.Name, entity.ID),
				ResourceType: kind.Name,
				ResourceID:   entity.ID,
			}
		}
		return persistenceError("create "+kind.Name, err)
	}

	entity.Kind = kind.Name
	return nil
}

// GetByID retrieves one entity
func (r *OrderedEntityRepository) GetByID(ctx context.Context, kind *models.EntityKind, id string) (*models.OrderedEntity, error) {
	table, err := r.tables.Lookup(kind.Table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, %s, title, "order", created_at, updated_at
		FROM %s
		WHERE id = $1
	`, kind.ParentColumn, table)

	entity := models.OrderedEntity{Kind: kind.Name}
	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.ParentID,
		&entity.Title,
		&entity.Order,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrNotFound)
		}
		return nil, persistenceError("get "+kind.Name, err)
	}

	return &entity, nil
}

// ListByParent returns the parent's children ordered by ordinal
func (r *OrderedEntityRepository) ListByParent(ctx context.Context, kind *models.EntityKind, parentID string) ([]models.OrderedEntity, error) {
	table, err := r.tables.Lookup(kind.Table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, %[1]s, title, "order", created_at, updated_at
		FROM %[2]s
		WHERE %[1]s = $1
		ORDER BY "order" ASC, created_at ASC
	`, kind.ParentColumn, table)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentID)
	if err != nil {
		return nil, persistenceError("list "+kind.Name, err)
	}
	defer rows.Close()

	entities := []models.OrderedEntity{}
	for rows.Next() {
		entity := models.OrderedEntity{Kind: kind.Name}
		if err := rows.Scan(
			&entity.ID,
			&entity.ParentID,
			&entity.Title,
			&entity.Order,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, persistenceError("scan "+kind.Name, err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate "+kind.Name, err)
	}

	return entities, nil
}

// Delete removes one entity
func (r *OrderedEntityRepository) Delete(ctx context.Context, kind *models.EntityKind, id string) error {
	table, err := r.tables.Lookup(kind.Table)
	if err != nil {
		return err
	}

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return persistenceError("delete "+kind.Name, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrNotFound)
	}
	return nil
}

// ApplyOrder rewrites the ordinals of the listed entities.
//
// The parent collection is locked before the rows are checked, so a concurrent
// reorder of the same collection either finishes before this one reads or
// waits until this one commits. Either way the last committer's order is the
// one that remains, never a mix.
func (r *OrderedEntityRepository) ApplyOrder(ctx context.Context, kind *models.EntityKind, parentID string, assignments []models.OrdinalAssignment) error {
	if repositories.GetTx(ctx) == nil {
		return errNoTransaction
	}
	if len(assignments) == 0 {
		return nil
	}
	table, err := r.tables.Lookup(kind.Table)
	if err != nil {
		return err
	}

	ids := make([]string, len(assignments))
	orders := make([]int32, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
		orders[i] = int32(a.Order)
	}

	executor := GetExecutor(ctx, r.pool)

	parentIDs := []string{parentID}
	if parentID == "" {
		parentIDs, err = r.distinctParents(ctx, executor, table, kind, ids)
		if err != nil {
			return err
		}
		switch len(parentIDs) {
		case 0:
			return fmt.Errorf("%s %s: %w", kind.Name, ids[0], domain.ErrNotFound)
		case 1:
		default:
			return &domain.ValidationError{
				Message: fmt.Sprintf("%s ids must all belong to the same collection", kind.Name),
			}
		}
	}

	sort.Strings(parentIDs)
	for _, p := range parentIDs {
		if err := lockCollection(ctx, executor, table, p); err != nil {
			return err
		}
	}

	if err := r.checkMembers(ctx, executor, table, kind, parentIDs[0], ids); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s AS t
		SET "order" = v.ord, updated_at = NOW()
		FROM unnest($1::text[], $2::int[]) AS v(id, ord)
		WHERE t.id = v.id
	`, table)

	result, err := executor.Exec(ctx, query, ids, orders)
	if err != nil {
		return persistenceError("reorder "+kind.Name, err)
	}
	if result.RowsAffected() != int64(len(ids)) {
		return persistenceError("reorder "+kind.Name,
			fmt.Errorf("updated %d rows, expected %d", result.RowsAffected(), len(ids)))
	}

	r.logger.Debug("ordinals applied",
		"table", table,
		"parent_id", parentIDs[0],
		"count", len(ids),
	)

	return nil
}

// distinctParents returns the parents of the listed entities.
func (r *OrderedEntityRepository) distinctParents(ctx context.Context, executor repositories.DBTX, table string, kind *models.EntityKind, ids []string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE id = ANY($1)`, kind.ParentColumn, table)

	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, persistenceError("resolve "+kind.Name+" parents", err)
	}
	defer rows.Close()

	var parents []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, persistenceError("scan "+kind.Name+" parent", err)
		}
		parents = append(parents, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate "+kind.Name+" parents", err)
	}
	return parents, nil
}

// checkMembers row-locks the listed entities and fails with ErrNotFound on the
// first id that is not a child of parentID.
func (r *OrderedEntityRepository) checkMembers(ctx context.Context, executor repositories.DBTX, table string, kind *models.EntityKind, parentID string, ids []string) error {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE id = ANY($1) AND %s = $2
		ORDER BY id
		FOR UPDATE
	`, table, kind.ParentColumn)

	rows, err := executor.Query(ctx, query, ids, parentID)
	if err != nil {
		return persistenceError("lock "+kind.Name+" rows", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return persistenceError("scan "+kind.Name+" id", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return persistenceError("iterate "+kind.Name+" ids", err)
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%s %s not found in %s: %w", kind.Name, id, parentID, domain.ErrNotFound)
		}
	}
	return nil
}
