// Package memory is an in-process implementation of the content repositories.
// It backs tests and runs the server when no DATABASE_URL is configured.
package memory

import (
	"context"
	"maps"
	"sync"

	"mentorship/internal/domain/models"
	"mentorship/internal/domain/repositories"
)

// parentTables maps each ordered table to the table its parent rows live in.
var parentTables = map[string]string{
	"chapters": "courses",
	"modules":  "courses",
	"videos":   "modules",
}

type state struct {
	courses map[string]models.Course
	// rows is keyed by table, then id
	rows map[string]map[string]models.OrderedEntity
}

func newState() *state {
	return &state{
		courses: make(map[string]models.Course),
		rows:    make(map[string]map[string]models.OrderedEntity),
	}
}

func (s *state) clone() *state {
	c := &state{
		courses: maps.Clone(s.courses),
		rows:    make(map[string]map[string]models.OrderedEntity, len(s.rows)),
	}
	for table, rows := range s.rows {
		c.rows[table] = maps.Clone(rows)
	}
	return c
}

func (s *state) table(name string) map[string]models.OrderedEntity {
	t, ok := s.rows[name]
	if !ok {
		t = make(map[string]models.OrderedEntity)
		s.rows[name] = t
	}
	return t
}

func (s *state) parentExists(table, parentID string) bool {
	switch parentTables[table] {
	case "courses":
		_, ok := s.courses[parentID]
		return ok
	case "":
		return false
	default:
		_, ok := s.rows[parentTables[table]][parentID]
		return ok
	}
}

// Store serializes every write behind one mutex. A transaction holds the
// mutex from start to commit and works on a copy, so a failed transaction
// leaves nothing behind.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

type txState struct {
	store   *Store
	working *state
}

func (s *Store) txFrom(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx.store != s {
		return nil
	}
	return tx
}

// ExecTx implements repositories.TransactionManager. Nested calls reuse the
// outer transaction.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{store: s, working: s.state.clone()}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = tx.working
	return nil
}

// with runs fn against the transaction's working copy, or against the live
// state under the mutex when ctx carries no transaction.
func (s *Store) with(ctx context.Context, fn func(st *state) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx.working)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Courses returns the course repository view of the store
func (s *Store) Courses() *CourseRepository {
	return &CourseRepository{store: s}
}

// Entities returns the ordered entity repository view of the store
func (s *Store) Entities() *OrderedEntityRepository {
	return &OrderedEntityRepository{store: s}
}
