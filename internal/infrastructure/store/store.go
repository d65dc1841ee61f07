package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streamhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the Listing Store: every record of the marketplace lives behind it.
// Status changes go through guarded updates so a stale read never overwrites a
// concurrent transition.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Tx runs fn inside one database transaction. The Store handed to fn is bound to it.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// guardedUpdate writes updates only while the row is still in status from.
// Zero affected rows means another writer moved it first.
func (s *Store) guardedUpdate(ctx context.Context, model interface{}, id uuid.UUID, from string, updates map[string]interface{}) error {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := s.db(ctx).Model(model).Where("id = ? AND status = ?", id, from).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("guarded update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

// first loads one row by primary key, mapping a miss to domain.ErrNotFound.
func (s *Store) first(ctx context.Context, dest interface{}, query string, id uuid.UUID) error {
	err := s.db(ctx).Where(query, id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// create inserts a row, mapping a unique violation to domain.ErrDuplicateRequest.
func (s *Store) create(ctx context.Context, value interface{}) error {
	err := s.db(ctx).Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateRequest
	}
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so user input matches literally. Pair it with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func paginate(q *gorm.DB, p domain.Page) *gorm.DB {
	return q.Offset(p.Offset()).Limit(p.Limit)
}
