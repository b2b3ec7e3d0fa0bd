package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EntityMapper maps between a domain type and its database model.
type EntityMapper[D any, E any] interface {
	ToDomain(entity E) D
	ToModel(domain D) E
}

// Repository provides generic Query-based persistence operations shared by
// the concrete stores. Stores embed it and add their own methods on top.
type Repository[D any, E any] struct {
	db     Database
	mapper EntityMapper[D, E]
	label  string
}

// NewRepository creates a new Repository. The label names the entity in
// error messages.
func NewRepository[D any, E any](db Database, mapper EntityMapper[D, E], label string) Repository[D, E] {
	return Repository[D, E]{
		db:     db,
		mapper: mapper,
		label:  label,
	}
}

// Find retrieves entities matching the given query.
func (r Repository[D, E]) Find(ctx context.Context, query Query) ([]D, error) {
	var entities []E
	result := query.Apply(r.db.Session(ctx).Model(new(E))).Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, result.Error)
	}

	domains := make([]D, len(entities))
	for i, entity := range entities {
		domains[i] = r.mapper.ToDomain(entity)
	}
	return domains, nil
}

// FindOne retrieves a single entity matching the given query.
func (r Repository[D, E]) FindOne(ctx context.Context, query Query) (D, error) {
	var entity E
	result := query.Apply(r.db.Session(ctx)).First(&entity)
	if result.Error != nil {
		var zero D
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, fmt.Errorf("find one %s: %w", r.label, result.Error)
	}
	return r.mapper.ToDomain(entity), nil
}

// Count returns the number of entities matching the given query.
func (r Repository[D, E]) Count(ctx context.Context, query Query) (int64, error) {
	var count int64
	result := query.ApplyConditions(r.db.Session(ctx).Model(new(E))).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, result.Error)
	}
	return count, nil
}

// Exists checks if any entity matches the given query.
func (r Repository[D, E]) Exists(ctx context.Context, query Query) (bool, error) {
	count, err := r.Count(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBy removes entities matching the given query.
func (r Repository[D, E]) DeleteBy(ctx context.Context, query Query) error {
	result := query.ApplyConditions(r.db.Session(ctx)).Delete(new(E))
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", r.label, result.Error)
	}
	return nil
}

// DB returns the GORM session for operations the generic helpers do not cover.
func (r Repository[D, E]) DB(ctx context.Context) *gorm.DB {
	return r.db.Session(ctx)
}

// Database returns the underlying database handle.
func (r Repository[D, E]) Database() Database {
	return r.db
}

// Mapper returns the entity mapper.
func (r Repository[D, E]) Mapper() EntityMapper[D, E] {
	return r.mapper
}
