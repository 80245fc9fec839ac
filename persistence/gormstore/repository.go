package gormstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/domainkit/domainkit/domain"
)

// MapperFunc builds the aggregate from its gorm model.
type MapperFunc[A any, M any] func(model M) (A, error)

type RepositoryConfig struct {
	// IDColumn is the column compared with ids by GetByID. Defaults to "id".
	IDColumn string
}

func (c *RepositoryConfig) setDefaults() {
	if c.IDColumn == "" {
		c.IDColumn = "id"
	}
}

// Repository reads aggregates of type A stored as gorm models of type M.
type Repository[A domain.Aggregate[TId], M any, TId comparable] struct {
	db     *gorm.DB
	mapper MapperFunc[A, M]
	config RepositoryConfig
}

func NewRepository[A domain.Aggregate[TId], M any, TId comparable](
	db *gorm.DB,
	mapper MapperFunc[A, M],
	config RepositoryConfig,
) (*Repository[A, M, TId], error) {
	if db == nil {
		return nil, errors.New("missing db")
	}
	if mapper == nil {
		return nil, errors.New("missing mapper")
	}
	config.setDefaults()

	return &Repository[A, M, TId]{
		db:     db,
		mapper: mapper,
		config: config,
	}, nil
}

// GetByID returns found == false when there is no aggregate with the id.
func (r *Repository[A, M, TId]) GetByID(ctx context.Context, id TId) (A, bool, error) {
	var zero A
	var model M

	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: r.config.IDColumn}, Value: id}).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, errors.Wrapf(err, "cannot get %v", id)
	}

	aggregate, err := r.mapper(model)
	if err != nil {
		return zero, false, errors.Wrapf(err, "cannot map %v", id)
	}

	return aggregate, true, nil
}

func (r *Repository[A, M, TId]) List(ctx context.Context) ([]A, error) {
	var models []M
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "cannot list")
	}

	return r.mapAll(models)
}

func (r *Repository[A, M, TId]) ListWhere(ctx context.Context, predicate domain.Predicate) ([]A, error) {
	if predicate.Query == "" {
		return nil, errors.New("empty predicate")
	}

	var models []M
	if err := r.db.WithContext(ctx).Where(predicate.Query, predicate.Args...).Find(&models).Error; err != nil {
		return nil, errors.Wrapf(err, "cannot list where %s", predicate.Query)
	}

	return r.mapAll(models)
}

func (r *Repository[A, M, TId]) Any(ctx context.Context, predicate domain.Predicate) (bool, error) {
	if predicate.Query == "" {
		return false, errors.New("empty predicate")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(new(M)).
		Where(predicate.Query, predicate.Args...).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "cannot check where %s", predicate.Query)
	}

	return count > 0, nil
}

func (r *Repository[A, M, TId]) mapAll(models []M) ([]A, error) {
	aggregates := make([]A, 0, len(models))
	for i, model := range models {
		aggregate, err := r.mapper(model)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot map model %d", i)
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}
