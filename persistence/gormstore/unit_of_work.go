package gormstore

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/internal"
)

// EventDrainer publishes and clears the events buffered by an aggregate.
// It's implemented by dispatch.Drainer.
type EventDrainer interface {
	Drain(ctx context.Context, source domain.EventSource) error
}

type UnitOfWorkConfig struct {
	// Logger instance used to log.
	// If not provided, domainkit.NopLogger is used.
	Logger domainkit.LoggerAdapter
}

func (c *UnitOfWorkConfig) setDefaults() {
	if c.Logger == nil {
		c.Logger = domainkit.NopLogger{}
	}
}

type pendingChange struct {
	model  any
	source domain.EventSource
}

// UnitOfWork collects changed models and saves them together.
type UnitOfWork struct {
	db      *gorm.DB
	drainer EventDrainer
	logger  domainkit.LoggerAdapter

	pending     []pendingChange
	pendingLock sync.Mutex
}

func NewUnitOfWork(db *gorm.DB, drainer EventDrainer, config UnitOfWorkConfig) (*UnitOfWork, error) {
	if db == nil {
		return nil, errors.New("missing db")
	}
	if drainer == nil {
		return nil, errors.New("missing drainer")
	}
	config.setDefaults()

	return &UnitOfWork{
		db:      db,
		drainer: drainer,
		logger:  config.Logger,
	}, nil
}

// Register schedules model for saving. Events of source are dispatched after the commit,
// source may be nil when the model has no aggregate events.
func (u *UnitOfWork) Register(model any, source domain.EventSource) {
	u.pendingLock.Lock()
	defer u.pendingLock.Unlock()

	u.pending = append(u.pending, pendingChange{model: model, source: source})
}

// Pending returns the number of models waiting for SaveChanges.
func (u *UnitOfWork) Pending() int {
	u.pendingLock.Lock()
	defer u.pendingLock.Unlock()

	return len(u.pending)
}

// SaveChanges saves all registered models in one transaction and returns the number of affected rows.
//
// When the transaction fails, nothing is saved and the models stay registered.
// After the commit, events of every registered source are drained. Sources whose events
// couldn't be dispatched keep them buffered; the error is returned with the committed rows count.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.pendingLock.Lock()
	pending := u.pending
	u.pending = nil
	u.pendingLock.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, change := range pending {
			result := tx.Save(change.model)
			if result.Error != nil {
				return errors.Wrapf(result.Error, "cannot save %s", internal.ObjectName(change.model))
			}
			affected += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		u.pendingLock.Lock()
		u.pending = append(pending, u.pending...)
		u.pendingLock.Unlock()

		return 0, errors.Wrap(err, "transaction failed")
	}

	u.logger.Debug("Changes saved", domainkit.LogFields{
		"models":        len(pending),
		"rows_affected": affected,
	})

	var dispatchErr *multierror.Error
	for _, change := range pending {
		if internal.IsNil(change.source) {
			continue
		}
		if err := u.drainer.Drain(ctx, change.source); err != nil {
			u.logger.Error("Cannot dispatch domain events after commit", err, domainkit.LogFields{
				"model": internal.ObjectName(change.model),
			})
			dispatchErr = multierror.Append(dispatchErr, err)
		}
	}

	if err := dispatchErr.ErrorOrNil(); err != nil {
		return int(affected), errors.Wrap(err, "changes saved, but domain events dispatch failed")
	}

	return int(affected), nil
}

var _ domain.UnitOfWork = (*UnitOfWork)(nil)
