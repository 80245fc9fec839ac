package gormstore_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/mediator"
	"github.com/domainkit/domainkit/persistence/gormstore"
)

type drainerFunc func(ctx context.Context, source domain.EventSource) error

func (f drainerFunc) Drain(ctx context.Context, source domain.EventSource) error {
	return f(ctx, source)
}

func newUnitOfWork(t *testing.T, drainer gormstore.EventDrainer) (*gormstore.UnitOfWork, *gormstore.Repository[*Order, orderModel, string]) {
	t.Helper()

	db := newDB(t)
	uow, err := gormstore.NewUnitOfWork(db, drainer, gormstore.UnitOfWorkConfig{})
	require.NoError(t, err)

	return uow, newOrderRepository(t, db)
}

func TestNewUnitOfWork_missing_dependencies(t *testing.T) {
	_, err := gormstore.NewUnitOfWork(nil, drainerFunc(nil), gormstore.UnitOfWorkConfig{})
	assert.Error(t, err)

	_, err = gormstore.NewUnitOfWork(newDB(t), nil, gormstore.UnitOfWorkConfig{})
	assert.Error(t, err)
}

func TestUnitOfWork_SaveChanges_nothing_registered(t *testing.T) {
	uow, _ := newUnitOfWork(t, drainerFunc(func(ctx context.Context, source domain.EventSource) error {
		t.Fatal("nothing should be drained")
		return nil
	}))

	saved, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestUnitOfWork_SaveChanges(t *testing.T) {
	var drained []domain.EventSource
	uow, repo := newUnitOfWork(t, drainerFunc(func(ctx context.Context, source domain.EventSource) error {
		drained = append(drained, source)
		source.ClearDomainEvents()
		return nil
	}))

	first := NewOrder("1")
	second := NewOrder("2")
	second.Confirm()

	uow.Register(orderToModel(first), first)
	uow.Register(orderToModel(second), second)
	assert.Equal(t, 2, uow.Pending())

	saved, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Zero(t, uow.Pending())

	assert.Equal(t, []domain.EventSource{first, second}, drained)
	assert.Empty(t, first.DomainEvents())
	assert.Empty(t, second.DomainEvents())

	stored, found, err := repo.GetByID(context.Background(), "2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "confirmed", stored.Status)
}

func TestUnitOfWork_SaveChanges_updates_existing(t *testing.T) {
	uow, repo := newUnitOfWork(t, drainerFunc(func(ctx context.Context, source domain.EventSource) error {
		return nil
	}))

	order := NewOrder("1")
	uow.Register(orderToModel(order), nil)
	_, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)

	order.Confirm()
	uow.Register(orderToModel(order), nil)
	saved, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "confirmed", orders[0].Status)
}

func TestUnitOfWork_SaveChanges_transaction_failure(t *testing.T) {
	drainCalled := false
	uow, repo := newUnitOfWork(t, drainerFunc(func(ctx context.Context, source domain.EventSource) error {
		drainCalled = true
		return nil
	}))

	order := NewOrder("1")
	uow.Register(orderToModel(order), order)
	uow.Register(&notMigratedModel{ID: "1"}, nil)

	saved, err := uow.SaveChanges(context.Background())
	require.Error(t, err)
	assert.Zero(t, saved)
	assert.Contains(t, err.Error(), "notMigratedModel")

	assert.False(t, drainCalled)
	assert.Len(t, order.DomainEvents(), 1)
	assert.Equal(t, 2, uow.Pending(), "models should stay registered")

	exists, err := repo.Any(context.Background(), domain.Where("id = ?", "1"))
	require.NoError(t, err)
	assert.False(t, exists, "transaction should be rolled back")
}

func TestUnitOfWork_SaveChanges_dispatch_failure_after_commit(t *testing.T) {
	errDispatch := errors.New("mediator failed")

	uow, repo := newUnitOfWork(t, drainerFunc(func(ctx context.Context, source domain.EventSource) error {
		if source.(*Order).ID() == "1" {
			return errDispatch
		}
		source.ClearDomainEvents()
		return nil
	}))

	failing := NewOrder("1")
	succeeding := NewOrder("2")
	uow.Register(orderToModel(failing), failing)
	uow.Register(orderToModel(succeeding), succeeding)

	saved, err := uow.SaveChanges(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDispatch)
	assert.Equal(t, 2, saved)

	assert.Len(t, failing.DomainEvents(), 1)
	assert.Empty(t, succeeding.DomainEvents())

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2, "changes are committed before dispatch")
}

func TestUnitOfWork_with_dispatch(t *testing.T) {
	db := newDB(t)
	repo := newOrderRepository(t, db)
	logger := domainkit.NewCaptureLogger()

	registry := dispatch.NewRegistry()
	dispatch.MustRegister[*OrderCreated](registry)
	dispatch.MustRegister[*OrderConfirmed](registry)

	m, err := mediator.NewMediator(mediator.Config{Logger: logger})
	require.NoError(t, err)

	var confirmedStatus string
	require.NoError(t, m.AddHandlers(dispatch.NewEventHandler(
		"read_confirmed_order",
		func(ctx context.Context, event *OrderConfirmed) error {
			order, found, err := repo.GetByID(ctx, event.OrderID)
			if err != nil {
				return err
			}
			if !found {
				return errors.Errorf("order %s not found", event.OrderID)
			}
			confirmedStatus = order.Status
			return nil
		},
	)))

	service, err := dispatch.NewService(registry, m, dispatch.ServiceConfig{Logger: logger})
	require.NoError(t, err)
	drainer, err := dispatch.NewDrainer(service, dispatch.DrainConfig{Logger: logger})
	require.NoError(t, err)

	uow, err := gormstore.NewUnitOfWork(db, drainer, gormstore.UnitOfWorkConfig{Logger: logger})
	require.NoError(t, err)

	order := NewOrder("42")
	order.Confirm()
	uow.Register(orderToModel(order), order)

	saved, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	assert.Equal(t, "confirmed", confirmedStatus)
	assert.Empty(t, order.DomainEvents())
	assert.Len(t, logger.Captured()[domainkit.InfoLogLevel], 2)
}

var _ gormstore.EventDrainer = (*dispatch.Drainer)(nil)
