package gormstore_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/persistence/gormstore"
)

type Order struct {
	domain.AggregateRoot[string]
	Status string
	Amount int64
}

func NewOrder(id string) *Order {
	o := &Order{AggregateRoot: domain.NewAggregateRoot(id), Status: "created"}
	o.RaiseDomainEvent(&OrderCreated{DomainEvent: domain.NewDomainEvent(), OrderID: id})
	return o
}

func (o *Order) Confirm() {
	o.Status = "confirmed"
	o.RaiseDomainEvent(&OrderConfirmed{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

type OrderCreated struct {
	domain.DomainEvent
	OrderID string
}

type OrderConfirmed struct {
	domain.DomainEvent
	OrderID string
}

type orderModel struct {
	ID     string `gorm:"primaryKey"`
	Status string
	Amount int64
}

func (orderModel) TableName() string {
	return "orders"
}

func orderToModel(o *Order) *orderModel {
	return &orderModel{ID: o.ID(), Status: o.Status, Amount: o.Amount}
}

func orderFromModel(m orderModel) (*Order, error) {
	if m.Status == "corrupted" {
		return nil, errors.New("unknown status")
	}
	return &Order{AggregateRoot: domain.NewAggregateRoot(m.ID), Status: m.Status, Amount: m.Amount}, nil
}

// notMigratedModel has no table, saving it fails.
type notMigratedModel struct {
	ID string `gorm:"primaryKey"`
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gormstore.OpenSQLite(
		context.Background(),
		"file:"+domainkit.NewShortUUID()+"?mode=memory&cache=shared",
		gormstore.DBConfig{MaxOpenConns: 1},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderModel{}))

	t.Cleanup(func() {
		_ = gormstore.Close(db)
	})

	return db
}

func newOrderRepository(t *testing.T, db *gorm.DB) *gormstore.Repository[*Order, orderModel, string] {
	t.Helper()

	repo, err := gormstore.NewRepository[*Order, orderModel, string](db, orderFromModel, gormstore.RepositoryConfig{})
	require.NoError(t, err)

	return repo
}

func insertOrders(t *testing.T, db *gorm.DB, models ...orderModel) {
	t.Helper()
	require.NoError(t, db.Create(&models).Error)
}
