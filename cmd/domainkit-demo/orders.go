package main

import (
	"github.com/domainkit/domainkit/domain"
)

type Order struct {
	domain.AggregateRoot[string]
	Status string
	Total  int64
}

func PlaceOrder(id string) *Order {
	o := &Order{AggregateRoot: domain.NewAggregateRoot(id), Status: "placed"}
	o.RaiseDomainEvent(&OrderPlaced{DomainEvent: domain.NewDomainEvent(), OrderID: id})
	return o
}

func (o *Order) Price(total int64) {
	o.Total = total
	o.RaiseDomainEvent(&OrderPriced{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID(), Total: total})
}

func (o *Order) Confirm() {
	o.Status = "confirmed"
	o.RaiseDomainEvent(&OrderConfirmed{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

type OrderPlaced struct {
	domain.DomainEvent
	OrderID string
}

type OrderPriced struct {
	domain.DomainEvent
	OrderID string
	Total   int64
}

type OrderConfirmed struct {
	domain.DomainEvent
	OrderID string
}

type orderModel struct {
	ID     string `gorm:"primaryKey"`
	Status string
	Total  int64
}

func (orderModel) TableName() string {
	return "orders"
}

func orderToModel(o *Order) *orderModel {
	return &orderModel{ID: o.ID(), Status: o.Status, Total: o.Total}
}

func orderFromModel(m orderModel) (*Order, error) {
	return &Order{AggregateRoot: domain.NewAggregateRoot(m.ID), Status: m.Status, Total: m.Total}, nil
}
