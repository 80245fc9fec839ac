// Package gormstore implements domain repositories and the unit of work on top of gorm.
//
// Aggregates are not persisted directly. Every aggregate type has a gorm model and a
// mapping function building the aggregate from the model. UnitOfWork saves the models in one
// transaction and, after the commit, drains the domain events of the registered aggregates.
package gormstore
