// Package models contains the GORM persistence models of the marketplace.
//
// Domain entities carry no ORM tags; each model here owns its table mapping
// and converts to and from its domain type with ToDomain / FromDomain.
//
//   - base.go: BaseModel and AggregateModel
//   - identity.go: users, including the shipping profile columns
//   - catalog.go: products
//   - cart.go: cart_items
//   - trade.go: orders
//   - message.go: messages
package models
