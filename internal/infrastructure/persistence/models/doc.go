// Package models contains GORM persistence models for the storefront tables.
// Domain entities carry no ORM tags; each model converts to and from its
// entity with ToDomain and FromDomain, and repositories only ever hand
// domain types to callers.
package models
