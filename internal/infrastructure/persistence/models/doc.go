// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain/FromDomain convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// The schema itself is owned by the SQL migrations; AutoMigrate on these
// models is only used by in-memory tests.
package models
