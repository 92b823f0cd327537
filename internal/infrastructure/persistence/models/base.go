package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/shared"
)

// BaseModel holds the id and created_at columns every table shares
type BaseModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func baseModelOf(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt.UTC()}
}

func (m BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt.UTC()}
}
