package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and creation time shared by products and users
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// NewBaseEntity assigns a random UUID and the current time, truncated to the
// microsecond precision PostgreSQL stores so that reloaded entities compare equal
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
