package appeals

import (
	"time"

	"github.com/google/uuid"
)

// Lpa is the local planning authority that owns a case.
type Lpa struct {
	ID        uuid.UUID `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	LpaCode   string    `gorm:"column:lpa_code;not null;uniqueIndex" json:"lpa_code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Lpa) TableName() string { return "lpa" }
