package appeals

import (
	"time"

	"gorm.io/datatypes"
)

type Inspector struct {
	EntraID   string   `gorm:"column:entra_id;primaryKey" json:"entra_id"`
	FirstName string   `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string   `gorm:"column:last_name;not null" json:"last_name"`
	Email     *string  `gorm:"column:email" json:"email,omitempty"`
	Grade     *string  `gorm:"column:grade;index" json:"grade,omitempty"`
	FTE       *float64 `gorm:"column:fte" json:"fte,omitempty"`
	Postcode  string   `gorm:"column:postcode;not null" json:"postcode"`
	Latitude  float64  `gorm:"column:latitude;not null" json:"latitude"`
	Longitude float64  `gorm:"column:longitude;not null" json:"longitude"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	Specialisms []InspectorSpecialism `gorm:"foreignKey:InspectorEntraID;references:EntraID" json:"specialisms,omitempty"`
}

func (Inspector) TableName() string { return "inspector" }

type InspectorSpecialism struct {
	InspectorEntraID string          `gorm:"column:inspector_entra_id;primaryKey" json:"inspector_entra_id"`
	Name             string          `gorm:"column:name;primaryKey" json:"name"`
	Proficiency      *string         `gorm:"column:proficiency" json:"proficiency,omitempty"`
	ValidFrom        *datatypes.Date `gorm:"column:valid_from" json:"valid_from,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (InspectorSpecialism) TableName() string { return "inspector_specialism" }
