package appeals

import "time"

// CaseEvent is a scheduled site visit, hearing or inquiry for a case.
type CaseEvent struct {
	ID            string     `gorm:"column:id;primaryKey" json:"id"`
	CaseReference string     `gorm:"column:case_reference;not null;index" json:"case_reference"`
	EventType     string     `gorm:"column:event_type;not null" json:"event_type"`
	EventName     *string    `gorm:"column:event_name" json:"event_name,omitempty"`
	EventStatus   *string    `gorm:"column:event_status" json:"event_status,omitempty"`
	IsUrgent      bool       `gorm:"column:is_urgent;not null" json:"is_urgent"`
	StartDate     *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (CaseEvent) TableName() string { return "case_event" }
