package appeals

import (
	"time"

	"github.com/google/uuid"
)

// PollStatusID is the fixed key of the singleton watermark row.
const PollStatusID uint = 1

// PollStatus is the sync watermark. It is advanced by every committed case mutation
// and by every bulk pass; CasesFetched only changes on bulk passes.
type PollStatus struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	LastPollAt   time.Time `gorm:"column:last_poll_at;not null" json:"last_poll_at"`
	CasesFetched int       `gorm:"column:cases_fetched;not null" json:"cases_fetched"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (PollStatus) TableName() string { return "poll_status" }

// PollRun is the append-only log of completed bulk passes.
type PollRun struct {
	ID            uuid.UUID `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	StartedAt     time.Time `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt    time.Time `gorm:"column:finished_at;not null" json:"finished_at"`
	CasesFetched  int       `gorm:"column:cases_fetched;not null" json:"cases_fetched"`
	CasesUpserted int       `gorm:"column:cases_upserted;not null" json:"cases_upserted"`
	CasesDeleted  int       `gorm:"column:cases_deleted;not null" json:"cases_deleted"`
}

func (PollRun) TableName() string { return "poll_run" }
