package db

import (
	"fmt"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&types.Lpa{},
		&types.Case{},
		&types.CaseSpecialism{},
		&types.CaseEvent{},
		&types.Inspector{},
		&types.InspectorSpecialism{},
		&types.PollStatus{},
		&types.PollRun{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
