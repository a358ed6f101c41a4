package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/data/repos/appeals"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type CaseRepo = appeals.CaseRepo
type CaseSpecialismRepo = appeals.CaseSpecialismRepo
type CaseEventRepo = appeals.CaseEventRepo
type LpaRepo = appeals.LpaRepo

type InspectorRepo = appeals.InspectorRepo
type InspectorSpecialismRepo = appeals.InspectorSpecialismRepo

type PollStatusRepo = appeals.PollStatusRepo

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo { return appeals.NewCaseRepo(db, baseLog) }
func NewCaseSpecialismRepo(db *gorm.DB, baseLog *logger.Logger) CaseSpecialismRepo {
	return appeals.NewCaseSpecialismRepo(db, baseLog)
}
func NewCaseEventRepo(db *gorm.DB, baseLog *logger.Logger) CaseEventRepo {
	return appeals.NewCaseEventRepo(db, baseLog)
}
func NewLpaRepo(db *gorm.DB, baseLog *logger.Logger) LpaRepo { return appeals.NewLpaRepo(db, baseLog) }

func NewInspectorRepo(db *gorm.DB, baseLog *logger.Logger) InspectorRepo {
	return appeals.NewInspectorRepo(db, baseLog)
}
func NewInspectorSpecialismRepo(db *gorm.DB, baseLog *logger.Logger) InspectorSpecialismRepo {
	return appeals.NewInspectorSpecialismRepo(db, baseLog)
}

func NewPollStatusRepo(db *gorm.DB, baseLog *logger.Logger) PollStatusRepo {
	return appeals.NewPollStatusRepo(db, baseLog)
}
