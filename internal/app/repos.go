package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/appealsync-backend/internal/data/repos"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type Repos struct {
	Case                repos.CaseRepo
	CaseSpecialism      repos.CaseSpecialismRepo
	CaseEvent           repos.CaseEventRepo
	Lpa                 repos.LpaRepo
	Inspector           repos.InspectorRepo
	InspectorSpecialism repos.InspectorSpecialismRepo
	PollStatus          repos.PollStatusRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Case:                repos.NewCaseRepo(db, log),
		CaseSpecialism:      repos.NewCaseSpecialismRepo(db, log),
		CaseEvent:           repos.NewCaseEventRepo(db, log),
		Lpa:                 repos.NewLpaRepo(db, log),
		Inspector:           repos.NewInspectorRepo(db, log),
		InspectorSpecialism: repos.NewInspectorSpecialismRepo(db, log),
		PollStatus:          repos.NewPollStatusRepo(db, log),
	}
}
