package domain

import "github.com/yungbote/appealsync-backend/internal/domain/appeals"

const (
	AppealTypeHAS = appeals.AppealTypeHAS
	AppealTypeS78 = appeals.AppealTypeS78

	LinkedCaseStatusLead  = appeals.LinkedCaseStatusLead
	LinkedCaseStatusChild = appeals.LinkedCaseStatusChild

	PollStatusID = appeals.PollStatusID
)

type Case = appeals.Case
type CaseSpecialism = appeals.CaseSpecialism
type CaseEvent = appeals.CaseEvent
type Lpa = appeals.Lpa

type Inspector = appeals.Inspector
type InspectorSpecialism = appeals.InspectorSpecialism

type Coordinates = appeals.Coordinates

type PollStatus = appeals.PollStatus
type PollRun = appeals.PollRun
