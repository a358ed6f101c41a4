package casesync

type Action int

const (
	ActionUpsert Action = iota
	ActionDelete
)

func (a Action) String() string {
	if a == ActionDelete {
		return "delete"
	}
	return "upsert"
}

// Decision is the classifier output. Key is set for deletes.
type Decision struct {
	Action Action
	Key    string
	Reason string
}

// Classify picks the operation for a message. A DELETE tag wins; otherwise an
// assigned case is deleted; everything else is upserted. assigned is always false
// for entities without an assignment field.
func Classify(eventType EventType, key string, assigned bool) Decision {
	switch {
	case eventType.IsDelete():
		return Decision{Action: ActionDelete, Key: key, Reason: "delete event"}
	case assigned:
		return Decision{Action: ActionDelete, Key: key, Reason: "case assigned"}
	default:
		return Decision{Action: ActionUpsert, Key: key}
	}
}
