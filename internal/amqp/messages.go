package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds carried on the finance events queue.
const (
	EventTransactionChanged = "transaction.changed"
	EventBudgetChanged      = "budget.changed"
	EventGoalChanged        = "goal.changed"
	EventGoalCompleted      = "goal.completed"
	EventGoalArchived       = "goal.archived"
)

// FinanceEvent is a lightweight notification that an owner's records changed.
// Consumers invalidate derived snapshots and, for goal completion, schedule an
// archival check; they re-read full state from the database.
type FinanceEvent struct {
	Kind      string    `json:"kind"`
	OwnerID   string    `json:"owner_id"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFinanceEvent creates an event stamped with the current time.
func NewFinanceEvent(kind, ownerID, entityID string) *FinanceEvent {
	return &FinanceEvent{
		Kind:      kind,
		OwnerID:   ownerID,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

// Validate checks the event carries a known kind and an owner.
func (e *FinanceEvent) Validate() error {
	switch e.Kind {
	case EventTransactionChanged, EventBudgetChanged, EventGoalChanged,
		EventGoalCompleted, EventGoalArchived:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.OwnerID == "" {
		return fmt.Errorf("event missing owner id")
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e *FinanceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FinanceEventFromJSON creates an event from JSON bytes
func FinanceEventFromJSON(data []byte) (*FinanceEvent, error) {
	var ev FinanceEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
