package audit

import "time"

// Event is an immutable, append-only record of an action taken on a customer's behalf.
//
// Invariants:
// - Events are never updated or deleted.
// - customer_id is required.
// - Recording is best-effort; care flows never fail because of it.
type Event struct {
	ID         string    `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Type       EventType `json:"type" db:"type"`

	// ActorUserID and ActorRole are set when a staff member drove the action.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// Channel is "web", "whatsapp" or "api".
	Channel string `json:"channel,omitempty" db:"channel"`

	// TargetID is the order or incident the event refers to.
	TargetID string `json:"target_id,omitempty" db:"target_id"`

	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventIncidentCreated       EventType = "incident_created"
	EventOrderPlaced           EventType = "order_placed"
	EventRenewalInitiated      EventType = "renewal_initiated"
	EventOrderStatusChanged    EventType = "order_status_changed"
	EventIncidentStatusChanged EventType = "incident_status_changed"
)
