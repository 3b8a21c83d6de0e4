package event

import (
	"github.com/0xsj/overwatch-pkg/types"
)

// Event is a fact about an account, published after the change is stored.
type Event interface {
	EventID() types.ID
	EventType() string
	OccurredAt() types.Timestamp
	AggregateID() types.ID
	AggregateType() string
}

// AggregateTypeAccount is the only aggregate this service emits events for.
const AggregateTypeAccount = "account"

// Event types
const (
	EventTypeAccountUpdated       = "account.updated"
	EventTypeEmailChangeRequested = "account.email_change_requested"
	EventTypeEmailConfirmed       = "account.email_confirmed"
	EventTypePasswordRotated      = "account.password_rotated"
	EventTypeAvatarReplaced       = "account.avatar_replaced"
	EventTypeAccountDeleted       = "account.deleted"
)

// BaseEvent carries the envelope metadata; it is not part of the JSON payload.
type BaseEvent struct {
	id         types.ID
	kind       string
	occurredAt types.Timestamp
	accountID  types.ID
}

func newAccountEvent(kind string, accountID types.ID) BaseEvent {
	return BaseEvent{
		id:         types.NewID(),
		kind:       kind,
		occurredAt: types.Now(),
		accountID:  accountID,
	}
}

func (e BaseEvent) EventID() types.ID           { return e.id }
func (e BaseEvent) EventType() string           { return e.kind }
func (e BaseEvent) OccurredAt() types.Timestamp { return e.occurredAt }
func (e BaseEvent) AggregateID() types.ID       { return e.accountID }
func (e BaseEvent) AggregateType() string       { return AggregateTypeAccount }
