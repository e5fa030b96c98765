package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClosedEvent is emitted for every entity a match run closed
type ClosedEvent struct {
	MatchID    uuid.UUID `json:"match_id"`
	Kind       FundKind  `json:"kind"`
	EntityID   int64     `json:"entity_id"`
	FullAmount int64     `json:"full_amount"`
	CreateDate time.Time `json:"create_date"`
	CloseDate  time.Time `json:"close_date"`
}

// NewClosedEvent builds the event for a closed entity
func NewClosedEvent(matchID uuid.UUID, entity Fundable) ClosedEvent {
	f := entity.Funding()
	event := ClosedEvent{
		MatchID:    matchID,
		Kind:       entity.Kind(),
		EntityID:   f.ID,
		FullAmount: f.FullAmount,
		CreateDate: f.CreateDate,
	}
	if f.CloseDate != nil {
		event.CloseDate = *f.CloseDate
	}
	return event
}
