package entity

import "time"

type EventType string

const (
	EventSponsorCreated       EventType = "sponsor.created"
	EventSponsorUpdated       EventType = "sponsor.updated"
	EventSponsorDeleted       EventType = "sponsor.deleted"
	EventConversationAppended EventType = "conversation.appended"
)

// SponsorEvent é publicado depois que o store confirmou a operação.
type SponsorEvent struct {
	Type       EventType `json:"type"`
	SponsorID  string    `json:"sponsor_id"`
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name,omitempty"`
	Scope      Scope     `json:"scope,omitempty"`
	Status     Status    `json:"status,omitempty"`
	Channel    Channel   `json:"channel,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
