package directory

import (
	"strconv"
	"time"
)

// DomainEvent is raised by the listing aggregate and drained into the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder buffers events until a command handler drains them.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

type ListingSubmittedEvent struct {
	ListingID int64     `json:"listing_id"`
	OwnerID   int64     `json:"owner_id"`
	At        time.Time `json:"at"`
}

func (e ListingSubmittedEvent) EventName() string { return "listing.submitted" }
func (e ListingSubmittedEvent) AggregateID() string { return formatID(e.ListingID) }
func (e ListingSubmittedEvent) OccurredAt() time.Time { return e.At }

type ListingApprovedEvent struct {
	ListingID int64     `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingApprovedEvent) EventName() string { return "listing.approved" }
func (e ListingApprovedEvent) AggregateID() string { return formatID(e.ListingID) }
func (e ListingApprovedEvent) OccurredAt() time.Time { return e.At }

type ListingRejectedEvent struct {
	ListingID int64     `json:"listing_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

func (e ListingRejectedEvent) EventName() string { return "listing.rejected" }
func (e ListingRejectedEvent) AggregateID() string { return formatID(e.ListingID) }
func (e ListingRejectedEvent) OccurredAt() time.Time { return e.At }

type ListingUpdatedEvent struct {
	ListingID int64     `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingUpdatedEvent) EventName() string { return "listing.updated" }
func (e ListingUpdatedEvent) AggregateID() string { return formatID(e.ListingID) }
func (e ListingUpdatedEvent) OccurredAt() time.Time { return e.At }

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
