package listings

import (
	"context"
	"errors"
	"time"

	"deskhub/internal/app/commands"
	"deskhub/internal/app/outbox"
	"deskhub/internal/domain/directory"
)

const moderateListingKey = "listings.moderate"

// ModerationDecision is the outcome applied to a pending listing.
type ModerationDecision string

const (
	DecisionApprove ModerationDecision = "approve"
	DecisionReject  ModerationDecision = "reject"
)

var ErrUnknownDecision = errors.New("listings: unknown moderation decision")

type ModerateListingCommand struct {
	ListingID int64
	Decision  ModerationDecision
	Reason    string
}

func (c ModerateListingCommand) Key() string { return moderateListingKey }

func (c ModerateListingCommand) Validate() error {
	switch c.Decision {
	case DecisionApprove, DecisionReject:
		return nil
	default:
		return ErrUnknownDecision
	}
}

type ModerateListingHandler struct {
	Repository directory.Repository
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ModerateListingHandler) Handle(ctx context.Context, cmd ModerateListingCommand) (struct{}, error) {
	if h.Repository == nil {
		return struct{}{}, ErrStorageRequired
	}
	listing, err := h.Repository.ByID(ctx, cmd.ListingID)
	if err != nil {
		return struct{}{}, err
	}
	now := time.Now()
	switch cmd.Decision {
	case DecisionApprove:
		err = listing.Approve(now)
	case DecisionReject:
		err = listing.Reject(now, cmd.Reason)
	default:
		err = ErrUnknownDecision
	}
	if err != nil {
		return struct{}{}, err
	}
	if err := h.Repository.Save(ctx, listing); err != nil {
		return struct{}{}, err
	}
	events := listing.PendingEvents()
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, events); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, nil
}

var _ commands.Handler[ModerateListingCommand, struct{}] = (*ModerateListingHandler)(nil)
