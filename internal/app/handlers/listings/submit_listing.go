package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"deskhub/internal/app/commands"
	"deskhub/internal/app/outbox"
	"deskhub/internal/domain/directory"
)

const submitListingKey = "listings.submit"

var ErrStorageRequired = errors.New("listings: storage required")

// SubmitListingCommand creates a listing awaiting moderation.
type SubmitListingCommand struct {
	OwnerID          int64
	Title            string
	Description      string
	AddressLine      string
	Lat              float64
	Lng              float64
	PricePerDayCents int64
	MonthlyDiscount  int
	TagIDs           []int64
}

func (c SubmitListingCommand) Key() string { return submitListingKey }

func (c SubmitListingCommand) Validate() error {
	if c.OwnerID <= 0 {
		return directory.ErrOwnerRequired
	}
	if strings.TrimSpace(c.Title) == "" {
		return directory.ErrTitleRequired
	}
	return nil
}

type SubmitListingResult struct {
	ListingID int64 `json:"listing_id"`
}

type SubmitListingHandler struct {
	Repository directory.Repository
	IDs        directory.IDSource
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SubmitListingHandler) Handle(ctx context.Context, cmd SubmitListingCommand) (*SubmitListingResult, error) {
	if h.Repository == nil || h.IDs == nil {
		return nil, ErrStorageRequired
	}
	id, err := h.IDs.NextListingID(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := directory.NewListing(directory.CreateListingParams{
		ID:               id,
		OwnerID:          cmd.OwnerID,
		Title:            cmd.Title,
		Description:      cmd.Description,
		AddressLine:      cmd.AddressLine,
		Lat:              cmd.Lat,
		Lng:              cmd.Lng,
		PricePerDayCents: cmd.PricePerDayCents,
		MonthlyDiscount:  cmd.MonthlyDiscount,
		TagIDs:           cmd.TagIDs,
		Now:              time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := h.Repository.Save(ctx, listing); err != nil {
		return nil, err
	}
	events := listing.PendingEvents()
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, events); err != nil {
		return nil, err
	}
	return &SubmitListingResult{ListingID: listing.ID}, nil
}

var _ commands.Handler[SubmitListingCommand, *SubmitListingResult] = (*SubmitListingHandler)(nil)
