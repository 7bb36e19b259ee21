package listings

import (
	"context"
	"strings"
	"time"

	"deskhub/internal/app/commands"
	"deskhub/internal/app/outbox"
	"deskhub/internal/domain/directory"
)

const updateListingKey = "listings.update"

// UpdateListingCommand replaces a listing's descriptive attributes.
type UpdateListingCommand struct {
	ListingID        int64
	Title            string
	Description      string
	AddressLine      string
	PricePerDayCents int64
	MonthlyDiscount  int
	TagIDs           []int64
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

func (c UpdateListingCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return directory.ErrTitleRequired
	}
	return nil
}

type UpdateListingHandler struct {
	Repository directory.Repository
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (struct{}, error) {
	if h.Repository == nil {
		return struct{}{}, ErrStorageRequired
	}
	listing, err := h.Repository.ByID(ctx, cmd.ListingID)
	if err != nil {
		return struct{}{}, err
	}
	err = listing.UpdateDetails(directory.UpdateListingParams{
		Title:            cmd.Title,
		Description:      cmd.Description,
		AddressLine:      cmd.AddressLine,
		PricePerDayCents: cmd.PricePerDayCents,
		MonthlyDiscount:  cmd.MonthlyDiscount,
		TagIDs:           cmd.TagIDs,
		Now:              time.Now(),
	})
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

var _ commands.Handler[UpdateListingCommand, struct{}] = (*UpdateListingHandler)(nil)
