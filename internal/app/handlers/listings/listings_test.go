package listings

import (
	"context"
	"errors"
	"testing"

	"deskhub/internal/app/commands"
	"deskhub/internal/app/middleware"
	"deskhub/internal/domain/directory"
	"deskhub/internal/infra/storage/memory"
)

func submitCommand() SubmitListingCommand {
	return SubmitListingCommand{
		OwnerID:          1,
		Title:            "Desk by the window",
		Lat:              6.37,
		Lng:              2.39,
		PricePerDayCents: 2000,
	}
}

func TestSubmitListingHandler(t *testing.T) {
	store := memory.NewDirectoryStore()
	box := memory.NewOutbox()
	handler := &SubmitListingHandler{Repository: store, IDs: store, Outbox: box}

	result, err := handler.Handle(context.Background(), submitCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ListingID != 1 {
		t.Fatalf("expected first id 1 got %d", result.ListingID)
	}

	listing, err := store.ByID(context.Background(), result.ListingID)
	if err != nil {
		t.Fatalf("saved listing missing: %v", err)
	}
	if listing.Approval != directory.ApprovalPending {
		t.Fatalf("submitted listing must await moderation, got %s", listing.Approval)
	}
	if len(listing.PendingEvents()) != 0 {
		t.Fatal("aggregate events must be drained into the outbox")
	}
	if box.Pending() != 1 {
		t.Fatalf("expected one outbox record got %d", box.Pending())
	}
}

func TestSubmitListingHandlerRequiresStorage(t *testing.T) {
	handler := &SubmitListingHandler{}
	if _, err := handler.Handle(context.Background(), submitCommand()); !errors.Is(err, ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired got %v", err)
	}
}

func TestModerateListingHandler(t *testing.T) {
	store := memory.NewDirectoryStore()
	box := memory.NewOutbox()
	submit := &SubmitListingHandler{Repository: store, IDs: store, Outbox: box}
	moderate := &ModerateListingHandler{Repository: store, Outbox: box}
	ctx := context.Background()

	created, err := submit.Handle(ctx, submitCommand())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := moderate.Handle(ctx, ModerateListingCommand{ListingID: created.ListingID, Decision: DecisionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	listing, err := store.ByID(ctx, created.ListingID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !listing.PubliclyVisible() {
		t.Fatal("approved listing should be publicly visible")
	}
	if box.Pending() != 2 {
		t.Fatalf("expected submitted+approved records got %d", box.Pending())
	}

	if _, err := moderate.Handle(ctx, ModerateListingCommand{ListingID: created.ListingID, Decision: DecisionReject}); !errors.Is(err, directory.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState got %v", err)
	}
	if _, err := moderate.Handle(ctx, ModerateListingCommand{ListingID: 99, Decision: DecisionApprove}); !errors.Is(err, directory.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound got %v", err)
	}
}

func TestUpdateListingHandler(t *testing.T) {
	store := memory.NewDirectoryStore()
	submit := &SubmitListingHandler{Repository: store, IDs: store}
	update := &UpdateListingHandler{Repository: store}
	ctx := context.Background()

	created, err := submit.Handle(ctx, submitCommand())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = update.Handle(ctx, UpdateListingCommand{
		ListingID:        created.ListingID,
		Title:            "Renamed desk",
		PricePerDayCents: 4500,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	listing, err := store.ByID(ctx, created.ListingID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if listing.Title != "Renamed desk" || listing.PricePerDayCents != 4500 {
		t.Fatalf("update not applied: %+v", listing)
	}
}

func TestSearchListingsHandlerMapsPage(t *testing.T) {
	store := memory.NewDirectoryStore()
	store.PutUser(directory.User{ID: 1, Name: "Ama"})
	listing := &directory.Listing{
		ID:       1,
		OwnerID:  1,
		Title:    "listing",
		Approval: directory.ApprovalApproved,
	}
	if err := store.Save(context.Background(), listing); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.PutReservation(directory.Reservation{ID: 1, ListingID: 1, UserID: 2, Status: directory.ReservationActive})

	handler := &SearchListingsHandler{Engine: directory.NewEngine(store)}
	page, err := handler.Handle(context.Background(), SearchListingsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Meta.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("unexpected page: %+v", page.Meta)
	}
	entry := page.Data[0]
	if entry.ReservationsCount != 1 || entry.User.Name != "Ama" {
		t.Fatalf("entry not enriched: %+v", entry)
	}
}

func TestValidationMiddlewareRejectsBadCommands(t *testing.T) {
	store := memory.NewDirectoryStore()
	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, SubmitListingCommand{}.Key(), &SubmitListingHandler{Repository: store, IDs: store})
	bus := middleware.ChainCommands(base, middleware.Validation())

	cmd := submitCommand()
	cmd.Title = "  "
	if _, err := commands.Dispatch[SubmitListingCommand, *SubmitListingResult](context.Background(), bus, cmd); !errors.Is(err, directory.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired got %v", err)
	}

	bad := ModerateListingCommand{ListingID: 1, Decision: "escalate"}
	commands.RegisterHandler(base, bad.Key(), &ModerateListingHandler{Repository: store})
	if _, err := commands.Dispatch[ModerateListingCommand, struct{}](context.Background(), bus, bad); !errors.Is(err, ErrUnknownDecision) {
		t.Fatalf("expected ErrUnknownDecision got %v", err)
	}
}
