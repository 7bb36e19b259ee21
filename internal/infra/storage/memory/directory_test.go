package memory

import (
	"context"
	"errors"
	"testing"

	"deskhub/internal/domain/directory"
)

func seedListing(t *testing.T, store *DirectoryStore, id, owner int64, lat, lng float64, visible bool) *directory.Listing {
	t.Helper()
	listing := &directory.Listing{
		ID:      id,
		OwnerID: owner,
		Title:   "listing",
		Lat:     lat,
		Lng:     lng,
	}
	if visible {
		listing.Approval = directory.ApprovalApproved
	} else {
		listing.Approval = directory.ApprovalPending
	}
	if err := store.Save(context.Background(), listing); err != nil {
		t.Fatalf("save: %v", err)
	}
	return listing
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func TestMatchingListingsVisibilityAlwaysApplies(t *testing.T) {
	store := NewDirectoryStore()
	seedListing(t, store, 1, 1, 0, 0, true)
	seedListing(t, store, 2, 1, 0, 0, false)
	hidden := seedListing(t, store, 3, 1, 0, 0, true)
	hidden.Hidden = true

	matches, err := store.MatchingListings(context.Background(), directory.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("expected only the approved visible listing, got %d matches", len(matches))
	}
}

func TestMatchingListingsOwnerFilter(t *testing.T) {
	store := NewDirectoryStore()
	seedListing(t, store, 1, 10, 0, 0, true)
	seedListing(t, store, 2, 20, 0, 0, true)
	seedListing(t, store, 3, 10, 0, 0, true)

	matches, err := store.MatchingListings(context.Background(), directory.Filter{OwnerID: i64(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 owner matches got %d", len(matches))
	}
	for _, m := range matches {
		if m.OwnerID != 10 {
			t.Fatalf("unexpected owner %d", m.OwnerID)
		}
	}
}

func TestMatchingListingsParticipantFilterNoDuplicates(t *testing.T) {
	store := NewDirectoryStore()
	seedListing(t, store, 1, 1, 0, 0, true)
	seedListing(t, store, 2, 1, 0, 0, true)
	// Two reservations by the same user on listing 1 must still yield one row.
	store.PutReservation(directory.Reservation{ID: 1, ListingID: 1, UserID: 5, Status: directory.ReservationActive})
	store.PutReservation(directory.Reservation{ID: 2, ListingID: 1, UserID: 5, Status: directory.ReservationCancelled})
	store.PutReservation(directory.Reservation{ID: 3, ListingID: 2, UserID: 6, Status: directory.ReservationActive})

	matches, err := store.MatchingListings(context.Background(), directory.Filter{ParticipantID: i64(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("expected exactly listing 1 once, got %d matches", len(matches))
	}
}

func TestMatchingListingsCancelledContext(t *testing.T) {
	store := NewDirectoryStore()
	seedListing(t, store, 1, 1, 0, 0, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.MatchingListings(ctx, directory.Filter{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled got %v", err)
	}
}

func TestActiveReservationCounts(t *testing.T) {
	store := NewDirectoryStore()
	store.PutReservation(directory.Reservation{ID: 1, ListingID: 1, UserID: 5, Status: directory.ReservationActive})
	store.PutReservation(directory.Reservation{ID: 2, ListingID: 1, UserID: 6, Status: directory.ReservationActive})
	store.PutReservation(directory.Reservation{ID: 3, ListingID: 1, UserID: 7, Status: directory.ReservationCancelled})
	store.PutReservation(directory.Reservation{ID: 4, ListingID: 2, UserID: 5, Status: directory.ReservationCompleted})

	counts, err := store.ActiveReservationCounts(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts[1] != 2 {
		t.Fatalf("listing 1: expected 2 active got %d", counts[1])
	}
	if counts[2] != 0 || counts[3] != 0 {
		t.Fatalf("listings without active reservations must read zero: %v", counts)
	}
}

func TestRelationsBatchLoad(t *testing.T) {
	store := NewDirectoryStore()
	store.PutUser(directory.User{ID: 5, Name: "Ada"})
	store.PutTag(directory.Tag{ID: 1, Label: "quiet"})
	store.PutTag(directory.Tag{ID: 2, Label: "window"})
	store.PutImage(directory.Image{ID: 1, ListingID: 1, Path: "a.jpg"})
	store.PutImage(directory.Image{ID: 2, ListingID: 1, Path: "b.jpg"})

	listing := seedListing(t, store, 1, 5, 0, 0, true)
	listing.TagIDs = []int64{1, 2, 99}

	rel, err := store.Relations(context.Background(), []*directory.Listing{listing})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rel.Tags[1]) != 2 {
		t.Fatalf("expected 2 known tags got %d", len(rel.Tags[1]))
	}
	if len(rel.Images[1]) != 2 {
		t.Fatalf("expected 2 images got %d", len(rel.Images[1]))
	}
	if rel.Owners[5].Name != "Ada" {
		t.Fatalf("owner missing: %+v", rel.Owners)
	}
}

func TestByIDAndNextListingID(t *testing.T) {
	store := NewDirectoryStore()
	ctx := context.Background()

	if _, err := store.ByID(ctx, 42); !errors.Is(err, directory.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound got %v", err)
	}

	id, err := store.NextListingID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id 1 got %d", id)
	}

	seedListing(t, store, 7, 1, 0, 0, true)
	id, err = store.NextListingID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 8 {
		t.Fatalf("ids must advance past saved listings, got %d", id)
	}
}

func TestEngineSearchAgainstMemoryStore(t *testing.T) {
	store := NewDirectoryStore()
	store.PutUser(directory.User{ID: 1, Name: "Ama"})
	// Cotonou and Parakou; the query point sits between them, nearer Parakou.
	seedListing(t, store, 1, 1, 6.370246273189285, 2.3930874928228523, true)
	seedListing(t, store, 2, 1, 9.329142401738267, 2.633971881784387, true)
	engine := directory.NewEngine(store)

	page, err := engine.Search(context.Background(), directory.Criteria{
		Lat: f64(7.934327726169804),
		Lng: f64(1.975135952890811),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Entries) != 2 || page.Entries[0].Listing.ID != 2 {
		t.Fatalf("expected Parakou listing first, got %+v", page.Entries)
	}
	if page.Entries[0].DistanceKm == nil || page.Entries[1].DistanceKm == nil {
		t.Fatal("distances missing from ranked search")
	}
	if *page.Entries[0].DistanceKm >= *page.Entries[1].DistanceKm {
		t.Fatalf("distances not ascending: %v vs %v", *page.Entries[0].DistanceKm, *page.Entries[1].DistanceKm)
	}
}
