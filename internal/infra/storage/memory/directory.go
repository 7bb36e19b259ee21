package memory

import (
	"context"
	"sync"

	"deskhub/internal/domain/directory"
)

// DirectoryStore keeps the whole directory in memory. It implements both the
// engine's read interface and the write-side repository, evaluating the
// composed filter predicate per listing.
type DirectoryStore struct {
	mu           sync.RWMutex
	listings     map[int64]*directory.Listing
	tags         map[int64]directory.Tag
	images       map[int64][]directory.Image
	users        map[int64]directory.User
	reservations map[int64][]directory.Reservation
	nextListing  int64
}

func NewDirectoryStore() *DirectoryStore {
	return &DirectoryStore{
		listings:     make(map[int64]*directory.Listing),
		tags:         make(map[int64]directory.Tag),
		images:       make(map[int64][]directory.Image),
		users:        make(map[int64]directory.User),
		reservations: make(map[int64][]directory.Reservation),
	}
}

// MatchingListings returns every listing satisfying the filter conjunction.
// Order is unspecified; ranking belongs to the engine.
func (s *DirectoryStore) MatchingListings(ctx context.Context, filter directory.Filter) ([]*directory.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pred := filter.Predicate()
	matches := make([]*directory.Listing, 0, len(s.listings))
	for _, listing := range s.listings {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if pred(listing, s.reservations[listing.ID]) {
			matches = append(matches, listing)
		}
	}
	return matches, nil
}

// ActiveReservationCounts groups active reservations by listing id. Listings
// without a match are simply absent; map reads default them to zero.
func (s *DirectoryStore) ActiveReservationCounts(ctx context.Context, listingIDs []int64) (map[int64]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int64, len(listingIDs))
	for _, id := range listingIDs {
		for _, r := range s.reservations[id] {
			if r.Status == directory.ReservationActive {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// Relations batch-loads tags, images and owners for the given listings.
func (s *DirectoryStore) Relations(ctx context.Context, listings []*directory.Listing) (directory.Relations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rel := directory.Relations{
		Tags:   make(map[int64][]directory.Tag, len(listings)),
		Images: make(map[int64][]directory.Image, len(listings)),
		Owners: make(map[int64]directory.User, len(listings)),
	}
	for _, listing := range listings {
		for _, tagID := range listing.TagIDs {
			if tag, ok := s.tags[tagID]; ok {
				rel.Tags[listing.ID] = append(rel.Tags[listing.ID], tag)
			}
		}
		rel.Images[listing.ID] = append([]directory.Image(nil), s.images[listing.ID]...)
		if owner, ok := s.users[listing.OwnerID]; ok {
			rel.Owners[listing.OwnerID] = owner
		}
	}
	return rel, nil
}

// ByID returns a listing or directory.ErrListingNotFound.
func (s *DirectoryStore) ByID(ctx context.Context, id int64) (*directory.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[id]
	if !ok {
		return nil, directory.ErrListingNotFound
	}
	return listing, nil
}

// Save stores or updates a listing entry.
func (s *DirectoryStore) Save(ctx context.Context, listing *directory.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listing.ID > s.nextListing {
		s.nextListing = listing.ID
	}
	s.listings[listing.ID] = listing
	return nil
}

// NextListingID hands out a fresh identifier.
func (s *DirectoryStore) NextListingID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListing++
	return s.nextListing, nil
}

// PutUser, PutTag, PutImage and PutReservation seed related entities; fixtures
// and tests use them, the engine only reads.
func (s *DirectoryStore) PutUser(user directory.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *DirectoryStore) PutTag(tag directory.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[tag.ID] = tag
}

func (s *DirectoryStore) PutImage(image directory.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[image.ListingID] = append(s.images[image.ListingID], image)
}

func (s *DirectoryStore) PutReservation(reservation directory.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[reservation.ListingID] = append(s.reservations[reservation.ListingID], reservation)
}

// DeleteListing removes a listing and its owned images.
func (s *DirectoryStore) DeleteListing(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, id)
	delete(s.images, id)
	delete(s.reservations, id)
}
