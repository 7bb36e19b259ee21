package directory

import (
	"context"
	"sort"
)

// Relations carries the batched related entities for one page of listings.
// Tags and Images are keyed by listing id, Owners by user id.
type Relations struct {
	Tags   map[int64][]Tag
	Images map[int64][]Image
	Owners map[int64]User
}

// Store is the read interface to the storage collaborator. MatchingListings
// returns every listing satisfying the filter (visibility included); the other
// two answer batched lookups for one page's worth of listings. Storage errors
// are propagated unchanged.
type Store interface {
	MatchingListings(ctx context.Context, filter Filter) ([]*Listing, error)
	ActiveReservationCounts(ctx context.Context, listingIDs []int64) (map[int64]int64, error)
	Relations(ctx context.Context, listings []*Listing) (Relations, error)
}

// Engine turns a criteria object into a ranked, annotated page. It is
// stateless; concurrent Search calls need no coordination.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Search applies the composed filters, ranks by distance when a query point is
// present (ascending id otherwise), slices the requested page, and enriches
// only the returned listings with counts, tags, images and owners.
func (e *Engine) Search(ctx context.Context, criteria Criteria) (Page, error) {
	c := criteria.Normalized()

	listings, err := e.store.MatchingListings(ctx, c.Filter())
	if err != nil {
		return Page{}, err
	}

	point, ranked := c.Point()
	distances := rank(listings, point, ranked)
	total := len(listings)

	pageItems := slicePage(listings, c.Page, c.PageSize)
	entries, err := e.enrich(ctx, pageItems, distances)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Entries: entries,
		Number:  c.Page,
		Size:    c.PageSize,
		Total:   total,
	}, nil
}

// Get loads one listing enriched the same way as a search entry. Visibility is
// not enforced here: the single-listing surface shows pending entries too.
func (e *Engine) Get(ctx context.Context, repo Repository, id int64) (Entry, error) {
	listing, err := repo.ByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	entries, err := e.enrich(ctx, []*Listing{listing}, nil)
	if err != nil {
		return Entry{}, err
	}
	return entries[0], nil
}

// rank orders listings in place: by ascending haversine distance from the
// query point with ascending id breaking ties, or by ascending id alone when
// no point was supplied. Returns the per-listing distances when ranked.
func rank(listings []*Listing, point Point, byDistance bool) map[int64]float64 {
	if !byDistance {
		sort.Slice(listings, func(i, j int) bool {
			return listings[i].ID < listings[j].ID
		})
		return nil
	}
	distances := make(map[int64]float64, len(listings))
	for _, l := range listings {
		distances[l.ID] = Haversine(point, Point{Lat: l.Lat, Lng: l.Lng})
	}
	sort.Slice(listings, func(i, j int) bool {
		di, dj := distances[listings[i].ID], distances[listings[j].ID]
		if di == dj {
			return listings[i].ID < listings[j].ID
		}
		return di < dj
	})
	return distances
}

func (e *Engine) enrich(ctx context.Context, listings []*Listing, distances map[int64]float64) ([]Entry, error) {
	if len(listings) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	counts, err := e.store.ActiveReservationCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	relations, err := e.store.Relations(ctx, listings)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(listings))
	for _, l := range listings {
		entry := Entry{
			Listing:            l,
			Tags:               relations.Tags[l.ID],
			Images:             relations.Images[l.ID],
			Owner:              relations.Owners[l.OwnerID],
			ActiveReservations: counts[l.ID],
		}
		if distances != nil {
			d := distances[l.ID]
			entry.DistanceKm = &d
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
