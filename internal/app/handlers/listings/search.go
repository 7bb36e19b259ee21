package listings

import (
	"context"
	"errors"

	"deskhub/internal/app/dto"
	"deskhub/internal/app/queries"
	"deskhub/internal/domain/directory"
)

const searchListingsKey = "listings.search"

var ErrEngineRequired = errors.New("listings: query engine required")

// SearchListingsQuery carries the optional directory filters.
type SearchListingsQuery struct {
	OwnerID       *int64
	ParticipantID *int64
	Lat           *float64
	Lng           *float64
	Page          int
	PageSize      int
}

func (q SearchListingsQuery) Key() string { return searchListingsKey }

// SearchListingsHandler loads one ranked, annotated listing page.
type SearchListingsHandler struct {
	Engine *directory.Engine
}

func (h *SearchListingsHandler) Handle(ctx context.Context, q SearchListingsQuery) (dto.ListingPage, error) {
	if h.Engine == nil {
		return dto.ListingPage{}, ErrEngineRequired
	}
	page, err := h.Engine.Search(ctx, directory.Criteria{
		OwnerID:       q.OwnerID,
		ParticipantID: q.ParticipantID,
		Lat:           q.Lat,
		Lng:           q.Lng,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		return dto.ListingPage{}, err
	}
	return dto.MapPage(page), nil
}

var _ queries.Handler[SearchListingsQuery, dto.ListingPage] = (*SearchListingsHandler)(nil)
