package listings

import (
	"context"

	"deskhub/internal/app/dto"
	"deskhub/internal/app/queries"
	"deskhub/internal/domain/directory"
)

const getListingKey = "listings.get"

// GetListingQuery asks for a single enriched listing.
type GetListingQuery struct {
	ListingID int64
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	Engine     *directory.Engine
	Repository directory.Repository
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingEntry, error) {
	if h.Engine == nil || h.Repository == nil {
		return dto.ListingEntry{}, ErrEngineRequired
	}
	entry, err := h.Engine.Get(ctx, h.Repository, q.ListingID)
	if err != nil {
		return dto.ListingEntry{}, err
	}
	return dto.MapEntry(entry), nil
}

var _ queries.Handler[GetListingQuery, dto.ListingEntry] = (*GetListingHandler)(nil)
