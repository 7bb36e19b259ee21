package dto

import (
	"time"

	"deskhub/internal/domain/directory"
)

// ListingPage is the paginated search envelope.
type ListingPage struct {
	Data []ListingEntry `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// PageMeta carries enough for the caller to render navigation.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Count       int `json:"count"`
	Total       int `json:"total"`
}

// ListingEntry is one directory hit with its related entities attached.
type ListingEntry struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	AddressLine       string       `json:"address_line"`
	Lat               float64      `json:"lat"`
	Lng               float64      `json:"lng"`
	PricePerDayCents  int64        `json:"price_per_day_cents"`
	MonthlyDiscount   int          `json:"monthly_discount"`
	ApprovalState     string       `json:"approval_state"`
	Hidden            bool         `json:"hidden"`
	Tags              []TagEntry   `json:"tags"`
	Images            []ImageEntry `json:"images"`
	User              UserProfile  `json:"user"`
	ReservationsCount int64        `json:"reservations_count"`
	DistanceKm        *float64     `json:"distance_km,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type TagEntry struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type ImageEntry struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// UserProfile is the public projection of a listing owner.
type UserProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MapPage projects an engine page onto the wire envelope.
func MapPage(page directory.Page) ListingPage {
	entries := make([]ListingEntry, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, MapEntry(entry))
	}
	return ListingPage{
		Data: entries,
		Meta: PageMeta{
			CurrentPage: page.Number,
			PerPage:     page.Size,
			Count:       len(entries),
			Total:       page.Total,
		},
	}
}

// MapEntry copies one enriched listing for frontend consumption.
func MapEntry(entry directory.Entry) ListingEntry {
	listing := entry.Listing
	tags := make([]TagEntry, 0, len(entry.Tags))
	for _, tag := range entry.Tags {
		tags = append(tags, TagEntry{ID: tag.ID, Label: tag.Label})
	}
	images := make([]ImageEntry, 0, len(entry.Images))
	for _, image := range entry.Images {
		images = append(images, ImageEntry{ID: image.ID, Path: image.Path})
	}
	return ListingEntry{
		ID:                listing.ID,
		Title:             listing.Title,
		Description:       listing.Description,
		AddressLine:       listing.AddressLine,
		Lat:               listing.Lat,
		Lng:               listing.Lng,
		PricePerDayCents:  listing.PricePerDayCents,
		MonthlyDiscount:   listing.MonthlyDiscount,
		ApprovalState:     string(listing.Approval),
		Hidden:            listing.Hidden,
		Tags:              tags,
		Images:            images,
		User:              UserProfile{ID: entry.Owner.ID, Name: entry.Owner.Name},
		ReservationsCount: entry.ActiveReservations,
		DistanceKm:        entry.DistanceKm,
		CreatedAt:         listing.CreatedAt,
		UpdatedAt:         listing.UpdatedAt,
	}
}
