package directory

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrOwnerRequired   = errors.New("directory: owner is required")
	ErrTitleRequired   = errors.New("directory: title is required")
	ErrPriceNegative   = errors.New("directory: price per day must be non-negative")
	ErrDiscountRange   = errors.New("directory: monthly discount must be between 0 and 90")
	ErrCoordinateRange = errors.New("directory: coordinates out of range")
	ErrInvalidState    = errors.New("directory: invalid approval transition")

	// ErrListingNotFound is returned by storage implementations for unknown ids.
	ErrListingNotFound = errors.New("directory: listing not found")
)

// ApprovalState tracks the moderation lifecycle of a listing.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// ReservationStatus enumerates the reservation lifecycle.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Listing is a geographically located directory entry owned by one user.
type Listing struct {
	ID               int64
	OwnerID          int64
	Title            string
	Description      string
	AddressLine      string
	Lat              float64
	Lng              float64
	PricePerDayCents int64
	MonthlyDiscount  int
	Hidden           bool
	Approval         ApprovalState
	TagIDs           []int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	EventRecorder
}

// PubliclyVisible reports whether the listing may appear in public search results.
func (l *Listing) PubliclyVisible() bool {
	return !l.Hidden && l.Approval == ApprovalApproved
}

// Tag is a label shared by any number of listings.
type Tag struct {
	ID    int64
	Label string
}

// Image belongs to exactly one listing and is destroyed with it.
type Image struct {
	ID        int64
	ListingID int64
	Path      string
}

// User owns listings and participates in reservations.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Reservation ties one user to one listing.
type Reservation struct {
	ID        int64
	ListingID int64
	UserID    int64
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository is the write-side storage contract for listings.
type Repository interface {
	ByID(ctx context.Context, id int64) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}

// IDSource hands out fresh listing identifiers.
type IDSource interface {
	NextListingID(ctx context.Context) (int64, error)
}

type CreateListingParams struct {
	ID               int64
	OwnerID          int64
	Title            string
	Description      string
	AddressLine      string
	Lat              float64
	Lng              float64
	PricePerDayCents int64
	MonthlyDiscount  int
	TagIDs           []int64
	Now              time.Time
}

// NewListing builds a listing awaiting moderation.
func NewListing(params CreateListingParams) (*Listing, error) {
	if params.OwnerID <= 0 {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.PricePerDayCents < 0 {
		return nil, ErrPriceNegative
	}
	if params.MonthlyDiscount < 0 || params.MonthlyDiscount > 90 {
		return nil, ErrDiscountRange
	}
	if params.Lat < -90 || params.Lat > 90 || params.Lng < -180 || params.Lng > 180 {
		return nil, ErrCoordinateRange
	}
	now := params.Now.UTC()

	listing := &Listing{
		ID:               params.ID,
		OwnerID:          params.OwnerID,
		Title:            strings.TrimSpace(params.Title),
		Description:      strings.TrimSpace(params.Description),
		AddressLine:      strings.TrimSpace(params.AddressLine),
		Lat:              params.Lat,
		Lng:              params.Lng,
		PricePerDayCents: params.PricePerDayCents,
		MonthlyDiscount:  params.MonthlyDiscount,
		Approval:         ApprovalPending,
		TagIDs:           append([]int64(nil), params.TagIDs...),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	listing.Record(ListingSubmittedEvent{ListingID: listing.ID, OwnerID: listing.OwnerID, At: now})
	return listing, nil
}

// Approve makes the listing eligible for public search.
func (l *Listing) Approve(now time.Time) error {
	if l.Approval == ApprovalApproved {
		return nil
	}
	if l.Approval != ApprovalPending {
		return ErrInvalidState
	}
	l.Approval = ApprovalApproved
	l.UpdatedAt = now.UTC()
	l.Record(ListingApprovedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// Reject takes a pending listing out of the moderation queue.
func (l *Listing) Reject(now time.Time, reason string) error {
	if l.Approval != ApprovalPending {
		return ErrInvalidState
	}
	l.Approval = ApprovalRejected
	l.UpdatedAt = now.UTC()
	l.Record(ListingRejectedEvent{ListingID: l.ID, Reason: reason, At: l.UpdatedAt})
	return nil
}

type UpdateListingParams struct {
	Title            string
	Description      string
	AddressLine      string
	PricePerDayCents int64
	MonthlyDiscount  int
	TagIDs           []int64
	Now              time.Time
}

// UpdateDetails replaces the descriptive attributes of the listing.
func (l *Listing) UpdateDetails(params UpdateListingParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if params.PricePerDayCents < 0 {
		return ErrPriceNegative
	}
	if params.MonthlyDiscount < 0 || params.MonthlyDiscount > 90 {
		return ErrDiscountRange
	}
	l.Title = strings.TrimSpace(params.Title)
	l.Description = strings.TrimSpace(params.Description)
	l.AddressLine = strings.TrimSpace(params.AddressLine)
	l.PricePerDayCents = params.PricePerDayCents
	l.MonthlyDiscount = params.MonthlyDiscount
	l.TagIDs = append([]int64(nil), params.TagIDs...)
	l.UpdatedAt = params.Now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}
