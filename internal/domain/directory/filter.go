package directory

// Filter is the typed conjunction of optional listing filters. The visibility
// constraint is implied and not caller-controlled. Storage implementations may
// translate it to their native query surface or evaluate Predicate directly.
type Filter struct {
	OwnerID       *int64
	ParticipantID *int64
}

// Predicate evaluates one listing together with its reservations. Reservations
// are consulted for existence only, so a listing never matches more than once
// no matter how many qualifying reservations it has.
type Predicate func(listing *Listing, reservations []Reservation) bool

// All composes predicates with logical AND. The result set is independent of
// the order the parts are supplied in.
func All(preds ...Predicate) Predicate {
	return func(listing *Listing, reservations []Reservation) bool {
		for _, pred := range preds {
			if !pred(listing, reservations) {
				return false
			}
		}
		return true
	}
}

// Visible keeps listings that are not hidden and approved.
func Visible() Predicate {
	return func(listing *Listing, _ []Reservation) bool {
		return listing.PubliclyVisible()
	}
}

// OwnedBy keeps listings owned by the given user.
func OwnedBy(ownerID int64) Predicate {
	return func(listing *Listing, _ []Reservation) bool {
		return listing.OwnerID == ownerID
	}
}

// ReservedBy keeps listings with at least one reservation by the given user,
// regardless of reservation status.
func ReservedBy(userID int64) Predicate {
	return func(_ *Listing, reservations []Reservation) bool {
		for _, r := range reservations {
			if r.UserID == userID {
				return true
			}
		}
		return false
	}
}

// Predicate builds the executable conjunction for the filter. Absent optional
// filters contribute no constraint.
func (f Filter) Predicate() Predicate {
	preds := []Predicate{Visible()}
	if f.OwnerID != nil {
		preds = append(preds, OwnedBy(*f.OwnerID))
	}
	if f.ParticipantID != nil {
		preds = append(preds, ReservedBy(*f.ParticipantID))
	}
	return All(preds...)
}
