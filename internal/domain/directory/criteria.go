package directory

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Criteria describes one search request. Optional filters are nil when absent;
// the zero value asks for the first default-sized page of visible listings.
type Criteria struct {
	OwnerID       *int64
	ParticipantID *int64
	Lat           *float64
	Lng           *float64
	Page          int
	PageSize      int
}

// Normalized returns a sanitized copy: page and size clamped to valid ranges,
// a lone or out-of-range coordinate treated as no coordinate at all.
func (c Criteria) Normalized() Criteria {
	normalized := c
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.PageSize < 1 {
		normalized.PageSize = DefaultPageSize
	}
	if normalized.PageSize > MaxPageSize {
		normalized.PageSize = MaxPageSize
	}
	if normalized.Lat == nil || normalized.Lng == nil {
		normalized.Lat, normalized.Lng = nil, nil
	} else if *normalized.Lat < -90 || *normalized.Lat > 90 || *normalized.Lng < -180 || *normalized.Lng > 180 {
		normalized.Lat, normalized.Lng = nil, nil
	}
	return normalized
}

// Point returns the query point when both coordinates are present.
func (c Criteria) Point() (Point, bool) {
	if c.Lat == nil || c.Lng == nil {
		return Point{}, false
	}
	return Point{Lat: *c.Lat, Lng: *c.Lng}, true
}

// Filter projects the criteria onto the storage filter surface.
func (c Criteria) Filter() Filter {
	return Filter{OwnerID: c.OwnerID, ParticipantID: c.ParticipantID}
}
