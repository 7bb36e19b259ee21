package directory

// Entry is one ranked search hit enriched with its related entities.
type Entry struct {
	Listing            *Listing
	Tags               []Tag
	Images             []Image
	Owner              User
	ActiveReservations int64
	// DistanceKm is set only when the search ranked by distance.
	DistanceKm *float64
}

// Page is a bounded slice of the ranked result set plus pagination metadata.
type Page struct {
	Entries []Entry
	Number  int
	Size    int
	Total   int
}

// slicePage returns the items in positions [(number-1)*size, number*size).
// Assumes number and size already validated; ranges beyond the data yield an
// empty slice, never an error.
func slicePage[T any](items []T, number, size int) []T {
	start := (number - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
