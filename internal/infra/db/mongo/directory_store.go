package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deskhub/internal/domain/directory"
)

// DirectoryStore backs the query engine with MongoDB collections. The
// participant filter runs as a semi-join (distinct listing ids from the
// reservations collection, then $in), so a listing never appears twice, and
// reservation counts come from a grouped aggregation.
type DirectoryStore struct {
	listings     *mongo.Collection
	reservations *mongo.Collection
	tags         *mongo.Collection
	images       *mongo.Collection
	users        *mongo.Collection
	counters     *mongo.Collection
}

func NewDirectoryStore(db *mongo.Database) *DirectoryStore {
	return &DirectoryStore{
		listings:     db.Collection("dir_listing"),
		reservations: db.Collection("dir_reservation"),
		tags:         db.Collection("dir_tag"),
		images:       db.Collection("dir_image"),
		users:        db.Collection("dir_user"),
		counters:     db.Collection("dir_counters"),
	}
}

func (s *DirectoryStore) MatchingListings(ctx context.Context, filter directory.Filter) ([]*directory.Listing, error) {
	match := bson.M{
		"hidden":   false,
		"approval": string(directory.ApprovalApproved),
	}
	if filter.OwnerID != nil {
		match["owner_id"] = *filter.OwnerID
	}
	if filter.ParticipantID != nil {
		ids, err := s.reservations.Distinct(ctx, "listing_id", bson.M{"user_id": *filter.ParticipantID})
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
		match["_id"] = bson.M{"$in": ids}
	}

	cursor, err := s.listings.Find(ctx, match)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*directory.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (s *DirectoryStore) ActiveReservationCounts(ctx context.Context, listingIDs []int64) (map[int64]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"listing_id": bson.M{"$in": listingIDs},
			"status":     string(directory.ReservationActive),
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$listing_id",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.reservations.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[int64]int64, len(listingIDs))
	for cursor.Next(ctx) {
		var row struct {
			ListingID int64 `bson:"_id"`
			Count     int64 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ListingID] = row.Count
	}
	return counts, cursor.Err()
}

func (s *DirectoryStore) Relations(ctx context.Context, listings []*directory.Listing) (directory.Relations, error) {
	rel := directory.Relations{
		Tags:   make(map[int64][]directory.Tag, len(listings)),
		Images: make(map[int64][]directory.Image, len(listings)),
		Owners: make(map[int64]directory.User, len(listings)),
	}
	if len(listings) == 0 {
		return rel, nil
	}

	listingIDs := make([]int64, 0, len(listings))
	tagIDSet := map[int64]struct{}{}
	ownerIDSet := map[int64]struct{}{}
	for _, l := range listings {
		listingIDs = append(listingIDs, l.ID)
		ownerIDSet[l.OwnerID] = struct{}{}
		for _, tagID := range l.TagIDs {
			tagIDSet[tagID] = struct{}{}
		}
	}

	tagsByID, err := s.loadTags(ctx, keys(tagIDSet))
	if err != nil {
		return directory.Relations{}, err
	}
	for _, l := range listings {
		for _, tagID := range l.TagIDs {
			if tag, ok := tagsByID[tagID]; ok {
				rel.Tags[l.ID] = append(rel.Tags[l.ID], tag)
			}
		}
	}

	if err := s.loadImages(ctx, listingIDs, rel.Images); err != nil {
		return directory.Relations{}, err
	}
	if err := s.loadOwners(ctx, keys(ownerIDSet), rel.Owners); err != nil {
		return directory.Relations{}, err
	}
	return rel, nil
}

func (s *DirectoryStore) ByID(ctx context.Context, id int64) (*directory.Listing, error) {
	var doc listingDocument
	if err := s.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, directory.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (s *DirectoryStore) Save(ctx context.Context, listing *directory.Listing) error {
	doc := newListingDocument(listing)
	opts := options.Replace().SetUpsert(true)
	_, err := s.listings.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (s *DirectoryStore) NextListingID(ctx context.Context) (int64, error) {
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var row struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx, bson.M{"_id": "listing"}, update, opts).Decode(&row)
	if err != nil {
		return 0, err
	}
	return row.Seq, nil
}

func (s *DirectoryStore) loadTags(ctx context.Context, ids []int64) (map[int64]directory.Tag, error) {
	out := make(map[int64]directory.Tag, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.tags.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc tagDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.ID] = directory.Tag{ID: doc.ID, Label: doc.Label}
	}
	return out, cursor.Err()
}

func (s *DirectoryStore) loadImages(ctx context.Context, listingIDs []int64, dst map[int64][]directory.Image) error {
	cursor, err := s.images.Find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc imageDocument
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		dst[doc.ListingID] = append(dst[doc.ListingID], directory.Image{ID: doc.ID, ListingID: doc.ListingID, Path: doc.Path})
	}
	return cursor.Err()
}

func (s *DirectoryStore) loadOwners(ctx context.Context, ids []int64, dst map[int64]directory.User) error {
	if len(ids) == 0 {
		return nil
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		dst[doc.ID] = directory.User{ID: doc.ID, Name: doc.Name, Email: doc.Email, CreatedAt: timestampToTime(doc.CreatedAt)}
	}
	return cursor.Err()
}

func keys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

type listingDocument struct {
	ID               int64   `bson:"_id"`
	OwnerID          int64   `bson:"owner_id"`
	Title            string  `bson:"title"`
	Description      string  `bson:"description"`
	AddressLine      string  `bson:"address_line"`
	Lat              float64 `bson:"lat"`
	Lng              float64 `bson:"lng"`
	PricePerDayCents int64   `bson:"price_per_day_cents"`
	MonthlyDiscount  int     `bson:"monthly_discount"`
	Hidden           bool    `bson:"hidden"`
	Approval         string  `bson:"approval"`
	TagIDs           []int64 `bson:"tag_ids"`
	CreatedAt        int64   `bson:"created_at"`
	UpdatedAt        int64   `bson:"updated_at"`
}

func newListingDocument(l *directory.Listing) listingDocument {
	return listingDocument{
		ID:               l.ID,
		OwnerID:          l.OwnerID,
		Title:            l.Title,
		Description:      l.Description,
		AddressLine:      l.AddressLine,
		Lat:              l.Lat,
		Lng:              l.Lng,
		PricePerDayCents: l.PricePerDayCents,
		MonthlyDiscount:  l.MonthlyDiscount,
		Hidden:           l.Hidden,
		Approval:         string(l.Approval),
		TagIDs:           append([]int64(nil), l.TagIDs...),
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *directory.Listing {
	return &directory.Listing{
		ID:               d.ID,
		OwnerID:          d.OwnerID,
		Title:            d.Title,
		Description:      d.Description,
		AddressLine:      d.AddressLine,
		Lat:              d.Lat,
		Lng:              d.Lng,
		PricePerDayCents: d.PricePerDayCents,
		MonthlyDiscount:  d.MonthlyDiscount,
		Hidden:           d.Hidden,
		Approval:         directory.ApprovalState(d.Approval),
		TagIDs:           append([]int64(nil), d.TagIDs...),
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
	}
}

type tagDocument struct {
	ID    int64  `bson:"_id"`
	Label string `bson:"label"`
}

type imageDocument struct {
	ID        int64  `bson:"_id"`
	ListingID int64  `bson:"listing_id"`
	Path      string `bson:"path"`
}

type userDocument struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	CreatedAt int64  `bson:"created_at"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
