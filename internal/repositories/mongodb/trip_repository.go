package mongodb

import (
	"context"
	"fmt"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/services"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type tripRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewTripRepository(db *mongo.Database, cache services.CacheService) interfaces.TripRepository {
	return &tripRepository{
		collection: db.Collection("trips"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	trip.Normalize()

	_, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	if trip, err := r.cache.GetCachedTrip(ctx, id); err == nil && trip != nil {
		return trip, nil
	}

	var trip models.Trip
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	trip.Normalize()
	r.cache.CacheTrip(ctx, &trip, utils.TripCacheTTL)

	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}

	r.cache.InvalidateTrip(ctx, id)

	return nil
}

func (r *tripRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.DeletedCount == 0 {
		return services.ErrNotFound
	}

	r.cache.InvalidateTrip(ctx, id)

	return nil
}

// Search runs the store-expressible predicates. Origin and destination
// are exact matches here; the service layer handles substring fallback
// over the returned page when the store query comes back empty.
func (r *tripRepository) Search(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	query := r.buildSearchQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit())).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "departure_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search trips: %w", err)
	}
	defer cursor.Close(ctx)

	trips, err := decodeTrips(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

func (r *tripRepository) buildSearchQuery(filter *interfaces.TripFilter) bson.M {
	query := bson.M{
		"status": models.TripStatusPublished,
	}

	if !filter.NotBefore.IsZero() {
		query["date"] = bson.M{"$gte": filter.NotBefore}
	}

	if filter.Date != nil {
		start := utils.StartOfDay(*filter.Date)
		query["date"] = bson.M{"$gte": start, "$lte": utils.EndOfDay(*filter.Date)}
	}

	if filter.Origin != "" {
		query["origin"] = filter.Origin
	}

	if filter.Destination != "" {
		query["destination"] = filter.Destination
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	departure := bson.M{}
	if filter.MinDepartureTime != "" {
		departure["$gte"] = filter.MinDepartureTime
	}
	if filter.MaxDepartureTime != "" {
		departure["$lte"] = filter.MaxDepartureTime
	}
	if len(departure) > 0 {
		query["departure_time"] = departure
	}

	if filter.MinSeats > 0 {
		query["available_seats"] = bson.M{"$gte": filter.MinSeats}
	}

	return query
}

func (r *tripRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	query := bson.M{"driver_id": driverID}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count driver trips: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit())).
		SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get driver trips: %w", err)
	}
	defer cursor.Close(ctx)

	trips, err := decodeTrips(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return trips, total, nil
}

func (r *tripRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Trip, error) {
	query := bson.M{
		"status": models.TripStatusPublished,
		"date":   bson.M{"$gte": utils.StartOfDay(time.Now())},
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "departure_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming trips: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeTrips(ctx, cursor)
}

// GetRelated finds other future trips on the same route, excluding the
// trip itself.
func (r *tripRepository) GetRelated(ctx context.Context, trip *models.Trip, limit int) ([]*models.Trip, error) {
	query := bson.M{
		"_id":         bson.M{"$ne": trip.ID},
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"status":      models.TripStatusPublished,
		"date":        bson.M{"$gte": utils.StartOfDay(time.Now())},
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "departure_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get related trips: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeTrips(ctx, cursor)
}

// DecrementSeatsFloored is the best-effort ledger write: read the current
// count, subtract, floor at zero, write back. Two concurrent bookings can
// both read the same stale count and both land; the floor only keeps the
// stored number from going negative.
func (r *tripRepository) DecrementSeatsFloored(ctx context.Context, id primitive.ObjectID, seats int) error {
	trip, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return r.Update(ctx, id, map[string]interface{}{
		"available_seats": flooredSeats(trip.AvailableSeats, seats),
	})
}

// flooredSeats computes the count written back by the best-effort
// decrement. The stored number never goes below zero, no matter how
// stale the read it was computed from.
func flooredSeats(current, booked int) int {
	remaining := current - booked
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DecrementSeatsAtomic refuses to oversell: the filter and the $inc run
// as one store operation, so a concurrent booking that would drive the
// count negative loses instead of landing.
func (r *tripRepository) DecrementSeatsAtomic(ctx context.Context, id primitive.ObjectID, seats int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":             id,
			"available_seats": bson.M{"$gte": seats},
		},
		bson.M{
			"$inc": bson.M{"available_seats": -seats},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement seats: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.NewValidationError("seats", utils.ErrNotEnoughSeats)
	}

	r.cache.InvalidateTrip(ctx, id)

	return nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus) error {
	return r.Update(ctx, id, map[string]interface{}{
		"status": status,
	})
}

func (r *tripRepository) GetPopularCities(ctx context.Context, limit int) ([]*models.CityCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": models.TripStatusPublished,
			"date":   bson.M{"$gte": utils.StartOfDay(time.Now())},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$origin",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate popular cities: %w", err)
	}
	defer cursor.Close(ctx)

	var cities []*models.CityCount
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("failed to decode popular cities: %w", err)
	}

	return cities, nil
}

func (r *tripRepository) CountByDriverAndStatus(ctx context.Context, driverID primitive.ObjectID, status models.TripStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"driver_id": driverID,
		"status":    status,
	})
}

func (r *tripRepository) GetCompletedByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Trip, error) {
	opts := options.Find().
		SetSort(bson.M{"date": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{
		"driver_id": driverID,
		"status":    models.TripStatusCompleted,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find completed trips: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeTrips(ctx, cursor)
}

func (r *tripRepository) GetDriverRouteCounts(ctx context.Context, driverID primitive.ObjectID, limit int) ([]models.FrequentRoute, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"driver_id": driverID,
			"status":    models.TripStatusCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"origin": "$origin", "destination": "$destination"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"origin":      "$_id.origin",
			"destination": "$_id.destination",
			"count":       1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate driver routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []models.FrequentRoute
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("failed to decode driver routes: %w", err)
	}

	return routes, nil
}

func (r *tripRepository) GetTotalCount(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func decodeTrips(ctx context.Context, cursor *mongo.Cursor) ([]*models.Trip, error) {
	var trips []*models.Trip
	for cursor.Next(ctx) {
		var trip models.Trip
		if err := cursor.Decode(&trip); err != nil {
			return nil, fmt.Errorf("failed to decode trip: %w", err)
		}
		trip.Normalize()
		trips = append(trips, &trip)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("trip cursor error: %w", err)
	}

	return trips, nil
}
