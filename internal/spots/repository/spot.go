package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	spotserrors "parkspot/internal/spots/errors"
	"parkspot/pkg/config"
	mongotx "parkspot/pkg/db/mongo"
	"parkspot/pkg/model"
	"parkspot/pkg/schedule"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Spots"
)

// NearbyFilter is the storage-level part of a discovery query: geo radius,
// weekday flag, window overlap, optional price cap, owner exclusion.
// Booking-conflict filtering happens in the service on top of this.
type NearbyFilter struct {
	Longitude     float64
	Latitude      float64
	RadiusMeters  int
	Weekday       time.Weekday
	WindowStart   string
	WindowEnd     string
	MaxPrice      *float64
	ExcludeOwner  string
}

type SpotRepository interface {
	Create(ctx context.Context, spot *model.Spot) error
	FindByID(ctx context.Context, id string) (*model.Spot, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Spot, error)
	Update(ctx context.Context, id string, spot *model.Spot) error
	UpdateWindow(ctx context.Context, id string, window schedule.Window) error
	SetAvailability(ctx context.Context, id string, available bool) error
	FindNearby(ctx context.Context, filter NearbyFilter) ([]*model.Spot, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSpotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSpotRepository(cfg *config.Config) SpotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoSpotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSpotRepository) Create(ctx context.Context, spot *model.Spot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if spot.ID == "" {
		spot.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	spot.CreatedAt = now
	spot.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, spot); err != nil {
		return fmt.Errorf("failed to create spot: %w", err)
	}
	return nil
}

func (r *mongoSpotRepository) FindByID(ctx context.Context, id string) (*model.Spot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", spotserrors.ErrInvalidID, id)
	}

	var spot model.Spot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&spot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, spotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find spot: %w", err)
	}

	return &spot, nil
}

func (r *mongoSpotRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Spot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find spots by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var spots []*model.Spot
	if err = cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode spots: %w", err)
	}

	return spots, nil
}

func (r *mongoSpotRepository) Update(ctx context.Context, id string, spot *model.Spot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":           spot.Name,
			"address":        spot.Address,
			"location":       spot.Location,
			"available_days": spot.AvailableDays,
			"is_covered":     spot.IsCovered,
			"size":           spot.Size,
			"hourly_rate":    spot.HourlyRate,
			"description":    spot.Description,
			"images":         spot.Images,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update spot: %w", err)
	}
	if result.MatchedCount == 0 {
		return spotserrors.ErrNotFound
	}
	return nil
}

func (r *mongoSpotRepository) UpdateWindow(ctx context.Context, id string, window schedule.Window) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"window":     window,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update spot window: %w", err)
	}
	if result.MatchedCount == 0 {
		return spotserrors.ErrNotFound
	}
	return nil
}

func (r *mongoSpotRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_available": available,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to toggle spot availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return spotserrors.ErrNotFound
	}
	return nil
}

// FindNearby runs the geo query against the 2dsphere index. The window
// check is an overlap test between the spot window and the requested
// window, matching how the rest of the engine treats intervals.
func (r *mongoSpotRepository) FindNearby(ctx context.Context, filter NearbyFilter) ([]*model.Spot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{filter.Longitude, filter.Latitude},
				},
				"$maxDistance": filter.RadiusMeters,
			},
		},
		"available_days." + schedule.DayName(filter.Weekday): true,
		"is_available": true,
		"window.start": bson.M{"$lt": filter.WindowEnd},
		"window.end":   bson.M{"$gt": filter.WindowStart},
	}

	if filter.MaxPrice != nil {
		query["hourly_rate"] = bson.M{"$lte": *filter.MaxPrice}
	}
	if filter.ExcludeOwner != "" {
		query["owner_id"] = bson.M{"$ne": filter.ExcludeOwner}
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby spots: %w", err)
	}
	defer cursor.Close(ctx)

	var spots []*model.Spot
	if err = cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode nearby spots: %w", err)
	}

	return spots, nil
}

func (r *mongoSpotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
