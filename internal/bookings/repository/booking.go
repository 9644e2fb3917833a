package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "parkspot/internal/bookings/errors"
	"parkspot/pkg/config"
	mongotx "parkspot/pkg/db/mongo"
	"parkspot/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"

	// Guard "recent" listings look back this many days.
	RecentHorizonDays = 10
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByCode(ctx context.Context, code string) (*model.Booking, error)
	FindByRenter(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, error)
	CountByRenter(ctx context.Context, renterID string) (int64, error)
	FindActiveBySpotDate(ctx context.Context, spotID, date string) ([]*model.Booking, error)
	HasActiveOverlap(ctx context.Context, spotID, date, startTime, endTime string) (bool, error)
	FindUpcomingBySpot(ctx context.Context, spotID, fromDate string) ([]*model.Booking, error)
	FindRecentBySpot(ctx context.Context, spotID, today string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error)
	SetQRCode(ctx context.Context, id, qrCode string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by code: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByRenter(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "date", Value: -1},
			{Key: "start_time", Value: -1},
		}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.findMany(ctx, bson.M{"renter_id": renterID}, opts)
}

func (r *mongoBookingRepository) CountByRenter(ctx context.Context, renterID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"renter_id": renterID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindActiveBySpotDate returns the spot's occupying bookings for one day,
// sorted by start time, as the free-interval walk expects.
func (r *mongoBookingRepository) FindActiveBySpotDate(ctx context.Context, spotID, date string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	return r.findMany(ctx, bson.M{
		"spot_id": spotID,
		"date":    date,
		"status":  bson.M{"$in": model.ActiveStatuses},
	}, opts)
}

// HasActiveOverlap is the conflict detector's storage query. Times are
// zero-padded HH:MM strings so lexicographic comparison is minute
// comparison; intervals are half-open, back-to-back bookings do not
// conflict.
func (r *mongoBookingRepository) HasActiveOverlap(ctx context.Context, spotID, date, startTime, endTime string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"spot_id":    spotID,
		"date":       date,
		"status":     bson.M{"$in": model.ActiveStatuses},
		"start_time": bson.M{"$lt": endTime},
		"end_time":   bson.M{"$gt": startTime},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return count > 0, nil
}

func (r *mongoBookingRepository) FindUpcomingBySpot(ctx context.Context, spotID, fromDate string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "start_time", Value: 1},
	})
	return r.findMany(ctx, bson.M{
		"spot_id": spotID,
		"date":    bson.M{"$gte": fromDate},
		"status":  bson.M{"$in": model.ActiveStatuses},
	}, opts)
}

// FindRecentBySpot returns the guard's recent tab: the last
// RecentHorizonDays of non-cancelled bookings up to and including today.
func (r *mongoBookingRepository) FindRecentBySpot(ctx context.Context, spotID, today string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", today, err)
	}
	horizon := day.AddDate(0, 0, -RecentHorizonDays).Format("2006-01-02")

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "start_time", Value: -1},
	})
	return r.findMany(ctx, bson.M{
		"spot_id": spotID,
		"date":    bson.M{"$gte": horizon, "$lte": today},
		"status":  bson.M{"$ne": model.StatusCancelled},
	}, opts)
}

// UpdateStatus performs a compare-and-swap transition: the update only
// matches while the booking is still in one of the expected states. A
// false return means the booking is missing or already moved on.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": from},
		},
		bson.M{
			"$set": bson.M{
				"status":     to,
				"updated_at": time.Now().UTC().Truncate(time.Millisecond),
			},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *mongoBookingRepository) SetQRCode(ctx context.Context, id, qrCode string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"qr_code": qrCode}},
	)
	if err != nil {
		return fmt.Errorf("failed to store booking QR code: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}
