package repository

import (
	"context"
	"time"

	bookingserrors "parkspot/internal/bookings/errors"
	"parkspot/pkg/config"
	"parkspot/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides the advisory locks that serialize
// booking creation per spot and day. A lock is a unique _id insert; a TTL
// index on expires_at reaps locks a crashed holder never released.
type BookingLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error) {
	now := time.Now().UTC()
	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockHeld
		}
		return nil, err
	}

	return lock, nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
