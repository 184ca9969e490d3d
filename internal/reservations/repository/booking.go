package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "staybook/internal/reservations/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.BookingRecord) error
	FindByID(ctx context.Context, id string) (*model.BookingRecord, error)
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingRecord, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
	ExecuteWithRetry(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.CommitMaxAttempts, cfg.CommitRetryBackoff, cfg.Log),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Create inserts a new booking record. IDs are generated client-side so the
// record keeps a stable string ID through transaction retries.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.BookingRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking record: %w", err)
	}

	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var booking model.BookingRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking record: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking records: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.BookingRecord
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode booking records: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count booking records: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions a booking's status with an optimistic guard on the
// current status. A missing match means the record is gone or the status
// already moved on.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": fromStatus}
	update := bson.M{"$set": bson.M{"status": toStatus}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) ExecuteWithRetry(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteWithRetry(ctx, fn)
}
