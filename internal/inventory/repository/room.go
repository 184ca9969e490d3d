package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "staybook/internal/reservations/errors"
	"staybook/pkg/config"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollectionName = "RoomInventory"

	bookedByDateField = "booked_by_date"
)

type mongoRoomInventoryRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type RoomInventoryRepository interface {
	FindByID(ctx context.Context, id string) (*model.RoomInventory, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.RoomInventory, error)
	Count(ctx context.Context) (int64, error)
	IncrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error
	DecrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error
}

func NewMongoRoomInventoryRepository(cfg *config.Config) RoomInventoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomInventoryRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(RoomCollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoRoomInventoryRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoRoomInventoryRepository) FindByID(ctx context.Context, id string) (*model.RoomInventory, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.RoomInventory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room inventory: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomInventoryRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.RoomInventory, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find room inventories: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.RoomInventory
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode room inventories: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomInventoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count room inventories: %w", err)
	}
	return count, nil
}

// IncrementNights adds quantity to the booked count of every night in one
// update. Callers must have verified capacity inside the same transaction.
func (r *mongoRoomInventoryRepository) IncrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	inc := bson.M{}
	for _, night := range nights {
		inc[bookedByDateField+"."+string(night)] = quantity
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": roomID}, bson.M{"$inc": inc})
	if err != nil {
		return fmt.Errorf("failed to increment room nights: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrRoomNotFound
	}

	return nil
}

// DecrementNights releases quantity from every night, clamping each count at
// zero so a double release can never drive a counter negative.
func (r *mongoRoomInventoryRepository) DecrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{}
	for _, night := range nights {
		field := bookedByDateField + "." + string(night)
		set[field] = bson.M{
			"$max": bson.A{0, bson.M{
				"$subtract": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, quantity},
			}},
		}
	}

	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": roomID}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to decrement room nights: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrRoomNotFound
	}

	return nil
}
