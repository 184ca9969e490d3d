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
	ServiceCollectionName = "ServiceInventory"

	bookedByDateTimeField = "booked_by_date_time"
)

type mongoServiceInventoryRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ServiceInventoryRepository interface {
	FindByID(ctx context.Context, id string) (*model.ServiceInventory, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ServiceInventory, error)
	Count(ctx context.Context) (int64, error)
	IncrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error
	DecrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error
}

func NewMongoServiceInventoryRepository(cfg *config.Config) ServiceInventoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceInventoryRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(ServiceCollectionName),
	}
}

func (r *mongoServiceInventoryRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoServiceInventoryRepository) FindByID(ctx context.Context, id string) (*model.ServiceInventory, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var svc model.ServiceInventory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&svc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service inventory: %w", err)
	}

	return &svc, nil
}

func (r *mongoServiceInventoryRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ServiceInventory, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service inventories: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.ServiceInventory
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode service inventories: %w", err)
	}

	return services, nil
}

func (r *mongoServiceInventoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count service inventories: %w", err)
	}
	return count, nil
}

// IncrementSlot adds quantity to the booked count of one date and slot.
// Callers must have verified slot capacity inside the same transaction.
func (r *mongoServiceInventoryRepository) IncrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	field := bookedByDateTimeField + "." + string(date) + "." + string(slot)
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": serviceID}, bson.M{"$inc": bson.M{field: quantity}})
	if err != nil {
		return fmt.Errorf("failed to increment service slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrServiceNotFound
	}

	return nil
}

// DecrementSlot releases quantity from one date and slot, clamped at zero.
func (r *mongoServiceInventoryRepository) DecrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	field := bookedByDateTimeField + "." + string(date) + "." + string(slot)
	pipeline := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		field: bson.M{
			"$max": bson.A{0, bson.M{
				"$subtract": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, quantity},
			}},
		},
	}}}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": serviceID}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to decrement service slot: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrServiceNotFound
	}

	return nil
}
