package service

import (
	"context"
	"errors"

	invrepository "staybook/internal/inventory/repository"
	reserrors "staybook/internal/reservations/errors"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
)

// repositoryCatalog serves catalog lookups straight from the inventory
// collections. Deployments with a separate catalog service use the HTTP
// client instead; the interface hides the difference from the service.
type repositoryCatalog struct {
	rooms    invrepository.RoomInventoryRepository
	services invrepository.ServiceInventoryRepository
}

func NewRepositoryCatalog(rooms invrepository.RoomInventoryRepository, services invrepository.ServiceInventoryRepository) Catalog {
	return &repositoryCatalog{rooms: rooms, services: services}
}

func (c *repositoryCatalog) Room(ctx context.Context, roomID string) (*model.CatalogRoom, error) {
	room, err := c.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, reserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", roomID)
		}
		return nil, apperrors.Internal("failed to read room inventory", err)
	}

	return &model.CatalogRoom{
		ID:            room.ID,
		Name:          room.Name,
		PricePerNight: room.PricePerNight,
		Visible:       true,
	}, nil
}

func (c *repositoryCatalog) Service(ctx context.Context, serviceID string) (*model.CatalogService, error) {
	svc, err := c.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, reserrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("service", serviceID)
		}
		return nil, apperrors.Internal("failed to read service inventory", err)
	}

	return &model.CatalogService{
		ID:              svc.ID,
		Name:            svc.Name,
		Price:           svc.Price,
		DurationMinutes: svc.DurationMinutes,
		Visible:         true,
	}, nil
}
