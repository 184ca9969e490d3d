package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"staybook/internal/availability"
	"staybook/internal/carts"
	invrepository "staybook/internal/inventory/repository"
	reserrors "staybook/internal/reservations/errors"
	"staybook/internal/reservations/repository"
	"staybook/internal/reservations/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Catalog resolves display metadata and nominal prices for rooms and
// services. The engine locks the returned price into the cart; later catalog
// price changes never affect existing selections.
type Catalog interface {
	Room(ctx context.Context, roomID string) (*model.CatalogRoom, error)
	Service(ctx context.Context, serviceID string) (*model.CatalogService, error)
}

// EventPublisher emits booking lifecycle events. Publishing is best-effort;
// a failed publish never rolls back a committed booking.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// NightAvailability is the remaining capacity of one room type on one night.
type NightAvailability struct {
	Night     model.DateKey `json:"night"`
	Remaining int           `json:"remaining"`
}

// RoomAvailabilityResult answers a stay-range availability query.
type RoomAvailabilityResult struct {
	RoomID        string              `json:"room_id"`
	Name          string              `json:"name"`
	PricePerNight model.Money         `json:"price_per_night"`
	DailyCapacity int                 `json:"daily_capacity"`
	Available     int                 `json:"available"`
	Nights        []NightAvailability `json:"nights"`
}

// DateAvailability is the best single-slot remainder of a service on one date.
type DateAvailability struct {
	Date      model.DateKey `json:"date"`
	Remaining int           `json:"remaining"`
}

// ServiceRangeAvailabilityResult answers a date-range availability query.
type ServiceRangeAvailabilityResult struct {
	ServiceID string             `json:"service_id"`
	Name      string             `json:"name"`
	Available int                `json:"available"`
	Dates     []DateAvailability `json:"dates"`
}

// ServiceAvailabilityResult lists the still-bookable slots of one date with
// their remaining capacity.
type ServiceAvailabilityResult struct {
	ServiceID string                          `json:"service_id"`
	Name      string                          `json:"name"`
	Date      model.DateKey                   `json:"date"`
	Slots     []availability.SlotAvailability `json:"slots"`
}

type ReservationService interface {
	SetStay(ctx context.Context, sessionID string, checkIn, checkOut time.Time) (*model.Cart, error)
	SelectRoom(ctx context.Context, sessionID, roomID string, quantity int, priceOverride *int64) (*model.Cart, error)
	RemoveRoom(ctx context.Context, sessionID, roomID string) (*model.Cart, error)
	AddService(ctx context.Context, sessionID, serviceID string, quantity int, scheduledAt time.Time, priceOverride *int64) (*model.Cart, error)
	RemoveService(ctx context.Context, sessionID string, index int) (*model.Cart, error)
	GetCart(ctx context.Context, sessionID string) (*model.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error

	Commit(ctx context.Context, sessionID, userID string) (*model.BookingRecord, error)
	Cancel(ctx context.Context, bookingID, userID string) (*model.BookingRecord, error)
	GetBooking(ctx context.Context, bookingID string) (*model.BookingRecord, error)
	ListBookingsByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingRecord, int64, error)

	RoomAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*RoomAvailabilityResult, error)
	ServiceAvailability(ctx context.Context, serviceID string, date model.DateKey) (*ServiceAvailabilityResult, error)
	ServiceAvailabilityRange(ctx context.Context, serviceID string, checkIn, checkOut time.Time) (*ServiceRangeAvailabilityResult, error)
	ListRooms(ctx context.Context, limit int, offset int64) ([]*model.RoomInventory, int64, error)
	ListServices(ctx context.Context, limit int, offset int64) ([]*model.ServiceInventory, int64, error)
}

type reservationService struct {
	cfg         *config.Config
	bookingRepo repository.BookingRepository
	roomRepo    invrepository.RoomInventoryRepository
	serviceRepo invrepository.ServiceInventoryRepository
	carts       *carts.Store
	calc        *availability.Calculator
	catalog     Catalog
	validator   *validator.CartValidator
	producer    EventPublisher
	logger      *logger.Logger
}

func NewReservationService(
	cfg *config.Config,
	bookingRepo repository.BookingRepository,
	roomRepo invrepository.RoomInventoryRepository,
	serviceRepo invrepository.ServiceInventoryRepository,
	cartStore *carts.Store,
	calc *availability.Calculator,
	catalog Catalog,
	cartValidator *validator.CartValidator,
	producer EventPublisher,
	log *logger.Logger,
) ReservationService {
	return &reservationService{
		cfg:         cfg,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		serviceRepo: serviceRepo,
		carts:       cartStore,
		calc:        calc,
		catalog:     catalog,
		validator:   cartValidator,
		producer:    producer,
		logger:      log,
	}
}

func (s *reservationService) SetStay(ctx context.Context, sessionID string, checkIn, checkOut time.Time) (*model.Cart, error) {
	err := s.carts.Update(sessionID, func(cart *model.Cart) error {
		return cart.SetStay(checkIn, checkOut)
	})
	if err != nil {
		return nil, cartError(err)
	}

	s.logger.Info("Stay dates set",
		"session_id", sessionID,
		"check_in", checkIn.Format(model.DateKeyLayout),
		"check_out", checkOut.Format(model.DateKeyLayout),
	)

	return s.snapshot(sessionID)
}

func (s *reservationService) SelectRoom(ctx context.Context, sessionID, roomID string, quantity int, priceOverride *int64) (*model.Cart, error) {
	room, err := s.catalog.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// An override replaces the amount only; the catalog currency stays.
	price := room.PricePerNight
	if priceOverride != nil {
		price = model.NewMoney(*priceOverride, price.Currency)
	}

	err = s.carts.Update(sessionID, func(cart *model.Cart) error {
		return cart.UpsertRoom(room.ID, room.Name, price, quantity)
	})
	if err != nil {
		return nil, cartError(err)
	}

	s.logger.Info("Room selected",
		"session_id", sessionID,
		"room_id", roomID,
		"quantity", quantity,
	)

	return s.snapshot(sessionID)
}

func (s *reservationService) RemoveRoom(ctx context.Context, sessionID, roomID string) (*model.Cart, error) {
	err := s.carts.Update(sessionID, func(cart *model.Cart) error {
		cart.RemoveRoom(roomID)
		return nil
	})
	if err != nil {
		return nil, cartError(err)
	}

	return s.snapshot(sessionID)
}

func (s *reservationService) AddService(ctx context.Context, sessionID, serviceID string, quantity int, scheduledAt time.Time, priceOverride *int64) (*model.Cart, error) {
	svc, err := s.catalog.Service(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	price := svc.Price
	if priceOverride != nil {
		price = model.NewMoney(*priceOverride, price.Currency)
	}

	err = s.carts.Update(sessionID, func(cart *model.Cart) error {
		return cart.AddService(svc.ID, svc.Name, price, quantity, scheduledAt)
	})
	if err != nil {
		return nil, cartError(err)
	}

	s.logger.Info("Service added to cart",
		"session_id", sessionID,
		"service_id", serviceID,
		"quantity", quantity,
		"scheduled_at", scheduledAt.Format(time.RFC3339),
	)

	return s.snapshot(sessionID)
}

func (s *reservationService) RemoveService(ctx context.Context, sessionID string, index int) (*model.Cart, error) {
	err := s.carts.Update(sessionID, func(cart *model.Cart) error {
		return cart.RemoveService(index)
	})
	if err != nil {
		return nil, cartError(err)
	}

	return s.snapshot(sessionID)
}

func (s *reservationService) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	return s.snapshot(sessionID)
}

func (s *reservationService) ClearCart(ctx context.Context, sessionID string) error {
	s.carts.Remove(sessionID)
	return nil
}

// Commit turns the session's cart into a confirmed booking inside one
// transaction: every capacity check and counter increment either all apply
// or none do. Conflicted attempts are retried with backoff; capacity
// violations abort immediately. Commit is not idempotent, a second commit of
// a rebuilt cart books again.
func (s *reservationService) Commit(ctx context.Context, sessionID, userID string) (*model.BookingRecord, error) {
	cart, ok := s.carts.Snapshot(sessionID)
	if !ok {
		return nil, apperrors.Validation("cart is empty", nil)
	}

	if err := s.validator.ValidateForCommit(cart); err != nil {
		return nil, apperrors.Validation("cart cannot be committed", map[string]any{
			"reason": err.Error(),
		})
	}

	nights := model.NightKeys(cart.CheckIn, cart.CheckOut)

	// Stable order keeps overlapping commits touching rooms in the same
	// sequence, which narrows the conflict window.
	roomIDs := make([]string, 0, len(cart.Rooms))
	for roomID := range cart.Rooms {
		roomIDs = append(roomIDs, roomID)
	}
	sort.Strings(roomIDs)

	var record *model.BookingRecord

	err := s.bookingRepo.ExecuteWithRetry(ctx, func(sessCtx mongo.SessionContext) error {
		bookedRooms := make([]model.BookedRoom, 0, len(roomIDs))

		for _, roomID := range roomIDs {
			sel := cart.Rooms[roomID]

			room, err := s.roomRepo.FindByID(sessCtx, roomID)
			if err != nil {
				if errors.Is(err, reserrors.ErrRoomNotFound) {
					return apperrors.NotFoundWithID("room inventory", roomID)
				}
				return apperrors.Internal("failed to read room inventory", err)
			}

			for _, night := range nights {
				if room.BookedOn(night)+sel.Quantity > room.DailyCapacity {
					return apperrors.CapacityExceeded("room capacity exceeded", map[string]any{
						"room_id":   roomID,
						"night":     string(night),
						"requested": sel.Quantity,
						"remaining": s.calc.RemainingRoomCapacity(room, night),
					})
				}
			}

			if err := s.roomRepo.IncrementNights(sessCtx, roomID, nights, sel.Quantity); err != nil {
				return apperrors.Internal("failed to reserve room nights", err)
			}

			subtotal := sel.PricePerNight.MulInt(int64(sel.Quantity) * int64(len(nights)))
			bookedRooms = append(bookedRooms, model.BookedRoom{
				RoomID:        roomID,
				Quantity:      sel.Quantity,
				PricePerNight: sel.PricePerNight,
				Nights:        len(nights),
				Subtotal:      subtotal,
			})
		}

		bookedServices := make([]model.BookedService, 0, len(cart.Services))

		for _, sel := range cart.Services {
			svc, err := s.serviceRepo.FindByID(sessCtx, sel.ServiceID)
			if err != nil {
				if errors.Is(err, reserrors.ErrServiceNotFound) {
					return apperrors.NotFoundWithID("service inventory", sel.ServiceID)
				}
				return apperrors.Internal("failed to read service inventory", err)
			}

			date := model.DateKeyOf(sel.ScheduledAt)
			slot := model.TimeKeyOf(sel.ScheduledAt)
			capacity := s.calc.SlotCapacity(svc, slot)

			if svc.BookedAt(date, slot)+sel.Quantity > capacity {
				return apperrors.CapacityExceeded("service slot capacity exceeded", map[string]any{
					"service_id": sel.ServiceID,
					"date":       string(date),
					"slot":       string(slot),
					"requested":  sel.Quantity,
					"remaining":  s.calc.RemainingServiceCapacity(svc, date, slot),
				})
			}

			if err := s.serviceRepo.IncrementSlot(sessCtx, sel.ServiceID, date, slot, sel.Quantity); err != nil {
				return apperrors.Internal("failed to reserve service slot", err)
			}

			bookedServices = append(bookedServices, model.BookedService{
				ServiceID:   sel.ServiceID,
				Quantity:    sel.Quantity,
				Price:       sel.Price,
				ScheduledAt: sel.ScheduledAt,
			})
		}

		booking := &model.BookingRecord{
			UserID:     userID,
			CheckIn:    cart.CheckIn,
			CheckOut:   cart.CheckOut,
			Status:     model.StatusConfirmed,
			Currency:   cart.Currency,
			TotalPrice: cart.Total(),
			Rooms:      bookedRooms,
			Services:   bookedServices,
		}

		if err := s.bookingRepo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("failed to persist booking record", err)
		}

		record = booking
		return nil
	})
	if err != nil {
		s.logger.Warn("Commit failed",
			"session_id", sessionID,
			"user_id", userID,
			"error", err,
		)
		return nil, apperrors.AsAppError(err)
	}

	s.carts.Remove(sessionID)

	s.logger.Info("Booking committed",
		"booking_id", record.ID,
		"session_id", sessionID,
		"user_id", userID,
		"total", record.TotalPrice.Format(),
	)

	s.publishEvent(record, kafka.EventReservationConfirmed)

	return record, nil
}

// Cancel releases a confirmed booking's inventory with compensating
// decrements and flips the status, all in one transaction. Decrements are
// clamped at zero, so a raced duplicate cancel can never corrupt counters.
func (s *reservationService) Cancel(ctx context.Context, bookingID, userID string) (*model.BookingRecord, error) {
	var record *model.BookingRecord

	err := s.bookingRepo.ExecuteWithRetry(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.bookingRepo.FindByID(sessCtx, bookingID)
		if err != nil {
			return bookingLookupError(err, bookingID)
		}

		// Another user's booking looks like no booking at all.
		if userID != "" && booking.UserID != userID {
			return apperrors.NotFoundWithID("booking", bookingID)
		}

		if booking.IsCancelled() {
			return apperrors.InvalidState("booking is already cancelled")
		}

		now := time.Now().UTC()
		if booking.IsCompleted(now) {
			return apperrors.InvalidState("completed stays cannot be cancelled")
		}

		nights := model.NightKeys(booking.CheckIn, booking.CheckOut)

		for _, line := range booking.Rooms {
			if err := s.roomRepo.DecrementNights(sessCtx, line.RoomID, nights, line.Quantity); err != nil {
				if errors.Is(err, reserrors.ErrRoomNotFound) {
					// Inventory row removed after the booking; nothing left to release.
					continue
				}
				return apperrors.Internal("failed to release room nights", err)
			}
		}

		for _, line := range booking.Services {
			date := model.DateKeyOf(line.ScheduledAt)
			slot := model.TimeKeyOf(line.ScheduledAt)
			if err := s.serviceRepo.DecrementSlot(sessCtx, line.ServiceID, date, slot, line.Quantity); err != nil {
				if errors.Is(err, reserrors.ErrServiceNotFound) {
					continue
				}
				return apperrors.Internal("failed to release service slot", err)
			}
		}

		if err := s.bookingRepo.UpdateStatus(sessCtx, bookingID, model.StatusConfirmed, model.StatusCancelled); err != nil {
			if errors.Is(err, reserrors.ErrNotFound) {
				return apperrors.Conflict("booking status changed during cancellation")
			}
			return apperrors.Internal("failed to update booking status", err)
		}

		booking.Status = model.StatusCancelled
		record = booking
		return nil
	})
	if err != nil {
		s.logger.Warn("Cancellation failed",
			"booking_id", bookingID,
			"error", err,
		)
		return nil, apperrors.AsAppError(err)
	}

	s.logger.Info("Booking cancelled", "booking_id", bookingID)

	s.publishEvent(record, kafka.EventReservationCancelled)

	return record, nil
}

func (s *reservationService) GetBooking(ctx context.Context, bookingID string) (*model.BookingRecord, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, bookingLookupError(err, bookingID)
	}
	return booking, nil
}

func (s *reservationService) ListBookingsByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingRecord, int64, error) {
	bookings, err := s.bookingRepo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}

	total, err := s.bookingRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}

	return bookings, total, nil
}

func (s *reservationService) RoomAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*RoomAvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("check_out must be after check_in")
	}

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, reserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room inventory", roomID)
		}
		return nil, apperrors.Internal("failed to read room inventory", err)
	}

	nightKeys := model.NightKeys(checkIn, checkOut)
	nights := make([]NightAvailability, 0, len(nightKeys))
	for _, night := range nightKeys {
		nights = append(nights, NightAvailability{
			Night:     night,
			Remaining: s.calc.RemainingRoomCapacity(room, night),
		})
	}

	return &RoomAvailabilityResult{
		RoomID:        room.ID,
		Name:          room.Name,
		PricePerNight: room.PricePerNight,
		DailyCapacity: room.DailyCapacity,
		Available:     s.calc.MinRemainingRoomCapacity(room, checkIn, checkOut),
		Nights:        nights,
	}, nil
}

func (s *reservationService) ServiceAvailability(ctx context.Context, serviceID string, date model.DateKey) (*ServiceAvailabilityResult, error) {
	if _, err := date.Time(); err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, reserrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("service inventory", serviceID)
		}
		return nil, apperrors.Internal("failed to read service inventory", err)
	}

	return &ServiceAvailabilityResult{
		ServiceID: svc.ID,
		Name:      svc.Name,
		Date:      date,
		Slots:     s.calc.AvailableTimeSlots(svc, date),
	}, nil
}

func (s *reservationService) ServiceAvailabilityRange(ctx context.Context, serviceID string, checkIn, checkOut time.Time) (*ServiceRangeAvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.InvalidInput("check_out must be after check_in")
	}

	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, reserrors.ErrServiceNotFound) {
			return nil, apperrors.NotFoundWithID("service inventory", serviceID)
		}
		return nil, apperrors.Internal("failed to read service inventory", err)
	}

	dateKeys := model.NightKeys(checkIn, checkOut)
	dates := make([]DateAvailability, 0, len(dateKeys))
	for _, date := range dateKeys {
		dates = append(dates, DateAvailability{
			Date:      date,
			Remaining: s.calc.RemainingServiceCapacityForDate(svc, date),
		})
	}

	return &ServiceRangeAvailabilityResult{
		ServiceID: svc.ID,
		Name:      svc.Name,
		Available: s.calc.MinRemainingServiceCapacity(svc, checkIn, checkOut),
		Dates:     dates,
	}, nil
}

func (s *reservationService) ListRooms(ctx context.Context, limit int, offset int64) ([]*model.RoomInventory, int64, error) {
	rooms, err := s.roomRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list room inventories", err)
	}

	total, err := s.roomRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count room inventories", err)
	}

	return rooms, total, nil
}

func (s *reservationService) ListServices(ctx context.Context, limit int, offset int64) ([]*model.ServiceInventory, int64, error) {
	services, err := s.serviceRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list service inventories", err)
	}

	total, err := s.serviceRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count service inventories", err)
	}

	return services, total, nil
}

func (s *reservationService) snapshot(sessionID string) (*model.Cart, error) {
	cart, ok := s.carts.Snapshot(sessionID)
	if !ok {
		return model.NewCart(s.cfg.DefaultCurrency), nil
	}
	return cart, nil
}

// publishEvent emits a lifecycle event without blocking or failing the
// operation that triggered it. The producer's DLQ handles broker trouble.
func (s *reservationService) publishEvent(booking *model.BookingRecord, eventType string) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithSource(s.cfg.ServiceName).
		WithSchemaVersion("1").
		WithValue(booking).
		Build()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()

		if err := s.producer.Publish(ctx, msg); err != nil {
			s.logger.Error("Failed to publish booking event",
				"booking_id", booking.ID,
				"event_type", eventType,
				"error", err,
			)
		}
	}()
}

func cartError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidStayRange),
		errors.Is(err, model.ErrNonPositiveQuantity),
		errors.Is(err, model.ErrSelectionOutOfRange),
		errors.Is(err, model.ErrCurrencyMismatch):
		return apperrors.InvalidInput(err.Error())
	default:
		return apperrors.AsAppError(err)
	}
}

func bookingLookupError(err error, bookingID string) error {
	switch {
	case errors.Is(err, reserrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking ID: " + bookingID)
	case errors.Is(err, reserrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", bookingID)
	default:
		return apperrors.Internal("failed to read booking record", err)
	}
}
