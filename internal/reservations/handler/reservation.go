package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"staybook/internal/reservations/service"
	"staybook/internal/reservations/validator"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service   service.ReservationService
	validator *validator.CartValidator
	log       *logger.Logger
}

func NewReservationHandler(svc service.ReservationService, v *validator.CartValidator, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:   svc,
		validator: v,
		log:       log,
	}
}

type setStayRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
}

type selectRoomRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
	// Optional negotiated rate in minor units; the catalog price applies
	// when absent.
	PriceOverride *int64 `json:"price_override,omitempty" validate:"omitempty,min=0"`
}

type addServiceRequest struct {
	ServiceID     string    `json:"service_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	ScheduledAt   time.Time `json:"scheduled_at" validate:"required"`
	PriceOverride *int64    `json:"price_override,omitempty" validate:"omitempty,min=0"`
}

type commitRequest struct {
	UserID string `json:"user_id"`
}

// cartView augments the raw cart with derived pricing for clients.
type cartView struct {
	*model.Cart
	Nights           int         `json:"nights"`
	RoomsSubtotal    model.Money `json:"rooms_subtotal"`
	ServicesSubtotal model.Money `json:"services_subtotal"`
	Total            model.Money `json:"total"`
	TotalFormatted   string      `json:"total_formatted"`
}

func viewOf(cart *model.Cart) cartView {
	total := cart.Total()
	return cartView{
		Cart:             cart,
		Nights:           cart.Nights(),
		RoomsSubtotal:    cart.RoomsSubtotal(),
		ServicesSubtotal: cart.ServicesSubtotal(),
		Total:            total,
		TotalFormatted:   total.Format(),
	}
}

func (h *ReservationHandler) SetStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req setStayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.validator.ValidateRequest(req); err != nil {
		httputil.WriteError(w, apperrors.Validation(err.Error(), nil))
		return
	}

	checkIn, _ := time.Parse(model.DateKeyLayout, req.CheckIn)
	checkOut, _ := time.Parse(model.DateKeyLayout, req.CheckOut)

	cart, err := h.service.SetStay(r.Context(), ps.ByName("session"), checkIn, checkOut)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) SelectRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req selectRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.validator.ValidateRequest(req); err != nil {
		httputil.WriteError(w, apperrors.Validation(err.Error(), nil))
		return
	}

	cart, err := h.service.SelectRoom(r.Context(), ps.ByName("session"), ps.ByName("roomId"), req.Quantity, req.PriceOverride)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) RemoveRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cart, err := h.service.RemoveRoom(r.Context(), ps.ByName("session"), ps.ByName("roomId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) AddService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.validator.ValidateRequest(req); err != nil {
		httputil.WriteError(w, apperrors.Validation(err.Error(), nil))
		return
	}

	cart, err := h.service.AddService(r.Context(), ps.ByName("session"), req.ServiceID, req.Quantity, req.ScheduledAt, req.PriceOverride)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) RemoveService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid service line index: "+ps.ByName("index")))
		return
	}

	cart, err := h.service.RemoveService(r.Context(), ps.ByName("session"), index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) GetCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cart, err := h.service.GetCart(r.Context(), ps.ByName("session"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, viewOf(cart))
}

func (h *ReservationHandler) ClearCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.ClearCart(r.Context(), ps.ByName("session")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// Commit turns the session's cart into a booking. The user can come from the
// X-User-ID header or an optional JSON body; it defaults to the session for
// anonymous flows.
func (h *ReservationHandler) Commit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("session")

	userID := r.Header.Get("X-User-ID")
	if r.Body != nil && r.ContentLength != 0 {
		var req commitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("invalid request body"))
			return
		}
		if req.UserID != "" {
			userID = req.UserID
		}
	}
	if userID == "" {
		userID = sessionID
	}

	booking, err := h.service.Commit(r.Context(), sessionID, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *ReservationHandler) GetByUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("user_id query parameter is required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.ListBookingsByUser(r.Context(), userID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, int(offset))
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), r.Header.Get("X-User-ID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *ReservationHandler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rooms, total, err := h.service.ListRooms(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, rooms, total, limit, int(offset))
}

func (h *ReservationHandler) RoomAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	checkIn, err := time.Parse(model.DateKeyLayout, query.Get("check_in"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("check_in must be in YYYY-MM-DD format"))
		return
	}
	checkOut, err := time.Parse(model.DateKeyLayout, query.Get("check_out"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("check_out must be in YYYY-MM-DD format"))
		return
	}

	result, err := h.service.RoomAvailability(r.Context(), ps.ByName("id"), checkIn, checkOut)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *ReservationHandler) ListServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	services, total, err := h.service.ListServices(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, services, total, limit, int(offset))
}

// ServiceAvailability answers either a single-date query (?date=) with the
// bookable slots and their remainders, or a stay-range query
// (?check_in=&check_out=) with per-date best remainders.
func (h *ReservationHandler) ServiceAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	if date := query.Get("date"); date != "" {
		result, err := h.service.ServiceAvailability(r.Context(), ps.ByName("id"), model.DateKey(date))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteSuccess(w, result)
		return
	}

	if query.Get("check_in") == "" {
		httputil.WriteError(w, apperrors.InvalidInput("either date or check_in/check_out query parameters are required"))
		return
	}

	checkIn, err := time.Parse(model.DateKeyLayout, query.Get("check_in"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("check_in must be in YYYY-MM-DD format"))
		return
	}
	checkOut, err := time.Parse(model.DateKeyLayout, query.Get("check_out"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("check_out must be in YYYY-MM-DD format"))
		return
	}

	result, err := h.service.ServiceAvailabilityRange(r.Context(), ps.ByName("id"), checkIn, checkOut)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/carts/:session", h.GetCart)
	router.DELETE("/api/v1/carts/:session", h.ClearCart)
	router.PUT("/api/v1/carts/:session/stay", h.SetStay)
	router.PUT("/api/v1/carts/:session/rooms/:roomId", h.SelectRoom)
	router.DELETE("/api/v1/carts/:session/rooms/:roomId", h.RemoveRoom)
	router.POST("/api/v1/carts/:session/services", h.AddService)
	router.DELETE("/api/v1/carts/:session/services/:index", h.RemoveService)
	router.POST("/api/v1/carts/:session/commit", h.Commit)

	router.GET("/api/v1/reservations", h.GetByUser)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.POST("/api/v1/reservations/id/:id/cancel", h.Cancel)

	router.GET("/api/v1/availability/rooms", h.ListRooms)
	router.GET("/api/v1/availability/rooms/id/:id", h.RoomAvailability)
	router.GET("/api/v1/availability/services", h.ListServices)
	router.GET("/api/v1/availability/services/id/:id", h.ServiceAvailability)
}
