package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"staybook/internal/availability"
	"staybook/internal/carts"
	reserrors "staybook/internal/reservations/errors"
	"staybook/internal/reservations/validator"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// ────────────────────────────────────────────────
// In-memory transactional fake
// ────────────────────────────────────────────────

// fakeStore backs the mock repositories with shared state. Its transaction
// mock snapshots the state before running fn and restores it when fn fails,
// so the all-or-nothing behavior of a commit is observable in tests. The
// mutex serializes transactions the way snapshot isolation plus write
// conflicts do against a real store.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[string]*model.RoomInventory
	services map[string]*model.ServiceInventory
	bookings map[string]*model.BookingRecord
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[string]*model.RoomInventory),
		services: make(map[string]*model.ServiceInventory),
		bookings: make(map[string]*model.BookingRecord),
	}
}

func copyRoom(r *model.RoomInventory) *model.RoomInventory {
	c := *r
	c.BookedByDate = make(map[model.DateKey]int, len(r.BookedByDate))
	for k, v := range r.BookedByDate {
		c.BookedByDate[k] = v
	}
	return &c
}

func copyService(s *model.ServiceInventory) *model.ServiceInventory {
	c := *s
	c.BookedByDateTime = make(map[model.DateKey]map[model.TimeKey]int, len(s.BookedByDateTime))
	for date, slots := range s.BookedByDateTime {
		inner := make(map[model.TimeKey]int, len(slots))
		for slot, n := range slots {
			inner[slot] = n
		}
		c.BookedByDateTime[date] = inner
	}
	return &c
}

func (f *fakeStore) snapshot() (map[string]*model.RoomInventory, map[string]*model.ServiceInventory, map[string]*model.BookingRecord) {
	rooms := make(map[string]*model.RoomInventory, len(f.rooms))
	for id, r := range f.rooms {
		rooms[id] = copyRoom(r)
	}
	services := make(map[string]*model.ServiceInventory, len(f.services))
	for id, s := range f.services {
		services[id] = copyService(s)
	}
	bookings := make(map[string]*model.BookingRecord, len(f.bookings))
	for id, b := range f.bookings {
		c := *b
		bookings[id] = &c
	}
	return rooms, services, bookings
}

func (f *fakeStore) runTransaction(fn mongotx.TransactionFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rooms, services, bookings := f.snapshot()
	if err := fn(nil); err != nil {
		f.rooms, f.services, f.bookings = rooms, services, bookings
		return err
	}
	return nil
}

// ────────────────────────────────────────────────
// Mock repositories
// ────────────────────────────────────────────────

type mockRoomRepository struct {
	store *fakeStore
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.RoomInventory, error) {
	room, ok := m.store.rooms[id]
	if !ok {
		return nil, reserrors.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.RoomInventory, error) {
	var rooms []*model.RoomInventory
	for _, r := range m.store.rooms {
		rooms = append(rooms, copyRoom(r))
	}
	return rooms, nil
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.store.rooms)), nil
}

func (m *mockRoomRepository) IncrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error {
	room, ok := m.store.rooms[roomID]
	if !ok {
		return reserrors.ErrRoomNotFound
	}
	if room.BookedByDate == nil {
		room.BookedByDate = make(map[model.DateKey]int)
	}
	for _, night := range nights {
		room.BookedByDate[night] += quantity
	}
	return nil
}

func (m *mockRoomRepository) DecrementNights(ctx context.Context, roomID string, nights []model.DateKey, quantity int) error {
	room, ok := m.store.rooms[roomID]
	if !ok {
		return reserrors.ErrRoomNotFound
	}
	for _, night := range nights {
		if next := room.BookedByDate[night] - quantity; next > 0 {
			room.BookedByDate[night] = next
		} else {
			room.BookedByDate[night] = 0
		}
	}
	return nil
}

type mockServiceRepository struct {
	store *fakeStore
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.ServiceInventory, error) {
	svc, ok := m.store.services[id]
	if !ok {
		return nil, reserrors.ErrServiceNotFound
	}
	return copyService(svc), nil
}

func (m *mockServiceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ServiceInventory, error) {
	var services []*model.ServiceInventory
	for _, s := range m.store.services {
		services = append(services, copyService(s))
	}
	return services, nil
}

func (m *mockServiceRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.store.services)), nil
}

func (m *mockServiceRepository) IncrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error {
	svc, ok := m.store.services[serviceID]
	if !ok {
		return reserrors.ErrServiceNotFound
	}
	if svc.BookedByDateTime == nil {
		svc.BookedByDateTime = make(map[model.DateKey]map[model.TimeKey]int)
	}
	if svc.BookedByDateTime[date] == nil {
		svc.BookedByDateTime[date] = make(map[model.TimeKey]int)
	}
	svc.BookedByDateTime[date][slot] += quantity
	return nil
}

func (m *mockServiceRepository) DecrementSlot(ctx context.Context, serviceID string, date model.DateKey, slot model.TimeKey, quantity int) error {
	svc, ok := m.store.services[serviceID]
	if !ok {
		return reserrors.ErrServiceNotFound
	}
	if next := svc.BookedByDateTime[date][slot] - quantity; next > 0 {
		svc.BookedByDateTime[date][slot] = next
	} else if svc.BookedByDateTime[date] != nil {
		svc.BookedByDateTime[date][slot] = 0
	}
	return nil
}

type mockBookingRepository struct {
	store *fakeStore

	executeWithRetryFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.BookingRecord) error {
	if booking.ID == "" {
		m.store.nextID++
		booking.ID = time.Now().UTC().Format("20060102") + "-" + string(rune('a'+m.store.nextID))
	}
	booking.CreatedAt = time.Now().UTC()
	c := *booking
	m.store.bookings[booking.ID] = &c
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.BookingRecord, error) {
	booking, ok := m.store.bookings[id]
	if !ok {
		return nil, reserrors.ErrNotFound
	}
	c := *booking
	return &c, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.BookingRecord, error) {
	var bookings []*model.BookingRecord
	for _, b := range m.store.bookings {
		if b.UserID == userID {
			c := *b
			bookings = append(bookings, &c)
		}
	}
	return bookings, nil
}

func (m *mockBookingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, b := range m.store.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, fromStatus, toStatus string) error {
	booking, ok := m.store.bookings[id]
	if !ok || booking.Status != fromStatus {
		return reserrors.ErrNotFound
	}
	booking.Status = toStatus
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return m.store.runTransaction(fn)
}

func (m *mockBookingRepository) ExecuteWithRetry(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeWithRetryFunc != nil {
		return m.executeWithRetryFunc(ctx, fn)
	}
	return m.store.runTransaction(fn)
}

type mockPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

type fixture struct {
	svc       ReservationService
	store     *fakeStore
	carts     *carts.Store
	publisher *mockPublisher
	booking   *mockBookingRepository
}

func usd(amount int64) model.Money {
	return model.Money{Amount: amount, Currency: "USD"}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Output: io.Discard})
	cfg := &config.Config{
		ServiceName:     "reservations",
		DefaultCurrency: "USD",
		WriteTimeout:    5 * time.Second,
		ReadTimeout:     5 * time.Second,
		Log:             log,
	}

	store := newFakeStore()
	store.rooms["deluxe"] = &model.RoomInventory{
		ID:            "deluxe",
		Name:          "Deluxe Room",
		PricePerNight: usd(10000),
		DailyCapacity: 5,
		BookedByDate:  make(map[model.DateKey]int),
	}
	store.rooms["suite"] = &model.RoomInventory{
		ID:            "suite",
		Name:          "Suite",
		PricePerNight: usd(25000),
		DailyCapacity: 2,
		BookedByDate:  make(map[model.DateKey]int),
	}
	store.services["spa"] = &model.ServiceInventory{
		ID:           "spa",
		Name:         "Spa Session",
		Price:        usd(5000),
		SlotCapacity: map[model.TimeKey]int{"10:00": 2, "14:00": 2},
	}

	roomRepo := &mockRoomRepository{store: store}
	serviceRepo := &mockServiceRepository{store: store}
	bookingRepo := &mockBookingRepository{store: store}
	cartStore := carts.NewStore(time.Hour, "USD")
	t.Cleanup(cartStore.Stop)

	calc := availability.NewCalculator("09:00", "18:00", time.Hour, 1)
	publisher := &mockPublisher{}

	svc := NewReservationService(
		cfg,
		bookingRepo,
		roomRepo,
		serviceRepo,
		cartStore,
		calc,
		NewRepositoryCatalog(roomRepo, serviceRepo),
		validator.NewCartValidator(log),
		publisher,
		log,
	)

	return &fixture{
		svc:       svc,
		store:     store,
		carts:     cartStore,
		publisher: publisher,
		booking:   bookingRepo,
	}
}

// The stay is always a month out so cancellation never trips the
// completed-stay guard, whatever today's date is.
var (
	checkIn  = time.Now().UTC().AddDate(0, 0, 30).Truncate(24 * time.Hour)
	checkOut = checkIn.AddDate(0, 0, 2)

	night1      = model.DateKeyOf(checkIn)
	night2      = model.DateKeyOf(checkIn.AddDate(0, 0, 1))
	checkOutDay = model.DateKeyOf(checkOut)

	spaAt = checkIn.Add(10 * time.Hour)
)

func buildCart(t *testing.T, f *fixture, sessionID string, roomID string, quantity int) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.svc.SetStay(ctx, sessionID, checkIn, checkOut); err != nil {
		t.Fatalf("SetStay: %v", err)
	}
	if _, err := f.svc.SelectRoom(ctx, sessionID, roomID, quantity, nil); err != nil {
		t.Fatalf("SelectRoom: %v", err)
	}
}

// ────────────────────────────────────────────────
// Commit
// ────────────────────────────────────────────────

func TestCommit_PricingAndInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 2)
	if _, err := f.svc.AddService(ctx, "sess-1", "spa", 1, spaAt, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}

	booking, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// 2 units x 2 nights x 100.00 + 1 x 50.00 = 450.00
	if booking.TotalPrice.Amount != 45000 {
		t.Errorf("total = %d, want 45000", booking.TotalPrice.Amount)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", booking.Status)
	}
	if len(booking.Rooms) != 1 || booking.Rooms[0].Subtotal.Amount != 40000 {
		t.Errorf("room line = %+v, want subtotal 40000", booking.Rooms)
	}

	room := f.store.rooms["deluxe"]
	if room.BookedOn(night1) != 2 || room.BookedOn(night2) != 2 {
		t.Errorf("booked counts = %v, want 2 on both nights", room.BookedByDate)
	}
	if room.BookedOn(checkOutDay) != 0 {
		t.Error("check-out day must not consume inventory")
	}

	spa := f.store.services["spa"]
	if spa.BookedAt(night1, "10:00") != 1 {
		t.Errorf("spa slot count = %d, want 1", spa.BookedAt(night1, "10:00"))
	}

	if _, ok := f.carts.Snapshot("sess-1"); ok {
		t.Error("cart should be dropped after a successful commit")
	}
}

func TestCommit_CapacityExceeded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "suite", 2)
	if _, err := f.svc.Commit(ctx, "sess-1", "user-1"); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	buildCart(t, f, "sess-2", "suite", 1)
	_, err := f.svc.Commit(ctx, "sess-2", "user-2")
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if !apperrors.IsCode(err, apperrors.CodeCapacityExceeded) {
		t.Errorf("expected CAPACITY_EXCEEDED, got %v", err)
	}

	// The failed commit must leave the cart intact for the client to revise.
	if _, ok := f.carts.Snapshot("sess-2"); !ok {
		t.Error("cart should survive a failed commit")
	}
}

func TestCommit_IsAtomicAcrossRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// suite capacity is 2; deluxe has room. The suite line fails, so the
	// deluxe increments from the same commit must be rolled back.
	buildCart(t, f, "sess-1", "deluxe", 1)
	if _, err := f.svc.SelectRoom(ctx, "sess-1", "suite", 3, nil); err != nil {
		t.Fatalf("SelectRoom: %v", err)
	}

	_, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if !apperrors.IsCode(err, apperrors.CodeCapacityExceeded) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}

	if got := f.store.rooms["deluxe"].BookedOn(night1); got != 0 {
		t.Errorf("deluxe counter leaked from aborted commit: %d", got)
	}
	if len(f.store.bookings) != 0 {
		t.Error("no booking record may exist after an aborted commit")
	}
}

func TestCommit_NotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 1)
	first, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// Rebuilding an identical cart and committing again books again.
	buildCart(t, f, "sess-1", "deluxe", 1)
	second, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}

	if first.ID == second.ID {
		t.Error("expected two distinct booking records")
	}
	if got := f.store.rooms["deluxe"].BookedOn(night1); got != 2 {
		t.Errorf("expected doubled consumption, got %d", got)
	}
}

func TestCommit_RejectsServicesOnlyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetStay(ctx, "sess-1", checkIn, checkOut); err != nil {
		t.Fatalf("SetStay: %v", err)
	}
	if _, err := f.svc.AddService(ctx, "sess-1", "spa", 1, spaAt, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}

	_, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCommit_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Commit(context.Background(), "nobody", "user-1")
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCommit_PropagatesConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.booking.executeWithRetryFunc = func(ctx context.Context, fn mongotx.TransactionFunc) error {
		return apperrors.Conflict("concurrent write conflict on overlapping inventory rows")
	}

	buildCart(t, f, "sess-1", "deluxe", 1)
	_, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT, got %v", err)
	}
}

func TestCommit_ConcurrentOverlappingStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-a", "suite", 2)
	buildCart(t, f, "sess-b", "suite", 2)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for _, sess := range []string{"sess-a", "sess-b"} {
		go func(sessionID string) {
			defer wg.Done()
			_, err := f.svc.Commit(ctx, sessionID, "user-"+sessionID)
			results <- err
		}(sess)
	}
	wg.Wait()
	close(results)

	var successes, capacityErrs int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, apperrors.CodeCapacityExceeded):
			capacityErrs++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || capacityErrs != 1 {
		t.Errorf("got %d successes and %d capacity errors, want exactly 1 of each", successes, capacityErrs)
	}
	if got := f.store.rooms["suite"].BookedOn(night1); got != 2 {
		t.Errorf("suite counter = %d, want 2", got)
	}
}

func TestCommit_PriceLockedAtSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 1)

	// Catalog price change after selection must not affect the commit.
	f.store.rooms["deluxe"].PricePerNight = usd(99999)

	booking, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if booking.Rooms[0].PricePerNight.Amount != 10000 {
		t.Errorf("price = %d, want locked 10000", booking.Rooms[0].PricePerNight.Amount)
	}
}

// ────────────────────────────────────────────────
// Cancellation
// ────────────────────────────────────────────────

func TestCancel_ReleasesInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 2)
	if _, err := f.svc.AddService(ctx, "sess-1", "spa", 1, spaAt, nil); err != nil {
		t.Fatalf("AddService: %v", err)
	}

	booking, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	cancelled, err := f.svc.Cancel(ctx, booking.ID, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	room := f.store.rooms["deluxe"]
	if room.BookedOn(night1) != 0 || room.BookedOn(night2) != 0 {
		t.Errorf("room counters not released: %v", room.BookedByDate)
	}
	if got := f.store.services["spa"].BookedAt(night1, "10:00"); got != 0 {
		t.Errorf("spa counter not released: %d", got)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 1)
	booking, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := f.svc.Cancel(ctx, booking.ID, ""); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, err = f.svc.Cancel(ctx, booking.ID, "")
	if !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Errorf("expected INVALID_STATE, got %v", err)
	}

	// The second cancel must not decrement below zero.
	if got := f.store.rooms["deluxe"].BookedOn(night1); got != 0 {
		t.Errorf("room counter went negative: %d", got)
	}
}

func TestCancel_CompletedStay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.bookings["past"] = &model.BookingRecord{
		ID:       "past",
		UserID:   "user-1",
		CheckIn:  time.Now().UTC().AddDate(0, 0, -10),
		CheckOut: time.Now().UTC().AddDate(0, 0, -8),
		Status:   model.StatusConfirmed,
	}

	_, err := f.svc.Cancel(ctx, "past", "")
	if !apperrors.IsCode(err, apperrors.CodeInvalidState) {
		t.Errorf("expected INVALID_STATE, got %v", err)
	}
}

func TestCancel_WrongUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 1)
	booking, err := f.svc.Commit(ctx, "sess-1", "user-1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	_, err = f.svc.Cancel(ctx, booking.ID, "user-2")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND for another user's booking, got %v", err)
	}

	// Nothing may be released on a rejected cancel.
	if got := f.store.rooms["deluxe"].BookedOn(night1); got != 1 {
		t.Errorf("room counter = %d, want untouched 1", got)
	}
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Cancel(context.Background(), "missing", "")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Cart operations
// ────────────────────────────────────────────────

func TestSelectRoom_UnknownRoom(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SelectRoom(context.Background(), "sess-1", "penthouse", 1, nil)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestSelectRoom_ReplacesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "deluxe", 1)
	cart, err := f.svc.SelectRoom(ctx, "sess-1", "deluxe", 3, nil)
	if err != nil {
		t.Fatalf("SelectRoom: %v", err)
	}

	if cart.Rooms["deluxe"].Quantity != 3 {
		t.Errorf("quantity = %d, want absolute replacement to 3", cart.Rooms["deluxe"].Quantity)
	}
}

func TestSelectRoom_PriceOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetStay(ctx, "sess-1", checkIn, checkOut); err != nil {
		t.Fatalf("SetStay: %v", err)
	}

	override := int64(8500)
	cart, err := f.svc.SelectRoom(ctx, "sess-1", "deluxe", 1, &override)
	if err != nil {
		t.Fatalf("SelectRoom: %v", err)
	}

	sel := cart.Rooms["deluxe"]
	if sel.PricePerNight.Amount != 8500 {
		t.Errorf("price = %d, want override 8500", sel.PricePerNight.Amount)
	}
	if sel.PricePerNight.Currency != "USD" {
		t.Errorf("currency = %s, want catalog currency USD", sel.PricePerNight.Currency)
	}
}

func TestSetStay_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SetStay(context.Background(), "sess-1", checkOut, checkIn)
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Availability
// ────────────────────────────────────────────────

func TestRoomAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buildCart(t, f, "sess-1", "suite", 1)
	if _, err := f.svc.Commit(ctx, "sess-1", "user-1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	result, err := f.svc.RoomAvailability(ctx, "suite", checkIn, checkOut)
	if err != nil {
		t.Fatalf("RoomAvailability: %v", err)
	}

	if result.Available != 1 {
		t.Errorf("available = %d, want 1", result.Available)
	}
	if len(result.Nights) != 2 {
		t.Errorf("nights = %d, want 2", len(result.Nights))
	}
}

func TestServiceAvailability_InvalidDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ServiceAvailability(context.Background(), "spa", "June 1st")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestServiceAvailabilityRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Fill the 10:00 slot on the first day; 14:00 keeps the date bookable.
	f.store.services["spa"].BookedByDateTime = map[model.DateKey]map[model.TimeKey]int{
		night1: {"10:00": 2},
	}

	result, err := f.svc.ServiceAvailabilityRange(ctx, "spa", checkIn, checkOut)
	if err != nil {
		t.Fatalf("ServiceAvailabilityRange: %v", err)
	}

	if len(result.Dates) != 2 {
		t.Fatalf("dates = %d, want 2", len(result.Dates))
	}
	if result.Dates[0].Remaining != 2 || result.Dates[1].Remaining != 2 {
		t.Errorf("per-date remainders = %+v, want 2 on both days", result.Dates)
	}
	if result.Available != 2 {
		t.Errorf("available = %d, want 2", result.Available)
	}

	_, err = f.svc.ServiceAvailabilityRange(ctx, "spa", checkOut, checkIn)
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for inverted range, got %v", err)
	}
}
