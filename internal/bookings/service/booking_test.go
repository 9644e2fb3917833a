package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	bookingserrors "parkspot/internal/bookings/errors"
	bookingsvalidator "parkspot/internal/bookings/validator"
	"parkspot/pkg/clock"
	"parkspot/pkg/config"
	mongotx "parkspot/pkg/db/mongo"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"
	"parkspot/pkg/qr"
	"parkspot/pkg/schedule"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testSpotID    = "3f9c2a1e-8b4d-4c6a-9e2f-1a2b3c4d5e6f"
	testRenterID  = "7a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d"
	testOwnerID   = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	testVehicleID = "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6e"
	testBookingID = "4d5e6f7a-8b9c-4d0e-af2a-3b4c5d6e7f8a"
)

// Fixed clock: Tuesday 2026-09-01 10:00 UTC. Monday 2026-09-07 is the
// default booking date in these tests.
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type mockBookingRepository struct {
	createFunc            func(ctx context.Context, booking *model.Booking) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Booking, error)
	findByCodeFunc        func(ctx context.Context, code string) (*model.Booking, error)
	findByRenterFunc      func(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, error)
	countByRenterFunc     func(ctx context.Context, renterID string) (int64, error)
	findActiveFunc        func(ctx context.Context, spotID, date string) ([]*model.Booking, error)
	hasOverlapFunc        func(ctx context.Context, spotID, date, startTime, endTime string) (bool, error)
	findUpcomingFunc      func(ctx context.Context, spotID, fromDate string) ([]*model.Booking, error)
	findRecentFunc        func(ctx context.Context, spotID, today string) ([]*model.Booking, error)
	updateStatusFunc      func(ctx context.Context, id string, from []string, to string) (bool, error)
	setQRCodeFunc         func(ctx context.Context, id, qrCode string) error
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not configured")
}

func (m *mockBookingRepository) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, errors.New("not configured")
}

func (m *mockBookingRepository) FindByRenter(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByRenterFunc != nil {
		return m.findByRenterFunc(ctx, renterID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByRenter(ctx context.Context, renterID string) (int64, error) {
	if m.countByRenterFunc != nil {
		return m.countByRenterFunc(ctx, renterID)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindActiveBySpotDate(ctx context.Context, spotID, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, spotID, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) HasActiveOverlap(ctx context.Context, spotID, date, startTime, endTime string) (bool, error) {
	if m.hasOverlapFunc != nil {
		return m.hasOverlapFunc(ctx, spotID, date, startTime, endTime)
	}
	return false, nil
}

func (m *mockBookingRepository) FindUpcomingBySpot(ctx context.Context, spotID, fromDate string) ([]*model.Booking, error) {
	if m.findUpcomingFunc != nil {
		return m.findUpcomingFunc(ctx, spotID, fromDate)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindRecentBySpot(ctx context.Context, spotID, today string) ([]*model.Booking, error) {
	if m.findRecentFunc != nil {
		return m.findRecentFunc(ctx, spotID, today)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return true, nil
}

func (m *mockBookingRepository) SetQRCode(ctx context.Context, id, qrCode string) error {
	if m.setQRCodeFunc != nil {
		return m.setQRCodeFunc(ctx, id, qrCode)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(mongo.SessionContext(nil))
}

type mockLockRepository struct {
	acquireFunc func(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error)
	releaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.BookingLock, error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, lockID, ttl)
	}
	return &model.BookingLock{ID: lockID}, nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, lockID)
	}
	return nil
}

type mockSpotFinder struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Spot, error)
}

func (m *mockSpotFinder) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return testSpot(), nil
}

type mockVehicleFinder struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Vehicle, error)
}

func (m *mockVehicleFinder) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Vehicle{ID: testVehicleID, OwnerID: testRenterID, PlateNumber: "AB123CD", Kind: "car"}, nil
}

type mockEncoder struct {
	encodeFunc func(p qr.Payload) (string, error)
}

func (m *mockEncoder) Encode(p qr.Payload) (string, error) {
	if m.encodeFunc != nil {
		return m.encodeFunc(p)
	}
	return "data:image/png;base64,TEST", nil
}

type mockPublisher struct {
	events []string
	err    error
}

func (m *mockPublisher) PublishBooking(_ context.Context, eventType string, _ *model.Booking) error {
	m.events = append(m.events, eventType)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Log:            testLogger(),
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		LockTTL:        10 * time.Second,
		StorageRetries: 2,
	}
}

func testSpot() *model.Spot {
	return &model.Spot{
		ID:      testSpotID,
		OwnerID: testOwnerID,
		Name:    "Garage on 5th",
		Address: "5th Street 12",
		Window:  schedule.Window{Start: "08:00", End: "18:00"},
		AvailableDays: schedule.Days{
			Monday: true, Tuesday: true, Wednesday: true,
			Thursday: true, Friday: true,
		},
		IsCovered:   "covered",
		Size:        "standard",
		HourlyRate:  10,
		IsAvailable: true,
	}
}

type fixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	spots     *mockSpotFinder
	vehicles  *mockVehicleFinder
	encoder   *mockEncoder
	publisher *mockPublisher
	service   *bookingService
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &mockBookingRepository{},
		locks:     &mockLockRepository{},
		spots:     &mockSpotFinder{},
		vehicles:  &mockVehicleFinder{},
		encoder:   &mockEncoder{},
		publisher: &mockPublisher{},
	}
	cfg := testConfig()
	f.service = &bookingService{
		repo:      f.repo,
		lockRepo:  f.locks,
		spots:     f.spots,
		vehicles:  f.vehicles,
		validator: bookingsvalidator.NewBookingValidator(cfg.Log),
		encoder:   f.encoder,
		publisher: f.publisher,
		clock:     clock.Fixed(testNow),
		cfg:       cfg,
	}
	return f
}

func validCreate() *model.BookingCreate {
	return &model.BookingCreate{
		SpotID:    testSpotID,
		VehicleID: testVehicleID,
		Date:      "2026-09-07",
		StartTime: "09:00",
		EndTime:   "11:00",
	}
}

func wantAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	var stored *model.Booking
	f.repo.createFunc = func(_ context.Context, b *model.Booking) error {
		b.ID = testBookingID
		stored = b
		return nil
	}

	booking, err := f.service.Create(context.Background(), testRenterID, validCreate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if !strings.HasPrefix(booking.Code, "PSB-") || len(booking.Code) != 12 {
		t.Errorf("unexpected booking code %q", booking.Code)
	}
	if booking.Amount != 20 {
		t.Errorf("expected amount 20 (2h x 10), got %v", booking.Amount)
	}
	if booking.QRCode == "" {
		t.Error("expected QR code to be set")
	}
	if stored == nil {
		t.Fatal("expected booking to be persisted")
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0] != "booking.created" {
		t.Errorf("expected booking.created event, got %v", f.publisher.events)
	}
}

func TestCreate_Overlap(t *testing.T) {
	f := newFixture()
	f.repo.hasOverlapFunc = func(_ context.Context, _, _, _, _ string) (bool, error) {
		return true, nil
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	wantAppError(t, err, apperrors.CodeConflict)

	if len(f.publisher.events) != 0 {
		t.Errorf("no event expected on conflict, got %v", f.publisher.events)
	}
}

func TestCreate_LockHeld(t *testing.T) {
	f := newFixture()
	f.locks.acquireFunc = func(_ context.Context, lockID string, _ time.Duration) (*model.BookingLock, error) {
		if lockID != testSpotID+"_2026-09-07" {
			t.Errorf("unexpected lock id %q", lockID)
		}
		return nil, bookingserrors.ErrLockHeld
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCreate_OutsideSpotWindow(t *testing.T) {
	f := newFixture()

	create := validCreate()
	create.StartTime = "07:00"
	create.EndTime = "09:00"

	_, err := f.service.Create(context.Background(), testRenterID, create)
	wantAppError(t, err, apperrors.CodeInvalidInput)
}

func TestCreate_DayClosed(t *testing.T) {
	f := newFixture()

	create := validCreate()
	create.Date = "2026-09-05" // Saturday

	_, err := f.service.Create(context.Background(), testRenterID, create)
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCreate_SpotUnavailable(t *testing.T) {
	f := newFixture()
	f.spots.getByIDFunc = func(_ context.Context, _ string) (*model.Spot, error) {
		spot := testSpot()
		spot.IsAvailable = false
		return spot, nil
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCreate_OwnSpot(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), testOwnerID, validCreate())
	wantAppError(t, err, apperrors.CodeForbidden)
}

func TestCreate_VehicleNotOwned(t *testing.T) {
	f := newFixture()
	f.vehicles.getByIDFunc = func(_ context.Context, _ string) (*model.Vehicle, error) {
		return &model.Vehicle{ID: testVehicleID, OwnerID: testOwnerID, PlateNumber: "XX999XX", Kind: "car"}, nil
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	wantAppError(t, err, apperrors.CodeForbidden)
}

func TestCreate_PastDate(t *testing.T) {
	f := newFixture()

	create := validCreate()
	create.Date = "2026-08-31"

	_, err := f.service.Create(context.Background(), testRenterID, create)
	wantAppError(t, err, apperrors.CodeInvalidInput)
}

func TestCreate_ZeroLengthInterval(t *testing.T) {
	f := newFixture()

	create := validCreate()
	create.EndTime = create.StartTime

	_, err := f.service.Create(context.Background(), testRenterID, create)
	wantAppError(t, err, apperrors.CodeValidation)
}

func TestCreate_QRFailureNonFatal(t *testing.T) {
	f := newFixture()
	f.encoder.encodeFunc = func(qr.Payload) (string, error) {
		return "", errors.New("png boom")
	}

	booking, err := f.service.Create(context.Background(), testRenterID, validCreate())
	if err != nil {
		t.Fatalf("QR failure must not fail the booking: %v", err)
	}
	if booking.QRCode != "" {
		t.Errorf("expected empty QR code, got %q", booking.QRCode)
	}
	if len(f.publisher.events) != 1 {
		t.Errorf("expected created event despite QR failure, got %v", f.publisher.events)
	}
}

func TestCreate_RetriesTransientStorageError(t *testing.T) {
	f := newFixture()

	attempts := 0
	f.repo.executeTransactionFunc = func(ctx context.Context, fn mongotx.TransactionFunc) error {
		attempts++
		if attempts == 1 {
			return errors.New("connection reset")
		}
		return fn(mongo.SessionContext(nil))
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 transaction attempts, got %d", attempts)
	}
}

func TestCreate_ConflictNotRetried(t *testing.T) {
	f := newFixture()

	calls := 0
	f.repo.hasOverlapFunc = func(_ context.Context, _, _, _, _ string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := f.service.Create(context.Background(), testRenterID, validCreate())
	wantAppError(t, err, apperrors.CodeConflict)
	if calls != 1 {
		t.Errorf("conflict must not be retried, overlap queried %d times", calls)
	}
}

func TestCancel_Success(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, RenterID: testRenterID, SpotID: testSpotID, Status: model.StatusPending}, nil
	}

	booking, err := f.service.Cancel(context.Background(), testRenterID, testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("expected cancelled, got %s", booking.Status)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0] != "booking.cancelled" {
		t.Errorf("expected booking.cancelled event, got %v", f.publisher.events)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, RenterID: testRenterID, Status: model.StatusCancelled}, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, _ []string, _ string) (bool, error) {
		return false, nil
	}

	_, err := f.service.Cancel(context.Background(), testRenterID, testBookingID)
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCancel_WrongRenter(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, RenterID: testOwnerID, Status: model.StatusPending}, nil
	}

	_, err := f.service.Cancel(context.Background(), testRenterID, testBookingID)
	wantAppError(t, err, apperrors.CodeForbidden)
}

func TestConfirm_Success(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, SpotID: testSpotID, Status: model.StatusPending}, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, from []string, to string) (bool, error) {
		if len(from) != 1 || from[0] != model.StatusPending || to != model.StatusConfirmed {
			t.Errorf("unexpected transition %v -> %s", from, to)
		}
		return true, nil
	}

	booking, err := f.service.Confirm(context.Background(), testSpotID, testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", booking.Status)
	}
}

func TestConfirm_WrongState(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, SpotID: testSpotID, Status: model.StatusConfirmed}, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, _ []string, _ string) (bool, error) {
		return false, nil
	}

	_, err := f.service.Confirm(context.Background(), testSpotID, testBookingID)
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestConfirm_WrongSpot(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, SpotID: testSpotID, Status: model.StatusPending}, nil
	}

	_, err := f.service.Confirm(context.Background(), testVehicleID, testBookingID)
	wantAppError(t, err, apperrors.CodeForbidden)
}

func TestComplete_Success(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, SpotID: testSpotID, Status: model.StatusConfirmed}, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, from []string, to string) (bool, error) {
		if len(from) != 1 || from[0] != model.StatusConfirmed || to != model.StatusCompleted {
			t.Errorf("unexpected transition %v -> %s", from, to)
		}
		return true, nil
	}

	booking, err := f.service.Complete(context.Background(), testSpotID, testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCompleted {
		t.Errorf("expected completed, got %s", booking.Status)
	}
}

func TestComplete_PendingRejected(t *testing.T) {
	f := newFixture()
	f.repo.findByIDFunc = func(_ context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, SpotID: testSpotID, Status: model.StatusPending}, nil
	}
	f.repo.updateStatusFunc = func(_ context.Context, _ string, _ []string, _ string) (bool, error) {
		return false, nil
	}

	_, err := f.service.Complete(context.Background(), testSpotID, testBookingID)
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestVerify(t *testing.T) {
	base := &model.Booking{
		ID:        testBookingID,
		Code:      "PSB-ABCD2345",
		SpotID:    testSpotID,
		RenterID:  testRenterID,
		Date:      "2026-09-07",
		StartTime: "09:00",
		EndTime:   "11:00",
		Status:    model.StatusConfirmed,
	}

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		guardSpot string
		wantCode  string
	}{
		{
			name:      "valid booking passes",
			guardSpot: testSpotID,
		},
		{
			name:      "cancelled rejected",
			mutate:    func(b *model.Booking) { b.Status = model.StatusCancelled },
			guardSpot: testSpotID,
			wantCode:  apperrors.CodeConflict,
		},
		{
			name: "expired rejected",
			mutate: func(b *model.Booking) {
				b.Date = "2026-08-31"
				b.EndTime = "09:00"
			},
			guardSpot: testSpotID,
			wantCode:  apperrors.CodeConflict,
		},
		{
			name:      "other spot rejected",
			guardSpot: testVehicleID,
			wantCode:  apperrors.CodeForbidden,
		},
		{
			name: "ends later today passes",
			mutate: func(b *model.Booking) {
				b.Date = "2026-09-01"
				b.StartTime = "09:00"
				b.EndTime = "11:00"
			},
			guardSpot: testSpotID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			booking := *base
			if tt.mutate != nil {
				tt.mutate(&booking)
			}
			f.repo.findByCodeFunc = func(_ context.Context, code string) (*model.Booking, error) {
				if code != booking.Code {
					t.Errorf("unexpected code lookup %q", code)
				}
				return &booking, nil
			}

			got, err := f.service.Verify(context.Background(), tt.guardSpot, booking.Code)
			if tt.wantCode != "" {
				wantAppError(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != booking.ID {
				t.Errorf("expected booking %s, got %s", booking.ID, got.ID)
			}
		})
	}
}

func TestFreeSlots(t *testing.T) {
	booked := func(times ...string) []*model.Booking {
		var out []*model.Booking
		for i := 0; i+1 < len(times); i += 2 {
			out = append(out, &model.Booking{
				SpotID:    testSpotID,
				StartTime: times[i],
				EndTime:   times[i+1],
				Status:    model.StatusPending,
			})
		}
		return out
	}

	tests := []struct {
		name     string
		date     string
		days     schedule.Days
		bookings []*model.Booking
		want     []schedule.Interval
	}{
		{
			name: "open day no bookings",
			date: "2026-09-07",
			want: []schedule.Interval{{Start: "08:00", End: "18:00"}},
		},
		{
			name:     "bookings split the window",
			date:     "2026-09-07",
			bookings: booked("09:00", "11:00", "13:00", "15:00"),
			want: []schedule.Interval{
				{Start: "08:00", End: "09:00"},
				{Start: "11:00", End: "13:00"},
				{Start: "15:00", End: "18:00"},
			},
		},
		{
			name:     "fully booked day",
			date:     "2026-09-07",
			bookings: booked("08:00", "18:00"),
			want:     []schedule.Interval{},
		},
		{
			name: "closed day",
			date: "2026-09-06", // Sunday
			want: []schedule.Interval{},
		},
		{
			name: "today clamps to now",
			date: "2026-09-01",
			want: []schedule.Interval{{Start: "10:00", End: "18:00"}},
		},
		{
			name: "past date is empty",
			date: "2026-08-24",
			want: []schedule.Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.findActiveFunc = func(_ context.Context, _, _ string) ([]*model.Booking, error) {
				return tt.bookings, nil
			}

			got, err := f.service.FreeSlots(context.Background(), testSpotID, tt.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d intervals, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("interval %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestFreeSlots_UnknownSpot(t *testing.T) {
	f := newFixture()
	f.spots.getByIDFunc = func(_ context.Context, id string) (*model.Spot, error) {
		return nil, apperrors.NotFoundWithID("Parking spot", id)
	}

	_, err := f.service.FreeSlots(context.Background(), testSpotID, "2026-09-07")
	wantAppError(t, err, apperrors.CodeNotFound)
}

func TestAssigned(t *testing.T) {
	f := newFixture()
	f.repo.findUpcomingFunc = func(_ context.Context, spotID, fromDate string) ([]*model.Booking, error) {
		if fromDate != "2026-09-01" {
			t.Errorf("expected today 2026-09-01, got %s", fromDate)
		}
		return []*model.Booking{{ID: testBookingID, SpotID: spotID}}, nil
	}

	bookings, err := f.service.Assigned(context.Background(), testSpotID, "upcoming")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}

	if _, err := f.service.Assigned(context.Background(), testSpotID, "someday"); err == nil {
		t.Error("expected error for unknown tab")
	}

	if _, err := f.service.Assigned(context.Background(), "", "upcoming"); err == nil {
		t.Error("expected error for guard without a spot")
	}
}

func TestCreate_Sequence_DisjointBookings(t *testing.T) {
	f := newFixture()

	var active []*model.Booking
	f.repo.hasOverlapFunc = func(_ context.Context, _, date, start, end string) (bool, error) {
		s, _ := schedule.ParseMinute(start)
		e, _ := schedule.ParseMinute(end)
		for _, b := range active {
			if b.Date != date || b.Status == model.StatusCancelled {
				continue
			}
			bs, _ := schedule.ParseMinute(b.StartTime)
			be, _ := schedule.ParseMinute(b.EndTime)
			if schedule.Overlaps(schedule.Span{Start: s, End: e}, schedule.Span{Start: bs, End: be}) {
				return true, nil
			}
		}
		return false, nil
	}
	f.repo.createFunc = func(_ context.Context, b *model.Booking) error {
		active = append(active, b)
		return nil
	}

	mk := func(start, end string) error {
		create := validCreate()
		create.StartTime = start
		create.EndTime = end
		_, err := f.service.Create(context.Background(), testRenterID, create)
		return err
	}

	if err := mk("09:00", "11:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := mk("11:00", "13:00"); err != nil {
		t.Fatalf("back-to-back booking must succeed: %v", err)
	}
	if err := mk("10:00", "12:00"); err == nil {
		t.Fatal("overlapping booking must fail")
	}

	// Cancel the first and the freed window becomes bookable again.
	active[0].Status = model.StatusCancelled
	if err := mk("09:30", "10:30"); err != nil {
		t.Fatalf("freed window must be bookable: %v", err)
	}
}
