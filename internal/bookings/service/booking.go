package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	bookingserrors "parkspot/internal/bookings/errors"
	"parkspot/internal/bookings/repository"
	"parkspot/internal/bookings/validator"
	"parkspot/pkg/clock"
	"parkspot/pkg/config"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/events"
	"parkspot/pkg/model"
	"parkspot/pkg/qr"
	"parkspot/pkg/schedule"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	TabUpcoming = "upcoming"
	TabRecent   = "recent"
)

// SpotFinder is the slice of the spots domain booking creation needs.
type SpotFinder interface {
	GetByID(ctx context.Context, id string) (*model.Spot, error)
}

// VehicleFinder resolves the renter's vehicle at booking time.
type VehicleFinder interface {
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
}

type BookingService interface {
	Create(ctx context.Context, renterID string, create *model.BookingCreate) (*model.Booking, error)
	GetOwn(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Assigned(ctx context.Context, guardSpotID, tab string) ([]*model.Booking, error)
	Cancel(ctx context.Context, renterID, bookingID string) (*model.Booking, error)
	Confirm(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error)
	Complete(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error)
	Verify(ctx context.Context, guardSpotID, code string) (*model.Booking, error)
	FreeSlots(ctx context.Context, spotID, date string) ([]schedule.Interval, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	spots     SpotFinder
	vehicles  VehicleFinder
	validator *validator.BookingValidator
	encoder   qr.Encoder
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	spots SpotFinder,
	vehicles VehicleFinder,
	validator *validator.BookingValidator,
	encoder qr.Encoder,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		spots:     spots,
		vehicles:  vehicles,
		validator: validator,
		encoder:   encoder,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, renterID string, create *model.BookingCreate) (*model.Booking, error) {
	if err := s.validator.ValidateCreate(create); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	spot, err := s.spots.GetByID(ctx, create.SpotID)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID == renterID {
		return nil, apperrors.Forbidden("You cannot book your own parking spot")
	}
	if !spot.IsAvailable {
		return nil, apperrors.Conflict("Parking spot is not accepting bookings")
	}

	day, err := s.resolveDay(create.Date)
	if err != nil {
		return nil, err
	}
	if !spot.AvailableDays.Open(day.Weekday()) {
		return nil, apperrors.Conflict(fmt.Sprintf("Parking spot is closed on %s", schedule.DayName(day.Weekday())))
	}

	reqSpan, spotSpan, err := s.resolveSpans(create, spot)
	if err != nil {
		return nil, err
	}
	if reqSpan.Start < spotSpan.Start || reqSpan.End > spotSpan.End {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Requested time must be within the spot's daily window %s-%s",
			spot.Window.Start, spot.Window.End,
		))
	}

	vehicle, err := s.vehicles.GetByID(ctx, create.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID != renterID {
		return nil, apperrors.Forbidden("Vehicle does not belong to you")
	}

	booking := &model.Booking{
		Code:      model.NewBookingCode(),
		SpotID:    create.SpotID,
		RenterID:  renterID,
		VehicleID: create.VehicleID,
		Date:      create.Date,
		StartTime: create.StartTime,
		EndTime:   create.EndTime,
		Status:    model.StatusPending,
		Amount:    amountFor(reqSpan, spot.HourlyRate),
	}

	// The lock covers the whole spot/day, so concurrent creators with any
	// overlapping window serialize here rather than racing the conflict
	// query.
	lockID := model.LockID(create.SpotID, create.Date)
	if _, err := s.lockRepo.Acquire(ctx, lockID, s.cfg.LockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Another booking for this spot is in progress, try again")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			conflict, err := s.repo.HasActiveOverlap(sessCtx, create.SpotID, create.Date, create.StartTime, create.EndTime)
			if err != nil {
				return err
			}
			if conflict {
				return apperrors.Conflict("Requested time overlaps an existing booking")
			}
			return s.repo.Create(sessCtx, booking)
		})
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "spot_id", create.SpotID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.issueQRCode(ctx, booking)
	s.publish(ctx, events.BookingCreated, booking)

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"code", booking.Code,
		"spot_id", booking.SpotID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return booking, nil
}

func (s *bookingService) GetOwn(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByRenter(ctx, renterID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByRenter(ctx, renterID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Assigned(ctx context.Context, guardSpotID, tab string) ([]*model.Booking, error) {
	if guardSpotID == "" {
		return nil, apperrors.Forbidden("No parking spot assigned")
	}

	today := s.today()
	var bookings []*model.Booking
	var err error

	switch tab {
	case TabUpcoming, "":
		bookings, err = s.repo.FindUpcomingBySpot(ctx, guardSpotID, today)
	case TabRecent:
		bookings, err = s.repo.FindRecentBySpot(ctx, guardSpotID, today)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown tab %q, expected %q or %q", tab, TabUpcoming, TabRecent))
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to list assigned bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) Cancel(ctx context.Context, renterID, bookingID string) (*model.Booking, error) {
	booking, err := s.getByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, apperrors.Forbidden("Booking does not belong to you")
	}

	return s.transition(ctx, booking, model.ActiveStatuses, model.StatusCancelled, events.BookingCancelled)
}

func (s *bookingService) Confirm(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error) {
	booking, err := s.guardBooking(ctx, guardSpotID, bookingID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, []string{model.StatusPending}, model.StatusConfirmed, events.BookingConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error) {
	booking, err := s.guardBooking(ctx, guardSpotID, bookingID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, []string{model.StatusConfirmed}, model.StatusCompleted, events.BookingCompleted)
}

// Verify is the guard's gate check: resolve the scanned code against the
// store and decide on stored state only. It never mutates the booking.
func (s *bookingService) Verify(ctx context.Context, guardSpotID, code string) (*model.Booking, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("Booking code cannot be empty")
	}
	if guardSpotID == "" {
		return nil, apperrors.Forbidden("No parking spot assigned")
	}

	booking, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		return nil, apperrors.Internal("Failed to look up booking", err)
	}

	if booking.SpotID != guardSpotID {
		return nil, apperrors.Forbidden("Booking belongs to a different parking spot")
	}
	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Booking has been cancelled")
	}

	expired, err := s.isPast(booking.Date, booking.EndTime)
	if err != nil {
		return nil, apperrors.Internal("Failed to check booking expiry", err)
	}
	if expired {
		return nil, apperrors.Conflict("Booking has already ended")
	}

	return booking, nil
}

func (s *bookingService) FreeSlots(ctx context.Context, spotID, date string) ([]schedule.Interval, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}

	loc := s.clock.Location()
	day, err := schedule.ParseDate(date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	if !spot.AvailableDays.Open(day.Weekday()) {
		return []schedule.Interval{}, nil
	}

	window, err := spot.Window.Span()
	if err != nil {
		return nil, apperrors.Internal("Stored spot window is malformed", err)
	}

	now := s.clock.Now().In(loc)
	if day.AddDate(0, 0, 1).Before(now) {
		return []schedule.Interval{}, nil
	}
	if schedule.SameDate(day, now) {
		window = schedule.ClampToNow(window, schedule.MinuteOfDay(now))
	}

	bookings, err := s.repo.FindActiveBySpotDate(ctx, spotID, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	booked := make([]schedule.Span, 0, len(bookings))
	for _, b := range bookings {
		start, err := schedule.ParseMinute(b.StartTime)
		if err != nil {
			return nil, apperrors.Internal("Stored booking time is malformed", err)
		}
		end, err := schedule.ParseMinute(b.EndTime)
		if err != nil {
			return nil, apperrors.Internal("Stored booking time is malformed", err)
		}
		booked = append(booked, schedule.Span{Start: start, End: end})
	}

	free := schedule.FreeSpans(window, booked)
	intervals := make([]schedule.Interval, 0, len(free))
	for _, span := range free {
		intervals = append(intervals, span.Interval())
	}

	return intervals, nil
}

func (s *bookingService) getByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) guardBooking(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error) {
	if guardSpotID == "" {
		return nil, apperrors.Forbidden("No parking spot assigned")
	}

	booking, err := s.getByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.SpotID != guardSpotID {
		return nil, apperrors.Forbidden("Booking belongs to a different parking spot")
	}

	return booking, nil
}

// transition applies a compare-and-swap status change. When the swap does
// not match, the booking is re-read so the caller gets a precise error
// for the state it actually raced against.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, from []string, to, eventType string) (*model.Booking, error) {
	matched, err := s.repo.UpdateStatus(ctx, booking.ID, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	if !matched {
		current, err := s.getByID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s, cannot move to %s", current.Status, to))
	}

	booking.Status = to
	booking.UpdatedAt = time.Now().UTC()

	s.publish(ctx, eventType, booking)
	s.cfg.Log.Info("Booking status changed", "id", booking.ID, "status", to)
	return booking, nil
}

// issueQRCode renders and stores the booking's QR image. The booking is
// already committed; a QR failure is logged and the booking stands.
func (s *bookingService) issueQRCode(ctx context.Context, booking *model.Booking) {
	dataURI, err := s.encoder.Encode(qr.Payload{
		BookingCode: booking.Code,
		Date:        booking.Date,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		SpotID:      booking.SpotID,
		RenterID:    booking.RenterID,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to generate booking QR code", "id", booking.ID, "error", err)
		return
	}

	if err := s.repo.SetQRCode(ctx, booking.ID, dataURI); err != nil {
		s.cfg.Log.Warn("Failed to store booking QR code", "id", booking.ID, "error", err)
		return
	}

	booking.QRCode = dataURI
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.publisher.PublishBooking(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// withRetry reruns fn on transient storage errors with capped fibonacci
// backoff. AppErrors are domain outcomes and never retried.
func (s *bookingService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithCappedDuration(2*time.Second, retry.NewFibonacci(100*time.Millisecond))
	backoff = retry.WithMaxRetries(uint64(s.cfg.StorageRetries), backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || apperrors.IsAppError(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (s *bookingService) resolveDay(date string) (time.Time, error) {
	loc := s.clock.Location()
	day, err := schedule.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	now := s.clock.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return time.Time{}, apperrors.InvalidInput("Date cannot be in the past")
	}

	return day, nil
}

func (s *bookingService) resolveSpans(create *model.BookingCreate, spot *model.Spot) (schedule.Span, schedule.Span, error) {
	reqStart, err := schedule.ParseMinute(create.StartTime)
	if err != nil {
		return schedule.Span{}, schedule.Span{}, apperrors.InvalidInput(err.Error())
	}
	reqEnd, err := schedule.ParseMinute(create.EndTime)
	if err != nil {
		return schedule.Span{}, schedule.Span{}, apperrors.InvalidInput(err.Error())
	}

	spotSpan, err := spot.Window.Span()
	if err != nil {
		return schedule.Span{}, schedule.Span{}, apperrors.Internal("Stored spot window is malformed", err)
	}

	return schedule.Span{Start: reqStart, End: reqEnd}, spotSpan, nil
}

func (s *bookingService) isPast(date, endTime string) (bool, error) {
	loc := s.clock.Location()
	day, err := schedule.ParseDate(date, loc)
	if err != nil {
		return false, err
	}
	endMinute, err := schedule.ParseMinute(endTime)
	if err != nil {
		return false, err
	}

	end := day.Add(time.Duration(endMinute) * time.Minute)
	return s.clock.Now().In(loc).After(end), nil
}

func (s *bookingService) today() string {
	return s.clock.Now().In(s.clock.Location()).Format(schedule.DateLayout)
}

func amountFor(span schedule.Span, hourlyRate float64) float64 {
	hours := float64(span.End-span.Start) / 60
	return math.Round(hours*hourlyRate*100) / 100
}
