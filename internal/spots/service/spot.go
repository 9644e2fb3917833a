package service

import (
	"context"
	"errors"

	spotserrors "parkspot/internal/spots/errors"
	"parkspot/internal/spots/repository"
	"parkspot/internal/spots/validator"
	"parkspot/pkg/clock"
	"parkspot/pkg/config"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/model"
	"parkspot/pkg/schedule"
)

// BookingLookup is the slice of the bookings domain the spots service
// needs: discovery drops spots with a conflicting active booking, and
// owner listings attach upcoming bookings per spot.
type BookingLookup interface {
	HasActiveOverlap(ctx context.Context, spotID, date, startTime, endTime string) (bool, error)
	FindUpcomingBySpot(ctx context.Context, spotID, fromDate string) ([]*model.Booking, error)
}

// SpotWithBookings is the owner listing item.
type SpotWithBookings struct {
	*model.Spot
	UpcomingBookings []*model.Booking `json:"upcoming_bookings"`
}

type SpotService interface {
	Create(ctx context.Context, ownerID string, create *model.SpotCreate) (*model.Spot, error)
	GetByID(ctx context.Context, id string) (*model.Spot, error)
	GetOwn(ctx context.Context, ownerID string) ([]*SpotWithBookings, error)
	Update(ctx context.Context, ownerID, id string, update *model.SpotUpdate) (*model.Spot, error)
	UpdateSlots(ctx context.Context, ownerID, id string, slots []string) (*model.Spot, error)
	SetAvailability(ctx context.Context, ownerID, id string, available bool) (*model.Spot, error)
	FindNearby(ctx context.Context, callerID string, query *model.NearbyQuery) ([]*model.Spot, error)
}

type spotService struct {
	repo      repository.SpotRepository
	bookings  BookingLookup
	validator *validator.SpotValidator
	clock     clock.Clock
	cfg       *config.Config
}

func NewSpotService(
	repo repository.SpotRepository,
	bookings BookingLookup,
	validator *validator.SpotValidator,
	clk clock.Clock,
	cfg *config.Config,
) SpotService {
	return &spotService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *spotService) Create(ctx context.Context, ownerID string, create *model.SpotCreate) (*model.Spot, error) {
	if err := s.validator.ValidateCreate(create); err != nil {
		s.cfg.Log.Warn("Spot validation failed", "error", err)
		return nil, apperrors.Validation("Spot validation failed", map[string]any{"error": err.Error()})
	}

	window, err := schedule.DeriveWindow(create.Slots)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	spot := &model.Spot{
		OwnerID:       ownerID,
		Name:          create.Name,
		Address:       create.Address,
		Location:      create.Location,
		Window:        window,
		AvailableDays: create.Days,
		IsCovered:     create.IsCovered,
		Size:          create.Size,
		HourlyRate:    create.HourlyRate,
		Description:   create.Description,
		Images:        create.Images,
		IsAvailable:   true,
	}

	if err := s.repo.Create(ctx, spot); err != nil {
		s.cfg.Log.Error("Failed to create spot", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to create parking spot", err)
	}

	s.cfg.Log.Info("Parking spot created",
		"id", spot.ID,
		"owner_id", ownerID,
		"window_start", window.Start,
		"window_end", window.End,
	)
	return spot, nil
}

func (s *spotService) GetByID(ctx context.Context, id string) (*model.Spot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Spot ID cannot be empty")
	}

	spot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking spot", id)
		}
		if errors.Is(err, spotserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid spot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve parking spot", err)
	}

	return spot, nil
}

func (s *spotService) GetOwn(ctx context.Context, ownerID string) ([]*SpotWithBookings, error) {
	spots, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list parking spots", err)
	}

	today := s.clock.Now().In(s.clock.Location()).Format(schedule.DateLayout)
	out := make([]*SpotWithBookings, 0, len(spots))
	for _, spot := range spots {
		upcoming, err := s.bookings.FindUpcomingBySpot(ctx, spot.ID, today)
		if err != nil {
			return nil, apperrors.Internal("Failed to load upcoming bookings", err)
		}
		out = append(out, &SpotWithBookings{Spot: spot, UpcomingBookings: upcoming})
	}
	return out, nil
}

func (s *spotService) Update(ctx context.Context, ownerID, id string, update *model.SpotUpdate) (*model.Spot, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Spot update validation failed", "error", err)
		return nil, apperrors.Validation("Spot update validation failed", map[string]any{"error": err.Error()})
	}

	spot, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(spot, update)

	if err := s.repo.Update(ctx, id, spot); err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking spot", id)
		}
		return nil, apperrors.Internal("Failed to update parking spot", err)
	}

	s.cfg.Log.Info("Parking spot updated", "id", id, "owner_id", ownerID)
	return spot, nil
}

// UpdateSlots replaces the spot's daily window with one derived from a
// fresh slot selection.
func (s *spotService) UpdateSlots(ctx context.Context, ownerID, id string, slots []string) (*model.Spot, error) {
	window, err := schedule.DeriveWindow(slots)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	spot, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateWindow(ctx, id, window); err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking spot", id)
		}
		return nil, apperrors.Internal("Failed to update spot window", err)
	}

	spot.Window = window
	s.cfg.Log.Info("Parking spot window updated",
		"id", id,
		"window_start", window.Start,
		"window_end", window.End,
	)
	return spot, nil
}

func (s *spotService) SetAvailability(ctx context.Context, ownerID, id string, available bool) (*model.Spot, error) {
	spot, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking spot", id)
		}
		return nil, apperrors.Internal("Failed to toggle spot availability", err)
	}

	spot.IsAvailable = available
	s.cfg.Log.Info("Parking spot availability toggled", "id", id, "is_available", available)
	return spot, nil
}

func (s *spotService) FindNearby(ctx context.Context, callerID string, query *model.NearbyQuery) ([]*model.Spot, error) {
	if err := s.validator.ValidateNearby(query); err != nil {
		s.cfg.Log.Warn("Nearby query validation failed", "error", err)
		return nil, apperrors.Validation("Nearby query validation failed", map[string]any{"error": err.Error()})
	}

	loc := s.clock.Location()
	date := query.Date
	if date == "" {
		date = s.clock.Now().In(loc).Format(schedule.DateLayout)
	}
	day, err := schedule.ParseDate(date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	start := query.StartTime
	if start == "" {
		start = "00:00"
	}
	end := query.EndTime
	if end == "" {
		end = "24:00"
	}

	spots, err := s.repo.FindNearby(ctx, repository.NearbyFilter{
		Longitude:    query.Longitude,
		Latitude:     query.Latitude,
		RadiusMeters: s.cfg.SearchRadiusMeters,
		Weekday:      day.Weekday(),
		WindowStart:  start,
		WindowEnd:    end,
		MaxPrice:     query.MaxPrice,
		ExcludeOwner: callerID,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to search nearby spots", "error", err)
		return nil, apperrors.Internal("Failed to search nearby parking spots", err)
	}

	available := make([]*model.Spot, 0, len(spots))
	for _, spot := range spots {
		conflict, err := s.bookings.HasActiveOverlap(ctx, spot.ID, date, start, end)
		if err != nil {
			return nil, apperrors.Internal("Failed to check spot availability", err)
		}
		if !conflict {
			available = append(available, spot)
		}
	}

	s.cfg.Log.Info("Nearby spot search completed",
		"date", date,
		"matched", len(spots),
		"available", len(available),
	)
	return available, nil
}

func (s *spotService) getOwned(ctx context.Context, ownerID, id string) (*model.Spot, error) {
	spot, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if spot.OwnerID != ownerID {
		return nil, apperrors.Forbidden("You do not own this parking spot")
	}
	return spot, nil
}

func applyUpdate(spot *model.Spot, update *model.SpotUpdate) {
	if update.Name != "" {
		spot.Name = update.Name
	}
	if update.Address != "" {
		spot.Address = update.Address
	}
	if update.Location != nil {
		spot.Location = *update.Location
	}
	if update.Days != nil {
		spot.AvailableDays = *update.Days
	}
	if update.IsCovered != "" {
		spot.IsCovered = update.IsCovered
	}
	if update.Size != "" {
		spot.Size = update.Size
	}
	if update.HourlyRate != nil {
		spot.HourlyRate = *update.HourlyRate
	}
	if update.Description != "" {
		spot.Description = update.Description
	}
	if update.Images != nil {
		spot.Images = *update.Images
	}
}
