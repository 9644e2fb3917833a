package service

import (
	"context"
	"errors"
	"strings"

	vehicleserrors "parkspot/internal/vehicles/errors"
	"parkspot/internal/vehicles/repository"
	"parkspot/pkg/config"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/model"

	"github.com/go-playground/validator/v10"
)

type VehicleService interface {
	Register(ctx context.Context, ownerID string, vehicle *model.Vehicle) (*model.Vehicle, error)
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetOwn(ctx context.Context, ownerID string) ([]*model.Vehicle, error)
	SetDefault(ctx context.Context, ownerID, id string) error
}

type vehicleService struct {
	repo     repository.VehicleRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewVehicleService(repo repository.VehicleRepository, cfg *config.Config) VehicleService {
	return &vehicleService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *vehicleService) Register(ctx context.Context, ownerID string, vehicle *model.Vehicle) (*model.Vehicle, error) {
	vehicle.ID = ""
	vehicle.OwnerID = ownerID
	vehicle.PlateNumber = strings.ToUpper(strings.TrimSpace(vehicle.PlateNumber))

	if err := s.validate.Struct(vehicle); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "error", err)
		return nil, apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		if errors.Is(err, vehicleserrors.ErrDuplicatePlate) {
			return nil, apperrors.Conflict("Plate number is already registered")
		}
		return nil, apperrors.Internal("Failed to register vehicle", err)
	}

	s.cfg.Log.Info("Vehicle registered", "id", vehicle.ID, "owner_id", ownerID)
	return vehicle, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", id)
		}
		if errors.Is(err, vehicleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve vehicle", err)
	}

	return vehicle, nil
}

func (s *vehicleService) GetOwn(ctx context.Context, ownerID string) ([]*model.Vehicle, error) {
	vehicles, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list vehicles", err)
	}
	return vehicles, nil
}

func (s *vehicleService) SetDefault(ctx context.Context, ownerID, id string) error {
	if err := s.repo.SetDefault(ctx, ownerID, id); err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Vehicle", id)
		}
		return apperrors.Internal("Failed to set default vehicle", err)
	}

	s.cfg.Log.Info("Default vehicle changed", "id", id, "owner_id", ownerID)
	return nil
}
