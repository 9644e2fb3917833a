package service

import (
	"context"
	"errors"
	"testing"

	vehicleserrors "parkspot/internal/vehicles/errors"
	"parkspot/pkg/config"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"
)

const testOwnerID = "3f2f1f0e-9d8c-4b7a-8654-321098765432"

type mockVehicleRepository struct {
	CreateFunc      func(ctx context.Context, vehicle *model.Vehicle) error
	FindByIDFunc    func(ctx context.Context, id string) (*model.Vehicle, error)
	FindByOwnerFunc func(ctx context.Context, ownerID string) ([]*model.Vehicle, error)
	SetDefaultFunc  func(ctx context.Context, ownerID, id string) error
}

func (m *mockVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return m.CreateFunc(ctx, vehicle)
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockVehicleRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Vehicle, error) {
	return m.FindByOwnerFunc(ctx, ownerID)
}

func (m *mockVehicleRepository) SetDefault(ctx context.Context, ownerID, id string) error {
	return m.SetDefaultFunc(ctx, ownerID, id)
}

func newService(repo *mockVehicleRepository) VehicleService {
	cfg := &config.Config{Log: logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})}
	return NewVehicleService(repo, cfg)
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

func TestRegister_NormalizesPlate(t *testing.T) {
	var created *model.Vehicle
	repo := &mockVehicleRepository{
		CreateFunc: func(ctx context.Context, vehicle *model.Vehicle) error {
			created = vehicle
			return nil
		},
	}
	svc := newService(repo)

	vehicle := &model.Vehicle{PlateNumber: "  ab-123-cd ", Kind: "sedan"}
	result, err := svc.Register(context.Background(), testOwnerID, vehicle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PlateNumber != "AB-123-CD" {
		t.Errorf("expected normalized plate AB-123-CD, got %q", result.PlateNumber)
	}
	if created == nil || created.OwnerID != testOwnerID {
		t.Errorf("expected vehicle stored for owner %s", testOwnerID)
	}
}

func TestRegister_Invalid(t *testing.T) {
	repo := &mockVehicleRepository{
		CreateFunc: func(ctx context.Context, vehicle *model.Vehicle) error {
			t.Fatal("repository should not be called for invalid input")
			return nil
		},
	}
	svc := newService(repo)

	tests := []struct {
		name    string
		vehicle *model.Vehicle
	}{
		{"missing plate", &model.Vehicle{Kind: "sedan"}},
		{"missing kind", &model.Vehicle{PlateNumber: "AB-123"}},
		{"plate too short", &model.Vehicle{PlateNumber: "X", Kind: "sedan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), testOwnerID, tt.vehicle)
			wantAppError(t, err, apperrors.CodeValidation)
		})
	}
}

func TestRegister_DuplicatePlate(t *testing.T) {
	repo := &mockVehicleRepository{
		CreateFunc: func(ctx context.Context, vehicle *model.Vehicle) error {
			return vehicleserrors.ErrDuplicatePlate
		},
	}
	svc := newService(repo)

	_, err := svc.Register(context.Background(), testOwnerID, &model.Vehicle{PlateNumber: "AB-123", Kind: "sedan"})
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestGetByID_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{"empty id", "", nil, apperrors.CodeInvalidInput},
		{"unknown vehicle", "a1b2c3d4-0000-4000-8000-000000000001", vehicleserrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", "not-a-uuid", vehicleserrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"storage failure", "a1b2c3d4-0000-4000-8000-000000000001", errors.New("connection reset"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockVehicleRepository{
				FindByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
					return nil, tt.repoErr
				},
			}
			svc := newService(repo)

			_, err := svc.GetByID(context.Background(), tt.id)
			wantAppError(t, err, tt.wantCode)
		})
	}
}

func TestSetDefault(t *testing.T) {
	repo := &mockVehicleRepository{
		SetDefaultFunc: func(ctx context.Context, ownerID, id string) error {
			if ownerID != testOwnerID {
				t.Errorf("expected owner %s, got %s", testOwnerID, ownerID)
			}
			return nil
		},
	}
	svc := newService(repo)

	if err := svc.SetDefault(context.Background(), testOwnerID, "a1b2c3d4-0000-4000-8000-000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetDefault_UnknownVehicle(t *testing.T) {
	repo := &mockVehicleRepository{
		SetDefaultFunc: func(ctx context.Context, ownerID, id string) error {
			return vehicleserrors.ErrNotFound
		},
	}
	svc := newService(repo)

	err := svc.SetDefault(context.Background(), testOwnerID, "a1b2c3d4-0000-4000-8000-000000000001")
	wantAppError(t, err, apperrors.CodeNotFound)
}
