package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parkspot/pkg/auth"
	apperrors "parkspot/pkg/errors"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"
	"parkspot/pkg/schedule"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc    func(ctx context.Context, renterID string, create *model.BookingCreate) (*model.Booking, error)
	cancelFunc    func(ctx context.Context, renterID, bookingID string) (*model.Booking, error)
	verifyFunc    func(ctx context.Context, guardSpotID, code string) (*model.Booking, error)
	freeSlotsFunc func(ctx context.Context, spotID, date string) ([]schedule.Interval, error)
}

func (m *mockBookingService) Create(ctx context.Context, renterID string, create *model.BookingCreate) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, renterID, create)
	}
	return &model.Booking{ID: "id", Status: model.StatusPending}, nil
}

func (m *mockBookingService) GetOwn(ctx context.Context, renterID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Assigned(ctx context.Context, guardSpotID, tab string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, renterID, bookingID string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, renterID, bookingID)
	}
	return &model.Booking{ID: bookingID, Status: model.StatusCancelled}, nil
}

func (m *mockBookingService) Confirm(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error) {
	return &model.Booking{ID: bookingID, Status: model.StatusConfirmed}, nil
}

func (m *mockBookingService) Complete(ctx context.Context, guardSpotID, bookingID string) (*model.Booking, error) {
	return &model.Booking{ID: bookingID, Status: model.StatusCompleted}, nil
}

func (m *mockBookingService) Verify(ctx context.Context, guardSpotID, code string) (*model.Booking, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, guardSpotID, code)
	}
	return &model.Booking{Code: code}, nil
}

func (m *mockBookingService) FreeSlots(ctx context.Context, spotID, date string) ([]schedule.Interval, error) {
	if m.freeSlotsFunc != nil {
		return m.freeSlotsFunc(ctx, spotID, date)
	}
	return []schedule.Interval{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newRouter(service *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(service, testLogger()).RegisterRoutes(router)
	return router
}

func doRequest(router *httprouter.Router, method, path, body string, principal *auth.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_RoleEnforcement(t *testing.T) {
	router := newRouter(&mockBookingService{})
	body := `{"spot_id":"s","vehicle_id":"v","date":"2026-09-07","start_time":"09:00","end_time":"11:00"}`

	tests := []struct {
		name      string
		principal *auth.Principal
		wantCode  int
	}{
		{name: "no principal", principal: nil, wantCode: http.StatusForbidden},
		{name: "guard cannot book", principal: &auth.Principal{ID: "g1", Role: auth.RoleGuard}, wantCode: http.StatusForbidden},
		{name: "user books", principal: &auth.Principal{ID: "u1", Role: auth.RoleUser}, wantCode: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/v1/bookings", body, tt.principal)
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreate_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "overlap", err: apperrors.Conflict("overlaps"), wantCode: http.StatusConflict},
		{name: "validation", err: apperrors.Validation("bad", nil), wantCode: http.StatusUnprocessableEntity},
		{name: "unknown spot", err: apperrors.NotFound("Parking spot"), wantCode: http.StatusNotFound},
		{name: "bad input", err: apperrors.InvalidInput("bad"), wantCode: http.StatusBadRequest},
		{name: "storage failure", err: apperrors.Internal("boom", nil), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockBookingService{
				createFunc: func(context.Context, string, *model.BookingCreate) (*model.Booking, error) {
					return nil, tt.err
				},
			})

			rec := doRequest(router, http.MethodPost, "/api/v1/bookings",
				`{"spot_id":"s"}`, &auth.Principal{ID: "u1", Role: auth.RoleUser})
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Code == "" {
				t.Error("expected machine-readable error code in body")
			}
		})
	}
}

func TestCancel_RequiresBookingID(t *testing.T) {
	router := newRouter(&mockBookingService{})
	principal := &auth.Principal{ID: "u1", Role: auth.RoleUser}

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings/cancel", `{}`, principal)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing booking_id, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/bookings/cancel", `{"booking_id":"b1"}`, principal)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerify_GuardOnly(t *testing.T) {
	var gotSpot string
	router := newRouter(&mockBookingService{
		verifyFunc: func(_ context.Context, guardSpotID, code string) (*model.Booking, error) {
			gotSpot = guardSpotID
			return &model.Booking{Code: code}, nil
		},
	})

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings/verify",
		`{"booking_code":"PSB-ABCD2345"}`, &auth.Principal{ID: "u1", Role: auth.RoleUser})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-guard, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/api/v1/bookings/verify",
		`{"booking_code":"PSB-ABCD2345"}`, &auth.Principal{ID: "g1", Role: auth.RoleGuard, SpotID: "spot-1"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSpot != "spot-1" {
		t.Errorf("expected guard spot to be passed through, got %q", gotSpot)
	}
}

func TestFreeSlots_PassesPayload(t *testing.T) {
	var gotSpot, gotDate string
	router := newRouter(&mockBookingService{
		freeSlotsFunc: func(_ context.Context, spotID, date string) ([]schedule.Interval, error) {
			gotSpot, gotDate = spotID, date
			return []schedule.Interval{{Start: "08:00", End: "18:00"}}, nil
		},
	})

	rec := doRequest(router, http.MethodPost, "/api/v1/bookings/free-slots",
		`{"spot_id":"spot-1","date":"2026-09-07"}`, &auth.Principal{ID: "u1", Role: auth.RoleUser})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSpot != "spot-1" || gotDate != "2026-09-07" {
		t.Errorf("unexpected payload passthrough: %s %s", gotSpot, gotDate)
	}
}
