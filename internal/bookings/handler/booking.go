package handler

import (
	"encoding/json"
	"net/http"

	"parkspot/internal/bookings/service"
	"parkspot/pkg/auth"
	apperrors "parkspot/pkg/errors"
	httputil "parkspot/pkg/http"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleUser, auth.RoleAdmin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var create model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), principal.ID, &create)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.GetOwn(r.Context(), principal.ID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) Assigned(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleGuard)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, err := h.service.Assigned(r.Context(), principal.SpotID, r.URL.Query().Get("tab"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleUser, auth.RoleAdmin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, err := decodeIDBody(r, "booking_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), principal.ID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleGuard)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, err := decodeIDBody(r, "booking_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Confirm(r.Context(), principal.SpotID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleGuard)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	id, err := decodeIDBody(r, "booking_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Complete(r.Context(), principal.SpotID, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleGuard)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body struct {
		BookingCode string `json:"booking_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Verify(r.Context(), principal.SpotID, body.BookingCode)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) FreeSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := auth.FromContext(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body struct {
		SpotID string `json:"spot_id"`
		Date   string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	intervals, err := h.service.FreeSlots(r.Context(), body.SpotID, body.Date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, intervals)
}

func decodeIDBody(r *http.Request, field string) (string, error) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", apperrors.InvalidInput("Invalid request body")
	}
	id := body[field]
	if id == "" {
		return "", apperrors.InvalidInput(field + " is required")
	}
	return id, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetOwn)
	router.GET("/api/v1/bookings/assigned", h.Assigned)
	router.POST("/api/v1/bookings/cancel", h.Cancel)
	router.POST("/api/v1/bookings/confirm", h.Confirm)
	router.POST("/api/v1/bookings/complete", h.Complete)
	router.POST("/api/v1/bookings/verify", h.Verify)
	router.POST("/api/v1/bookings/free-slots", h.FreeSlots)
}
