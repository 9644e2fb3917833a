package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"parkspot/internal/spots/service"
	"parkspot/pkg/auth"
	apperrors "parkspot/pkg/errors"
	httputil "parkspot/pkg/http"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SpotHandler struct {
	service service.SpotService
	log     *logger.Logger
}

func NewSpotHandler(service service.SpotService, log *logger.Logger) *SpotHandler {
	return &SpotHandler{
		service: service,
		log:     log,
	}
}

func (h *SpotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleUser, auth.RoleAdmin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var create model.SpotCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	spot, err := h.service.Create(r.Context(), principal.ID, &create)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, spot)
}

func (h *SpotHandler) GetOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	spots, err := h.service.GetOwn(r.Context(), principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spots)
}

func (h *SpotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	spot, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spot)
}

func (h *SpotHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var update model.SpotUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	spot, err := h.service.Update(r.Context(), principal.ID, ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spot)
}

func (h *SpotHandler) UpdateWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	spot, err := h.service.UpdateSlots(r.Context(), principal.ID, ps.ByName("id"), body.Slots)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spot)
}

func (h *SpotHandler) Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var body struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	spot, err := h.service.SetAvailability(r.Context(), principal.ID, ps.ByName("id"), body.IsAvailable)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spot)
}

func (h *SpotHandler) Nearby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	query, err := parseNearbyQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	spots, err := h.service.FindNearby(r.Context(), principal.ID, query)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, spots)
}

func parseNearbyQuery(r *http.Request) (*model.NearbyQuery, error) {
	values := r.URL.Query()

	lat, err := strconv.ParseFloat(values.Get("lat"), 64)
	if err != nil {
		return nil, apperrors.InvalidInput("lat query parameter is required and must be a number")
	}
	lon, err := strconv.ParseFloat(values.Get("lon"), 64)
	if err != nil {
		return nil, apperrors.InvalidInput("lon query parameter is required and must be a number")
	}

	query := &model.NearbyQuery{
		Latitude:  lat,
		Longitude: lon,
		Date:      values.Get("date"),
		StartTime: values.Get("start"),
		EndTime:   values.Get("end"),
	}

	if raw := values.Get("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("max_price must be a number")
		}
		query.MaxPrice = &price
	}

	return query, nil
}

func (h *SpotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/spots", h.Create)
	router.GET("/api/v1/spots", h.GetOwn)
	router.GET("/api/v1/spots/nearby", h.Nearby)
	router.GET("/api/v1/spots/id/:id", h.GetByID)
	router.PATCH("/api/v1/spots/id/:id", h.Update)
	router.POST("/api/v1/spots/id/:id/window", h.UpdateWindow)
	router.POST("/api/v1/spots/id/:id/toggle", h.Toggle)
}
