package handler

import (
	"encoding/json"
	"net/http"

	"parkspot/internal/vehicles/service"
	"parkspot/pkg/auth"
	apperrors "parkspot/pkg/errors"
	httputil "parkspot/pkg/http"
	"parkspot/pkg/logger"
	"parkspot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type VehicleHandler struct {
	service service.VehicleService
	log     *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log,
	}
}

func (h *VehicleHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.RequireRole(r.Context(), auth.RoleUser, auth.RoleAdmin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var vehicle model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	registered, err := h.service.Register(r.Context(), principal.ID, &vehicle)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, registered)
}

func (h *VehicleHandler) GetOwn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicles, err := h.service.GetOwn(r.Context(), principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, vehicles)
}

func (h *VehicleHandler) SetDefault(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := auth.FromContext(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.SetDefault(r.Context(), principal.ID, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/vehicles", h.Register)
	router.GET("/api/v1/vehicles", h.GetOwn)
	router.POST("/api/v1/vehicles/id/:id/default", h.SetDefault)
}
