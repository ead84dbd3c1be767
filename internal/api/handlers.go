// Package api exposes HTTP handlers for the workout tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/NarumiKomaba/trainnote/internal/domain"
	"github.com/NarumiKomaba/trainnote/internal/identity"
	"github.com/NarumiKomaba/trainnote/internal/planner"
)

// Handler coordinates HTTP requests with the domain and planner services.
type Handler struct {
	service *domain.Service
	planner *planner.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, planner *planner.Service) *Handler {
	return &Handler{service: service, planner: planner}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/equipment", h.equipment)
	mux.HandleFunc("/v1/equipment/", h.equipmentByID)
	mux.HandleFunc("/v1/patterns", h.patterns)
	mux.HandleFunc("/v1/patterns/", h.patternByID)
	mux.HandleFunc("/v1/settings", h.settings)
	mux.HandleFunc("/v1/plans/generate", h.generatePlan)
	mux.HandleFunc("/v1/workouts", h.saveWorkout)
	mux.HandleFunc("/v1/stamps", h.listStamps)
	mux.HandleFunc("/v1/dashboard", h.dashboard)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) equipment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createEquipment(w, r)
	case http.MethodGet:
		h.listEquipment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createEquipment(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	equipment, err := h.service.CreateEquipment(r.Context(), user.ID, domain.CreateEquipmentInput{
		Name: req.Name,
		Unit: domain.EquipmentUnit(req.Unit),
		Note: req.Note,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, equipment)
}

func (h *Handler) listEquipment(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	items, err := h.service.ListEquipment(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if items == nil {
		items = []domain.Equipment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) equipmentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/equipment/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing equipment id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	if err := h.service.DeleteEquipment(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrEquipmentNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "equipment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) patterns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createPattern(w, r)
	case http.MethodGet:
		h.listPatterns(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createPattern(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	pattern, err := h.service.CreatePattern(r.Context(), user.ID, domain.PatternInput{
		Name:                strings.TrimSpace(req.Name),
		Type:                domain.PatternType(req.Type),
		Description:         req.Description,
		AllowedEquipmentIDs: req.AllowedEquipmentIDs,
		Tags:                req.Tags,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, pattern)
}

func (h *Handler) listPatterns(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	items, err := h.service.ListPatterns(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if items == nil {
		items = []domain.TrainingPattern{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) patternByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/patterns/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing pattern id")
		return
	}
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	pattern, err := h.service.UpdatePattern(r.Context(), user.ID, id, domain.PatternInput{
		Name:                strings.TrimSpace(req.Name),
		Type:                domain.PatternType(req.Type),
		Description:         req.Description,
		AllowedEquipmentIDs: req.AllowedEquipmentIDs,
		Tags:                req.Tags,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPatternNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "pattern not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pattern)
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getSettings(w, r)
	case http.MethodPut:
		h.saveSettings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	settings, err := h.service.GetSettings(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if settings == nil {
		writeError(w, http.StatusNotFound, "not_found", "settings not configured yet")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	settings, err := h.service.SaveSettings(r.Context(), user.ID, req.toInput())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) generatePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	plan, err := h.planner.GeneratePlan(r.Context(), user.ID, planner.GenerateInput{
		DateKey:          req.DateKey,
		Force:            req.Force,
		AvailableTimeMin: req.AvailableTimeMin,
	})
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// writePlanError maps planner failures onto status codes. Generation-service
// problems surface as 502 so callers can distinguish them from our own
// failures, and parse failures carry the raw model output for debugging.
func writePlanError(w http.ResponseWriter, err error) {
	var parseErr *planner.ParseError
	var upstreamErr *planner.UpstreamError
	var qualityErr *planner.QualityError

	switch {
	case errors.Is(err, domain.ErrPatternNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"type":   "plan_parse_failed",
			"detail": parseErr.Error(),
			"raw":    parseErr.Raw,
		})
	case errors.As(err, &upstreamErr):
		writeError(w, http.StatusBadGateway, "generation_failed", upstreamErr.Error())
	case errors.As(err, &qualityErr):
		writeError(w, http.StatusBadGateway, "plan_rejected", qualityErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func (h *Handler) saveWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	var req SaveWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	stampType, err := h.service.SaveWorkout(r.Context(), user.ID, domain.SaveWorkoutInput{
		DateKey:   req.DateKey,
		PatternID: req.PatternID,
		PlanID:    req.PlanID,
		Items:     req.Items,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"stampType": string(stampType)})
}

func (h *Handler) listStamps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if !domain.ValidDateKey(start) || !domain.ValidDateKey(end) {
		writeError(w, http.StatusBadRequest, "validation_failed", "start and end must be YYYY-MM-DD")
		return
	}
	if start > end {
		writeError(w, http.StatusBadRequest, "validation_failed", "start must not come after end")
		return
	}

	stamps, err := h.service.ListStamps(r.Context(), user.ID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if stamps == nil {
		stamps = []domain.Stamp{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": stamps})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}

	report, err := h.service.Dashboard(r.Context(), user.ID, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
