package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"deerhacks-service/internal/app"
	"deerhacks-service/internal/domain"
	"go.uber.org/zap"
)

// API serves the REST endpoints of the schedule, archetype quiz and
// workshop points.
type API struct {
	schedule   *app.ScheduleService
	archetypes *app.ArchetypeService
	points     *app.PointsService
	logger     *zap.Logger
}

func NewAPI(schedule *app.ScheduleService, archetypes *app.ArchetypeService, points *app.PointsService, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{schedule: schedule, archetypes: archetypes, points: points, logger: logger}
}

// Register mounts every REST route on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /schedule", a.getSchedule)

	mux.HandleFunc("GET /admin/events", a.listEvents)
	mux.HandleFunc("POST /admin/events", a.createEvent)
	mux.HandleFunc("GET /admin/events/{id}", a.getEvent)
	mux.HandleFunc("PUT /admin/events/{id}", a.updateEvent)
	mux.HandleFunc("DELETE /admin/events/{id}", a.deleteEvent)
	mux.HandleFunc("PUT /admin/settings/schedule_visible", a.setVisible)
	mux.HandleFunc("GET /admin/archetypes", a.archetypeDistribution)

	mux.HandleFunc("GET /admin/events/{id}/qr-token", a.issueToken)
	mux.HandleFunc("GET /admin/events/{id}/redemptions", a.recentClaimants)
	mux.HandleFunc("POST /admin/points/adjust", a.adjustPoints)
	mux.HandleFunc("POST /workshop/claim", a.claimPoints)
	mux.HandleFunc("GET /points/{userId}", a.getPoints)

	mux.HandleFunc("POST /archetype", a.submitArchetype)
	mux.HandleFunc("POST /archetype/weighted", a.submitWeighted)
	mux.HandleFunc("GET /archetype/{userId}", a.getArchetype)
}

type errorPayload struct {
	Message string `json:"message"`
}

type archetypeRequest struct {
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

type weightedRequest struct {
	UserID  string   `json:"userId"`
	Answers []string `json:"answers"`
}

type visibilityRequest struct {
	Value bool `json:"value"`
}

type eventsResponse struct {
	Events []domain.Event `json:"events"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type claimRequest struct {
	UserID  string `json:"userId"`
	EventID int64  `json:"eventId"`
	Token   string `json:"token"`
}

type adjustRequest struct {
	UserID         string                `json:"userId"`
	Delta          int                   `json:"delta"`
	AdjustmentType domain.AdjustmentType `json:"adjustmentType"`
	Reason         string                `json:"reason"`
}

type adjustResponse struct {
	NewTotal int `json:"newTotal"`
}

type redemptionsResponse struct {
	Redemptions []domain.Redemption `json:"redemptions"`
}

func (a *API) getSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := a.schedule.Schedule(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.schedule.AdminEvents(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ev, err := a.schedule.Event(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid event payload"})
		return
	}
	created, err := a.schedule.CreateEvent(r.Context(), ev)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid event payload"})
		return
	}
	ev.ID = id
	updated, err := a.schedule.UpdateEvent(r.Context(), ev)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.schedule.DeleteEvent(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) setVisible(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid setting payload"})
		return
	}
	if err := a.schedule.SetVisible(r.Context(), req.Value); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (a *API) archetypeDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := a.archetypes.Distribution(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (a *API) issueToken(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tok, err := a.points.IssueToken(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok.Token, ExpiresIn: tok.ExpiresIn})
}

func (a *API) recentClaimants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	redemptions, err := a.points.RecentClaimants(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemptionsResponse{Redemptions: redemptions})
}

func (a *API) adjustPoints(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid adjustment payload"})
		return
	}
	total, err := a.points.Adjust(r.Context(), req.UserID, req.Delta, req.AdjustmentType, req.Reason)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adjustResponse{NewTotal: total})
}

func (a *API) claimPoints(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing userId, eventId or token"})
		return
	}
	result, err := a.points.Claim(r.Context(), req.UserID, req.EventID, req.Token)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) getPoints(w http.ResponseWriter, r *http.Request) {
	pts, err := a.points.Points(r.Context(), r.PathValue("userId"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (a *API) submitArchetype(w http.ResponseWriter, r *http.Request) {
	var req archetypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing userId or answer"})
		return
	}
	record, err := a.archetypes.Submit(r.Context(), req.UserID, req.Answer)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) submitWeighted(w http.ResponseWriter, r *http.Request) {
	var req weightedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing userId or answers"})
		return
	}
	record, err := a.archetypes.SubmitWeighted(r.Context(), req.UserID, req.Answers)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) getArchetype(w http.ResponseWriter, r *http.Request) {
	record, err := a.archetypes.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, domain.ErrInvalidAdjustment), errors.Is(err, domain.ErrInvalidToken):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnscoredAnswer):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrResultNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrScheduleHidden), errors.Is(err, domain.ErrClaimInactive):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyClaimed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrTokenExpired):
		status = http.StatusGone
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, errorPayload{Message: "internal error"})
		return
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid event id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
