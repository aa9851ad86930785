package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/julianstephens/momentum/internal/api/respond"
	"github.com/julianstephens/momentum/internal/datasources"
	"github.com/julianstephens/momentum/internal/momentum"
	"github.com/julianstephens/momentum/internal/profile"
	"github.com/julianstephens/momentum/internal/records"
	"github.com/julianstephens/momentum/internal/retention"
	"github.com/julianstephens/momentum/internal/storage"
)

// Handler provides HTTP transport for every service
type Handler struct {
	store       storage.Provider
	momentum    *momentum.Service
	records     *records.Service
	dataSources *datasources.Service
	profile     *profile.Service
	recorder    *retention.Recorder
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type idResponse struct {
	ID string `json:"id"`
}

// Health GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WeeklyMomentum GET /api/momentum/weekly
func (h *Handler) WeeklyMomentum(w http.ResponseWriter, r *http.Request) {
	wm, err := h.momentum.WeeklyMomentum(r.Context())
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, wm)
}

// ReviewSnapshot GET /api/review
func (h *Handler) ReviewSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.momentum.ReviewSnapshot(r.Context())
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, snap)
}

// GetCommitment GET /api/commitments/{date}. Responds with null when absent.
func (h *Handler) GetCommitment(w http.ResponseWriter, r *http.Request) {
	c, err := h.records.GetCommitmentForDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// UpsertCommitment PUT /api/commitments/{date}
func (h *Handler) UpsertCommitment(w http.ResponseWriter, r *http.Request) {
	var in records.CommitmentInput
	if err := decode(r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	in.Date = mux.Vars(r)["date"]

	id, err := h.records.UpsertCommitmentForDate(r.Context(), in)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, idResponse{ID: id})
}

// LogEvidence POST /api/evidence
func (h *Handler) LogEvidence(w http.ResponseWriter, r *http.Request) {
	var in momentum.EvidenceInput
	if err := decode(r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	id, err := h.momentum.RecordEvidence(r.Context(), in)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, idResponse{ID: id})
}

// StartSprint POST /api/sprints
func (h *Handler) StartSprint(w http.ResponseWriter, r *http.Request) {
	var in records.SprintInput
	if err := decode(r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	id, err := h.records.StartSprint(r.Context(), in)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, idResponse{ID: id})
}

// GetSprint GET /api/sprints/{id}
func (h *Handler) GetSprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := h.records.GetSprint(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sprint)
}

// EndSprint POST /api/sprints/{id}/end
func (h *Handler) EndSprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outcome *string `json:"outcome,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	if err := h.records.EndSprint(r.Context(), mux.Vars(r)["id"], req.Outcome); err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDataSources GET /api/data-sources
func (h *Handler) ListDataSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.dataSources.List(r.Context())
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sources)
}

// InitializeDataSources POST /api/data-sources/init
func (h *Handler) InitializeDataSources(w http.ResponseWriter, r *http.Request) {
	created, err := h.dataSources.Initialize(r.Context())
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"created": created})
}

// UpdateDataSource PATCH /api/data-sources/{source}
func (h *Handler) UpdateDataSource(w http.ResponseWriter, r *http.Request) {
	var in datasources.UpdateInput
	if err := decode(r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	in.Source = mux.Vars(r)["source"]

	if err := h.dataSources.Update(r.Context(), in); err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertCurrentUser PUT /api/users/me
func (h *Handler) UpsertCurrentUser(w http.ResponseWriter, r *http.Request) {
	var in profile.UserInput
	if err := decode(r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	u, err := h.profile.UpsertCurrentUser(r.Context(), in)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

// GetProfile GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profile.GetProfile(r.Context())
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// AddIdentityStatement POST /api/profile/identity-statements
func (h *Handler) AddIdentityStatement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Statement string `json:"statement"`
	}
	if err := decode(r, &req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	p, err := h.profile.AddIdentityStatement(r.Context(), req.Statement)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, p)
}

// RecordNudge POST /api/nudges
func (h *Handler) RecordNudge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	id, err := h.recorder.RecordNudge(r.Context(), req.Message)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, idResponse{ID: id})
}

// RecordCheckin POST /api/checkins
func (h *Handler) RecordCheckin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decode(r, &req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	id, err := h.recorder.RecordCheckin(r.Context(), req.Note)
	if err != nil {
		respond.WriteServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, idResponse{ID: id})
}
