package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/julianstephens/momentum/internal/api/recovery"
	"github.com/julianstephens/momentum/internal/datasources"
	"github.com/julianstephens/momentum/internal/momentum"
	"github.com/julianstephens/momentum/internal/profile"
	"github.com/julianstephens/momentum/internal/records"
	"github.com/julianstephens/momentum/internal/retention"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// NewHandler builds every service over one store
func NewHandler(store storage.Provider, clock utils.Clock) *Handler {
	return &Handler{
		store:       store,
		momentum:    momentum.NewService(store, clock),
		records:     records.NewService(store, clock),
		dataSources: datasources.NewService(store, clock),
		profile:     profile.NewService(store, clock),
		recorder:    retention.NewRecorder(store, clock),
	}
}

// NewRouter creates the HTTP router with all API routes
func NewRouter(h *Handler, verifier TokenVerifier) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)
	router.Use(LogRequests)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(Authenticate(verifier))

	api.HandleFunc("/momentum/weekly", h.WeeklyMomentum).Methods(http.MethodGet)
	api.HandleFunc("/review", h.ReviewSnapshot).Methods(http.MethodGet)

	api.HandleFunc("/commitments/{date}", h.GetCommitment).Methods(http.MethodGet)
	api.HandleFunc("/commitments/{date}", h.UpsertCommitment).Methods(http.MethodPut)

	api.HandleFunc("/evidence", h.LogEvidence).Methods(http.MethodPost)

	api.HandleFunc("/sprints", h.StartSprint).Methods(http.MethodPost)
	api.HandleFunc("/sprints/{id}", h.GetSprint).Methods(http.MethodGet)
	api.HandleFunc("/sprints/{id}/end", h.EndSprint).Methods(http.MethodPost)

	api.HandleFunc("/data-sources", h.ListDataSources).Methods(http.MethodGet)
	api.HandleFunc("/data-sources/init", h.InitializeDataSources).Methods(http.MethodPost)
	api.HandleFunc("/data-sources/{source}", h.UpdateDataSource).Methods(http.MethodPatch)

	api.HandleFunc("/users/me", h.UpsertCurrentUser).Methods(http.MethodPut)
	api.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile/identity-statements", h.AddIdentityStatement).Methods(http.MethodPost)

	api.HandleFunc("/nudges", h.RecordNudge).Methods(http.MethodPost)
	api.HandleFunc("/checkins", h.RecordCheckin).Methods(http.MethodPost)

	return router
}
