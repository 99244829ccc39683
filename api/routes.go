package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, store repository.Store, sessions *session.Manager, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	// Preflight requests land here because no route is registered for OPTIONS.
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(methodNotAllowedHandler))

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(MetricsMiddleware(m))
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware)
	r.Use(ErrorDetailMiddleware(cfg.IsDevelopment()))
	r.Use(SessionMiddleware(sessions))

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(store, sessions, m)
	usersHandler := NewUsersHandler(store, store)
	jobsHandler := NewJobsHandler(store, store, store, m)
	profilesHandler := NewProfilesHandler(store, store, m)
	reviewsHandler := NewReviewsHandler(store, store, m)
	applicationsHandler := NewApplicationsHandler(store, store, store, m)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.NotFoundHandler = r.NotFoundHandler
	apiRouter.MethodNotAllowedHandler = r.MethodNotAllowedHandler

	auth := apiRouter.PathPrefix("/auth").Subrouter()
	auth.NotFoundHandler = r.NotFoundHandler
	auth.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	auth.HandleFunc("/me", authHandler.Me).Methods("GET")

	apiRouter.HandleFunc("/users/{id:[0-9]+}", usersHandler.GetUser).Methods("GET")
	apiRouter.HandleFunc("/users/{id:[0-9]+}", usersHandler.UpdateUser).Methods("PATCH")
	apiRouter.HandleFunc("/users/{userId:[0-9]+}/editor-profile", usersHandler.GetEditorProfile).Methods("GET")

	apiRouter.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	apiRouter.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiRouter.HandleFunc("/jobs/creator/{creatorId:[0-9]+}", jobsHandler.ListByCreator).Methods("GET")
	apiRouter.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.GetJob).Methods("GET")
	apiRouter.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.UpdateJob).Methods("PATCH")
	apiRouter.HandleFunc("/jobs/{id:[0-9]+}/applications", jobsHandler.ListApplications).Methods("GET")

	apiRouter.HandleFunc("/editor-profiles", profilesHandler.ListProfiles).Methods("GET")
	apiRouter.HandleFunc("/editor-profiles", profilesHandler.CreateProfile).Methods("POST")
	apiRouter.HandleFunc("/editor-profiles/{id:[0-9]+}", profilesHandler.GetProfile).Methods("GET")
	apiRouter.HandleFunc("/editor-profiles/{id:[0-9]+}", profilesHandler.UpdateProfile).Methods("PATCH")

	apiRouter.HandleFunc("/reviews", reviewsHandler.CreateReview).Methods("POST")
	apiRouter.HandleFunc("/reviews/{id:[0-9]+}", reviewsHandler.GetReview).Methods("GET")
	apiRouter.HandleFunc("/reviews/editor/{editorId:[0-9]+}", reviewsHandler.ListByEditor).Methods("GET")
	apiRouter.HandleFunc("/reviews/creator/{creatorId:[0-9]+}", reviewsHandler.ListByCreator).Methods("GET")

	apiRouter.HandleFunc("/applications", applicationsHandler.CreateApplication).Methods("POST")
	apiRouter.HandleFunc("/applications/{id:[0-9]+}", applicationsHandler.GetApplication).Methods("GET")
	apiRouter.HandleFunc("/applications/{id:[0-9]+}", applicationsHandler.UpdateApplication).Methods("PATCH")
	apiRouter.HandleFunc("/applications/editor/{editorId:[0-9]+}", applicationsHandler.ListByEditor).Methods("GET")

	return r
}
