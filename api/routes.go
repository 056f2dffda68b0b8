package api

import (
	assets "github.com/Fazalwahab12/shift-backend-sub002/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/audit"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/chat"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/config"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/gate"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/jobs"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/notify"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/repository/sqlite"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/scheduler"
	"github.com/Fazalwahab12/shift-backend-sub002/internal/workflow"
	"github.com/gorilla/mux"
)

// SetupRoutes wires repositories, collaborators and handlers into the HTTP
// router. queue and chatClient may be nil; side effects then degrade to no-ops
// and inline sends respectively.
func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, queue *jobs.Repository, chatClient chat.Client) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Collaborators
	trail := audit.New(repo, logger)
	blockGate := gate.New(repo, repo, gate.Policy(cfg.Gate.OnLookupFailure), logger)
	sched := scheduler.New(repo, cfg.Scheduler, logger)

	var provisioner *chat.Provisioner
	if chatClient != nil {
		provisioner = chat.NewProvisioner(repo, chatClient, queue, logger)
	}

	var notifier notify.Notifier = notify.Nop{}
	if queue != nil {
		notifier = notify.NewQueueNotifier(queue, cfg.Notify.MaxAttempts, logger)
	}

	engine := workflow.NewEngine(repo, blockGate, sched, trail, provisioner, notifier, logger)

	validator, err := NewSchemaValidator(assets.RequestSchemas, "schemas")
	if err != nil {
		return nil, err
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	applicationsHandler := NewApplicationsHandler(engine, validator)
	interviewsHandler := NewInterviewsHandler(engine, sched, validator)
	historyHandler := NewHistoryHandler(trail)
	blocksHandler := NewBlocksHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Application lifecycle
	apiV1.HandleFunc("/applications", applicationsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/applications", applicationsHandler.List).Methods("GET")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/applications/{id}/accept-invite", applicationsHandler.AcceptInvite).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/shortlist", applicationsHandler.Shortlist).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/hire", applicationsHandler.Hire).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/hire/respond", applicationsHandler.RespondToHire).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/decline", applicationsHandler.Decline).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/withdraw", applicationsHandler.Withdraw).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/attendance", applicationsHandler.ReportAttendance).Methods("POST")

	// Interview sub-flow (keyed by application id)
	apiV1.HandleFunc("/applications/{id}/interview/respond", interviewsHandler.Respond).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/interview/reschedule", interviewsHandler.Reschedule).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/interview/complete", interviewsHandler.Complete).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/interview/no-show", interviewsHandler.NoShow).Methods("POST")

	// Interview records
	apiV1.HandleFunc("/interviews", interviewsHandler.Schedule).Methods("POST")
	apiV1.HandleFunc("/interviews", interviewsHandler.List).Methods("GET")
	apiV1.HandleFunc("/interviews/slots", interviewsHandler.Slots).Methods("GET")
	apiV1.HandleFunc("/interviews/{id}", interviewsHandler.Get).Methods("GET")

	// Audit trail
	apiV1.HandleFunc("/applications/{id}/history", historyHandler.ByApplication).Methods("GET")
	apiV1.HandleFunc("/applications/{id}/stats", historyHandler.Stats).Methods("GET")
	apiV1.HandleFunc("/history", historyHandler.List).Methods("GET")

	// Company blocks
	apiV1.HandleFunc("/blocks", blocksHandler.Create).Methods("POST")
	apiV1.HandleFunc("/blocks", blocksHandler.List).Methods("GET")
	apiV1.HandleFunc("/blocks/deactivate", blocksHandler.Deactivate).Methods("POST")

	return r, nil
}
