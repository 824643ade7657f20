package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/unseriousprof/edgi-vid-library/internal/migration"
	"github.com/unseriousprof/edgi-vid-library/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// opsSpotCheckSample bounds the per-video comparisons in an ops-triggered
// verification run.
const opsSpotCheckSample = 50

// OpsApp is the internal operations surface: health, migration status,
// and the verification report. It runs on its own port, separate from
// the public API.
type OpsApp struct {
	router   *chi.Mux
	runner   *migration.Runner
	verifier *report.Verifier
}

// NewOpsApp creates the ops application
func NewOpsApp(runner *migration.Runner, verifier *report.Verifier) *OpsApp {
	app := &OpsApp{
		router:   chi.NewRouter(),
		runner:   runner,
		verifier: verifier,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

func (a *OpsApp) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *OpsApp) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/ops/migrations", a.handleMigrations)
	a.router.Get("/ops/report", a.handleReport)
	a.router.Get("/ops/report.json", a.handleReportJSON)
}

// Start starts the ops server
func (a *OpsApp) Start(addr string) error {
	log.Printf("Starting ops server on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests.
func (a *OpsApp) Handler() http.Handler {
	return a.router
}

func (a *OpsApp) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *OpsApp) handleMigrations(w http.ResponseWriter, r *http.Request) {
	statuses, err := a.runner.Statuses(r.Context())
	if err != nil {
		log.Printf("[Ops] migration status failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "status unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"migrations": statuses})
}

func (a *OpsApp) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := a.verifier.Run(r.Context(), opsSpotCheckSample)
	if err != nil {
		log.Printf("[Ops] verification failed: %v", err)
		http.Error(w, "verification failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.RenderHTML(rep))
}

func (a *OpsApp) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, err := a.verifier.Run(r.Context(), opsSpotCheckSample)
	if err != nil {
		log.Printf("[Ops] verification failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "verification failed"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Ops] failed to encode response: %v", err)
	}
}
