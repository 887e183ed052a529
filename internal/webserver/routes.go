package webserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentbeats/arenabench/internal/models"
)

// registerRoutes sets up the discovery and assessment routes on the mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	mux.HandleFunc("GET /.well-known/agent-card.json", handleAgentCard)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /assess", handleAssess(cfg))
}

// agentCard describes this assessor to callers discovering it.
type agentCard struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Endpoint    string          `json:"endpoint"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// handleAgentCard serves the discovery document, including the request
// schema /assess payloads are validated against.
func handleAgentCard(w http.ResponseWriter, _ *http.Request) {
	card := agentCard{
		Name:        "arenabench",
		Description: "CRM assessment orchestrator: drives a subject agent through query tasks and scores its answers.",
		Version:     "1.0.0",
		Endpoint:    "/assess",
		InputSchema: models.RequestSchemaJSON(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card) //nolint:errcheck
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
}

// handleAssess validates the request, runs the full assessment batch
// synchronously, and returns the report.
func handleAssess(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		req, err := models.ParseAssessmentRequest(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := cfg.Runner.RunAssessment(r.Context(), req)
		if err != nil {
			cfg.Logger.Error("assessment failed", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report) //nolint:errcheck
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
