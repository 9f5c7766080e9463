package app

import (
	"github.com/aiburn/aiburn/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budget/active", deps.BudgetHandler.GetActive).Methods("GET")
	r.HandleFunc("/api/budget/history", deps.BudgetHandler.History).Methods("GET")

	// Initiatives
	r.HandleFunc("/api/initiative", deps.InitiativeHandler.List).Methods("GET")
	r.HandleFunc("/api/initiative", deps.InitiativeHandler.Propose).Methods("POST")
	r.HandleFunc("/api/initiative/pending", deps.InitiativeHandler.ListPending).Methods("GET")
	r.HandleFunc("/api/initiative/default", deps.InitiativeHandler.EnsureDefaultBucket).Methods("POST")
	r.HandleFunc("/api/initiative/{id}/approve", deps.InitiativeHandler.Approve).Methods("POST")
	r.HandleFunc("/api/initiative/{id}/reject", deps.InitiativeHandler.Reject).Methods("POST")
	r.HandleFunc("/api/initiative/{id}/pause", deps.InitiativeHandler.Pause).Methods("POST")

	// Time entries
	r.HandleFunc("/api/time-entry", deps.TimeEntryHandler.LogTime).Methods("POST")
	r.HandleFunc("/api/time-entry/recent", deps.TimeEntryHandler.Recent).Methods("GET")

	// Reporting
	r.HandleFunc("/api/reporting", deps.ReportingHandler.Overview).Methods("GET")

	// Slack slash commands
	r.HandleFunc("/api/slack/command", deps.SlackCommandHandler.HandleCommand).Methods("POST")
}
