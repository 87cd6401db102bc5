package app

import (
	"github.com/gorilla/mux"
	"github.com/valoriza/valoriza/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Curve
	r.HandleFunc("/api/projects/{projectId}/curve-s", deps.CurveHandler.GetCurve).Methods("GET")

	// Schedules
	r.HandleFunc("/api/projects/{projectId}/schedules", deps.ScheduleHandler.ListSchedules).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/schedules/{scheduleId}/baseline", deps.ScheduleHandler.SetBaseline).Methods("PUT")

	// Valorizations
	r.HandleFunc("/api/projects/{projectId}/valorizations", deps.ValorizationHandler.List).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/valorizations", deps.ValorizationHandler.Create).Methods("POST")
	r.HandleFunc("/api/valorizations/{valorizationId}/state", deps.ValorizationHandler.ChangeState).Methods("PATCH")

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
}
