package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/rest"
	"github.com/valoriza/valoriza/pkg/project"
)

type ScheduleDTO struct {
	Id         int    `json:"id"`
	ProjectId  int    `json:"projectId"`
	Name       string `json:"name"`
	IsBaseline bool   `json:"isBaseline"`
	CreatedAt  string `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListSchedules godoc
// @Summary List the schedules of a project
// @Tags Schedule
// @Produce json
// @Param projectId path int true "Project ID"
// @Success 200 {array} ScheduleDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid project id"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/projects/{projectId}/schedules [get]
// @Security XUserId
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	log.Debugf("Listing schedules of project %d", projectId)

	schedules, err := h.service.ListSchedules(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]ScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		dtos = append(dtos, ScheduleToDTO(s))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SetBaseline godoc
// @Summary Mark a schedule as the project's baseline
// @Tags Schedule
// @Produce json
// @Param projectId path int true "Project ID"
// @Param scheduleId path int true "Schedule ID"
// @Success 200 {object} ScheduleDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid id"
// @Failure 404 {object} rest.ErrorResponse "Project or schedule not found"
// @Router /api/projects/{projectId}/schedules/{scheduleId}/baseline [put]
// @Security XUserId
func (h *Handler) SetBaseline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectId, err := strconv.Atoi(vars["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	scheduleId, err := strconv.Atoi(vars["scheduleId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid schedule id", err.Error())
		return
	}

	baseline, err := h.service.SetBaseline(r.Context(), projectId, scheduleId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ScheduleToDTO(baseline)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		rest.WriteError(w, http.StatusNotFound, "Project not found", err.Error())
	case errors.Is(err, ErrScheduleNotFound):
		rest.WriteError(w, http.StatusNotFound, "Schedule not found", err.Error())
	default:
		log.Errorf("schedule request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func ScheduleToDTO(s Schedule) ScheduleDTO {
	return ScheduleDTO{
		Id:         s.Id,
		ProjectId:  s.ProjectId,
		Name:       s.Name,
		IsBaseline: s.IsBaseline,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}
