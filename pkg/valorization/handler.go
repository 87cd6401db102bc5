package valorization

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/valoriza/valoriza/internal/rest"
	"github.com/valoriza/valoriza/pkg/project"
)

const dateLayout = "2006-01-02"

type ValorizationDTO struct {
	Id          int     `json:"id"`
	ProjectId   int     `json:"projectId"`
	PeriodStart *string `json:"periodStart,omitempty"`
	PeriodEnd   string  `json:"periodEnd"`
	Amount      string  `json:"amount"`
	State       string  `json:"state"`
}

type CreateValorizationDTO struct {
	PeriodStart *string `json:"periodStart,omitempty"`
	PeriodEnd   string  `json:"periodEnd"`
	Amount      string  `json:"amount"`
}

type ChangeStateDTO struct {
	State string `json:"state"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary List the valorizations of a project
// @Tags Valorization
// @Produce json
// @Param projectId path int true "Project ID"
// @Success 200 {array} ValorizationDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid project id"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/projects/{projectId}/valorizations [get]
// @Security XUserId
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	valorizations, err := h.service.List(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]ValorizationDTO, 0, len(valorizations))
	for _, v := range valorizations {
		dtos = append(dtos, ValorizationToDTO(v))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Create godoc
// @Summary Register a valorization in draft state
// @Tags Valorization
// @Accept json
// @Produce json
// @Param projectId path int true "Project ID"
// @Param valorization body CreateValorizationDTO true "Valorization"
// @Success 201 {object} ValorizationDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/projects/{projectId}/valorizations [post]
// @Security XUserId
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}
	var dto CreateValorizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	v, err := DTOToValorization(projectId, dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid valorization", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ValorizationToDTO(created))
}

// ChangeState godoc
// @Summary Move a valorization through its approval workflow
// @Tags Valorization
// @Accept json
// @Produce json
// @Param valorizationId path int true "Valorization ID"
// @Param state body ChangeStateDTO true "Target state"
// @Success 200 {object} ValorizationDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Valorization not found"
// @Failure 409 {object} rest.ErrorResponse "Transition not allowed"
// @Router /api/valorizations/{valorizationId}/state [patch]
// @Security XUserId
func (h *Handler) ChangeState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["valorizationId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid valorization id", err.Error())
		return
	}
	var dto ChangeStateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	next := ApprovalState(dto.State)
	if !next.IsValid() {
		rest.WriteError(w, http.StatusBadRequest, "Invalid state", dto.State)
		return
	}

	updated, err := h.service.ChangeState(r.Context(), id, next)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValorizationToDTO(updated))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		rest.WriteError(w, http.StatusNotFound, "Project not found", err.Error())
	case errors.Is(err, ErrValorizationNotFound):
		rest.WriteError(w, http.StatusNotFound, "Valorization not found", err.Error())
	case errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrInvalidPeriod):
		rest.WriteError(w, http.StatusBadRequest, "Invalid valorization", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		rest.WriteError(w, http.StatusConflict, "Transition not allowed", err.Error())
	default:
		log.Errorf("valorization request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ValorizationToDTO(v Valorization) ValorizationDTO {
	dto := ValorizationDTO{
		Id:        v.Id,
		ProjectId: v.ProjectId,
		PeriodEnd: v.PeriodEnd.Format(dateLayout),
		Amount:    v.Amount.StringFixed(2),
		State:     string(v.State),
	}
	if v.PeriodStart != nil {
		start := v.PeriodStart.Format(dateLayout)
		dto.PeriodStart = &start
	}
	return dto
}

func DTOToValorization(projectId int, dto CreateValorizationDTO) (Valorization, error) {
	periodEnd, err := time.Parse(dateLayout, dto.PeriodEnd)
	if err != nil {
		return Valorization{}, err
	}
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Valorization{}, err
	}
	v := Valorization{ProjectId: projectId, PeriodEnd: periodEnd, Amount: amount}
	if dto.PeriodStart != nil {
		periodStart, err := time.Parse(dateLayout, *dto.PeriodStart)
		if err != nil {
			return Valorization{}, err
		}
		v.PeriodStart = &periodStart
	}
	return v, nil
}
