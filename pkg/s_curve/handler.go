package s_curve

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
	"github.com/valoriza/valoriza/pkg/user"
)

type WeekDTO struct {
	WeekStart    string  `json:"weekStart"`
	WeekEnd      string  `json:"weekEnd"`
	Label        string  `json:"label"`
	PV           float64 `json:"pv"`
	EV           float64 `json:"ev"`
	PVCumulative float64 `json:"pvCumulative"`
	EVCumulative float64 `json:"evCumulative"`
}

type EVMDTO struct {
	SPI     *float64 `json:"spi"`
	SV      float64  `json:"sv"`
	CPI     *float64 `json:"cpi"`
	CV      *float64 `json:"cv"`
	PVTotal float64  `json:"pvTotal"`
	EVTotal float64  `json:"evTotal"`
	BAC     float64  `json:"bac"`
}

type ProjectRefDTO struct {
	Id   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type CurveDTO struct {
	Weeks       []WeekDTO     `json:"weeks"`
	BAC         float64       `json:"bac"`
	EVM         EVMDTO        `json:"evm"`
	HasBaseline bool          `json:"hasBaseline"`
	ScheduleId  *string       `json:"scheduleId"`
	Project     ProjectRefDTO `json:"project"`
}

type Handler struct {
	service     Service
	roles       user.Roles
	csvRenderer CurveRenderer
}

func NewHandler(service Service, roles user.Roles, csvRenderer CurveRenderer) *Handler {
	return &Handler{service: service, roles: roles, csvRenderer: csvRenderer}
}

// GetCurve godoc
// @Summary Get the S-curve and earned value indices of a project
// @Description Weekly planned and earned value with their cumulative curves. Send Accept: text/csv for a CSV export.
// @Tags Curve
// @Produce json
// @Produce text/csv
// @Param projectId path int true "Project ID"
// @Success 200 {object} CurveDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid project id or no contractual basis"
// @Failure 401 {object} rest.ErrorResponse "Unauthenticated"
// @Failure 403 {object} rest.ErrorResponse "Role not allowed"
// @Failure 404 {object} rest.ErrorResponse "Project not found"
// @Router /api/projects/{projectId}/curve-s [get]
// @Security XUserId
func (h *Handler) GetCurve(w http.ResponseWriter, r *http.Request) {
	current, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "X-User-Id header is required")
		return
	}
	if !h.roles.Allows(current.Role) {
		rest.WriteError(w, http.StatusForbidden, "Forbidden", "role "+string(current.Role)+" cannot read project curves")
		return
	}
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid project id", err.Error())
		return
	}

	curve, err := h.service.GetCurve(r.Context(), projectId)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrProjectNotFound):
			rest.WriteError(w, http.StatusNotFound, "Project not found", err.Error())
		case errors.Is(err, project.ErrNoContractualBasis):
			rest.WriteError(w, http.StatusBadRequest, "Project has no contractual basis", err.Error())
		default:
			log.Errorf("failed to compute curve of project %d: %v", projectId, err)
			rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		}
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.csvRenderer.RenderCurve(curve)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=\"curve-s-"+curve.Project.Code+".csv\"")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv curve: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CurveToDTO(curve)); err != nil {
		log.Errorf("failed to encode curve: %v", err)
	}
}

func CurveToDTO(curve Curve) CurveDTO {
	weeks := make([]WeekDTO, 0, len(curve.Weeks))
	for _, week := range curve.Weeks {
		weeks = append(weeks, WeekDTO{
			WeekStart:    week.WeekStart.Format(time.DateOnly),
			WeekEnd:      week.WeekEnd.Format(time.DateOnly),
			Label:        week.Label,
			PV:           money(week.PV),
			EV:           money(week.EV),
			PVCumulative: money(week.PVCumulative),
			EVCumulative: money(week.EVCumulative),
		})
	}

	dto := CurveDTO{
		Weeks: weeks,
		BAC:   money(curve.BAC),
		EVM: EVMDTO{
			SPI:     ratio(curve.EVM.SPI),
			SV:      money(curve.EVM.SV),
			CPI:     ratio(curve.EVM.CPI),
			CV:      optionalMoney(curve.EVM.CV),
			PVTotal: money(curve.EVM.PVTotal),
			EVTotal: money(curve.EVM.EVTotal),
			BAC:     money(curve.EVM.BAC),
		},
		HasBaseline: curve.HasBaseline,
		Project: ProjectRefDTO{
			Id:   curve.Project.Id,
			Code: curve.Project.Code,
			Name: curve.Project.Name,
		},
	}
	if curve.ScheduleId != nil {
		id := strconv.Itoa(*curve.ScheduleId)
		dto.ScheduleId = &id
	}
	return dto
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := money(*d)
	return &v
}

func ratio(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.Round(4).InexactFloat64()
	return &v
}
