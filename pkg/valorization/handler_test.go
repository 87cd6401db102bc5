package valorization

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, serviceFixture) {
	f := setupService(t)
	handler := NewHandler(f.service)
	r := mux.NewRouter()
	r.HandleFunc("/api/projects/{projectId}/valorizations", handler.List).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/valorizations", handler.Create).Methods("POST")
	r.HandleFunc("/api/valorizations/{valorizationId}/state", handler.ChangeState).Methods("PATCH")
	return r, f
}

func TestHandler_Create(t *testing.T) {
	t.Run("creates a draft valorization", func(t *testing.T) {
		// given
		router, _ := setupRouter(t)
		body := `{"periodStart":"2025-01-06","periodEnd":"2025-01-12","amount":"1200.5"}`
		req := httptest.NewRequest(http.MethodPost, "/api/projects/1/valorizations", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		// when
		router.ServeHTTP(w, req)

		// then
		require.Equal(t, http.StatusCreated, w.Code)
		var dto ValorizationDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, "1200.50", dto.Amount)
		assert.Equal(t, "draft", dto.State)
		assert.Equal(t, "2025-01-12", dto.PeriodEnd)
		require.NotNil(t, dto.PeriodStart)
		assert.Equal(t, "2025-01-06", *dto.PeriodStart)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		router, _ := setupRouter(t)
		body := `{"periodEnd":"2025-01-12","amount":"-5"}`
		req := httptest.NewRequest(http.MethodPost, "/api/projects/1/valorizations", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		router, _ := setupRouter(t)
		body := `{"periodEnd":"12/01/2025","amount":"5"}`
		req := httptest.NewRequest(http.MethodPost, "/api/projects/1/valorizations", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ChangeState(t *testing.T) {
	t.Run("moves the valorization forward", func(t *testing.T) {
		// given
		router, f := setupRouter(t)
		v, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPatch, "/api/valorizations/"+strconv.Itoa(v.Id)+"/state", bytes.NewBufferString(`{"state":"submitted"}`))
		w := httptest.NewRecorder()

		// when
		router.ServeHTTP(w, req)

		// then
		require.Equal(t, http.StatusOK, w.Code)
		var dto ValorizationDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, "submitted", dto.State)
	})

	t.Run("returns 409 for a forbidden transition", func(t *testing.T) {
		router, f := setupRouter(t)
		v, err := f.service.Create(ctx, Valorization{ProjectId: 1, PeriodEnd: periodEnd(12), Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPatch, "/api/valorizations/"+strconv.Itoa(v.Id)+"/state", bytes.NewBufferString(`{"state":"paid"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("returns 400 for an unknown state", func(t *testing.T) {
		router, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodPatch, "/api/valorizations/1/state", bytes.NewBufferString(`{"state":"approved"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("returns 404 for an unknown project", func(t *testing.T) {
		router, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/projects/7/valorizations", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
