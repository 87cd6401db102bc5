package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valoriza/valoriza/internal/config"
	"github.com/valoriza/valoriza/pkg/user"
)

func setupRouter(t *testing.T) (*mux.Router, string) {
	users := user.NewStubUserRepository()
	uid := uuid.NewString()
	_, err := users.CreateUser(t.Context(), user.User{Uid: uid, Username: "ana", Role: user.RoleEngineer})
	require.NoError(t, err)

	r := mux.NewRouter()
	SetupMiddleware(r, &Dependencies{UserRepo: users}, config.Application{})
	r.HandleFunc("/api/user/current", user.NewHandler().CurrentUser).Methods("GET")
	return r, uid
}

func TestUserMiddleware(t *testing.T) {
	t.Run("puts the known user into the context", func(t *testing.T) {
		// given
		router, uid := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req.Header.Set("X-User-Id", uid)
		w := httptest.NewRecorder()

		// when
		router.ServeHTTP(w, req)

		// then
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"engineer"`)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		router, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req.Header.Set("X-User-Id", uuid.NewString())
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("lets anonymous requests reach the handler", func(t *testing.T) {
		router, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestIdMiddleware(t *testing.T) {
	t.Run("generates a request id when none is sent", func(t *testing.T) {
		router, _ := setupRouter(t)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/current", nil))

		_, err := uuid.Parse(w.Header().Get(requestIdHeader))
		assert.NoError(t, err)
	})

	t.Run("echoes the caller's request id", func(t *testing.T) {
		router, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req.Header.Set(requestIdHeader, "abc-123")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIdHeader))
	})
}
