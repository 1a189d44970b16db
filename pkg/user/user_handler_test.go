package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler() (*mux.Router, *UserServiceImpl) {
	service, _ := setupService()
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/user", handler.CreateUser).Methods("POST")
	router.HandleFunc("/api/user/current", handler.CurrentUser).Methods("GET")
	router.HandleFunc("/api/user/current", handler.UpdateUser).Methods("PUT")
	return router, service
}

func TestHandler_CreateUser(t *testing.T) {
	t.Run("should create user", func(t *testing.T) {
		// given
		router, _ := setupHandler()
		body := `{"username":"ana","displayName":"Ana","email":"ana@example.com","settings":{"timezone":"America/Bogota"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(body))
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusCreated, rr.Code)
		var dto UserDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "ana", dto.Username)
		assert.Equal(t, "America/Bogota", dto.Settings.Timezone)
		assert.NotEmpty(t, dto.Uid)
	})

	t.Run("should reject missing username", func(t *testing.T) {
		router, _ := setupHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(`{"displayName":"Ana"}`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Username is required"}`, rr.Body.String())
	})

	t.Run("should reject malformed body", func(t *testing.T) {
		router, _ := setupHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(`{`))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandler_CurrentUser(t *testing.T) {
	t.Run("should return current user", func(t *testing.T) {
		// given
		router, service := setupHandler()
		created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req = req.WithContext(WithUser(req.Context(), created))
		rr := httptest.NewRecorder()

		// when
		router.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var dto UserDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, created.Uid, dto.Uid)
	})

	t.Run("should return 404 for unknown user", func(t *testing.T) {
		router, _ := setupHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req = req.WithContext(WithUser(req.Context(), User{Id: 99}))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandler_UpdateUser(t *testing.T) {
	// given
	router, service := setupHandler()
	created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
	require.NoError(t, err)
	body := `{"username":"ana","displayName":"Ana","settings":{"timezone":"Not/AZone"}}`
	req := httptest.NewRequest(http.MethodPut, "/api/user/current", strings.NewReader(body))
	req = req.WithContext(WithUser(req.Context(), created))
	rr := httptest.NewRecorder()

	// when
	router.ServeHTTP(rr, req)

	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid user data")
}
