package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-marketplace/internal/http/response"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

type mockService struct {
	LoginFunc func(ctx context.Context, email, password string) (*models.User, string, error)
}

func (m *mockService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.LoginFunc(ctx, email, password)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func doLogin(t *testing.T, service *mockService, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	login.New(makeLogger(), service).ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			LoginFunc: func(_ context.Context, email, password string) (*models.User, string, error) {
				require.Equal(t, "a@b.com", email)
				require.Equal(t, "password123", password)
				return &models.User{UID: "uid-1", Email: email}, "token-1", nil
			},
		}

		w := doLogin(t, service, map[string]string{"email": "a@b.com", "password": "password123"})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "token-1", data["token"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		service := &mockService{
			LoginFunc: func(context.Context, string, string) (*models.User, string, error) {
				return nil, "", apperr.Auth("invalid credentials")
			},
		}

		w := doLogin(t, service, map[string]string{"email": "a@b.com", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("unknown email yields identical response", func(t *testing.T) {
		service := &mockService{
			LoginFunc: func(context.Context, string, string) (*models.User, string, error) {
				return nil, "", apperr.Auth("invalid credentials")
			},
		}

		wrongPassword := doLogin(t, service, map[string]string{"email": "a@b.com", "password": "wrong"})
		unknownEmail := doLogin(t, service, map[string]string{"email": "missing@b.com", "password": "password123"})

		assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		service := &mockService{
			LoginFunc: func(context.Context, string, string) (*models.User, string, error) {
				t.Fatal("service should not be called on validation error")
				return nil, "", nil
			},
		}

		w := doLogin(t, service, map[string]string{"email": "a@b.com"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "is a required field")
	})
}
