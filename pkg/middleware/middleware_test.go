package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/log"
)

type validatorFunc func(ctx context.Context, token string) (*domain.Claims, error)

func (f validatorFunc) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	return f(ctx, token)
}

func fakeValidator() TokenValidator {
	return validatorFunc(func(_ context.Context, token string) (*domain.Claims, error) {
		switch token {
		case "token-valido":
			return &domain.Claims{UserID: "user-1"}, nil
		case "token-revogado":
			return nil, authenticating.NewAuthError(authenticating.ErrSessionRevoked, apiErrors.ErrSessionRevoked, "")
		}
		return nil, authenticating.NewAuthError(authenticating.ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	})
}

func protected() http.Handler {
	return AuthMiddleware(fakeValidator())(RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		_, _ = w.Write([]byte(claims.UserID))
	})))
}

func TestAuthMiddleware(t *testing.T) {
	log.SetupTestLogger()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "header bearer", path: "/v1/clients", header: "Bearer token-valido", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "parâmetro access_token", path: "/v1/auth/events?access_token=token-valido", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "sem token", path: "/v1/clients", wantStatus: http.StatusUnauthorized},
		{name: "header sem Bearer", path: "/v1/clients", header: "token-valido", wantStatus: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/clients", header: "Bearer outro", wantStatus: http.StatusUnauthorized},
		{name: "sessão revogada", path: "/v1/clients", header: "Bearer token-revogado", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_PublicPaths(t *testing.T) {
	var reached bool
	handler := AuthMiddleware(fakeValidator())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		_, ok := ClaimsFromContext(r.Context())
		assert.False(t, ok)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/auth/signin", nil))
	assert.True(t, reached)
}

func TestRequireSession_WithClaims(t *testing.T) {
	handler := RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithClaims(req.Context(), &domain.Claims{UserID: "user-1"})))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithClaims(req.Context(), &domain.Claims{})))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight de origem permitida", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/clients", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origem desconhecida não recebe headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("websocket sem Origin é aceito", func(t *testing.T) {
		check := OriginChecker([]string{"http://localhost:5173"})
		assert.True(t, check(httptest.NewRequest(http.MethodGet, "/v1/auth/events", nil)))
	})
}
