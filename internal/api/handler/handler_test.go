package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/api/handler/router"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/bizdash-api/internal/usecases/authenticating/mocks"
	dashmocks "github.com/vfg2006/bizdash-api/internal/usecases/dashboarding/mocks"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	managemocks "github.com/vfg2006/bizdash-api/internal/usecases/managing/mocks"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	prefmocks "github.com/vfg2006/bizdash-api/internal/usecases/preferences/mocks"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

const validToken = "token-valido"

type handlerFixture struct {
	auth    *authmocks.MockAuthenticator
	manager *managemocks.MockManager
	prefs   *prefmocks.MockPreferences
	dash    *dashmocks.MockDashboarder
	cron    *fakeCronJob
	handler http.Handler
}

type fakeCronJob struct {
	triggered int
	running   bool
}

func (f *fakeCronJob) TriggerManualSync() bool {
	if f.running {
		return false
	}
	f.triggered++
	return true
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"running": f.running}
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	ctrl := gomock.NewController(t)

	f := &handlerFixture{
		auth:    authmocks.NewMockAuthenticator(ctrl),
		manager: managemocks.NewMockManager(ctrl),
		prefs:   prefmocks.NewMockPreferences(ctrl),
		dash:    dashmocks.NewMockDashboarder(ctrl),
		cron:    &fakeCronJob{},
	}

	f.auth.EXPECT().
		ValidateToken(gomock.Any(), validToken).
		Return(&domain.Claims{UserID: "user-1", UserEmail: "owner@example.com"}, nil).
		AnyTimes()
	f.auth.EXPECT().
		ValidateToken(gomock.Any(), gomock.Not(validToken)).
		Return(nil, authenticating.NewAuthError(authenticating.ErrInvalidToken, apiErrors.ErrInvalidToken, "")).
		AnyTimes()

	rt := router.New(
		router.WithRoutes(Healthcheck(nil)...),
		router.WithRoutes(Authentication(f.auth, events.NewHub(), []string{"*"})...),
		router.WithRoutes(Collections(f.manager)...),
		router.WithRoutes(Settings(f.prefs)...),
		router.WithRoutes(Dashboard(f.dash)...),
		router.WithRoutes(CronJobs(CronJobServices{CronJobTypeCleanup: f.cron})...),
	)
	f.handler = middleware.AuthMiddleware(f.auth)(rt)

	return f
}

func (f *handlerFixture) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthcheck(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/healthcheck", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodGet, "/v1/clients", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidToken, decodeAPIError(t, rec).Code)
}

func TestSignIn(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *handlerFixture)
		wantStatus int
		wantCode   string
	}{
		{
			name: "sucesso",
			body: `{"email":"owner@example.com","password":"secret1"}`,
			setup: func(f *handlerFixture) {
				f.auth.EXPECT().SignIn(gomock.Any(), "owner@example.com", "secret1").Return(&domain.Session{
					ID:          "session-1",
					AccessToken: "jwt",
					ExpiresAt:   time.Now().Add(time.Hour),
					User:        domain.UserProfile{ID: "user-1", Email: "owner@example.com"},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "senha errada",
			body: `{"email":"owner@example.com","password":"errada"}`,
			setup: func(f *handlerFixture) {
				f.auth.EXPECT().SignIn(gomock.Any(), "owner@example.com", "errada").
					Return(nil, authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, ""))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name:       "json inválido",
			body:       `{"email":`,
			setup:      func(f *handlerFixture) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			tt.setup(f)

			rec := f.do(http.MethodPost, "/v1/auth/signin", tt.body, false)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
				return
			}

			var session domain.Session
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
			assert.Equal(t, "jwt", session.AccessToken)
		})
	}
}

func TestSignUp_AlreadyRegistered(t *testing.T) {
	f := newHandlerFixture(t)
	f.auth.EXPECT().SignUp(gomock.Any(), gomock.Any()).
		Return(nil, false, authenticating.NewAuthError(authenticating.ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, ""))

	rec := f.do(http.MethodPost, "/v1/auth/signup", `{"name":"Rahim","email":"r@example.com","password":"secret1"}`, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, apiErrors.ErrUserAlreadyExists, apiErr.Code)
	assert.Equal(t, authenticating.ErrUserAlreadyExists.Error(), apiErr.Message)
}

func TestResendVerification(t *testing.T) {
	t.Run("rota pública reemite o código", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.auth.EXPECT().ResendVerification(gomock.Any(), "r@example.com").Return(nil)

		rec := f.do(http.MethodPost, "/v1/auth/verify/resend", `{"email":"r@example.com"}`, false)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("email obrigatório", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(http.MethodPost, "/v1/auth/verify/resend", `{}`, false)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, decodeAPIError(t, rec).Code)
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.auth.EXPECT().ResendVerification(gomock.Any(), "ghost@example.com").
			Return(authenticating.NewAuthError(authenticating.ErrUserNotFound, apiErrors.ErrUserNotFound, ""))

		rec := f.do(http.MethodPost, "/v1/auth/verify/resend", `{"email":"ghost@example.com"}`, false)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSignOut(t *testing.T) {
	f := newHandlerFixture(t)
	f.auth.EXPECT().SignOut(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, claims *domain.Claims) error {
		assert.Equal(t, "user-1", claims.UserID)
		return nil
	})

	rec := f.do(http.MethodPost, "/v1/auth/signout", "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateClientHandler(t *testing.T) {
	t.Run("criado", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.manager.EXPECT().
			CreateClient(gomock.Any(), "user-1", domain.ClientDraft{Name: "Rahim Traders", Revenue: 15000}).
			Return(&domain.Client{Record: domain.Record{ID: "client-1", UserID: "user-1", Version: 1}, Name: "Rahim Traders", Revenue: 15000}, nil)

		rec := f.do(http.MethodPost, "/v1/clients", `{"name":"Rahim Traders","revenue":15000}`, true)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var client domain.Client
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
		assert.Equal(t, "client-1", client.ID)
	})

	t.Run("campos inválidos voltam no details", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.manager.EXPECT().CreateClient(gomock.Any(), "user-1", gomock.Any()).
			Return(nil, managing.NewManageError(managing.ErrInvalidDraft, apiErrors.ErrValidationFailed, domain.CollectionClients, "",
				domain.ValidationErrors{"name": "obrigatório"}))

		rec := f.do(http.MethodPost, "/v1/clients", `{"name":""}`, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		apiErr := decodeAPIError(t, rec)
		assert.Equal(t, apiErrors.ErrValidationFailed, apiErr.Code)
		assert.Equal(t, map[string]any{"name": "obrigatório"}, apiErr.Details)
	})
}

func TestUpdateAndDeleteHandlers(t *testing.T) {
	t.Run("conflito de versão", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.manager.EXPECT().UpdateProject(gomock.Any(), "user-1", "project-1", gomock.Any()).
			Return(nil, managing.NewManageError(managing.ErrVersionConflict, apiErrors.ErrVersionConflict, domain.CollectionProjects, "project-1", nil))

		rec := f.do(http.MethodPut, "/v1/projects/project-1", `{"name":"Site","client_id":"client-1","version":2}`, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, apiErrors.ErrVersionConflict, decodeAPIError(t, rec).Code)
	})

	t.Run("delete", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.manager.EXPECT().DeleteTask(gomock.Any(), "user-1", "task-1").Return(nil)

		rec := f.do(http.MethodDelete, "/v1/tasks/task-1", "", true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestListClientsPassesQuery(t *testing.T) {
	f := newHandlerFixture(t)
	f.manager.EXPECT().ListClients(gomock.Any(), "user-1", domain.ListFilter{Query: "rahim"}).
		Return([]domain.Client{{Record: domain.Record{ID: "client-1"}, Name: "Rahim Traders"}}, nil)

	rec := f.do(http.MethodGet, "/v1/clients?q=rahim", "", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	var clients []domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	assert.Len(t, clients, 1)
}

func TestSettingsHandlers(t *testing.T) {
	t.Run("idioma inválido", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.prefs.EXPECT().SetLanguage(gomock.Any(), "user-1", domain.Language("fr")).
			Return(nil, preferences.ErrInvalidLanguage)

		rec := f.do(http.MethodPut, "/v1/settings/language", `{"language":"fr"}`, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.prefs.EXPECT().Get(gomock.Any(), "user-1").Return(domain.DefaultSettings("user-1"), nil)

		rec := f.do(http.MethodGet, "/v1/settings", "", true)

		assert.Equal(t, http.StatusOK, rec.Code)
		var settings domain.Settings
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
		assert.Equal(t, domain.DefaultLanguage, settings.Language)
		assert.NotEmpty(t, settings.NavItems)
	})
}

func TestDashboardHandler(t *testing.T) {
	f := newHandlerFixture(t)
	f.dash.EXPECT().GetStats(gomock.Any(), "user-1", domain.RangeWeek).
		Return(&domain.DashboardStats{Range: domain.RangeWeek, TotalRevenue: 350}, nil)

	rec := f.do(http.MethodGet, "/v1/dashboard?range=week", "", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 350.0, stats.TotalRevenue)
}

func TestCronHandlers(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(http.MethodPost, "/v1/cron/cleanup/run", "", true)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, f.cron.triggered)

	f.cron.running = true
	rec = f.do(http.MethodPost, "/v1/cron/cleanup/run", "", true)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"started":false`)

	rec = f.do(http.MethodGet, "/v1/cron/status", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cleanup")

	rec = f.do(http.MethodPost, "/v1/cron/unknown/run", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
