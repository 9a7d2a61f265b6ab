package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type SignUpResponse struct {
	User                 *domain.UserProfile `json:"user"`
	VerificationRequired bool                `json:"verification_required"`
}

func SignUp(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SignUpRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		profile, pending, err := service.SignUp(r.Context(), req)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, SignUpResponse{
			User:                 profile,
			VerificationRequired: pending,
		})
	}
}

func Verify(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.Email == "" || req.Code == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Email e código são obrigatórios", nil)
			return
		}

		if err := service.Verify(r.Context(), req.Email, req.Code); err != nil {
			handleAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ResendVerification emite um novo código para quem ainda não confirmou o email
func ResendVerification(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResendVerificationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.Email == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Email é obrigatório", nil)
			return
		}

		if err := service.ResendVerification(r.Context(), req.Email); err != nil {
			handleAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func SignIn(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		session, err := service.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}

func SignOut(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		if err := service.SignOut(r.Context(), claims); err != nil {
			handleAuthError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// AuthEvents abre o websocket de eventos de sessão do usuário autenticado
func AuthEvents(hub *events.Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     middleware.OriginChecker(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// o upgrader já respondeu ao cliente
			logrus.WithError(err).Warn("Falha no upgrade do websocket")
			return
		}

		logrus.WithField("user_id", claims.UserID).Info("Conexão de eventos aberta")
		hub.ServeWS(conn, claims.UserID, claims.SessionID())
		logrus.WithField("user_id", claims.UserID).Info("Conexão de eventos encerrada")
	}
}
