package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodySize limita o corpo das requisições JSON
const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logrus.WithError(err).Warn("Erro ao decodificar requisição")
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
		return false
	}
	return true
}

func claimsFrom(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

// handleAuthError trata erros do autenticador e retorna a resposta apropriada
func handleAuthError(w http.ResponseWriter, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		var details any
		if authErr.UserID != "" {
			details = map[string]any{"user_id": authErr.UserID}
		}
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), details)
		return
	}

	logrus.WithError(err).Error("Erro inesperado na autenticação")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao autenticar", nil)
}

// handleManageError escreve o código do ManageError com os campos inválidos como detalhes
func handleManageError(w http.ResponseWriter, err error) {
	var manageErr *managing.ManageError
	if errors.As(err, &manageErr) {
		apiErrors.WriteError(w, manageErr.Code, manageErr.Err.Error(), manageErr.Details)
		return
	}

	logrus.WithError(err).Error("Erro inesperado na coleção")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno", nil)
}
