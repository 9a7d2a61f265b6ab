package handler

import (
	"net/http"

	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
)

// GetSession retorna a sessão atual com o perfil do usuário
func GetSession(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		session, err := service.GetSession(r.Context(), claims)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, session)
	}
}

// UpdateUser atualiza os metadados do perfil (nome e telefone)
func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var req domain.UpdateMetadataRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		profile, err := service.UpdateMetadata(r.Context(), claims.UserID, req)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}
