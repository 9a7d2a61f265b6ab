package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
)

// RequireSession restringe a rota a requisições com claims no contexto.
// Cada dono só enxerga as próprias linhas, então não há papéis além de "autenticado".
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.UserID == "" {
				logrus.Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
