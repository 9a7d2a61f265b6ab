package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
)

type SaveNavRequest struct {
	NavItems []domain.NavItem `json:"nav_items"`
}

type SetLanguageRequest struct {
	Language domain.Language `json:"language"`
}

func GetSettings(service preferences.Preferences) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		settings, err := service.Get(r.Context(), claims.UserID)
		if err != nil {
			handleSettingsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

func SaveNav(service preferences.Preferences) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var req SaveNavRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		settings, err := service.SaveNav(r.Context(), claims.UserID, req.NavItems)
		if err != nil {
			handleSettingsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

func SetLanguage(service preferences.Preferences) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var req SetLanguageRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		settings, err := service.SetLanguage(r.Context(), claims.UserID, req.Language)
		if err != nil {
			handleSettingsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

func handleSettingsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, preferences.ErrInvalidNav), errors.Is(err, preferences.ErrInvalidLanguage):
		apiErrors.WriteError(w, apiErrors.ErrValidationFailed, err.Error(), nil)
	default:
		logrus.WithError(err).Error("Erro ao acessar preferências")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao acessar preferências", nil)
	}
}
