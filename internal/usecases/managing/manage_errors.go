package managing

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
)

// Erros específicos para o contexto das coleções
var (
	ErrRecordNotFound    = errors.New("registro não encontrado")
	ErrVersionConflict   = errors.New("registro alterado por outra sessão")
	ErrUnknownReference  = errors.New("referência a registro inexistente")
	ErrInvalidDraft      = errors.New("formulário inválido")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// ManageError é um erro com contexto adicional para as coleções
type ManageError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	Collection domain.Collection
	RecordID   string
	Details    any // Campos inválidos ou detalhes adicionais
}

func (e *ManageError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ManageError) Unwrap() error {
	return e.Err
}

func NewManageError(err error, code string, collection domain.Collection, recordID string, details any) *ManageError {
	return &ManageError{
		Err:        err,
		Code:       code,
		Collection: collection,
		RecordID:   recordID,
		Details:    details,
	}
}

// invalidDraft mantém o mapa campo -> mensagem como detalhe
func invalidDraft(collection domain.Collection, err error) error {
	var fields domain.ValidationErrors
	if errors.As(err, &fields) {
		return NewManageError(ErrInvalidDraft, apiErrors.ErrValidationFailed, collection, "", fields)
	}
	return NewManageError(ErrInvalidDraft, apiErrors.ErrValidationFailed, collection, "", err.Error())
}

func unknownReference(collection domain.Collection, field, id string) error {
	return NewManageError(ErrUnknownReference, apiErrors.ErrUnknownReference, collection, "",
		domain.ValidationErrors{field: fmt.Sprintf("registro %s não encontrado", id)})
}

// fromRepository traduz os erros do repositório para o código da API
func fromRepository(collection domain.Collection, id string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewManageError(ErrRecordNotFound, apiErrors.ErrResourceNotFound, collection, id, nil)
	case errors.Is(err, repository.ErrVersionConflict):
		return NewManageError(ErrVersionConflict, apiErrors.ErrVersionConflict, collection, id, nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Error("Erro ao acessar coleção")
		return NewManageError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, collection, id, nil)
	}
}
