package workspace

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

var ErrNoSession = errors.New("sessão não encontrada, faça login novamente")

// Confirmer é o passo de confirmação antes de uma exclusão
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta uma função para Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Mutations são os handlers de formulário de cada coleção. Toda escrita bem sucedida
// é seguida de um Refresh, o store nunca é alterado localmente.
type Mutations struct {
	backend DataBackend
	store   *Store
	sync    *Synchronizer
}

func NewMutations(backend DataBackend, store *Store, synchronizer *Synchronizer) *Mutations {
	return &Mutations{backend: backend, store: store, sync: synchronizer}
}

type validator interface {
	Validate() error
}

// save valida o rascunho, insere (id vazio) ou atualiza por id e recarrega do backend
func save[D validator, T any](
	ctx context.Context,
	m *Mutations,
	collection domain.Collection,
	id string,
	draft D,
	create func(context.Context, D) (*T, error),
	update func(context.Context, string, D) (*T, error),
) (SyncReport, error) {
	if !m.store.Authenticated() {
		return SyncReport{Skipped: true}, ErrNoSession
	}

	if err := draft.Validate(); err != nil {
		return SyncReport{Skipped: true}, err
	}

	var err error
	if id == "" {
		_, err = create(ctx, draft)
	} else {
		_, err = update(ctx, id, draft)
	}
	if err != nil {
		logrus.WithError(err).WithField("collection", collection).Warn("Falha ao salvar registro")
		m.store.Notify(err.Error())
		return SyncReport{Skipped: true}, err
	}

	report := m.sync.Refresh(ctx)
	m.store.CloseModal()
	return report, nil
}

// remove só chama o backend depois da confirmação. Retorna false quando o usuário recusa.
func (m *Mutations) remove(ctx context.Context, collection domain.Collection, id string, confirm Confirmer, del func(context.Context, string) error) (bool, error) {
	if !m.store.Authenticated() {
		return false, ErrNoSession
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete this %s record?", collection)) {
		return false, nil
	}

	if err := del(ctx, id); err != nil {
		logrus.WithError(err).WithField("collection", collection).Warn("Falha ao excluir registro")
		m.store.Notify(err.Error())
		return false, err
	}

	m.sync.Refresh(ctx)
	m.store.CloseModal()
	return true, nil
}

func (m *Mutations) SaveClient(ctx context.Context, draft domain.ClientDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionClients, draft.ID, draft, m.backend.CreateClient, m.backend.UpdateClient)
}

func (m *Mutations) DeleteClient(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionClients, id, confirm, m.backend.DeleteClient)
}

func (m *Mutations) SaveProject(ctx context.Context, draft domain.ProjectDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionProjects, draft.ID, draft, m.backend.CreateProject, m.backend.UpdateProject)
}

func (m *Mutations) DeleteProject(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionProjects, id, confirm, m.backend.DeleteProject)
}

func (m *Mutations) SaveSale(ctx context.Context, draft domain.SaleDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionSales, draft.ID, draft, m.backend.CreateSale, m.backend.UpdateSale)
}

func (m *Mutations) DeleteSale(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionSales, id, confirm, m.backend.DeleteSale)
}

func (m *Mutations) SavePayment(ctx context.Context, draft domain.PaymentDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionPayments, draft.ID, draft, m.backend.CreatePayment, m.backend.UpdatePayment)
}

func (m *Mutations) DeletePayment(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionPayments, id, confirm, m.backend.DeletePayment)
}

func (m *Mutations) SaveTask(ctx context.Context, draft domain.TaskDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionTasks, draft.ID, draft, m.backend.CreateTask, m.backend.UpdateTask)
}

func (m *Mutations) DeleteTask(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionTasks, id, confirm, m.backend.DeleteTask)
}

func (m *Mutations) SaveService(ctx context.Context, draft domain.ServiceDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionServices, draft.ID, draft, m.backend.CreateService, m.backend.UpdateService)
}

func (m *Mutations) DeleteService(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionServices, id, confirm, m.backend.DeleteService)
}

func (m *Mutations) SaveTarget(ctx context.Context, draft domain.TargetDraft) (SyncReport, error) {
	return save(ctx, m, domain.CollectionTargets, draft.ID, draft, m.backend.CreateTarget, m.backend.UpdateTarget)
}

func (m *Mutations) DeleteTarget(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return m.remove(ctx, domain.CollectionTargets, id, confirm, m.backend.DeleteTarget)
}

// ToggleNavItem alterna a visibilidade do menu e persiste o blob inteiro
func (m *Mutations) ToggleNavItem(ctx context.Context, id string) error {
	items, err := domain.ToggleVisibility(m.store.NavItems(), id)
	if err != nil {
		return err
	}
	return m.saveNav(ctx, items)
}

func (m *Mutations) RenameNavItem(ctx context.Context, id, bnName string) error {
	items, err := domain.RenameLocalized(m.store.NavItems(), id, bnName)
	if err != nil {
		return err
	}
	return m.saveNav(ctx, items)
}

func (m *Mutations) AddNavItem(ctx context.Context, name string) (domain.NavItem, error) {
	items, item, err := domain.AddCustomItem(m.store.NavItems(), name)
	if err != nil {
		return domain.NavItem{}, err
	}
	return item, m.saveNav(ctx, items)
}

// saveNav aplica o menu devolvido pelo backend, que é o estado persistido
func (m *Mutations) saveNav(ctx context.Context, items []domain.NavItem) error {
	if !m.store.Authenticated() {
		return ErrNoSession
	}

	settings, err := m.backend.SaveNav(ctx, items)
	if err != nil {
		m.store.Notify(err.Error())
		return err
	}
	m.store.SetNavItems(domain.OverlayNav(settings.NavItems))
	return nil
}

// SetLanguage troca o idioma. Sem sessão a troca é apenas local.
func (m *Mutations) SetLanguage(ctx context.Context, lang domain.Language) error {
	if !lang.IsValid() {
		return fmt.Errorf("idioma inválido: %s", lang)
	}

	if !m.store.Authenticated() {
		m.store.SetLanguage(lang)
		return nil
	}

	settings, err := m.backend.SetLanguage(ctx, lang)
	if err != nil {
		m.store.Notify(err.Error())
		return err
	}
	m.store.SetLanguage(settings.Language)
	return nil
}
