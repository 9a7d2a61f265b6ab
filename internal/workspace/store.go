// Package workspace é a camada de estado do cliente: sessão, sincronização, store e mutações.
package workspace

import (
	"sync"
	"time"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

// Slice identifica a parte do estado alterada
type Slice string

const (
	SliceSession  Slice = "session"
	SliceLanguage Slice = "language"
	SliceNav      Slice = "nav"
	SliceUI       Slice = "ui"
)

func collectionSlice(c domain.Collection) Slice {
	return Slice(c)
}

type Change struct {
	Slice Slice
}

// UIState são os flags transitórios da tela: modal aberto e registro em edição
type UIState struct {
	ModalOpen  bool
	Editing    domain.Collection
	EditingID  string
	LastNotice string
}

// Snapshot é uma cópia do estado. Alterar um Snapshot não altera o Store.
type Snapshot struct {
	Clients  []domain.Client
	Projects []domain.Project
	Sales    []domain.Sale
	Payments []domain.Payment
	Tasks    []domain.Task
	Services []domain.Service
	Targets  []domain.Target

	Language      domain.Language
	NavItems      []domain.NavItem
	Authenticated bool
	Profile       *domain.UserProfile
	UI            UIState
}

// Store é o dono em memória das coleções sincronizadas. Coleções só são substituídas
// inteiras, nunca mescladas.
type Store struct {
	mu    sync.RWMutex
	state Snapshot
	// generation muda a cada login ou logout. Respostas de uma sessão anterior são descartadas.
	generation uint64

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan Change
}

func NewStore() *Store {
	return &Store{
		state: initialState(domain.DefaultLanguage),
		subs:  make(map[int]chan Change),
	}
}

func initialState(lang domain.Language) Snapshot {
	return Snapshot{
		Clients:  []domain.Client{},
		Projects: []domain.Project{},
		Sales:    []domain.Sale{},
		Payments: []domain.Payment{},
		Tasks:    []domain.Task{},
		Services: []domain.Service{},
		Targets:  []domain.Target{},
		Language: lang,
		NavItems: domain.DefaultNavItems(),
	}
}

// Subscribe registra um ouvinte de mudanças. Ouvintes lentos perdem notificações.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 32)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify(slices ...Slice) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, slice := range slices {
		for _, ch := range s.subs {
			select {
			case ch <- Change{Slice: slice}:
			default:
			}
		}
	}
}

func (s *Store) update(fn func(st *Snapshot), changed ...Slice) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()

	s.notify(changed...)
}

// updateIf aplica fn apenas se a sessão ainda for a da geração gen
func (s *Store) updateIf(gen uint64, fn func(st *Snapshot), changed ...Slice) bool {
	s.mu.Lock()
	if s.generation != gen || !s.state.Authenticated {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	s.mu.Unlock()

	s.notify(changed...)
	return true
}

// session devolve a geração atual e se há sessão, numa única leitura
func (s *Store) session() (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation, s.state.Authenticated
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Clients = cloneRows(s.state.Clients)
	out.Projects = cloneRows(s.state.Projects)
	out.Sales = cloneRows(s.state.Sales)
	out.Payments = cloneRows(s.state.Payments)
	out.Tasks = cloneRows(s.state.Tasks)
	out.Services = cloneRows(s.state.Services)
	out.Targets = cloneRows(s.state.Targets)
	out.NavItems = cloneRows(s.state.NavItems)
	if s.state.Profile != nil {
		profile := *s.state.Profile
		out.Profile = &profile
	}
	return out
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

func (s *Store) Language() domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Language
}

func (s *Store) NavItems() []domain.NavItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.state.NavItems)
}

func (s *Store) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRows(s.state.Clients)
}

func (s *Store) ReplaceClients(rows []domain.Client) {
	s.update(func(st *Snapshot) { st.Clients = cloneRows(rows) }, collectionSlice(domain.CollectionClients))
}

func (s *Store) ReplaceProjects(rows []domain.Project) {
	s.update(func(st *Snapshot) { st.Projects = cloneRows(rows) }, collectionSlice(domain.CollectionProjects))
}

func (s *Store) ReplaceSales(rows []domain.Sale) {
	s.update(func(st *Snapshot) { st.Sales = cloneRows(rows) }, collectionSlice(domain.CollectionSales))
}

func (s *Store) ReplacePayments(rows []domain.Payment) {
	s.update(func(st *Snapshot) { st.Payments = cloneRows(rows) }, collectionSlice(domain.CollectionPayments))
}

func (s *Store) ReplaceTasks(rows []domain.Task) {
	s.update(func(st *Snapshot) { st.Tasks = cloneRows(rows) }, collectionSlice(domain.CollectionTasks))
}

func (s *Store) ReplaceServices(rows []domain.Service) {
	s.update(func(st *Snapshot) { st.Services = cloneRows(rows) }, collectionSlice(domain.CollectionServices))
}

func (s *Store) ReplaceTargets(rows []domain.Target) {
	s.update(func(st *Snapshot) { st.Targets = cloneRows(rows) }, collectionSlice(domain.CollectionTargets))
}

func (s *Store) SetLanguage(lang domain.Language) {
	s.update(func(st *Snapshot) { st.Language = lang }, SliceLanguage)
}

func (s *Store) SetNavItems(items []domain.NavItem) {
	s.update(func(st *Snapshot) { st.NavItems = cloneRows(items) }, SliceNav)
}

// SetSession marca a aplicação como autenticada com o perfil da sessão.
// Atualizar o perfil do mesmo usuário não inicia uma nova geração.
func (s *Store) SetSession(profile domain.UserProfile) {
	s.update(func(st *Snapshot) {
		if !st.Authenticated || st.Profile == nil || st.Profile.ID != profile.ID {
			s.generation++
		}
		st.Authenticated = true
		st.Profile = &profile
	}, SliceSession)
}

// ClearSession é o reset parcial do logout: sessão, coleções, menu e flags de tela.
// O idioma escolhido é mantido.
func (s *Store) ClearSession() {
	changed := []Slice{SliceSession, SliceNav, SliceUI}
	for _, c := range domain.Collections {
		changed = append(changed, collectionSlice(c))
	}

	s.update(func(st *Snapshot) {
		s.generation++
		*st = initialState(st.Language)
	}, changed...)
}

// Reset volta ao estado inicial da aplicação
func (s *Store) Reset() {
	s.update(func(st *Snapshot) {
		s.generation++
		*st = initialState(domain.DefaultLanguage)
	}, SliceSession, SliceLanguage, SliceNav, SliceUI)
}

func (s *Store) OpenModal(collection domain.Collection, editingID string) {
	s.update(func(st *Snapshot) {
		st.UI = UIState{ModalOpen: true, Editing: collection, EditingID: editingID}
	}, SliceUI)
}

// CloseModal fecha o modal e limpa o registro em edição
func (s *Store) CloseModal() {
	s.update(func(st *Snapshot) {
		st.UI.ModalOpen = false
		st.UI.Editing = ""
		st.UI.EditingID = ""
	}, SliceUI)
}

// Notify guarda a última mensagem exibida ao usuário (alerta de erro do backend)
func (s *Store) Notify(message string) {
	s.update(func(st *Snapshot) { st.UI.LastNotice = message }, SliceUI)
}

// Dashboard calcula as estatísticas a partir das coleções já carregadas, sem chamar o backend
func (s *Store) Dashboard(r domain.RevenueRange, now time.Time) domain.DashboardStats {
	snap := s.Snapshot()
	return domain.ComputeDashboard(snap.Clients, snap.Projects, snap.Sales, snap.Tasks, snap.Targets, r, now)
}

// cloneRows copia a slice. Nil vira slice vazia para que o estado nunca exponha nil.
func cloneRows[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}
