package workspace

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ErrSessionChanged indica que a sessão mudou (logout ou troca de usuário) com a leitura em andamento.
// A resposta é descartada e o store não é tocado.
var ErrSessionChanged = errors.New("sessão encerrada durante a sincronização")

// SyncReport descreve o resultado de um Refresh. Falhas de uma coleção não bloqueiam as outras.
type SyncReport struct {
	Skipped  bool
	Updated  []domain.Collection
	Failures map[domain.Collection]error
	Dropped  map[domain.Collection]int
}

func (r SyncReport) OK() bool {
	return !r.Skipped && len(r.Failures) == 0
}

type Synchronizer struct {
	backend DataBackend
	store   *Store

	// serializa refreshes concorrentes para que uma resposta antiga não sobrescreva uma nova
	refreshMu sync.Mutex
}

func NewSynchronizer(backend DataBackend, store *Store) *Synchronizer {
	return &Synchronizer{backend: backend, store: store}
}

// Refresh busca todas as coleções e as preferências em paralelo e substitui cada fatia do store
// assim que sua resposta chega. Sem sessão é um no-op.
func (s *Synchronizer) Refresh(ctx context.Context) SyncReport {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	gen, authenticated := s.store.session()
	if !authenticated {
		return SyncReport{Skipped: true}
	}

	var (
		mu     sync.Mutex
		report = SyncReport{
			Failures: map[domain.Collection]error{},
			Dropped:  map[domain.Collection]int{},
		}
	)

	record := func(collection domain.Collection, dropped int, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			logrus.WithError(err).WithField("collection", collection).Warn("Falha ao sincronizar coleção")
			report.Failures[collection] = err
			return
		}
		if dropped > 0 {
			report.Dropped[collection] = dropped
		}
		report.Updated = append(report.Updated, collection)
	}

	var g errgroup.Group

	g.Go(func() error {
		rows, err := s.backend.ListClients(ctx, domain.ListFilter{})
		dropped, err := apply(s.store, gen, domain.CollectionClients, rows, err, func(st *Snapshot, valid []domain.Client) {
			st.Clients = valid
		})
		record(domain.CollectionClients, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListProjects(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionProjects, rows, err, func(st *Snapshot, valid []domain.Project) {
			st.Projects = valid
		})
		record(domain.CollectionProjects, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListSales(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionSales, rows, err, func(st *Snapshot, valid []domain.Sale) {
			st.Sales = valid
		})
		record(domain.CollectionSales, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListPayments(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionPayments, rows, err, func(st *Snapshot, valid []domain.Payment) {
			st.Payments = valid
		})
		record(domain.CollectionPayments, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListTasks(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionTasks, rows, err, func(st *Snapshot, valid []domain.Task) {
			st.Tasks = valid
		})
		record(domain.CollectionTasks, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListServices(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionServices, rows, err, func(st *Snapshot, valid []domain.Service) {
			st.Services = valid
		})
		record(domain.CollectionServices, dropped, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListTargets(ctx)
		dropped, err := apply(s.store, gen, domain.CollectionTargets, rows, err, func(st *Snapshot, valid []domain.Target) {
			st.Targets = valid
		})
		record(domain.CollectionTargets, dropped, err)
		return nil
	})
	g.Go(func() error {
		settings, err := s.backend.GetSettings(ctx)
		if err == nil {
			err = s.applySettings(gen, settings)
		}
		record(domain.CollectionSettings, 0, err)
		return nil
	})

	_ = g.Wait()

	return report
}

func (s *Synchronizer) applySettings(gen uint64, settings *domain.Settings) error {
	if settings == nil {
		return nil
	}
	nav := domain.OverlayNav(settings.NavItems)
	applied := s.store.updateIf(gen, func(st *Snapshot) {
		st.NavItems = nav
		if settings.Language.IsValid() {
			st.Language = settings.Language
		}
	}, SliceNav, SliceLanguage)
	if !applied {
		return ErrSessionChanged
	}
	return nil
}

// apply valida as linhas na fronteira e substitui a fatia se a sessão ainda for a mesma.
// Linhas malformadas são descartadas.
func apply[T any](store *Store, gen uint64, collection domain.Collection, rows []T, err error, assign func(st *Snapshot, valid []T)) (int, error) {
	if err != nil {
		return 0, err
	}

	valid := make([]T, 0, len(rows))
	for _, row := range rows {
		if verr := domain.Validate(row); verr != nil {
			logrus.WithError(verr).WithField("collection", collection).Warn("Linha malformada descartada")
			continue
		}
		valid = append(valid, row)
	}

	if !store.updateIf(gen, func(st *Snapshot) { assign(st, valid) }, collectionSlice(collection)) {
		return 0, ErrSessionChanged
	}
	return len(rows) - len(valid), nil
}
