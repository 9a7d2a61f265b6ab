package main

import (
	"context"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/workspace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type drafted[D any] interface {
	RecordID() string
	Draft() D
}

// draftFor parte do registro carregado quando há id, para que --data só precise dos campos alterados
func draftFor[T drafted[D], D any](rows []T, id string, data []byte) (D, error) {
	var draft D
	if id != "" {
		found := false
		for _, row := range rows {
			if row.RecordID() == id {
				draft = row.Draft()
				found = true
				break
			}
		}
		if !found {
			return draft, fmt.Errorf("registro %s não encontrado", id)
		}
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &draft); err != nil {
			return draft, fmt.Errorf("--data inválido: %w", err)
		}
	}
	return draft, nil
}

type collectionOps struct {
	rows   func(snap workspace.Snapshot) any
	save   func(ctx context.Context, ws *workspace.Workspace, id string, data []byte) (workspace.SyncReport, error)
	remove func(m *workspace.Mutations, ctx context.Context, id string, confirm workspace.Confirmer) (bool, error)
}

func saveWith[T drafted[D], D any](
	rows func(workspace.Snapshot) []T,
	save func(*workspace.Mutations) func(context.Context, D) (workspace.SyncReport, error),
) func(context.Context, *workspace.Workspace, string, []byte) (workspace.SyncReport, error) {
	return func(ctx context.Context, ws *workspace.Workspace, id string, data []byte) (workspace.SyncReport, error) {
		draft, err := draftFor[T, D](rows(ws.Store.Snapshot()), id, data)
		if err != nil {
			return workspace.SyncReport{Skipped: true}, err
		}
		return save(ws.Mutations)(ctx, draft)
	}
}

var collections = map[domain.Collection]collectionOps{
	domain.CollectionClients: {
		rows: func(s workspace.Snapshot) any { return s.Clients },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Client { return s.Clients },
			func(m *workspace.Mutations) func(context.Context, domain.ClientDraft) (workspace.SyncReport, error) { return m.SaveClient },
		),
		remove: (*workspace.Mutations).DeleteClient,
	},
	domain.CollectionProjects: {
		rows: func(s workspace.Snapshot) any { return s.Projects },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Project { return s.Projects },
			func(m *workspace.Mutations) func(context.Context, domain.ProjectDraft) (workspace.SyncReport, error) { return m.SaveProject },
		),
		remove: (*workspace.Mutations).DeleteProject,
	},
	domain.CollectionSales: {
		rows: func(s workspace.Snapshot) any { return s.Sales },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Sale { return s.Sales },
			func(m *workspace.Mutations) func(context.Context, domain.SaleDraft) (workspace.SyncReport, error) { return m.SaveSale },
		),
		remove: (*workspace.Mutations).DeleteSale,
	},
	domain.CollectionPayments: {
		rows: func(s workspace.Snapshot) any { return s.Payments },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Payment { return s.Payments },
			func(m *workspace.Mutations) func(context.Context, domain.PaymentDraft) (workspace.SyncReport, error) { return m.SavePayment },
		),
		remove: (*workspace.Mutations).DeletePayment,
	},
	domain.CollectionTasks: {
		rows: func(s workspace.Snapshot) any { return s.Tasks },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Task { return s.Tasks },
			func(m *workspace.Mutations) func(context.Context, domain.TaskDraft) (workspace.SyncReport, error) { return m.SaveTask },
		),
		remove: (*workspace.Mutations).DeleteTask,
	},
	domain.CollectionServices: {
		rows: func(s workspace.Snapshot) any { return s.Services },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Service { return s.Services },
			func(m *workspace.Mutations) func(context.Context, domain.ServiceDraft) (workspace.SyncReport, error) { return m.SaveService },
		),
		remove: (*workspace.Mutations).DeleteService,
	},
	domain.CollectionTargets: {
		rows: func(s workspace.Snapshot) any { return s.Targets },
		save: saveWith(
			func(s workspace.Snapshot) []domain.Target { return s.Targets },
			func(m *workspace.Mutations) func(context.Context, domain.TargetDraft) (workspace.SyncReport, error) { return m.SaveTarget },
		),
		remove: (*workspace.Mutations).DeleteTarget,
	},
}

func lookupCollection(name string) (collectionOps, error) {
	ops, ok := collections[domain.Collection(name)]
	if !ok {
		return collectionOps{}, fmt.Errorf("coleção desconhecida: %q", name)
	}
	return ops, nil
}

func collectionNames() []string {
	names := make([]string, 0, len(collections))
	for c := range collections {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}
