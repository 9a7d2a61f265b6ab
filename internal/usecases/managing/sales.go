package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListSales(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Sale, error) {
	sales, err := s.repos.Sales.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionSales, "", err)
	}
	return sales, nil
}

func (s *Service) CreateSale(ctx context.Context, ownerID string, draft domain.SaleDraft) (*domain.Sale, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionSales, err)
	}

	if err := s.checkSaleReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	sale := &domain.Sale{Record: domain.Record{UserID: ownerID}}
	draft.Apply(sale)

	if err := s.repos.Sales.Create(ctx, sale); err != nil {
		return nil, fromRepository(domain.CollectionSales, "", err)
	}
	return sale, nil
}

func (s *Service) UpdateSale(ctx context.Context, ownerID, id string, draft domain.SaleDraft) (*domain.Sale, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionSales, err)
	}

	sale, err := s.repos.Sales.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionSales, id, err)
	}
	if err := checkVersion(domain.CollectionSales, sale.Record, draft.Version); err != nil {
		return nil, err
	}

	if err := s.checkSaleReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	draft.Apply(sale)

	if err := s.repos.Sales.Update(ctx, sale, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionSales, id, err)
	}

	sale.Version++
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Sales.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionSales, id, err)
	}
	return nil
}

// checkSaleReferences valida os vínculos do rascunho com registros do mesmo dono
func (s *Service) checkSaleReferences(ctx context.Context, ownerID string, draft domain.SaleDraft) error {
	if err := checkReference(ctx, s.repos.Clients.Exists, domain.CollectionSales, ownerID, "client_id", draft.ClientID); err != nil {
		return err
	}
	if err := checkReference(ctx, s.repos.Projects.Exists, domain.CollectionSales, ownerID, "project_id", draft.ProjectID); err != nil {
		return err
	}
	return nil
}
