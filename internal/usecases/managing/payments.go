package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListPayments(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Payment, error) {
	payments, err := s.repos.Payments.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionPayments, "", err)
	}
	return payments, nil
}

func (s *Service) CreatePayment(ctx context.Context, ownerID string, draft domain.PaymentDraft) (*domain.Payment, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionPayments, err)
	}

	if err := s.checkPaymentReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	payment := &domain.Payment{Record: domain.Record{UserID: ownerID}}
	draft.Apply(payment)

	if err := s.repos.Payments.Create(ctx, payment); err != nil {
		return nil, fromRepository(domain.CollectionPayments, "", err)
	}
	return payment, nil
}

func (s *Service) UpdatePayment(ctx context.Context, ownerID, id string, draft domain.PaymentDraft) (*domain.Payment, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionPayments, err)
	}

	payment, err := s.repos.Payments.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionPayments, id, err)
	}
	if err := checkVersion(domain.CollectionPayments, payment.Record, draft.Version); err != nil {
		return nil, err
	}

	if err := s.checkPaymentReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	draft.Apply(payment)

	if err := s.repos.Payments.Update(ctx, payment, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionPayments, id, err)
	}

	payment.Version++
	return payment, nil
}

func (s *Service) DeletePayment(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Payments.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionPayments, id, err)
	}
	return nil
}

// checkPaymentReferences valida os vínculos do rascunho com registros do mesmo dono
func (s *Service) checkPaymentReferences(ctx context.Context, ownerID string, draft domain.PaymentDraft) error {
	if err := checkReference(ctx, s.repos.Clients.Exists, domain.CollectionPayments, ownerID, "client_id", draft.ClientID); err != nil {
		return err
	}
	return nil
}
