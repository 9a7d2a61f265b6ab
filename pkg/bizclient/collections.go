package bizclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func listCollection[T any](ctx context.Context, c *Client, collection domain.Collection, filter domain.ListFilter) ([]T, error) {
	var query url.Values
	if filter.Query != "" {
		query = url.Values{"q": {filter.Query}}
	}

	var rows []T
	if err := c.do(ctx, http.MethodGet, "/v1/"+string(collection), query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func createRecord[D, T any](ctx context.Context, c *Client, collection domain.Collection, draft D) (*T, error) {
	var row T
	if err := c.do(ctx, http.MethodPost, "/v1/"+string(collection), nil, draft, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func updateRecord[D, T any](ctx context.Context, c *Client, collection domain.Collection, id string, draft D) (*T, error) {
	var row T
	if err := c.do(ctx, http.MethodPut, "/v1/"+string(collection)+"/"+url.PathEscape(id), nil, draft, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Client) deleteRecord(ctx context.Context, collection domain.Collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/"+string(collection)+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListClients(ctx context.Context, filter domain.ListFilter) ([]domain.Client, error) {
	return listCollection[domain.Client](ctx, c, domain.CollectionClients, filter)
}

func (c *Client) CreateClient(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error) {
	return createRecord[domain.ClientDraft, domain.Client](ctx, c, domain.CollectionClients, draft)
}

func (c *Client) UpdateClient(ctx context.Context, id string, draft domain.ClientDraft) (*domain.Client, error) {
	return updateRecord[domain.ClientDraft, domain.Client](ctx, c, domain.CollectionClients, id, draft)
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionClients, id)
}

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return listCollection[domain.Project](ctx, c, domain.CollectionProjects, domain.ListFilter{})
}

func (c *Client) CreateProject(ctx context.Context, draft domain.ProjectDraft) (*domain.Project, error) {
	return createRecord[domain.ProjectDraft, domain.Project](ctx, c, domain.CollectionProjects, draft)
}

func (c *Client) UpdateProject(ctx context.Context, id string, draft domain.ProjectDraft) (*domain.Project, error) {
	return updateRecord[domain.ProjectDraft, domain.Project](ctx, c, domain.CollectionProjects, id, draft)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionProjects, id)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return listCollection[domain.Sale](ctx, c, domain.CollectionSales, domain.ListFilter{})
}

func (c *Client) CreateSale(ctx context.Context, draft domain.SaleDraft) (*domain.Sale, error) {
	return createRecord[domain.SaleDraft, domain.Sale](ctx, c, domain.CollectionSales, draft)
}

func (c *Client) UpdateSale(ctx context.Context, id string, draft domain.SaleDraft) (*domain.Sale, error) {
	return updateRecord[domain.SaleDraft, domain.Sale](ctx, c, domain.CollectionSales, id, draft)
}

func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionSales, id)
}

func (c *Client) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return listCollection[domain.Payment](ctx, c, domain.CollectionPayments, domain.ListFilter{})
}

func (c *Client) CreatePayment(ctx context.Context, draft domain.PaymentDraft) (*domain.Payment, error) {
	return createRecord[domain.PaymentDraft, domain.Payment](ctx, c, domain.CollectionPayments, draft)
}

func (c *Client) UpdatePayment(ctx context.Context, id string, draft domain.PaymentDraft) (*domain.Payment, error) {
	return updateRecord[domain.PaymentDraft, domain.Payment](ctx, c, domain.CollectionPayments, id, draft)
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionPayments, id)
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return listCollection[domain.Task](ctx, c, domain.CollectionTasks, domain.ListFilter{})
}

func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	return createRecord[domain.TaskDraft, domain.Task](ctx, c, domain.CollectionTasks, draft)
}

func (c *Client) UpdateTask(ctx context.Context, id string, draft domain.TaskDraft) (*domain.Task, error) {
	return updateRecord[domain.TaskDraft, domain.Task](ctx, c, domain.CollectionTasks, id, draft)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionTasks, id)
}

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	return listCollection[domain.Service](ctx, c, domain.CollectionServices, domain.ListFilter{})
}

func (c *Client) CreateService(ctx context.Context, draft domain.ServiceDraft) (*domain.Service, error) {
	return createRecord[domain.ServiceDraft, domain.Service](ctx, c, domain.CollectionServices, draft)
}

func (c *Client) UpdateService(ctx context.Context, id string, draft domain.ServiceDraft) (*domain.Service, error) {
	return updateRecord[domain.ServiceDraft, domain.Service](ctx, c, domain.CollectionServices, id, draft)
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionServices, id)
}

func (c *Client) ListTargets(ctx context.Context) ([]domain.Target, error) {
	return listCollection[domain.Target](ctx, c, domain.CollectionTargets, domain.ListFilter{})
}

func (c *Client) CreateTarget(ctx context.Context, draft domain.TargetDraft) (*domain.Target, error) {
	return createRecord[domain.TargetDraft, domain.Target](ctx, c, domain.CollectionTargets, draft)
}

func (c *Client) UpdateTarget(ctx context.Context, id string, draft domain.TargetDraft) (*domain.Target, error) {
	return updateRecord[domain.TargetDraft, domain.Target](ctx, c, domain.CollectionTargets, id, draft)
}

func (c *Client) DeleteTarget(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, domain.CollectionTargets, id)
}
