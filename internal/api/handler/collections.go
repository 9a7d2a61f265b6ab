package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/bizdash-api/internal/api/handler/router"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
)

func ListRecords[T any](list func(ctx context.Context, ownerID string, filter domain.ListFilter) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		filter := domain.ListFilter{Query: r.URL.Query().Get("q")}

		records, err := list(r.Context(), claims.UserID, filter)
		if err != nil {
			handleManageError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

func CreateRecord[D, T any](create func(ctx context.Context, ownerID string, draft D) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var draft D
		if !decodeJSON(w, r, &draft) {
			return
		}

		record, err := create(r.Context(), claims.UserID, draft)
		if err != nil {
			handleManageError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, record)
	}
}

func UpdateRecord[D, T any](update func(ctx context.Context, ownerID, id string, draft D) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID não fornecido", nil)
			return
		}

		var draft D
		if !decodeJSON(w, r, &draft) {
			return
		}

		record, err := update(r.Context(), claims.UserID, id, draft)
		if err != nil {
			handleManageError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

func DeleteRecord(del func(ctx context.Context, ownerID, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID não fornecido", nil)
			return
		}

		if err := del(r.Context(), claims.UserID, id); err != nil {
			handleManageError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// collectionRoutes monta list/insert/update/delete de uma coleção
func collectionRoutes(collection domain.Collection, list, create, update, del http.Handler) []router.Route {
	base := "/v1/" + string(collection)
	session := []func(http.Handler) http.Handler{middleware.RequireSession()}

	return []router.Route{
		{Path: base, Method: http.MethodGet, Handler: list, Middlewares: session},
		{Path: base, Method: http.MethodPost, Handler: create, Middlewares: session},
		{Path: base + "/:id", Method: http.MethodPut, Handler: update, Middlewares: session},
		{Path: base + "/:id", Method: http.MethodDelete, Handler: del, Middlewares: session},
	}
}

func Collections(service managing.Manager) []router.Route {
	var routes []router.Route

	routes = append(routes, collectionRoutes(domain.CollectionClients,
		ListRecords(service.ListClients),
		CreateRecord(service.CreateClient),
		UpdateRecord(service.UpdateClient),
		DeleteRecord(service.DeleteClient),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionProjects,
		ListRecords(service.ListProjects),
		CreateRecord(service.CreateProject),
		UpdateRecord(service.UpdateProject),
		DeleteRecord(service.DeleteProject),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionSales,
		ListRecords(service.ListSales),
		CreateRecord(service.CreateSale),
		UpdateRecord(service.UpdateSale),
		DeleteRecord(service.DeleteSale),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionPayments,
		ListRecords(service.ListPayments),
		CreateRecord(service.CreatePayment),
		UpdateRecord(service.UpdatePayment),
		DeleteRecord(service.DeletePayment),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionTasks,
		ListRecords(service.ListTasks),
		CreateRecord(service.CreateTask),
		UpdateRecord(service.UpdateTask),
		DeleteRecord(service.DeleteTask),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionServices,
		ListRecords(service.ListServices),
		CreateRecord(service.CreateService),
		UpdateRecord(service.UpdateService),
		DeleteRecord(service.DeleteService),
	)...)
	routes = append(routes, collectionRoutes(domain.CollectionTargets,
		ListRecords(service.ListTargets),
		CreateRecord(service.CreateTarget),
		UpdateRecord(service.UpdateTarget),
		DeleteRecord(service.DeleteTarget),
	)...)

	return routes
}
