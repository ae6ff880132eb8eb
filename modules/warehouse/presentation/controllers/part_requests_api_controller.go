package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/presentation/mappers"
	"github.com/apexev/workshop/modules/warehouse/presentation/viewmodels"
	"github.com/apexev/workshop/modules/warehouse/services"
	"github.com/apexev/workshop/pkg/application"
	"github.com/apexev/workshop/pkg/middleware"
)

type PartRequestsAPIController struct {
	app      application.Application
	requests *services.PartRequestService
	review   *services.OrderReviewService
	basePath string
}

func NewPartRequestsAPIController(app application.Application) application.Controller {
	return &PartRequestsAPIController{
		app:      app,
		requests: app.Service(services.PartRequestService{}).(*services.PartRequestService),
		review:   app.Service(services.OrderReviewService{}).(*services.OrderReviewService),
		basePath: "/warehouse/api",
	}
}

func (c *PartRequestsAPIController) Key() string {
	return c.basePath + "/requests"
}

func (c *PartRequestsAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/requests/pending", c.ListPending).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/technicians/{id}/requests", c.ListForTechnician).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}/requests", c.ListForOrder).Methods(http.MethodGet)
	router.HandleFunc("/orders/pending", c.PendingByOrder).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("/requests", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/requests/{id}/approve", c.Approve).Methods(http.MethodPost)
	writeRouter.HandleFunc("/requests/{id}/reject", c.Reject).Methods(http.MethodPost)
	writeRouter.HandleFunc("/requests/{id}/cancel", c.Cancel).Methods(http.MethodPost)
	writeRouter.HandleFunc("/requests/{id}/fulfill", c.Fulfill).Methods(http.MethodPost)
}

func (c *PartRequestsAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto partrequest.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, r, errs)
		return
	}
	created, err := c.requests.Create(r.Context(), &dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.PartRequestToViewModel(created))
}

func (c *PartRequestsAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid request id")
		return
	}
	req, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartRequestToViewModel(req))
}

func (c *PartRequestsAPIController) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := c.requests.ListPending(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": requestViewModels(items),
	})
}

func (c *PartRequestsAPIController) ListForTechnician(w http.ResponseWriter, r *http.Request) {
	technicianID, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid technician id")
		return
	}
	items, err := c.requests.ListForTechnician(r.Context(), technicianID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": requestViewModels(items),
	})
}

func (c *PartRequestsAPIController) ListForOrder(w http.ResponseWriter, r *http.Request) {
	serviceOrderID, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid order id")
		return
	}
	items, err := c.requests.ListForOrder(r.Context(), serviceOrderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": requestViewModels(items),
	})
}

func (c *PartRequestsAPIController) PendingByOrder(w http.ResponseWriter, r *http.Request) {
	groups, err := c.review.PendingByOrder(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]*viewmodels.OrderGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, mappers.OrderGroupToViewModel(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
	})
}

type decisionBody struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

func decodeDecision(r *http.Request) decisionBody {
	var body decisionBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	return body
}

func (c *PartRequestsAPIController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid request id")
		return
	}
	body := decodeDecision(r)
	approved, err := c.requests.Approve(r.Context(), id, body.Notes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartRequestToViewModel(approved))
}

func (c *PartRequestsAPIController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid request id")
		return
	}
	body := decodeDecision(r)
	rejected, err := c.requests.Reject(r.Context(), id, body.Reason)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartRequestToViewModel(rejected))
}

func (c *PartRequestsAPIController) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid request id")
		return
	}
	cancelled, err := c.requests.Cancel(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartRequestToViewModel(cancelled))
}

func (c *PartRequestsAPIController) Fulfill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid request id")
		return
	}
	fulfilled, err := c.requests.Fulfill(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartRequestToViewModel(fulfilled))
}

func requestViewModels(items []partrequest.PartRequest) []*viewmodels.PartRequest {
	out := make([]*viewmodels.PartRequest, 0, len(items))
	for _, req := range items {
		out = append(out, mappers.PartRequestToViewModel(req))
	}
	return out
}
