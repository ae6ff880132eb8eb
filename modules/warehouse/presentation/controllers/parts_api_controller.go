package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/presentation/mappers"
	"github.com/apexev/workshop/modules/warehouse/presentation/viewmodels"
	"github.com/apexev/workshop/modules/warehouse/services"
	"github.com/apexev/workshop/pkg/application"
	"github.com/apexev/workshop/pkg/configuration"
	"github.com/apexev/workshop/pkg/middleware"
)

type PartsAPIController struct {
	app      application.Application
	parts    *services.PartService
	basePath string
}

func NewPartsAPIController(app application.Application) application.Controller {
	return &PartsAPIController{
		app:      app,
		parts:    app.Service(services.PartService{}).(*services.PartService),
		basePath: "/warehouse/api/parts",
	}
}

func (c *PartsAPIController) Key() string {
	return c.basePath
}

func (c *PartsAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/sku/{sku}", c.GetBySKU).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}/availability", c.CheckAvailability).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id}/stock", c.AdjustStock).Methods(http.MethodPost)
}

func (c *PartsAPIController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := &part.FindParams{
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Limit:    conf.PageSize,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		status, ok := part.ParseStatus(strings.ToUpper(v))
		if !ok {
			writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_STATUS", "unknown part status")
			return
		}
		params.Status = status
	}
	if v := strings.TrimSpace(r.URL.Query().Get("low_stock_below")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			params.LowStockBelow = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}

	items, err := c.parts.List(r.Context(), params)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	total, err := c.parts.Count(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]*viewmodels.Part, 0, len(items))
	for _, p := range items {
		out = append(out, mappers.PartToViewModel(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *PartsAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid part id")
		return
	}
	p, err := c.parts.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartToViewModel(p))
}

func (c *PartsAPIController) GetBySKU(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(mux.Vars(r)["sku"])
	if sku == "" {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_SKU", "sku is required")
		return
	}
	p, err := c.parts.GetBySKU(r.Context(), sku)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartToViewModel(p))
}

func (c *PartsAPIController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid part id")
		return
	}
	required := 1
	if v := strings.TrimSpace(r.URL.Query().Get("quantity")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_QUANTITY", "quantity must be a positive integer")
			return
		}
		required = parsed
	}
	check, err := c.parts.CheckAvailability(r.Context(), id, required)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.AvailabilityToViewModel(check))
}

func (c *PartsAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto part.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, r, errs)
		return
	}
	created, err := c.parts.Create(r.Context(), &dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.PartToViewModel(created))
}

func (c *PartsAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid part id")
		return
	}
	var dto part.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, r, errs)
		return
	}
	updated, err := c.parts.Update(r.Context(), id, &dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartToViewModel(updated))
}

func (c *PartsAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid part id")
		return
	}
	if err := c.parts.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *PartsAPIController) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_ID", "invalid part id")
		return
	}
	var dto part.AdjustStockDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "WAREHOUSE_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, r, errs)
		return
	}
	adjusted, err := c.parts.AdjustStock(r.Context(), id, &dto)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.PartToViewModel(adjusted))
}
