package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/stockkeeper/inventory/internal/inventory/application"
	"github.com/stockkeeper/inventory/internal/inventory/domain"
	"github.com/stockkeeper/inventory/pkg/idempotency"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	idem    idempotency.Seener
	tracer  trace.Tracer
}

// NewHandler wires the REST surface. idem may be nil; duplicate-create
// protection is then disabled.
func NewHandler(log *slog.Logger, service *application.Service, idem idempotency.Seener) *Handler {
	return &Handler{
		log:     log,
		service: service,
		idem:    idem,
		tracer:  otel.Tracer("inventory-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID, WithLogging(h.log))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/", h.index)
	r.Get("/health", h.health)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listItems)
		post := r.With(requireJSON)
		if h.idem != nil {
			post = post.With(idempotency.Middleware(h.log, h.idem))
		}
		post.Post("/", h.createItem)
		r.Get("/{id}", h.getItem)
		r.With(requireJSON).Put("/{id}", h.updateItem)
		r.Delete("/{id}", h.deleteItem)
		r.Put("/{id}/restock/{delta}", h.restockItem)
	})

	return r
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Inventory REST API Service",
		"version": "1.0.0",
		"url":     "/inventory",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Healthy"})
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateInventory")
	defer span.End()

	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	item, err := h.service.Create(ctx, payload)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/inventory/%d", item.ID))
	writeJSON(w, http.StatusCreated, item.Payload())
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetInventory")
	defer span.End()

	id, ok := itemID(w, r)
	if !ok {
		return
	}
	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Payload())
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateInventory")
	defer span.End()

	id, ok := itemID(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	item, err := h.service.Update(ctx, id, payload)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Payload())
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteInventory")
	defer span.End()

	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) restockItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RestockInventory")
	defer span.End()

	id, ok := itemID(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "delta")
	delta, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%q is not a valid integer", raw))
		return
	}
	item, err := h.service.Restock(ctx, id, delta)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Payload())
}

// listItems applies the query-param filters conjunctively: every supplied
// criterion must match. Unknown enum tokens and malformed bounds are
// rejected rather than matched against nothing.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListInventory")
	defer span.End()

	var filter application.Filter
	q := r.URL.Query()
	filter.Name = q.Get("name")
	if s := q.Get("condition"); s != "" {
		c, err := domain.ParseCondition(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Condition = c
	}
	if s := q.Get("stock_level"); s != "" {
		l, err := domain.ParseStockLevel(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.StockLevel = l
	}
	for _, bound := range []struct {
		param string
		dst   **int
	}{
		{"quantity_min", &filter.MinQuantity},
		{"quantity_max", &filter.MaxQuantity},
	} {
		if s := q.Get(bound.param); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("%q is not a valid integer", s))
				return
			}
			*bound.dst = &n
		}
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	payloads := make([]map[string]any, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, item.Payload())
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrNegativeQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	default:
		h.log.Error("inventory request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// itemID parses the {id} path segment. A non-numeric id names no resource,
// so the response is 404 rather than 400.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("inventory item with id %q was not found", raw))
		return 0, false
	}
	return id, true
}

func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "body of request contained bad or no data")
		return nil, false
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "body of request must be a JSON object")
		return nil, false
	}
	return payload, true
}
