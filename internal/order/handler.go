// AngelaMos | 2026
// handler.go

package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	userOnly func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(userOnly)

		r.Post("/", h.Place)
		r.Get("/history", h.History)
		r.Get("/{orderID}", h.Get)
	})
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	o, err := h.service.Place(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, ErrCartEmpty) {
			core.JSONError(w, core.InvalidStateError("Cart is empty"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, PlacedResponse{Msg: "Order placed successfully", OrderID: o.ID})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	summaries, err := h.service.History(r.Context(), caller.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToHistoryResponse(summaries))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		core.BadRequest(w, "invalid order id")
		return
	}

	detail, err := h.service.Detail(r.Context(), caller.ID, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			core.JSONError(w, core.NotFoundError("Order not found"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDetailResponse(detail))
}
