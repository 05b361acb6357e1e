// AngelaMos | 2026
// handler.go

package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopfront/storefront-api/internal/core"
	"github.com/shopfront/storefront-api/internal/middleware"
)

const defaultQuantity = 1

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	userOnly func(http.Handler) http.Handler,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(userOnly)

		r.Get("/", h.Get)
		r.Post("/", h.Add)
		r.Delete("/clear", h.Clear)
		r.Delete("/{productID}", h.Remove)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	lines, err := h.service.GetCart(r.Context(), caller.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCartResponse(lines))
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	quantity := defaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.service.AddItem(r.Context(), caller.ID, req.ProductID, quantity); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Product added to cart")
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		core.BadRequest(w, "invalid product id")
		return
	}

	if err := h.service.RemoveItem(r.Context(), caller.ID, productID); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Item successfully removed from cart")
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), caller.ID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Cart cleared")
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCartNotFound):
		core.JSONError(w, core.NotFoundError("Cart not found"))
	case errors.Is(err, ErrItemNotFound):
		core.JSONError(w, core.NotFoundError("Item not found in cart"))
	case errors.Is(err, ErrProductNotFound):
		core.JSONError(w, core.NotFoundError("Product not found"))
	case errors.Is(err, ErrInvalidQuantity):
		core.BadRequest(w, "Quantity must be a positive integer")
	case errors.Is(err, ErrQuantityLimit):
		core.BadRequest(w, fmt.Sprintf("Quantity per item cannot exceed %d", MaxLineQuantity))
	default:
		core.InternalServerError(w, err)
	}
}
