package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pecamax/backend-pecas/internal/cart"
	"github.com/pecamax/backend-pecas/internal/common"
)

type Handler struct {
	Svc *Service
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload struct {
		CartID string `json:"cartId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Place(r.Context(), strings.TrimSpace(payload.CartID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if !common.IsAppError(err) {
		err = appError(err)
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to place order", nil)
}

// appError maps placement sentinels onto the transport error shape.
func appError(err error) *common.AppError {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		return common.NewAppError("NOT_FOUND", "cart not found", http.StatusNotFound, err)
	case errors.Is(err, cart.ErrInvalidInput):
		return common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrEmptyCart):
		return common.NewAppError("EMPTY_CART", "cart has no lines", http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "unable to place order", http.StatusInternalServerError, err)
	}
}
