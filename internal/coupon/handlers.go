package coupon

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/pecamax/backend-pecas/internal/common"
)

// Handler exposes the checkout-form coupon validation endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type validateRequest struct {
	Code          string `json:"code" validate:"required"`
	OrderSubtotal int64  `json:"orderSubtotal" validate:"gte=0"`
}

// ValidateCode checks a manually entered coupon against the order subtotal
// and returns the rejection reason or a discount preview. Validation never
// consumes a usage unit.
func (h *Handler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
	}
	result, err := h.Svc.Validate(r.Context(), req.Code, req.OrderSubtotal)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to validate coupon", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}
