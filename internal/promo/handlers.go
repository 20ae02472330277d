package promo

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/pecamax/backend-pecas/internal/common"
)

// Handler exposes the stateless pricing endpoints consumed by the cart and
// checkout UI.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type evaluateRequest struct {
	Customer customerPayload `json:"customer"`
	Lines    []linePayload   `json:"lines" validate:"required,min=1,dive"`
}

type customerPayload struct {
	ID    string `json:"id"`
	Level string `json:"level"`
}

type linePayload struct {
	ID        string `json:"id" validate:"required"`
	ProductID string `json:"productId"`
	ServiceID string `json:"serviceId"`
	Category  string `json:"category"`
	ItemType  string `json:"itemType" validate:"omitempty,oneof=product service"`
	UnitPrice int64  `json:"unitPrice" validate:"gte=0"`
	Qty       int    `json:"qty" validate:"gt=0"`
}

// Evaluate prices the posted cart snapshot without touching any stored cart.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing service not configured", nil)
		return
	}
	var req evaluateRequest
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
	result := h.Svc.Evaluate(r.Context(), toCartLines(req.Lines), Customer{ID: req.Customer.ID, Level: req.Customer.Level})
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Active returns the typed view of the promotions currently in the snapshot.
// An optional limit query param truncates the list.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing service not configured", nil)
		return
	}
	catalog := h.Svc.Snapshot(r.Context())
	promotions := catalog.Promotions
	if promotions == nil {
		promotions = []Promotion{}
	}
	if limit := common.AtoiDefault(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(promotions) {
		promotions = promotions[:limit]
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": promotions})
}

// Reload forces a catalog snapshot refresh after the admin panel publishes
// promotion changes.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing service not configured", nil)
		return
	}
	catalog := h.Svc.Reload(r.Context())
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"promotions": len(catalog.Promotions)}})
}

func toCartLines(lines []linePayload) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLine{
			ID:        l.ID,
			ProductID: l.ProductID,
			ServiceID: l.ServiceID,
			Category:  l.Category,
			ItemType:  l.ItemType,
			UnitPrice: l.UnitPrice,
			Qty:       l.Qty,
		})
	}
	return out
}
