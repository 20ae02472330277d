package checkout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/pecamax/backend-pecas/internal/cart"
	"github.com/pecamax/backend-pecas/internal/checkout"
	"github.com/pecamax/backend-pecas/internal/promo"
)

func newHandler(t *testing.T) *checkout.Handler {
	t.Helper()
	// Lazy pool: config is parsed but no connection is made.
	pool, err := pgxpool.New(context.Background(), "postgres://localhost:5432/pecas_test")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return &checkout.Handler{Svc: &checkout.Service{
		Pool:   pool,
		Carts:  &cart.Service{},
		Promos: &promo.Service{},
	}}
}

func TestCheckoutRejectsInvalidPayload(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()
	h.Checkout(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{not json")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRequiresCartID(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()
	h.Checkout(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"cartId":"  "}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutUnconfigured(t *testing.T) {
	h := &checkout.Handler{}
	rec := httptest.NewRecorder()
	h.Checkout(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"cartId":"abc"}`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
