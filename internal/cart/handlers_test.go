package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pecamax/backend-pecas/internal/cart"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := &cart.Handler{Svc: newTestService(t, nil, nil)}
	r := chi.NewRouter()
	r.Get("/carts/{id}", h.Get)
	r.Post("/carts/{id}/lines", h.AddLine)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

func TestGetUnknownCartWritesNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	code, message := decodeError(t, rec)
	require.Equal(t, "NOT_FOUND", code)
	require.Equal(t, "cart not found", message)
}

func TestAddLineWritesBadRequest(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	payload := `{"productId":"sku-1","category":"Filtros","itemType":"product","unitPrice":1000,"qty":0}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carts/c1/lines", strings.NewReader(payload)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	require.Equal(t, "BAD_REQUEST", code)
}
