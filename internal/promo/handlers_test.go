package promo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestActiveHonorsLimit(t *testing.T) {
	first := validRecord()
	second := validRecord()
	second.ID = "p2"
	h := &Handler{Svc: &Service{
		Source: &stubSource{records: []Record{first, second}},
		TTL:    time.Minute,
		Log:    zerolog.Nop(),
	}}

	rec := httptest.NewRecorder()
	h.Active(rec, httptest.NewRequest(http.MethodGet, "/promotions/active?limit=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body struct {
		Data []Promotion `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != "p1" {
		t.Fatalf("unexpected promotions: %+v", body.Data)
	}
}

func TestActiveIgnoresBadLimit(t *testing.T) {
	h := &Handler{Svc: &Service{
		Source: &stubSource{records: []Record{validRecord()}},
		TTL:    time.Minute,
		Log:    zerolog.Nop(),
	}}

	rec := httptest.NewRecorder()
	h.Active(rec, httptest.NewRequest(http.MethodGet, "/promotions/active?limit=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body struct {
		Data []Promotion `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected the full catalog, got %+v", body.Data)
	}
}
