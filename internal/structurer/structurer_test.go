package structurer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"invoicebridge/pkg/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewServiceWithClient(openai.NewClientWithConfig(cfg), Config{}, zerolog.Nop())
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + content + `}}]}`
}

func TestNewServiceRequiresAPIKey(t *testing.T) {
	if _, err := NewService("", Config{}, zerolog.Nop()); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("NewService error = %v, expected ErrMissingAPIKey", err)
	}
}

func TestStructureLineItems(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`"{\"line_items\":[{\"description\":\"Widgets\",\"quantity\":\"1.00\",\"unit_price\":\"724.00\"}]}"`)))
	})

	candidates := []models.LineItemCandidate{
		{RawLine: "1.00 724.00 108.60", Values: []string{"1.00", "724.00", "108.60"}},
	}
	items, err := svc.StructureLineItems(context.Background(), candidates, []string{"Widgets", "1.00 724.00 108.60"})
	if err != nil {
		t.Fatalf("StructureLineItems() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, expected 1", len(items))
	}
	if items[0].Description != "Widgets" || items[0].Quantity != "1.00" || items[0].UnitPrice != "724.00" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestStructureLineItemsNoCandidates(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no completion call expected for an empty candidate list")
	})

	items, err := svc.StructureLineItems(context.Background(), nil, []string{"some line"})
	if err != nil {
		t.Fatalf("StructureLineItems() error: %v", err)
	}
	if items != nil {
		t.Errorf("items = %v, expected nil", items)
	}
}

func TestStructureLineItemsGarbageOutput(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`"I cannot determine the items."`)))
	})

	candidates := []models.LineItemCandidate{{RawLine: "1.00 2.00", Values: []string{"1.00", "2.00"}}}
	if _, err := svc.StructureLineItems(context.Background(), candidates, nil); err == nil {
		t.Error("expected a decode error on non-JSON model output")
	}
}
