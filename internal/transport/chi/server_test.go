package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shopglue/retrieval/internal/domain"
	"github.com/shopglue/retrieval/internal/usecase/ingest"
)

func newRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSearch_OK(t *testing.T) {
	srv, vec, search, _ := newTestServer(t)
	search.searchFn = func(
		_ context.Context, website, query string, _ domain.HybridQuery,
		c *domain.Classification, fanOut bool,
	) ([]domain.RerankedCandidate, error) {
		return []domain.RerankedCandidate{
			reranked("wax-1", "Snowboard Wax", 0.9, 2.7, "3/3"),
		}, nil
	}

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website: "shop",
		Query:   "wax for snowboards",
		Classification: &classificationDTO{
			Type:            "product",
			Category:        "sports",
			InteractionType: "sales",
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(vec.queries) != 1 || vec.queries[0] != "wax for snowboards" {
		t.Errorf("vectorizer received %v", vec.queries)
	}
	if search.lastWebsite != "shop" || search.lastFanOut {
		t.Errorf("unexpected search routing: website=%s fanout=%v", search.lastWebsite, search.lastFanOut)
	}
	if search.lastClassification == nil || search.lastClassification.InteractionType != "sales" {
		t.Errorf("classification not forwarded: %+v", search.lastClassification)
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != "wax-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Items[0].RerankScore != 2.7 || resp.Items[0].ClassificationMatch != "3/3" {
		t.Errorf("rerank fields lost: %+v", resp.Items[0])
	}
}

func TestSearch_NilClassification(t *testing.T) {
	srv, _, search, _ := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website:          "shop",
		Query:            "anything",
		UseAllNamespaces: true,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if search.lastClassification != nil {
		t.Errorf("expected nil classification, got %+v", search.lastClassification)
	}
	if !search.lastFanOut {
		t.Error("use_all_namespaces not forwarded")
	}
}

func TestSearch_SubCategoryWildcard(t *testing.T) {
	srv, _, search, _ := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website: "shop",
		Query:   "q",
		Classification: &classificationDTO{
			Type:        "product",
			SubCategory: "discounts", // classifier sentinel, not a real sub-category
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !search.lastClassification.SubCategory.IsWildcard() {
		t.Error("sentinel sub-category must parse as wildcard")
	}
}

func TestSearch_MissingWebsite(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{Query: "q"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeValidationFailed {
		t.Errorf("expected %s, got %s", codeValidationFailed, resp.Code)
	}
}

func TestSearch_EmptyQueryMapsTo400(t *testing.T) {
	srv, vec, _, _ := newTestServer(t)
	vec.buildFn = func(context.Context, string) (domain.HybridQuery, error) {
		return domain.HybridQuery{}, domain.ErrEmptyQuery
	}

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website: "shop",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSearch_ProviderErrorMapsTo502(t *testing.T) {
	srv, vec, _, _ := newTestServer(t)
	vec.buildFn = func(context.Context, string) (domain.HybridQuery, error) {
		return domain.HybridQuery{}, domain.ErrEmbeddingProviderError
	}

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website: "shop",
		Query:   "q",
	})

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}

func TestSearch_InternalErrorHidesDetails(t *testing.T) {
	srv, _, search, _ := newTestServer(t)
	search.searchFn = func(
		context.Context, string, string, domain.HybridQuery, *domain.Classification, bool,
	) ([]domain.RerankedCandidate, error) {
		return nil, errors.New("redis connection pool exhausted at 10.0.0.5")
	}

	rr := doJSON(t, newRouter(srv), "POST", "/v1/search", searchRequest{
		Website: "shop",
		Query:   "q",
	})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Message != "internal error" {
		t.Errorf("internal details leaked: %s", resp.Message)
	}
}

func TestUpsert_OK(t *testing.T) {
	srv, _, _, ing := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/documents", upsertRequest{
		Website:         "shop",
		InteractionType: "sales",
		Document: documentDTO{
			ID: "wax-1",
			Metadata: metadataDTO{
				Type:    "product",
				Title:   "Snowboard Wax",
				Content: "All-temperature glide wax.",
			},
		},
	})

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
	if ing.lastWebsite != "shop" || ing.lastInteraction != "sales" {
		t.Errorf("routing lost: %s/%s", ing.lastWebsite, ing.lastInteraction)
	}
	if ing.lastItem.ID != "wax-1" || ing.lastItem.Metadata.Title != "Snowboard Wax" {
		t.Errorf("item lost: %+v", ing.lastItem)
	}
}

func TestUpsert_InvalidDocumentMapsTo400(t *testing.T) {
	srv, _, _, ing := newTestServer(t)
	ing.upsertFn = func(context.Context, string, string, ingest.Item) error {
		return domain.ErrDocumentInvalid
	}

	rr := doJSON(t, newRouter(srv), "POST", "/v1/documents", upsertRequest{
		Website:  "shop",
		Document: documentDTO{ID: "empty"},
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBatchUpsert_OK(t *testing.T) {
	srv, _, _, ing := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/documents/batch", batchUpsertRequest{
		Website:         "shop",
		InteractionType: "support",
		Documents: []documentDTO{
			{ID: "a", Metadata: metadataDTO{Title: "A"}},
			{ID: "b", Metadata: metadataDTO{Title: "B"}},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(ing.lastItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(ing.lastItems))
	}

	var resp batchUpsertResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Indexed != 2 {
		t.Errorf("expected 2 indexed, got %d", resp.Indexed)
	}
}

func TestBatchUpsert_EmptyRejected(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rr := doJSON(t, newRouter(srv), "POST", "/v1/documents/batch", batchUpsertRequest{
		Website: "shop",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDelete_OK(t *testing.T) {
	srv, _, _, ing := newTestServer(t)

	req := httptest.NewRequest("DELETE", "/v1/documents/wax-1?website=shop&interaction_type=sales", http.NoBody)
	rr := httptest.NewRecorder()
	newRouter(srv).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if ing.lastDeletedID != "wax-1" || ing.lastWebsite != "shop" || ing.lastInteraction != "sales" {
		t.Errorf("delete routing lost: id=%s website=%s interaction=%s",
			ing.lastDeletedID, ing.lastWebsite, ing.lastInteraction)
	}
}

func TestDelete_MissingWebsite(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	req := httptest.NewRequest("DELETE", "/v1/documents/wax-1", http.NoBody)
	rr := httptest.NewRecorder()
	newRouter(srv).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	newRouter(srv).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health report: %+v", resp)
	}
}
