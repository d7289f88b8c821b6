package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"mon-panier-local/internal/cache"
	producerdomain "mon-panier-local/internal/domain/producer"
)

func TestListProducersSecondRequestServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "u1", 48.0, 2.0)

	first := doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/", "", nil, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}
	second := doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/", "", nil, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", second.Code)
	}

	if env.producers.listCalls != 1 {
		t.Fatalf("expected one repository query, got %d", env.producers.listCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached response must match the computed one")
	}
}

func TestListProducersDifferentFiltersGetDistinctEntries(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "u1", 48.0, 2.0)

	doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/", "", nil, nil)
	doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/?category=apiculture", "", nil, nil)

	if env.producers.listCalls != 2 {
		t.Fatalf("different filters must not share an entry, got %d queries", env.producers.listCalls)
	}
}

func TestUpdateProducerInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "owner", 48.0, 2.0)

	// Warm the list, nearby and detail entries.
	doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/", "", nil, nil)
	doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.0&longitude=2.0&radius_km=50", "", nil, nil)
	doRequest(env.handlers.GetProducer, http.MethodGet, "/api/producers/a/", "", nil, map[string]string{"id": "a"})

	if env.store.keysWithPrefix(cache.PrefixProducersList) == 0 ||
		env.store.keysWithPrefix(cache.PrefixProducersNear) == 0 ||
		env.store.keysWithPrefix(cache.PrefixProducerDetail) == 0 {
		t.Fatal("expected warmed cache entries before the write")
	}

	body := strings.NewReader(`{"name":"Ferme Rebaptisée","category":"maraîchage","address":"1 rue des Champs","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.UpdateProducer, http.MethodPut, "/api/producers/a/", "owner", body, map[string]string{"id": "a"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if env.store.keysWithPrefix(cache.PrefixProducersList) != 0 {
		t.Fatal("list entries must be gone after a write")
	}
	if env.store.keysWithPrefix(cache.PrefixProducersNear) != 0 {
		t.Fatal("nearby entries must be gone after a write")
	}
	if env.store.keysWithPrefix(cache.PrefixProducerDetail) != 0 {
		t.Fatal("the detail entry must be gone after a write")
	}

	listCallsBefore := env.producers.listCalls
	next := doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/", "", nil, nil)
	if next.Code != http.StatusOK {
		t.Fatalf("list after write: expected 200, got %d", next.Code)
	}
	if env.producers.listCalls != listCallsBefore+1 {
		t.Fatal("list after a write must recompute, not serve stale data")
	}
	if !strings.Contains(next.Body.String(), "Ferme Rebaptisée") {
		t.Fatal("recomputed list must reflect the write")
	}
}

func TestUpdateProducerRejectsNonOwner(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "owner", 48.0, 2.0)

	body := strings.NewReader(`{"name":"Pirate","category":"maraîchage","address":"x","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.UpdateProducer, http.MethodPut, "/api/producers/a/", "intruder", body, map[string]string{"id": "a"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateProducerRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "owner", 48.0, 2.0)

	body := strings.NewReader(`{"name":"Ferme","category":"maraîchage","address":"x","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.UpdateProducer, http.MethodPut, "/api/producers/a/", "", body, map[string]string{"id": "a"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateProducerRejectsSecondProfile(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "u1", 48.0, 2.0)
	env.users.users["u1"] = userAccount("u1")

	body := strings.NewReader(`{"name":"Deuxième Ferme","category":"maraîchage","address":"x","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.CreateProducer, http.MethodPost, "/api/producers/", "u1", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for second profile, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProducerMarksUser(t *testing.T) {
	env := newTestEnv(t)
	env.users.users["u1"] = userAccount("u1")

	body := strings.NewReader(`{"name":"Première Ferme","category":"maraîchage","address":"1 rue des Champs","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.CreateProducer, http.MethodPost, "/api/producers/", "u1", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.users.users["u1"].IsProducer {
		t.Fatal("creating a profile must flag the account as producer")
	}
}

func TestCreateProducerMapsConstraintToBadRequest(t *testing.T) {
	env := newTestEnv(t)
	env.users.users["u1"] = userAccount("u1")
	// Two creates racing on the same user slip past the profile
	// pre-check and hit the unique constraint instead.
	env.producers.createErr = producerdomain.ErrConflict

	body := strings.NewReader(`{"name":"Ferme Jumelle","category":"maraîchage","address":"x","latitude":48.0,"longitude":2.0}`)
	rec := doRequest(env.handlers.CreateProducer, http.MethodPost, "/api/producers/", "u1", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a constraint violation, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope["error"] != "constraint violated" {
		t.Fatalf("expected a generic constraint message, got %q", envelope["error"])
	}
}

func TestListProducersPaginationLinks(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "u1", 48.0, 2.0)
	env.addProducer("b", "u2", 48.1, 2.1)
	env.addProducer("c", "u3", 48.2, 2.2)

	rec := doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/?page_size=2", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var firstPage producerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &firstPage); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if firstPage.Next == nil || !strings.Contains(*firstPage.Next, "page=2") {
		t.Fatalf("expected a next link to page 2, got %v", firstPage.Next)
	}
	if firstPage.Previous != nil {
		t.Fatalf("the first page must not have a previous link, got %q", *firstPage.Previous)
	}

	rec = doRequest(env.handlers.ListProducers, http.MethodGet, "/api/producers/?page=2&page_size=2", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var lastPage producerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &lastPage); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lastPage.Previous == nil || !strings.Contains(*lastPage.Previous, "page=1") {
		t.Fatalf("expected a previous link to page 1, got %v", lastPage.Previous)
	}
	if lastPage.Next != nil {
		t.Fatalf("the last page must not have a next link, got %q", *lastPage.Next)
	}
}

func TestGetProducerIncludesProducts(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("a", "u1", 48.0, 2.0)
	env.products.products["p1"] = productFixture("p1", "a", "Tomates")

	rec := doRequest(env.handlers.GetProducer, http.MethodGet, "/api/producers/a/", "", nil, map[string]string{"id": "a"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var detail producerDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(detail.Products) != 1 || detail.Products[0].Name != "Tomates" {
		t.Fatalf("expected the producer's products inlined, got %+v", detail.Products)
	}
}

func TestGetProducerNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(env.handlers.GetProducer, http.MethodGet, "/api/producers/missing/", "", nil, map[string]string{"id": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
