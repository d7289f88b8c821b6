package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestNearbyRequiresCoordinates(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name   string
		target string
	}{
		{"missing latitude", "/api/producers/nearby/?longitude=2.3522"},
		{"missing longitude", "/api/producers/nearby/?latitude=48.8566"},
		{"missing both", "/api/producers/nearby/"},
		{"non-numeric latitude", "/api/producers/nearby/?latitude=paris&longitude=2.3522"},
		{"latitude out of range", "/api/producers/nearby/?latitude=91&longitude=2.3522"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(env.handlers.NearbyProducers, http.MethodGet, tc.target, "", nil, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var envelope map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil || envelope["error"] == "" {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestNearbyRejectsRadiusAboveCap(t *testing.T) {
	env := newTestEnv(t)

	rec := doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=2000", "", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for radius above the cap, got %d", rec.Code)
	}

	rec = doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=0", "", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero radius, got %d", rec.Code)
	}
}

func TestNearbyReturnsSortedMatches(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("versailles", "u1", 48.8049, 2.1204)
	env.addProducer("paris", "u2", 48.8600, 2.3500)
	env.addProducer("lyon", "u3", 45.7640, 4.8357)

	rec := doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=50", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp nearbyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", resp.Count)
	}
	if resp.Results[0].ID != "paris" {
		t.Fatalf("expected nearest first, got %q", resp.Results[0].ID)
	}
	if resp.Results[0].DistanceKm >= resp.Results[1].DistanceKm {
		t.Fatalf("distances not ascending: %f then %f", resp.Results[0].DistanceKm, resp.Results[1].DistanceKm)
	}
	for _, result := range resp.Results {
		if result.ID == "lyon" {
			t.Fatal("lyon must not appear within 50 km of paris")
		}
	}
	if len(resp.Distances) != len(resp.Results) {
		t.Fatalf("distances must parallel results: %d vs %d", len(resp.Distances), len(resp.Results))
	}
	for i, result := range resp.Results {
		if resp.Distances[i] != result.DistanceKm {
			t.Fatalf("distances[%d] = %f, want %f", i, resp.Distances[i], result.DistanceKm)
		}
	}
}

func TestNearbyExposesTopLevelDistances(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("paris", "u1", 48.8600, 2.3500)

	rec := doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=50", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The frontend zips this array with the results page, so it has to
	// sit at the top level of the envelope, not only inside each item.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, ok := envelope["distances"]
	if !ok {
		t.Fatalf("expected a top-level distances array, body: %s", rec.Body.String())
	}
	var distances []float64
	if err := json.Unmarshal(raw, &distances); err != nil {
		t.Fatalf("decode distances: %v", err)
	}
	if len(distances) != 1 || distances[0] < 0 || distances[0] > 1 {
		t.Fatalf("expected one sub-kilometer distance, got %v", distances)
	}
}

func TestNearbySecondRequestServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("paris", "u1", 48.8600, 2.3500)

	target := "/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=50"

	first := doRequest(env.handlers.NearbyProducers, http.MethodGet, target, "", nil, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", first.Code)
	}
	second := doRequest(env.handlers.NearbyProducers, http.MethodGet, target, "", nil, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", second.Code)
	}

	if env.producers.boxCalls != 1 {
		t.Fatalf("expected one repository query, got %d", env.producers.boxCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached response must match the computed one")
	}
}

func TestNearbyCloseCoordinatesShareCacheEntry(t *testing.T) {
	env := newTestEnv(t)
	env.addProducer("paris", "u1", 48.8600, 2.3500)

	first := doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8566&longitude=2.3522&radius_km=50", "", nil, nil)
	second := doRequest(env.handlers.NearbyProducers, http.MethodGet,
		"/api/producers/nearby/?latitude=48.8612&longitude=2.3488&radius_km=50", "", nil, nil)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}

	// Both centers round to (48.86, 2.35), so the second request hits.
	if env.producers.boxCalls != 1 {
		t.Fatalf("expected shared cache entry, got %d repository queries", env.producers.boxCalls)
	}
}
