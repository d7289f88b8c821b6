package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"mon-panier-local/internal/cache"
	producerdomain "mon-panier-local/internal/domain/producer"
)

type nearbyResult struct {
	producerResponse
	DistanceKm float64 `json:"distance_km"`
}

type nearbyResponse struct {
	Count     int            `json:"count"`
	Next      *string        `json:"next"`
	Previous  *string        `json:"previous"`
	Results   []nearbyResult `json:"results"`
	Distances []float64      `json:"distances"`
}

// NearbyProducers answers GET /api/producers/nearby/. Latitude and
// longitude are mandatory; the radius defaults and is capped by
// configuration. Results are sorted nearest first before pagination so
// every page keeps the global ordering.
func (h *Handlers) NearbyProducers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, lon, err := parseCoordinates(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	radius := h.nearby.DefaultRadiusKm
	if raw := query.Get("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "radius_km must be a number")
			return
		}
	}
	if radius <= 0 || radius > h.nearby.MaxRadiusKm {
		writeError(w, http.StatusBadRequest, "radius_km must be between 0 and "+strconv.FormatFloat(h.nearby.MaxRadiusKm, 'f', -1, 64)+" km")
		return
	}

	page, err := parsePagination(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var categories []string
	if raw := query.Get("categories"); raw != "" {
		categories = parseCSV(raw)
	}

	// Coordinates are rounded in the key so nearby requests within
	// roughly a kilometer of each other share a cache entry.
	key := cache.Key(cache.PrefixProducersNear, map[string]string{
		"lat":        cache.RoundCoord(lat),
		"lon":        cache.RoundCoord(lon),
		"radius":     strconv.FormatFloat(radius, 'f', -1, 64),
		"categories": query.Get("categories"),
		"page":       query.Get("page"),
		"page_size":  query.Get("page_size"),
	})
	if body, ok := h.cache.get(r.Context(), key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	matches, err := h.Producers.Nearby(r.Context(), producerdomain.NearbyFilter{
		Latitude:   lat,
		Longitude:  lon,
		RadiusKm:   radius,
		Categories: categories,
	})
	if err != nil {
		switch {
		case errors.Is(err, producerdomain.ErrInvalidCoordinates),
			errors.Is(err, producerdomain.ErrInvalidRadius):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("producers.nearby: search failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	start := page.offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + page.limit()
	if end > len(matches) {
		end = len(matches)
	}

	// The distances array parallels the paginated results, in the same
	// order, so clients can zip the two without re-deriving distances.
	results := make([]nearbyResult, 0, end-start)
	distances := make([]float64, 0, end-start)
	for _, match := range matches[start:end] {
		results = append(results, nearbyResult{
			producerResponse: toProducerResponse(match.Producer),
			DistanceKm:       match.DistanceKm,
		})
		distances = append(distances, match.DistanceKm)
	}

	next, previous := pageLinks(r, page, len(matches))
	body, err := json.Marshal(nearbyResponse{
		Count:     len(matches),
		Next:      next,
		Previous:  previous,
		Results:   results,
		Distances: distances,
	})
	if err != nil {
		h.log.InternalError("producers.nearby: marshal failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.set(r.Context(), key, body, h.cache.cfg.NearbyTTL)
	writeRawJSON(w, http.StatusOK, body)
}

func parseCoordinates(query url.Values) (float64, float64, error) {
	rawLat := query.Get("latitude")
	rawLon := query.Get("longitude")
	if rawLat == "" || rawLon == "" {
		return 0, 0, errors.New("latitude and longitude parameters are required")
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, errors.New("latitude must be a number")
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return 0, 0, errors.New("longitude must be a number")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, errors.New("latitude or longitude out of range")
	}
	return lat, lon, nil
}
