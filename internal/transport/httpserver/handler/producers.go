package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"mon-panier-local/internal/cache"
	producerdomain "mon-panier-local/internal/domain/producer"
	"mon-panier-local/internal/transport/httpserver/middleware"
)

type producerPayload struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Phone            string  `json:"phone"`
	ContactEmail     string  `json:"email_contact"`
	Website          string  `json:"website"`
	OpeningHoursText string  `json:"opening_hours"`
}

type producerResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Address          string          `json:"address"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Phone            string          `json:"phone"`
	ContactEmail     string          `json:"email_contact"`
	Website          string          `json:"website"`
	OpeningHoursText string          `json:"opening_hours"`
	Photos           []photoResponse `json:"photos"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type producerDetailResponse struct {
	producerResponse
	SaleModes []saleModeResponse `json:"sale_modes"`
	Products  []productResponse  `json:"products"`
}

type photoResponse struct {
	ID        string    `json:"id"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type producerListResponse struct {
	Count    int64              `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []producerResponse `json:"results"`
}

func toProducerResponse(p producerdomain.Producer) producerResponse {
	photos := make([]photoResponse, 0, len(p.Photos))
	for _, photo := range p.Photos {
		photos = append(photos, photoResponse{ID: photo.ID, ImagePath: photo.ImagePath, CreatedAt: photo.CreatedAt})
	}
	return producerResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Address:          p.Address,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		Phone:            p.Phone,
		ContactEmail:     p.ContactEmail,
		Website:          p.Website,
		OpeningHoursText: p.OpeningHoursText,
		Photos:           photos,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (h *Handlers) ListProducers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parsePagination(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key(cache.PrefixProducersList, map[string]string{
		"page":       query.Get("page"),
		"page_size":  query.Get("page_size"),
		"category":   query.Get("category"),
		"categories": query.Get("categories"),
		"search":     query.Get("search"),
		"ordering":   query.Get("ordering"),
	})
	if body, ok := h.cache.get(r.Context(), key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	filter := producerdomain.ListFilter{
		Category: query.Get("category"),
		Search:   strings.TrimSpace(query.Get("search")),
		Ordering: query.Get("ordering"),
		Limit:    page.limit(),
		Offset:   page.offset(),
	}
	if raw := query.Get("categories"); raw != "" {
		filter.Categories = parseCSV(raw)
	}

	items, total, err := h.Producers.List(r.Context(), filter)
	if err != nil {
		h.log.InternalError("producers.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	results := make([]producerResponse, 0, len(items))
	for _, item := range items {
		results = append(results, toProducerResponse(item))
	}

	next, previous := pageLinks(r, page, int(total))
	body, err := json.Marshal(producerListResponse{Count: total, Next: next, Previous: previous, Results: results})
	if err != nil {
		h.log.InternalError("producers.list: marshal failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.set(r.Context(), key, body, h.cache.cfg.ListTTL)
	writeRawJSON(w, http.StatusOK, body)
}

func (h *Handlers) GetProducer(w http.ResponseWriter, r *http.Request) {
	producerID := strings.TrimSpace(chi.URLParam(r, "id"))
	if producerID == "" {
		writeError(w, http.StatusBadRequest, "producer id is required")
		return
	}

	key := cache.Key(cache.PrefixProducerDetail, map[string]string{"id": producerID})
	if body, ok := h.cache.get(r.Context(), key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	profile, err := h.Producers.Get(r.Context(), producerID)
	if err != nil {
		if errors.Is(err, producerdomain.ErrProducerNotFound) {
			writeError(w, http.StatusNotFound, "producer not found")
			return
		}
		h.log.InternalError("producers.get: get failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	products, err := h.Products.ListByProducer(r.Context(), producerID)
	if err != nil {
		h.log.InternalError("producers.get: list products failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	detail := producerDetailResponse{
		producerResponse: toProducerResponse(*profile),
		SaleModes:        toSaleModeResponses(profile.SaleModes),
		Products:         toProductResponses(products),
	}

	body, err := json.Marshal(detail)
	if err != nil {
		h.log.InternalError("producers.get: marshal failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.set(r.Context(), key, body, h.cache.cfg.DetailTTL)
	writeRawJSON(w, http.StatusOK, body)
}

func (h *Handlers) CreateProducer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req producerPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	profile, err := h.Producers.Create(r.Context(), producerdomain.CreateInput{
		UserID:           userID,
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Phone:            req.Phone,
		ContactEmail:     req.ContactEmail,
		Website:          req.Website,
		OpeningHoursText: req.OpeningHoursText,
	})
	if err != nil {
		if writeProducerValidationError(w, err) {
			h.log.BusinessError("producers.create: validation failed", err, "user_id", userID)
			return
		}
		h.log.InternalError("producers.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Users.MarkProducer(r.Context(), userID, true); err != nil {
		h.log.InternalError("producers.create: mark producer failed", err, "user_id", userID)
	}

	h.cache.invalidateProducers(r.Context(), profile.ID)
	h.log.Info("producers: profile created", "producer_id", profile.ID, "user_id", userID)
	writeJSON(w, http.StatusCreated, toProducerResponse(*profile))
}

func (h *Handlers) UpdateProducer(w http.ResponseWriter, r *http.Request) {
	profile, _, ok := h.requireProducerOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req producerPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.Producers.Update(r.Context(), producerdomain.UpdateInput{
		ID:               profile.ID,
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Phone:            req.Phone,
		ContactEmail:     req.ContactEmail,
		Website:          req.Website,
		OpeningHoursText: req.OpeningHoursText,
	})
	if err != nil {
		if writeProducerValidationError(w, err) {
			h.log.BusinessError("producers.update: validation failed", err, "producer_id", profile.ID)
			return
		}
		h.log.InternalError("producers.update: update failed", err, "producer_id", profile.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), updated.ID)
	h.log.Info("producers: profile updated", "producer_id", updated.ID)
	writeJSON(w, http.StatusOK, toProducerResponse(*updated))
}

func (h *Handlers) DeleteProducer(w http.ResponseWriter, r *http.Request) {
	profile, userID, ok := h.requireProducerOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.Producers.Delete(r.Context(), profile.ID); err != nil {
		if errors.Is(err, producerdomain.ErrProducerNotFound) {
			writeError(w, http.StatusNotFound, "producer not found")
			return
		}
		h.log.InternalError("producers.delete: delete failed", err, "producer_id", profile.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Users.MarkProducer(r.Context(), userID, false); err != nil {
		h.log.InternalError("producers.delete: unmark producer failed", err, "user_id", userID)
	}

	h.cache.invalidateProducers(r.Context(), profile.ID)
	h.log.Info("producers: profile deleted", "producer_id", profile.ID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// requireProducerOwner loads the producer and rejects the request unless
// the authenticated user owns it. Ownership is checked explicitly here,
// not inferred from database constraints.
func (h *Handlers) requireProducerOwner(w http.ResponseWriter, r *http.Request, producerID string) (*producerdomain.Producer, string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return nil, "", false
	}

	producerID = strings.TrimSpace(producerID)
	if producerID == "" {
		writeError(w, http.StatusBadRequest, "producer id is required")
		return nil, "", false
	}

	profile, err := h.Producers.Get(r.Context(), producerID)
	if err != nil {
		if errors.Is(err, producerdomain.ErrProducerNotFound) {
			writeError(w, http.StatusNotFound, "producer not found")
			return nil, "", false
		}
		h.log.InternalError("producers: ownership lookup failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, "", false
	}

	if profile.UserID != userID {
		h.log.Warn("producers: ownership violation", "producer_id", producerID, "user_id", userID)
		writeError(w, http.StatusForbidden, "you do not own this producer")
		return nil, "", false
	}

	return profile, userID, true
}

func writeProducerValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, producerdomain.ErrInvalidName),
		errors.Is(err, producerdomain.ErrInvalidCategory),
		errors.Is(err, producerdomain.ErrInvalidCoordinates),
		errors.Is(err, producerdomain.ErrProfileExists),
		errors.Is(err, producerdomain.ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}
