package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	producerdomain "mon-panier-local/internal/domain/producer"
	productdomain "mon-panier-local/internal/domain/product"
)

type productPayload struct {
	CategoryID             *int64 `json:"category_id"`
	Name                   string `json:"name"`
	Description            string `json:"description"`
	AvailabilityType       string `json:"availability_type"`
	AvailabilityStartMonth *int   `json:"availability_start_month"`
	AvailabilityEndMonth   *int   `json:"availability_end_month"`
}

type productResponse struct {
	ID                     string                 `json:"id"`
	ProducerID             string                 `json:"producer_id"`
	CategoryID             *int64                 `json:"category_id"`
	Name                   string                 `json:"name"`
	Description            string                 `json:"description"`
	AvailabilityType       string                 `json:"availability_type"`
	AvailabilityStartMonth *int                   `json:"availability_start_month"`
	AvailabilityEndMonth   *int                   `json:"availability_end_month"`
	Photos                 []productPhotoResponse `json:"photos"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

type productPhotoResponse struct {
	ID        string    `json:"id"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

func toProductResponse(p productdomain.Product) productResponse {
	photos := make([]productPhotoResponse, 0, len(p.Photos))
	for _, photo := range p.Photos {
		photos = append(photos, productPhotoResponse{ID: photo.ID, ImagePath: photo.ImagePath, CreatedAt: photo.CreatedAt})
	}
	return productResponse{
		ID:                     p.ID,
		ProducerID:             p.ProducerID,
		CategoryID:             p.CategoryID,
		Name:                   p.Name,
		Description:            p.Description,
		AvailabilityType:       p.AvailabilityType,
		AvailabilityStartMonth: p.AvailabilityStartMonth,
		AvailabilityEndMonth:   p.AvailabilityEndMonth,
		Photos:                 photos,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func toProductResponses(items []productdomain.Product) []productResponse {
	result := make([]productResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toProductResponse(item))
	}
	return result
}

func (h *Handlers) ListProducerProducts(w http.ResponseWriter, r *http.Request) {
	producerID := chi.URLParam(r, "id")
	if _, err := h.Producers.Get(r.Context(), producerID); err != nil {
		if errors.Is(err, producerdomain.ErrProducerNotFound) {
			writeError(w, http.StatusNotFound, "producer not found")
			return
		}
		h.log.InternalError("products.list: producer lookup failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items, err := h.Products.ListByProducer(r.Context(), producerID)
	if err != nil {
		h.log.InternalError("products.list: list failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(items))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	item, err := h.Products.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, productdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.InternalError("products.get: get failed", err, "product_id", productID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*item))
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	profile, _, ok := h.requireProducerOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req productPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	item, err := h.Products.Create(r.Context(), productdomain.CreateInput{
		ProducerID:             profile.ID,
		CategoryID:             req.CategoryID,
		Name:                   req.Name,
		Description:            req.Description,
		AvailabilityType:       req.AvailabilityType,
		AvailabilityStartMonth: req.AvailabilityStartMonth,
		AvailabilityEndMonth:   req.AvailabilityEndMonth,
	})
	if err != nil {
		if writeProductValidationError(w, err) {
			h.log.BusinessError("products.create: validation failed", err, "producer_id", profile.ID)
			return
		}
		h.log.InternalError("products.create: create failed", err, "producer_id", profile.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), profile.ID)
	writeJSON(w, http.StatusCreated, toProductResponse(*item))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	item, ok := h.requireProductOwner(w, r)
	if !ok {
		return
	}

	var req productPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.Products.Update(r.Context(), productdomain.UpdateInput{
		ID:                     item.ID,
		CategoryID:             req.CategoryID,
		Name:                   req.Name,
		Description:            req.Description,
		AvailabilityType:       req.AvailabilityType,
		AvailabilityStartMonth: req.AvailabilityStartMonth,
		AvailabilityEndMonth:   req.AvailabilityEndMonth,
	})
	if err != nil {
		if writeProductValidationError(w, err) {
			h.log.BusinessError("products.update: validation failed", err, "product_id", item.ID)
			return
		}
		h.log.InternalError("products.update: update failed", err, "product_id", item.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), item.ProducerID)
	writeJSON(w, http.StatusOK, toProductResponse(*updated))
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	item, ok := h.requireProductOwner(w, r)
	if !ok {
		return
	}

	if err := h.Products.Delete(r.Context(), item.ID); err != nil {
		if errors.Is(err, productdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.InternalError("products.delete: delete failed", err, "product_id", item.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), item.ProducerID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) requireProductOwner(w http.ResponseWriter, r *http.Request) (*productdomain.Product, bool) {
	productID := chi.URLParam(r, "id")
	item, err := h.Products.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, productdomain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return nil, false
		}
		h.log.InternalError("products: lookup failed", err, "product_id", productID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	if _, _, ok := h.requireProducerOwner(w, r, item.ProducerID); !ok {
		return nil, false
	}
	return item, true
}

func writeProductValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidAvailability),
		errors.Is(err, productdomain.ErrCategoryNotFound),
		errors.Is(err, productdomain.ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}
