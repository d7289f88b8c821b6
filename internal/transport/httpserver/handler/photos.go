package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	producerdomain "mon-panier-local/internal/domain/producer"
	productdomain "mon-panier-local/internal/domain/product"
)

type photoPayload struct {
	ImagePath string `json:"image_path"`
}

func (h *Handlers) AddProducerPhoto(w http.ResponseWriter, r *http.Request) {
	profile, _, ok := h.requireProducerOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req photoPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	photo, err := h.Producers.AddPhoto(r.Context(), profile.ID, req.ImagePath)
	if err != nil {
		h.log.BusinessError("photos.producer: add failed", err, "producer_id", profile.ID)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.invalidateProducers(r.Context(), profile.ID)
	writeJSON(w, http.StatusCreated, photoResponse{ID: photo.ID, ImagePath: photo.ImagePath, CreatedAt: photo.CreatedAt})
}

func (h *Handlers) DeleteProducerPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "id")
	photo, err := h.Producers.GetPhoto(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, producerdomain.ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		h.log.InternalError("photos.producer: lookup failed", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, _, ok := h.requireProducerOwner(w, r, photo.ProducerID); !ok {
		return
	}

	if err := h.Producers.DeletePhoto(r.Context(), photoID); err != nil {
		if errors.Is(err, producerdomain.ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		h.log.InternalError("photos.producer: delete failed", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), photo.ProducerID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddProductPhoto(w http.ResponseWriter, r *http.Request) {
	item, ok := h.requireProductOwner(w, r)
	if !ok {
		return
	}

	var req photoPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	photo, err := h.Products.AddPhoto(r.Context(), item.ID, req.ImagePath)
	if err != nil {
		h.log.BusinessError("photos.product: add failed", err, "product_id", item.ID)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.invalidateProducers(r.Context(), item.ProducerID)
	writeJSON(w, http.StatusCreated, productPhotoResponse{ID: photo.ID, ImagePath: photo.ImagePath, CreatedAt: photo.CreatedAt})
}

func (h *Handlers) DeleteProductPhoto(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "id")
	photo, err := h.Products.GetPhoto(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, productdomain.ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		h.log.InternalError("photos.product: lookup failed", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	item, err := h.Products.Get(r.Context(), photo.ProductID)
	if err != nil {
		h.log.InternalError("photos.product: product lookup failed", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, _, ok := h.requireProducerOwner(w, r, item.ProducerID); !ok {
		return
	}

	if err := h.Products.DeletePhoto(r.Context(), photoID); err != nil {
		if errors.Is(err, productdomain.ErrPhotoNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		h.log.InternalError("photos.product: delete failed", err, "photo_id", photoID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), item.ProducerID)
	w.WriteHeader(http.StatusNoContent)
}
