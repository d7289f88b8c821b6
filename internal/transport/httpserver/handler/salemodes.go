package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	producerdomain "mon-panier-local/internal/domain/producer"
)

type openingHourPayload struct {
	DayOfWeek int     `json:"day_of_week"`
	IsClosed  bool    `json:"is_closed"`
	OpensAt   *string `json:"opens_at"`
	ClosesAt  *string `json:"closes_at"`
}

type saleModePayload struct {
	ModeType          string               `json:"mode_type"`
	Title             string               `json:"title"`
	Instructions      string               `json:"instructions"`
	PhoneNumber       string               `json:"phone_number"`
	WebsiteURL        string               `json:"website_url"`
	Is247             bool                 `json:"is_24_7"`
	LocationAddress   string               `json:"location_address"`
	LocationLatitude  *float64             `json:"location_latitude"`
	LocationLongitude *float64             `json:"location_longitude"`
	MarketInfo        string               `json:"market_info"`
	DisplayOrder      int                  `json:"display_order"`
	OpeningHours      []openingHourPayload `json:"opening_hours"`
}

type openingHourResponse struct {
	ID        string  `json:"id"`
	DayOfWeek int     `json:"day_of_week"`
	IsClosed  bool    `json:"is_closed"`
	OpensAt   *string `json:"opens_at"`
	ClosesAt  *string `json:"closes_at"`
}

type saleModeResponse struct {
	ID                string                `json:"id"`
	ProducerID        string                `json:"producer_id"`
	ModeType          string                `json:"mode_type"`
	Title             string                `json:"title"`
	Instructions      string                `json:"instructions"`
	PhoneNumber       string                `json:"phone_number"`
	WebsiteURL        string                `json:"website_url"`
	Is247             bool                  `json:"is_24_7"`
	LocationAddress   string                `json:"location_address"`
	LocationLatitude  *float64              `json:"location_latitude"`
	LocationLongitude *float64              `json:"location_longitude"`
	MarketInfo        string                `json:"market_info"`
	DisplayOrder      int                   `json:"display_order"`
	OpeningHours      []openingHourResponse `json:"opening_hours"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func toSaleModeResponse(m producerdomain.SaleMode) saleModeResponse {
	hours := make([]openingHourResponse, 0, len(m.OpeningHours))
	for _, h := range m.OpeningHours {
		hours = append(hours, openingHourResponse{
			ID:        h.ID,
			DayOfWeek: h.DayOfWeek,
			IsClosed:  h.IsClosed,
			OpensAt:   h.OpensAt,
			ClosesAt:  h.ClosesAt,
		})
	}
	return saleModeResponse{
		ID:                m.ID,
		ProducerID:        m.ProducerID,
		ModeType:          m.ModeType,
		Title:             m.Title,
		Instructions:      m.Instructions,
		PhoneNumber:       m.PhoneNumber,
		WebsiteURL:        m.WebsiteURL,
		Is247:             m.Is247,
		LocationAddress:   m.LocationAddress,
		LocationLatitude:  m.LocationLatitude,
		LocationLongitude: m.LocationLongitude,
		MarketInfo:        m.MarketInfo,
		DisplayOrder:      m.DisplayOrder,
		OpeningHours:      hours,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toSaleModeResponses(modes []producerdomain.SaleMode) []saleModeResponse {
	result := make([]saleModeResponse, 0, len(modes))
	for _, m := range modes {
		result = append(result, toSaleModeResponse(m))
	}
	return result
}

func toSaleModeInput(req saleModePayload) producerdomain.SaleModeInput {
	hours := make([]producerdomain.OpeningHourInput, 0, len(req.OpeningHours))
	for _, h := range req.OpeningHours {
		hours = append(hours, producerdomain.OpeningHourInput{
			DayOfWeek: h.DayOfWeek,
			IsClosed:  h.IsClosed,
			OpensAt:   h.OpensAt,
			ClosesAt:  h.ClosesAt,
		})
	}
	return producerdomain.SaleModeInput{
		ModeType:          req.ModeType,
		Title:             req.Title,
		Instructions:      req.Instructions,
		PhoneNumber:       req.PhoneNumber,
		WebsiteURL:        req.WebsiteURL,
		Is247:             req.Is247,
		LocationAddress:   req.LocationAddress,
		LocationLatitude:  req.LocationLatitude,
		LocationLongitude: req.LocationLongitude,
		MarketInfo:        req.MarketInfo,
		DisplayOrder:      req.DisplayOrder,
		OpeningHours:      hours,
	}
}

func (h *Handlers) ListSaleModes(w http.ResponseWriter, r *http.Request) {
	producerID := chi.URLParam(r, "id")
	modes, err := h.Producers.ListSaleModes(r.Context(), producerID)
	if err != nil {
		if errors.Is(err, producerdomain.ErrProducerNotFound) {
			writeError(w, http.StatusNotFound, "producer not found")
			return
		}
		h.log.InternalError("salemodes.list: list failed", err, "producer_id", producerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toSaleModeResponses(modes))
}

func (h *Handlers) CreateSaleMode(w http.ResponseWriter, r *http.Request) {
	profile, _, ok := h.requireProducerOwner(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req saleModePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	mode, err := h.Producers.CreateSaleMode(r.Context(), profile.ID, toSaleModeInput(req))
	if err != nil {
		if writeSaleModeValidationError(w, err) {
			h.log.BusinessError("salemodes.create: validation failed", err, "producer_id", profile.ID)
			return
		}
		h.log.InternalError("salemodes.create: create failed", err, "producer_id", profile.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), profile.ID)
	writeJSON(w, http.StatusCreated, toSaleModeResponse(*mode))
}

func (h *Handlers) UpdateSaleMode(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.requireSaleModeOwner(w, r)
	if !ok {
		return
	}

	var req saleModePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.Producers.UpdateSaleMode(r.Context(), mode.ID, toSaleModeInput(req))
	if err != nil {
		if writeSaleModeValidationError(w, err) {
			h.log.BusinessError("salemodes.update: validation failed", err, "sale_mode_id", mode.ID)
			return
		}
		h.log.InternalError("salemodes.update: update failed", err, "sale_mode_id", mode.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), mode.ProducerID)
	writeJSON(w, http.StatusOK, toSaleModeResponse(*updated))
}

func (h *Handlers) DeleteSaleMode(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.requireSaleModeOwner(w, r)
	if !ok {
		return
	}

	if err := h.Producers.DeleteSaleMode(r.Context(), mode.ID); err != nil {
		if errors.Is(err, producerdomain.ErrSaleModeNotFound) {
			writeError(w, http.StatusNotFound, "sale mode not found")
			return
		}
		h.log.InternalError("salemodes.delete: delete failed", err, "sale_mode_id", mode.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.invalidateProducers(r.Context(), mode.ProducerID)
	w.WriteHeader(http.StatusNoContent)
}

// requireSaleModeOwner resolves the sale mode from the URL and verifies
// the authenticated user owns the producer it belongs to.
func (h *Handlers) requireSaleModeOwner(w http.ResponseWriter, r *http.Request) (*producerdomain.SaleMode, bool) {
	saleModeID := chi.URLParam(r, "id")
	mode, err := h.Producers.GetSaleMode(r.Context(), saleModeID)
	if err != nil {
		if errors.Is(err, producerdomain.ErrSaleModeNotFound) {
			writeError(w, http.StatusNotFound, "sale mode not found")
			return nil, false
		}
		h.log.InternalError("salemodes: lookup failed", err, "sale_mode_id", saleModeID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	if _, _, ok := h.requireProducerOwner(w, r, mode.ProducerID); !ok {
		return nil, false
	}
	return mode, true
}

func writeSaleModeValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, producerdomain.ErrInvalidModeType),
		errors.Is(err, producerdomain.ErrPhoneRequired),
		errors.Is(err, producerdomain.ErrInvalidOpeningHours),
		errors.Is(err, producerdomain.ErrInvalidCoordinates),
		errors.Is(err, producerdomain.ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}
