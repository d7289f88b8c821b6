package handler

import (
	"encoding/json"
	"net/http"

	"mon-panier-local/internal/cache"
)

type categoryResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	DisplayName  string `json:"display_name"`
	DisplayOrder int    `json:"display_order"`
}

// ListCategories serves the fixed product category lookup table. The
// list only changes with a migration, so it gets the longest TTL.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	key := cache.Key(cache.PrefixCategoriesList, nil)
	if body, ok := h.cache.get(r.Context(), key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	items, err := h.Products.ListCategories(r.Context())
	if err != nil {
		h.log.InternalError("categories.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	results := make([]categoryResponse, 0, len(items))
	for _, item := range items {
		results = append(results, categoryResponse{
			ID:           item.ID,
			Name:         item.Name,
			Icon:         item.Icon,
			DisplayName:  item.DisplayName,
			DisplayOrder: item.DisplayOrder,
		})
	}

	body, err := json.Marshal(results)
	if err != nil {
		h.log.InternalError("categories.list: marshal failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.set(r.Context(), key, body, h.cache.cfg.CategoriesTTL)
	writeRawJSON(w, http.StatusOK, body)
}
