package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pagination struct {
	Page     int
	PageSize int
}

func (p pagination) limit() int  { return p.PageSize }
func (p pagination) offset() int { return (p.Page - 1) * p.PageSize }

func parsePagination(query url.Values) (pagination, error) {
	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil || page < 1 {
		return pagination{}, fmt.Errorf("invalid page")
	}
	size, err := parseIntParam(query.Get("page_size"), defaultPageSize)
	if err != nil || size < 1 {
		return pagination{}, fmt.Errorf("invalid page_size")
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return pagination{Page: page, PageSize: size}, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

// pageLinks builds next and previous page links for a paginated
// response, preserving the request's other query parameters. A link is
// nil when there is no page in that direction.
func pageLinks(r *http.Request, page pagination, total int) (next, previous *string) {
	link := func(number int) *string {
		query := r.URL.Query()
		query.Set("page", strconv.Itoa(number))
		built := r.URL.Path + "?" + query.Encode()
		return &built
	}
	if page.offset()+page.limit() < total {
		next = link(page.Page + 1)
	}
	if page.Page > 1 {
		previous = link(page.Page - 1)
	}
	return next, previous
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
