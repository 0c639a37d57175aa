package http

import (
	"net/http"
	"roomres/pkg/config"
	apperrors "roomres/pkg/errors"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// ParseIntParam reads a positive integer route parameter.
func ParseIntParam(ps httprouter.Params, name string) (int64, error) {
	raw := ps.ByName(name)
	if raw == "" {
		return 0, apperrors.InvalidInput(name + " is required")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}

// Paginate returns the window [offset, offset+limit) of items.
func Paginate[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	end := min(offset+int64(limit), int64(len(items)))
	return items[offset:end]
}
