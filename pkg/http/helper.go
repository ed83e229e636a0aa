package http

import (
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"net/http"
	"strconv"
	"time"
)

// ExtractPage reads 1-indexed page/page_size query parameters and clamps
// them to configured bounds.
func ExtractPage(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 0
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	pageSize := 0
	if s := query.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page_size parameter: " + s)
		}
		pageSize = v
	}

	return config.NormalizePage(page), config.NormalizePageSize(pageSize), nil
}

// ExtractDate parses a YYYY-MM-DD query parameter as a UTC date.
func ExtractDate(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, apperrors.InvalidInput("'" + name + "' query parameter is required")
	}
	return ParseDate(name, s)
}

// ParseDate parses a YYYY-MM-DD value as a UTC date. Used for both query
// parameters and body fields so every surface accepts the same format.
func ParseDate(name, value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " date, must be YYYY-MM-DD")
	}
	return t, nil
}
