package handlers

import (
	"errors"
	"strconv"
)

var errInvalidLimit = errors.New("limit must be a positive integer")

// parseLimit returns def for an empty value and caps the result at max.
func parseLimit(limitStr string, def, max int64) (int64, error) {
	if limitStr == "" {
		return def, nil
	}
	l, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || l < 1 {
		return 0, errInvalidLimit
	}
	if l > max {
		l = max
	}
	return l, nil
}

// parseOptionalFloat returns nil for an empty value.
func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
