package helpers

import (
	"strconv"
	"strings"
)

// ParseOptionalID converts a form value into a nullable id.
// An empty value yields nil; anything else must be a positive integer.
func ParseOptionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, strconv.ErrRange
	}
	return &id, nil
}
