package util

import "strconv"

// ParseLimit reads a positive list size from a query value, falling back to def
// and capping the result at max.
func ParseLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}
