package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 50
	// MaxPageLimit caps the limit query parameter.
	MaxPageLimit = 100
)

// ParsePagination reads the offset and limit query parameters of list endpoints.
// Offset defaults to 0 and limit to DefaultPageLimit.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, ok := queryInt(c, "offset", 0, 0, -1)
	if !ok {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, ok = queryInt(c, "limit", DefaultPageLimit, 1, MaxPageLimit)
	if !ok {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}
	return offset, limit, nil
}

// queryInt parses an integer query parameter within [lower, upper]. A negative upper means unbounded.
func queryInt(c *gin.Context, name string, fallback, lower, upper int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < lower || (upper >= 0 && value > upper) {
		return 0, false
	}
	return value, true
}
