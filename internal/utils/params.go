package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseIDParam parses a positive numeric route parameter
func ParseIDParam(c *gin.Context, name string) (uint64, error) {
	return parseID(c.Param(name))
}

// OptionalIDQuery parses a numeric query parameter. It returns nil when the
// parameter is absent or empty.
func OptionalIDQuery(c *gin.Context, name string) (*uint64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &id, nil
}

// QueryValues returns every value of a query parameter, whether sent once or
// repeated (?status=open&status=closed). Empty values are dropped.
func QueryValues(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		if v != "" {
			out = append(out, v)
		}
	}
	// also accept the status[]=open form some clients produce
	for _, v := range c.QueryArray(name + "[]") {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
