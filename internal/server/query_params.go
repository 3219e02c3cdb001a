package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// keyFromQueryOrBody reads an identifying key from the query string, falling
// back to the same field of an already decoded JSON body.
func keyFromQueryOrBody(c *gin.Context, name, fromBody string) string {
	if key := strings.TrimSpace(c.Query(name)); key != "" {
		return key
	}
	return strings.TrimSpace(fromBody)
}
