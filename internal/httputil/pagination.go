package httputil

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 10

	// MaxPageLimit is the largest page a listing request may ask for.
	MaxPageLimit = 100
)

var (
	// ErrInvalidOffset indicates an offset that is not a non-negative integer.
	ErrInvalidOffset = errors.New("invalid offset parameter: must be a non-negative integer")

	// ErrInvalidLimit indicates a limit outside 1..MaxPageLimit.
	ErrInvalidLimit = errors.New("invalid limit parameter: must be between 1 and 100")
)

// ListQuery holds the paging window and name filter of a listing request.
type ListQuery struct {
	Offset int
	Limit  int
	Query  string
}

// ParseListQuery reads offset, limit and query from the request URL.
// Offset defaults to 0 and limit to DefaultPageLimit. The name filter is trimmed.
func ParseListQuery(c *gin.Context) (ListQuery, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return ListQuery{}, ErrInvalidOffset
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return ListQuery{}, ErrInvalidLimit
	}

	return ListQuery{
		Offset: offset,
		Limit:  limit,
		Query:  strings.TrimSpace(c.Query("query")),
	}, nil
}
