// Package pagination translates 1-based (page, page_size) query parameters
// into the (limit, offset) pairs the store understands.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Params struct {
	Page     int
	PageSize int
}

// FromQuery reads ?page= and ?page_size=, clamping out-of-range values to
// the defaults instead of failing the request.
func FromQuery(c *gin.Context) Params {
	p := Params{Page: DefaultPage, PageSize: DefaultPageSize}

	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= MaxPageSize {
			p.PageSize = n
		}
	}
	return p
}

func (p Params) Limit() int {
	return p.PageSize
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}
