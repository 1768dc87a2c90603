package httpresp

import "github.com/gin-gonic/gin"

// ListResponse wraps one page of results. Count is the number of items on
// this page, not an overall match count; clients page until a short page.
type ListResponse[T any] struct {
	Data     []T `json:"data"`
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(201, data)
}

func List[T any](c *gin.Context, data []T, page, pageSize int) {
	c.JSON(200, ListResponse[T]{
		Data:     data,
		Count:    len(data),
		Page:     page,
		PageSize: pageSize,
	})
}
