package httpapi

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Query-parameter parsers. Each returns ok=false after writing a 400
// response, so handlers can bail out with a bare return.

func intQuery(h *handler, c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		h.renderBadParam(c, name)
		return 0, false
	}
	return value, true
}

func intPtrQuery(h *handler, c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		h.renderBadParam(c, name)
		return nil, false
	}
	return &value, true
}

func int64PtrQuery(h *handler, c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.renderBadParam(c, name)
		return nil, false
	}
	return &value, true
}

func boolQuery(h *handler, c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		h.renderBadParam(c, name)
		return false, false
	}
	return value, true
}

func timeQuery(h *handler, c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.renderBadParam(c, name)
		return nil, false
	}
	return &value, true
}

func decimalQuery(h *handler, c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		h.renderBadParam(c, name)
		return nil, false
	}
	return &value, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
