package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plushify/plushify-api/internal/httperr"
)

// idParam reads :id; writes 400 and returns false when it is not a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func boolQuery(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

type bulkRequest struct {
	Action string `json:"action" binding:"required"`
	IDs    []uint `json:"ids"`
}
