package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the common response body.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Error *Error         `json:"error,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func respond(c *gin.Context, status int, data any, meta ...map[string]any) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

func created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, data)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, err error) {
	apiErr := FromError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(apiErr.Status, Envelope{Error: apiErr})
}

func badRequest(c *gin.Context, err error) {
	fail(c, newError("VALIDATION_ERROR", http.StatusBadRequest, err.Error(), err))
}
