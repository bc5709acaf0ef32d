// Package utils holds small response-writing helpers shared by the
// dispatcher and the health aggregator.
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"preview-gateway/internal/apperror"
)

// Response is the JSON envelope used only by the health aggregator; the
// artifact-producing endpoints write raw bytes with the matching media
// type instead (spec §4.7: dispatcher "serializes with correct media
// type").
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SendJSON writes a successful JSON envelope (200 OK).
func SendJSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendArtifact writes a raw byte payload with the given media type
// (image/jpeg, image/png, image/gif, application/pdf).
func SendArtifact(c *gin.Context, contentType string, body []byte) {
	c.Data(http.StatusOK, contentType, body)
}

// SendAppError is the dispatcher's single translation point from a typed
// *apperror.Error to the wire (spec §9: "dispatcher sole site mapping Err
// to wire"). The body is the fixed plain-text message spec's scenarios
// quote verbatim (e.g. STORAGE_UNAVAILABLE).
func SendAppError(c *gin.Context, err *apperror.Error) {
	c.String(err.Status, err.Message)
	c.Abort()
}
