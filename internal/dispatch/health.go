package dispatch

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"preview-gateway/internal/apperror"
	"preview-gateway/internal/health"
	"preview-gateway/internal/utils"
)

// Health handles GET /{health}/.
func (d *Dispatcher) Health(c *gin.Context) {
	report := health.Aggregate(c.Request.Context(), d.storage, d.office, d.cfg.EnableDocumentPreview || d.cfg.EnableDocumentThumbnail)
	message := "ready"
	if !report.Ready {
		message = "degraded"
	}
	utils.SendJSON(c, utils.Response{Success: report.Ready, Message: message, Data: report})
}

// HealthReady handles GET /{health}/ready/.
func (d *Dispatcher) HealthReady(c *gin.Context) {
	docsEnabled := d.cfg.EnableDocumentPreview || d.cfg.EnableDocumentThumbnail
	if health.Readyz(c.Request.Context(), d.office, docsEnabled) {
		c.Status(http.StatusOK)
		return
	}
	fail(c, apperror.DocsEditorUnavailable())
}

// HealthLive handles GET /{health}/live/.
func (d *Dispatcher) HealthLive(c *gin.Context) {
	c.Status(http.StatusOK)
}
