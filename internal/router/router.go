// Package router binds the dispatcher's HTTP handlers to the gin engine,
// wiring the configured path segments (spec §6: {name}, {image}, {pdf},
// {doc}, {health}) and the ambient middleware stack.
package router

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"preview-gateway/internal/config"
	"preview-gateway/internal/dispatch"
	"preview-gateway/internal/middleware"
)

// Setup creates and configures the gin engine for the preview gateway.
func Setup(cfg *config.Config, d *dispatch.Dispatcher) *gin.Engine {
	router := setupBaseRouter(cfg)
	router.Use(d.ConcurrencyGate())

	name := cfg.ServiceName
	imagePrefix := fmt.Sprintf("/%s/%s", name, cfg.ImageName)
	pdfPrefix := fmt.Sprintf("/%s/%s", name, cfg.PdfName)
	docPrefix := fmt.Sprintf("/%s/%s", name, cfg.DocumentName)
	healthPrefix := "/" + cfg.HealthName

	image := router.Group(imagePrefix)
	{
		image.GET("/:id/:ver/:area/", d.PreviewByID)
		image.POST("/:area/", d.PreviewUpload)
		image.GET("/:id/:ver/:area/thumbnail/", d.ThumbnailByID)
		image.POST("/:area/thumbnail/", d.ThumbnailUpload)
	}

	pdf := router.Group(pdfPrefix)
	{
		pdf.GET("/:id/:ver/", d.PdfByID)
		pdf.POST("/", d.PdfUpload)
		pdf.GET("/:id/:ver/:area/thumbnail/", d.PdfThumbnailByID)
		pdf.POST("/:area/thumbnail/", d.PdfThumbnailUpload)
	}

	doc := router.Group(docPrefix)
	{
		doc.GET("/:id/:ver/", d.DocByID)
		doc.POST("/", d.DocUpload)
		doc.GET("/:id/:ver/:area/thumbnail/", d.DocThumbnailByID)
		doc.POST("/:area/thumbnail/", d.DocThumbnailUpload)
	}

	health := router.Group(healthPrefix)
	{
		health.GET("/", d.Health)
		health.GET("/ready/", d.HealthReady)
		health.GET("/live/", d.HealthLive)
	}

	return router
}

func setupBaseRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(otelgin.Middleware("preview-gateway"))
	router.Use(middleware.Observability())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	// No reverse proxy is assumed in front of the gateway by default; set
	// SetTrustedProxies explicitly once one is introduced.
	router.SetTrustedProxies(nil)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.AllowedOrigins()
	corsConfig.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept", "User-Agent",
	}
	corsConfig.AllowMethods = []string{"GET", "POST"}
	router.Use(cors.New(corsConfig))

	return router
}
