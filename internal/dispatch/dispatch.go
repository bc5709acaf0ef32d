// Package dispatch binds the HTTP endpoints (spec §6) to the raster, PDF,
// office, and blob-client pipelines, assembling each endpoint's
// composition explicitly and serializing the result with the correct
// media type. It is the sole translator of a *apperror.Error to the wire.
package dispatch

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"preview-gateway/internal/apperror"
	"preview-gateway/internal/blobclient"
	"preview-gateway/internal/config"
	"preview-gateway/internal/office"
	"preview-gateway/internal/raster"
	"preview-gateway/internal/utils"
	"preview-gateway/internal/validate"
)

// Dispatcher holds the pipeline collaborators every handler composes.
type Dispatcher struct {
	cfg     *config.Config
	storage *blobclient.Client
	office  *office.Bridge
	sem     chan struct{}
}

// New builds a Dispatcher. The concurrency gate is sized by
// service_workers (spec §5: "parallel workers, configurable count").
func New(cfg *config.Config, storage *blobclient.Client, office *office.Bridge) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		storage: storage,
		office:  office,
		sem:     make(chan struct{}, cfg.ServiceWorkers),
	}
}

// ConcurrencyGate bounds the number of requests processed at once to
// service_workers; a request that is still waiting when the caller gives
// up is abandoned rather than queued indefinitely.
func (d *Dispatcher) ConcurrencyGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case d.sem <- struct{}{}:
			defer func() { <-d.sem }()
			c.Next()
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
		}
	}
}

// fail is the single place a handler turns a *apperror.Error into a wire
// response (spec §9: "dispatcher sole site mapping Err to wire").
func fail(c *gin.Context, err *apperror.Error) {
	utils.SendAppError(c, err)
}

// pathID parses and validates the {id} path parameter.
func pathID(c *gin.Context) (string, *apperror.Error) {
	return validate.ParseUUID(c.Param("id"))
}

// pathVersion parses and validates the {ver} path parameter.
func pathVersion(c *gin.Context) (int, *apperror.Error) {
	return validate.ParseVersion(c.Param("ver"))
}

// pathArea parses and validates the {area} path parameter.
func pathArea(c *gin.Context) (width, height int, appErr *apperror.Error) {
	return validate.ParseArea(c.Param("area"))
}

// queryServiceType parses service_type, defaulting to files.
func queryServiceType(c *gin.Context) (blobclient.OwnerServiceTag, *apperror.Error) {
	v := c.Query("service_type")
	if v == "" {
		return blobclient.OwnerFiles, nil
	}
	return validate.ParseOwnerServiceTag(v)
}

// queryQuality parses quality, defaulting to MEDIUM.
func queryQuality(c *gin.Context) (raster.Quality, *apperror.Error) {
	v := c.Query("quality")
	if v == "" {
		return raster.QualityMedium, nil
	}
	return validate.ParseQuality(v)
}

// queryOutFormat parses output_format, defaulting to JPEG.
func queryOutFormat(c *gin.Context) (raster.OutFormat, *apperror.Error) {
	v := c.Query("output_format")
	if v == "" {
		return raster.FormatJPEG, nil
	}
	return validate.ParseOutFormat(v)
}

// queryShape parses shape, defaulting to RECTANGULAR.
func queryShape(c *gin.Context) (raster.Shape, *apperror.Error) {
	v := c.Query("shape")
	if v == "" {
		return raster.ShapeRectangular, nil
	}
	return validate.ParseShape(v)
}

// queryCrop parses the preview-only crop flag, defaulting to false.
func queryCrop(c *gin.Context) bool {
	return c.Query("crop") == "true"
}

// queryPageRange parses first_page/last_page, defaulting to the whole
// document (1, 0).
func queryPageRange(c *gin.Context) (first, last int, appErr *apperror.Error) {
	first, last = 1, 0
	if v := c.Query("first_page"); v != "" {
		if n, err := parseNonNegative(v); err == nil {
			first = n
		} else {
			return 0, 0, apperror.Unprocessable("invalid first_page: must be an integer")
		}
	}
	if v := c.Query("last_page"); v != "" {
		if n, err := parseNonNegative(v); err == nil {
			last = n
		} else {
			return 0, 0, apperror.Unprocessable("invalid last_page: must be an integer")
		}
	}
	if appErr := validate.ParsePageRange(first, last); appErr != nil {
		return 0, 0, appErr
	}
	return first, last, nil
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperror.Unprocessable("not a non-negative integer")
	}
	return n, nil
}

// fetchBlob resolves a Fingerprint against the storage upstream and
// classifies the outcome into the typed error table (spec §4.5).
func (d *Dispatcher) fetchBlob(c *gin.Context, id string, version int, owner blobclient.OwnerServiceTag) ([]byte, *apperror.Error) {
	result, err := d.storage.Fetch(c.Request.Context(), blobclient.Fingerprint{
		Identifier: id,
		Version:    version,
		Owner:      owner,
	})
	if appErr := blobclient.Classify(result, err); appErr != nil {
		return nil, appErr
	}
	return result.Body, nil
}

// readUploadedFile reads the multipart "file" field the original
// FastAPI routes accept (spec §6's POST upload variants).
func readUploadedFile(c *gin.Context) ([]byte, *apperror.Error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, apperror.InvalidInput("missing uploaded file field \"file\"")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.InvalidInput("could not read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.InvalidInput("could not read uploaded file")
	}
	return data, nil
}
